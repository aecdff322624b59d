// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"testing"
	"time"
)

func newTestProtection() *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100, // effectively disabled for these tests
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
}

func TestAccountLockoutAfterMaxFailures(t *testing.T) {
	lp := newTestProtection()
	email := "admin@example.com"

	locked, _ := lp.RecordFailedAttempt(email)
	if locked {
		t.Fatal("locked after first failure")
	}
	locked, _ = lp.RecordFailedAttempt(email)
	if locked {
		t.Fatal("locked after second failure")
	}

	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("not locked after reaching max failures")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want 1m", duration)
	}

	isLocked, remaining := lp.IsAccountLocked(email)
	if !isLocked {
		t.Error("IsAccountLocked = false while lock active")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining = %v, want within (0, 1m]", remaining)
	}
}

func TestLockoutBackoffDoubles(t *testing.T) {
	lp := newTestProtection()
	email := "admin@example.com"

	var duration time.Duration
	for i := 0; i < 3; i++ {
		_, duration = lp.RecordFailedAttempt(email)
	}
	if duration != time.Minute {
		t.Fatalf("first lockout = %v, want 1m", duration)
	}

	// Force the lock to expire, then fail again to the threshold
	lp.attemptsMu.Lock()
	lp.failedAttempts[email].lockedUntil = time.Now().Add(-time.Second)
	lp.attemptsMu.Unlock()

	var locked bool
	for i := 0; i < 3; i++ {
		locked, duration = lp.RecordFailedAttempt(email)
	}
	if !locked {
		t.Fatal("not locked on second round")
	}
	if duration != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", duration)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := newTestProtection()
	email := "admin@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("remaining after success = %d, want 3", got)
	}
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account locked after successful login")
	}
}

func TestAttemptWindowResets(t *testing.T) {
	lp := newTestProtection()
	email := "admin@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)

	// Age the first failure past the window
	lp.attemptsMu.Lock()
	lp.failedAttempts[email].firstFailed = time.Now().Add(-2 * time.Minute)
	lp.attemptsMu.Unlock()

	locked, _ := lp.RecordFailedAttempt(email)
	if locked {
		t.Error("locked although window expired")
	}
	if got := lp.GetRemainingAttempts(email); got != 2 {
		t.Errorf("remaining = %d, want 2 after window reset", got)
	}
}

func TestIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       1,
		IPBurst:           2,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	ip := "203.0.113.7"
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("first request denied")
	}
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("second request denied within burst")
	}
	if lp.CheckIPRateLimit(ip) {
		t.Error("request beyond burst allowed")
	}

	// A different IP has its own limiter
	if !lp.CheckIPRateLimit("198.51.100.9") {
		t.Error("unrelated IP denied")
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	if lc.clearIfExceeds(10) {
		t.Error("cleared below threshold")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("not cleared above threshold")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("len = %d after clear, want 0", len(lc.limiters))
	}
}
