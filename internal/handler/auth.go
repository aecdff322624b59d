// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/NjCayao/misistema-sub002/internal/auth"
	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/service"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	queries    *store.Queries
	sm         *scs.SessionManager
	protection *middleware.LoginProtection
	events     *service.EventService
	log        *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, protection *middleware.LoginProtection, events *service.EventService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		queries:    store.New(db),
		sm:         sm,
		protection: protection,
		events:     events,
		log:        log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and starts a session. Failed attempts
// are rate limited per IP and locked out per account.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.protection.CheckIPRateLimit(ip) {
		WriteFailure(w, http.StatusTooManyRequests, "too many login attempts, slow down")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteFailure(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(email); locked {
		WriteFailure(w, http.StatusTooManyRequests,
			"account temporarily locked, try again in "+remaining.Round(time.Minute).String())
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.log.Error("login lookup failed", "error", err)
		}
		h.recordFailure(r, email, ip)
		WriteFailure(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.recordFailure(r, email, ip)
		WriteFailure(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.protection.RecordSuccessfulLogin(email)

	// New session token on privilege change.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		h.log.Error("session renew failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "an internal error occurred")
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	_ = h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now())
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "admin login", &user.ID, ip, nil)

	WriteSuccess(w, "logged in")
}

func (h *AuthHandler) recordFailure(r *http.Request, email, ip string) {
	locked, duration := h.protection.RecordFailedAttempt(email)
	if locked {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"account locked after failed logins", nil, ip,
			map[string]any{"email": email, "duration": duration.String()})
	}
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	if err := h.sm.Destroy(r.Context()); err != nil {
		h.log.Error("session destroy failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "an internal error occurred")
		return
	}

	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "admin logout", userID, clientIP(r), nil)
	WriteSuccess(w, "logged out")
}
