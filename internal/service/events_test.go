// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/store"
	"github.com/NjCayao/misistema-sub002/internal/testutil"
)

func newEventService(t *testing.T) (*EventService, *store.Queries) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewEventService(db), store.New(db)
}

func TestLogEvent(t *testing.T) {
	svc, q := newEventService(t)
	ctx := context.Background()

	userID := int64(3)
	err := svc.LogMenuEvent(ctx, model.EventLevelInfo, "menu entry moved", &userID, "203.0.113.7",
		map[string]any{"element_id": 12, "zone": "main"})
	if err != nil {
		t.Fatalf("LogMenuEvent: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	ev := events[0]
	if ev.Level != model.EventLevelInfo {
		t.Errorf("Level = %q, want info", ev.Level)
	}
	if ev.Category != model.EventCategoryMenu {
		t.Errorf("Category = %q, want menu", ev.Category)
	}
	if !ev.UserID.Valid || ev.UserID.Int64 != 3 {
		t.Errorf("UserID = %v, want 3", ev.UserID)
	}
	if ev.IPAddress != "203.0.113.7" {
		t.Errorf("IPAddress = %q", ev.IPAddress)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["zone"] != "main" {
		t.Errorf("metadata.zone = %v, want main", meta["zone"])
	}
}

func TestLogEventWithoutUserOrMetadata(t *testing.T) {
	svc, q := newEventService(t)
	ctx := context.Background()

	if err := svc.LogSystemEvent(ctx, model.EventLevelWarning, "disk almost full", nil, "", nil); err != nil {
		t.Fatalf("LogSystemEvent: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	ev := events[0]
	if ev.UserID.Valid {
		t.Errorf("UserID = %v, want null", ev.UserID)
	}
	if ev.Metadata != "{}" {
		t.Errorf("Metadata = %q, want {}", ev.Metadata)
	}
}

func TestDeleteOldEvents(t *testing.T) {
	svc, q := newEventService(t)
	ctx := context.Background()

	// One old, one fresh
	_, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "ancient",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if err := svc.LogSystemEvent(ctx, model.EventLevelInfo, "recent", nil, "", nil); err != nil {
		t.Fatalf("LogSystemEvent: %v", err)
	}

	if err := svc.DeleteOldEvents(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Message != "recent" {
		t.Errorf("surviving event = %q, want recent", events[0].Message)
	}
}
