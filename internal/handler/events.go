// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// EventsHandler serves the admin event log view.
type EventsHandler struct {
	queries *store.Queries
	log     *slog.Logger
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(db *sql.DB, log *slog.Logger) *EventsHandler {
	return &EventsHandler{queries: store.New(db), log: log}
}

// eventView is the JSON shape of an event log entry.
type eventView struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventView(e model.Event) eventView {
	v := eventView{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		Metadata:  e.Metadata,
		IPAddress: e.IPAddress,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		v.UserID = &e.UserID.Int64
	}
	return v
}

// Recent returns the newest event log entries, newest first.
func (h *EventsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	events, err := h.queries.ListRecentEvents(r.Context(), limit)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toEventView(e))
	}
	WriteJSON(w, http.StatusOK, views)
}
