// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/service"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// SettingsHandler serves the grouped site/payment/email/seo settings.
type SettingsHandler struct {
	db      *sql.DB
	queries *store.Queries
	events  *service.EventService
	log     *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(db *sql.DB, events *service.EventService, log *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		db:      db,
		queries: store.New(db),
		events:  events,
		log:     log,
	}
}

// Group returns every setting of one group as a key/value object.
func (h *SettingsHandler) Group(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	if !model.IsValidSettingGroup(group) {
		WriteFailure(w, http.StatusNotFound, "unknown settings group")
		return
	}

	settings, err := h.queries.ListSettingsByGroup(r.Context(), group)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	WriteJSON(w, http.StatusOK, values)
}

// UpdateGroup upserts the submitted keys of one group. Keys not in
// the payload keep their stored value.
func (h *SettingsHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	if !model.IsValidSettingGroup(group) {
		WriteFailure(w, http.StatusNotFound, "unknown settings group")
		return
	}

	var values map[string]string
	if err := decodeJSON(r, &values); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	defer func() { _ = tx.Rollback() }()

	qtx := h.queries.WithTx(tx)
	now := time.Now()

	for key, value := range values {
		if key == "" {
			WriteFailure(w, http.StatusBadRequest, "setting keys must not be empty")
			return
		}
		if err := qtx.UpsertSetting(r.Context(), key, value, group, now); err != nil {
			WriteDomainError(w, h.log, err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogSettingsEvent(r.Context(), model.EventLevelInfo, "settings updated",
		middleware.GetUserID(r), clientIP(r), map[string]any{"group": group, "keys": len(values)})

	WriteSuccess(w, "settings saved")
}
