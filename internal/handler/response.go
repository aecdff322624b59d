// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the admin JSON API
// and the public navigation endpoint.
package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NjCayao/misistema-sub002/internal/menu"
)

// Response is the envelope every mutation endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// WriteSuccessData writes a success envelope carrying a payload.
func WriteSuccessData(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// WriteFailure writes a failure envelope with the given status code.
func WriteFailure(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message})
}

// WriteDomainError maps a domain error onto the failure envelope.
// Infrastructure errors are logged and surfaced as a generic message
// so internals never leak to the admin UI.
func WriteDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	var (
		ve *menu.ValidationError
		nf *menu.NotFoundError
		ce *menu.ConflictError
		ze *menu.InvalidZoneError
	)

	switch {
	case errors.As(err, &ve):
		WriteFailure(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ze):
		WriteFailure(w, http.StatusBadRequest, ze.Error())
	case errors.As(err, &nf):
		WriteFailure(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		WriteFailure(w, http.StatusConflict, ce.Error())
	case errors.Is(err, sql.ErrNoRows):
		WriteFailure(w, http.StatusNotFound, "not found")
	default:
		if log != nil {
			log.Error("request failed", "error", err)
		}
		WriteFailure(w, http.StatusInternalServerError, "an internal error occurred")
	}
}
