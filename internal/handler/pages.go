// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/service"
)

// PagesHandler serves the admin page CRUD endpoints and the public
// page view.
type PagesHandler struct {
	svc    *service.PageService
	events *service.EventService
	log    *slog.Logger
}

// NewPagesHandler creates a PagesHandler.
func NewPagesHandler(svc *service.PageService, events *service.EventService, log *slog.Logger) *PagesHandler {
	return &PagesHandler{svc: svc, events: events, log: log}
}

// List returns pages ordered by title.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)

	pages, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	if pages == nil {
		pages = []model.Page{}
	}
	WriteJSON(w, http.StatusOK, pages)
}

// Get returns a single page.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	page, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

type pageRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	IsActive bool   `json:"is_active"`
}

// Create stores a page and its shadow menu entry.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.svc.Create(r.Context(), service.CreatePageParams{
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     req.Body,
		IsActive: req.IsActive,
	})
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogPageEvent(r.Context(), model.EventLevelInfo, "page created",
		middleware.GetUserID(r), clientIP(r), map[string]any{"page_id": page.ID, "slug": page.Slug})

	WriteJSON(w, http.StatusCreated, page)
}

// Update rewrites a page, keeping its shadow entry in step.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req pageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.svc.Update(r.Context(), service.UpdatePageParams{
		ID:       id,
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     req.Body,
		IsActive: req.IsActive,
	})
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// Delete removes a page and cascades across the menu.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogPageEvent(r.Context(), model.EventLevelInfo, "page deleted",
		middleware.GetUserID(r), clientIP(r), map[string]any{"page_id": id})

	WriteSuccess(w, "page deleted")
}

// Show serves an active page to the storefront.
func (h *PagesHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.svc.GetActiveBySlug(r.Context(), slug)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}
