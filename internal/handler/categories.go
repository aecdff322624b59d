// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/service"
)

// CategoriesHandler serves the admin category CRUD endpoints.
type CategoriesHandler struct {
	svc    *service.CategoryService
	events *service.EventService
	log    *slog.Logger
}

// NewCategoriesHandler creates a CategoriesHandler.
func NewCategoriesHandler(svc *service.CategoryService, events *service.EventService, log *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{svc: svc, events: events, log: log}
}

// categoryView is the JSON shape of a category in admin responses.
type categoryView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *int64    `json:"parent_id"`
	Position    int64     `json:"position"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryView(c model.Category) categoryView {
	v := categoryView{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Position:  c.Position,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Description.Valid {
		v.Description = c.Description.String
	}
	if c.ParentID.Valid {
		v.ParentID = &c.ParentID.Int64
	}
	return v
}

// List returns all categories ordered by position and name.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, toCategoryView(c))
	}
	WriteJSON(w, http.StatusOK, views)
}

// Get returns a single category.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	cat, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCategoryView(cat))
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
	Position    int64  `json:"position"`
	IsActive    bool   `json:"is_active"`
}

// Create stores a category and its shadow menu entry.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.svc.Create(r.Context(), service.CreateCategoryParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		Position:    req.Position,
		IsActive:    req.IsActive,
	})
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogCategoryEvent(r.Context(), model.EventLevelInfo, "category created",
		middleware.GetUserID(r), clientIP(r), map[string]any{"category_id": cat.ID, "slug": cat.Slug})

	WriteJSON(w, http.StatusCreated, toCategoryView(cat))
}

// Update rewrites a category, keeping its shadow entry in step.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.svc.Update(r.Context(), service.UpdateCategoryParams{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		Position:    req.Position,
		IsActive:    req.IsActive,
	})
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, toCategoryView(cat))
}

// Delete removes a category and cascades across the menu.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogCategoryEvent(r.Context(), model.EventLevelInfo, "category deleted",
		middleware.GetUserID(r), clientIP(r), map[string]any{"category_id": id})

	WriteSuccess(w, "category deleted")
}
