// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NjCayao/misistema-sub002/internal/menu"
	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/service"
)

// MenusHandler serves the admin menu composition endpoints and the
// public navigation view.
type MenusHandler struct {
	svc    *menu.Service
	events *service.EventService
	log    *slog.Logger
}

// NewMenusHandler creates a MenusHandler.
func NewMenusHandler(svc *menu.Service, events *service.EventService, log *slog.Logger) *MenusHandler {
	return &MenusHandler{svc: svc, events: events, log: log}
}

// entryView is the JSON shape of a menu entry in admin responses.
type entryView struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Zone       string `json:"zone"`
	ParentID   *int64 `json:"parent_id"`
	SortOrder  int64  `json:"sort_order"`
	Icon       string `json:"icon,omitempty"`
	Target     string `json:"target"`
	IsActive   bool   `json:"is_active"`
	SourceType string `json:"source_type,omitempty"`
	SourceID   *int64 `json:"source_id,omitempty"`
}

func toEntryView(e model.MenuEntry) entryView {
	v := entryView{
		ID:         e.ID,
		Title:      e.Title,
		URL:        e.URL,
		Zone:       e.Zone,
		SortOrder:  e.SortOrder,
		Target:     e.Target,
		IsActive:   e.IsActive,
		SourceType: e.SourceType,
	}
	if e.ParentID.Valid {
		v.ParentID = &e.ParentID.Int64
	}
	if e.Icon.Valid {
		v.Icon = e.Icon.String
	}
	if e.SourceID.Valid {
		v.SourceID = &e.SourceID.Int64
	}
	return v
}

func toEntryViews(entries []model.MenuEntry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toEntryView(e))
	}
	return views
}

// Zones returns the ordered entry lists of all five zones in one
// response, matching the combined admin page load.
func (h *MenusHandler) Zones(w http.ResponseWriter, r *http.Request) {
	zones := make(map[string][]entryView, len(model.ValidZones))
	for _, zone := range model.ValidZones {
		entries, err := h.svc.ListZone(r.Context(), zone)
		if err != nil {
			WriteDomainError(w, h.log, err)
			return
		}
		zones[zone] = toEntryViews(entries)
	}
	WriteJSON(w, http.StatusOK, zones)
}

// ZoneTree returns the nested admin view of one zone, inactive
// entries included.
func (h *MenusHandler) ZoneTree(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")
	tree, err := h.svc.Tree(r.Context(), zone)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, tree)
}

// Nav returns the public navigation tree of a zone with inactive
// subtrees removed. Only the visible zones are served.
func (h *MenusHandler) Nav(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")
	if !model.IsVisibleZone(zone) {
		WriteFailure(w, http.StatusNotFound, "not found")
		return
	}

	data, err := h.svc.PublicTreeJSON(r.Context(), zone)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type moveElementRequest struct {
	ElementID      int64  `json:"element_id"`
	TargetLocation string `json:"target_location"`
	NewOrder       int64  `json:"new_order"`
}

// MoveElement places an entry into a zone at a rank, shifting the
// zone's other entries to open a gap.
func (h *MenusHandler) MoveElement(w http.ResponseWriter, r *http.Request) {
	var req moveElementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Move(r.Context(), req.ElementID, req.TargetLocation, req.NewOrder); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogMenuEvent(r.Context(), model.EventLevelInfo, "menu entry moved",
		middleware.GetUserID(r), clientIP(r), map[string]any{
			"element_id": req.ElementID,
			"zone":       req.TargetLocation,
			"order":      req.NewOrder,
		})

	WriteSuccess(w, "element moved")
}

type updateOrderRequest struct {
	Items map[string][]int64 `json:"items"`
}

// UpdateOrder applies the bulk rank assignment submitted at the end
// of a drag session.
func (h *MenusHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ReorderAll(r.Context(), req.Items); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	WriteSuccess(w, "order updated")
}

type elementRequest struct {
	ElementID int64 `json:"element_id"`
}

// ToggleStatus flips the active flag of an entry.
func (h *MenusHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	var req elementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.ToggleStatus(r.Context(), req.ElementID)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	if entry.IsActive {
		WriteSuccess(w, "element activated")
	} else {
		WriteSuccess(w, "element deactivated")
	}
}

// DeleteElement removes an entry. Shadow entries and entries with
// children are blocked; the message explains why.
func (h *MenusHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	var req elementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Delete(r.Context(), req.ElementID); err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	_ = h.events.LogMenuEvent(r.Context(), model.EventLevelInfo, "menu entry deleted",
		middleware.GetUserID(r), clientIP(r), map[string]any{"element_id": req.ElementID})

	WriteSuccess(w, "element deleted")
}

type createCustomLinkRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Location string `json:"location"`
}

// CreateCustomLink creates a manual entry at the end of a zone.
func (h *MenusHandler) CreateCustomLink(w http.ResponseWriter, r *http.Request) {
	var req createCustomLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.CreateCustomLink(r.Context(), req.Title, req.URL, req.Location)
	if err != nil {
		WriteDomainError(w, h.log, err)
		return
	}

	WriteSuccessData(w, "link created", toEntryView(entry))
}
