// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/cache"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// maxAncestorDepth bounds the parent-chain walk used for cycle
// detection. A legitimate menu never nests this deep.
const maxAncestorDepth = 50

// Service provides zone assignment, ordering and tree building for
// menu entries.
type Service struct {
	db      *sql.DB
	queries *store.Queries
	nav     *cache.NavCache
}

// NewService creates a menu Service.
// If nav is nil, public trees are built from the database on every call.
func NewService(db *sql.DB, nav *cache.NavCache) *Service {
	return &Service{
		db:      db,
		queries: store.New(db),
		nav:     nav,
	}
}

// Get fetches a single entry.
func (s *Service) Get(ctx context.Context, id int64) (model.MenuEntry, error) {
	entry, err := s.queries.GetMenuEntryByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuEntry{}, &NotFoundError{ID: id}
	}
	return entry, err
}

// ListZone returns the entries of a zone ordered by (sort_order, title).
func (s *Service) ListZone(ctx context.Context, zone string) ([]model.MenuEntry, error) {
	if !model.IsValidZone(zone) {
		return nil, &InvalidZoneError{Zone: zone}
	}
	return s.queries.ListMenuEntriesByZone(ctx, zone)
}

// Tree builds the full nested view of a zone, inactive entries included.
// Used by the admin preview.
func (s *Service) Tree(ctx context.Context, zone string) ([]TreeNode, error) {
	entries, err := s.ListZone(ctx, zone)
	if err != nil {
		return nil, err
	}
	return BuildTree(entries), nil
}

// PublicTree builds the nested view of a zone with inactive subtrees
// removed. Used by frontend navigation rendering.
func (s *Service) PublicTree(ctx context.Context, zone string) ([]TreeNode, error) {
	entries, err := s.ListZone(ctx, zone)
	if err != nil {
		return nil, err
	}
	return BuildPublicTree(entries), nil
}

// PublicTreeJSON returns the JSON-encoded public tree of a zone,
// served from the navigation cache when available.
func (s *Service) PublicTreeJSON(ctx context.Context, zone string) ([]byte, error) {
	if !model.IsValidZone(zone) {
		return nil, &InvalidZoneError{Zone: zone}
	}

	if s.nav != nil {
		if data, err := s.nav.Get(ctx, zone); err == nil {
			return data, nil
		}
	}

	tree, err := s.PublicTree(ctx, zone)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}

	if s.nav != nil {
		_ = s.nav.Set(ctx, zone, data)
	}
	return data, nil
}

// CreateCustomLink creates a manual (non-shadow) entry at the end of a
// zone. An empty zone defaults to the available pages pool.
func (s *Service) CreateCustomLink(ctx context.Context, title, url, zone string) (model.MenuEntry, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)

	if title == "" {
		return model.MenuEntry{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if url == "" {
		return model.MenuEntry{}, &ValidationError{Field: "url", Message: "url is required"}
	}
	if zone == "" {
		zone = model.ZoneAvailablePages
	}
	if !model.IsValidZone(zone) {
		return model.MenuEntry{}, &InvalidZoneError{Zone: zone}
	}

	maxOrder, err := s.queries.GetMaxMenuEntrySortOrder(ctx, zone, sql.NullInt64{})
	if err != nil {
		return model.MenuEntry{}, err
	}

	now := time.Now()
	entry, err := s.queries.CreateMenuEntry(ctx, store.CreateMenuEntryParams{
		Title:      title,
		URL:        url,
		Zone:       zone,
		SortOrder:  maxOrder + 1,
		Target:     model.TargetSelf,
		IsActive:   true,
		SourceType: model.SourceNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return model.MenuEntry{}, err
	}

	s.invalidate(ctx, zone)
	return entry, nil
}

// ToggleStatus flips the active flag of an entry and returns the
// updated row.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (model.MenuEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return model.MenuEntry{}, err
	}

	now := time.Now()
	if err := s.queries.UpdateMenuEntryActive(ctx, id, !entry.IsActive, now); err != nil {
		return model.MenuEntry{}, err
	}

	entry.IsActive = !entry.IsActive
	entry.UpdatedAt = now
	s.invalidate(ctx, entry.Zone)
	return entry, nil
}

// Delete removes an entry. Shadow entries still living in an available
// pool are managed by their source page or category and cannot be
// deleted directly. Entries with children are blocked until the
// children are moved or removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if entry.IsShadow() && !model.IsVisibleZone(entry.Zone) {
		return &ConflictError{Message: "entry is managed by its source page or category and cannot be deleted directly"}
	}

	children, err := s.queries.CountMenuEntryChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return &ConflictError{Message: "entry has child entries; move or delete them first"}
	}

	if err := s.queries.DeleteMenuEntry(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, entry.Zone)
	return nil
}

// Move places an entry into a zone at the given rank, opening a gap by
// shifting every sibling at or past the target rank. When the entry
// changes zones its parent link is cleared and its whole subtree
// follows into the new zone. The whole operation runs in one
// transaction so a failed shift cannot leave the zone half-renumbered.
func (s *Service) Move(ctx context.Context, id int64, targetZone string, targetOrder int64) error {
	if !model.IsValidZone(targetZone) {
		return &InvalidZoneError{Zone: targetZone}
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if targetOrder < 1 {
		targetOrder = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	if err := qtx.ShiftMenuEntrySortOrders(ctx, targetZone, targetOrder, id, now); err != nil {
		return err
	}

	parentID := entry.ParentID
	if targetZone != entry.Zone {
		// The parent stays behind in the old zone.
		parentID = sql.NullInt64{}
	}

	if err := qtx.UpdateMenuEntryPlacement(ctx, store.UpdateMenuEntryPlacementParams{
		ID:        id,
		Zone:      targetZone,
		ParentID:  parentID,
		SortOrder: targetOrder,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	if targetZone != entry.Zone {
		if err := rezoneSubtree(ctx, qtx, id, targetZone, now, 0); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, entry.Zone, targetZone)
	return nil
}

// rezoneSubtree moves every descendant of an entry into a zone,
// keeping the nesting intact.
func rezoneSubtree(ctx context.Context, q *store.Queries, parentID int64, zone string, now time.Time, depth int) error {
	if depth >= maxAncestorDepth {
		return &ValidationError{Field: "parent_id", Message: "menu nesting too deep"}
	}

	children, err := q.ListMenuEntryChildren(ctx, parentID)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := q.UpdateMenuEntryZone(ctx, child.ID, zone, now); err != nil {
			return err
		}
		if err := rezoneSubtree(ctx, q, child.ID, zone, now, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// ReorderAll applies a bulk rank assignment per zone, as submitted at
// the end of a drag session. Entry ids at position i receive rank i+1.
// Entries omitted from the payload keep their old rank. The whole
// payload applies in one transaction.
func (s *Service) ReorderAll(ctx context.Context, assignments map[string][]int64) error {
	for zone := range assignments {
		if !model.IsValidZone(zone) {
			return &InvalidZoneError{Zone: zone}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	for _, ids := range assignments {
		for i, id := range ids {
			if err := qtx.UpdateMenuEntrySortOrder(ctx, id, int64(i)+1, now); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	zones := make([]string, 0, len(assignments))
	for zone := range assignments {
		zones = append(zones, zone)
	}
	s.invalidate(ctx, zones...)
	return nil
}

// UpdateEntryParams holds the editable fields of a manual entry.
type UpdateEntryParams struct {
	ID       int64
	Title    string
	URL      string
	ParentID *int64
	Icon     *string
	Target   string
	IsActive bool
}

// UpdateEntry edits the display fields and parent of an entry. Shadow
// entries in the available pools take their title and url from their
// source and reject edits here.
func (s *Service) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (model.MenuEntry, error) {
	entry, err := s.Get(ctx, arg.ID)
	if err != nil {
		return model.MenuEntry{}, err
	}

	if entry.IsShadow() && !model.IsVisibleZone(entry.Zone) {
		return model.MenuEntry{}, &ConflictError{Message: "entry mirrors a page or category; edit the source instead"}
	}

	arg.Title = strings.TrimSpace(arg.Title)
	arg.URL = strings.TrimSpace(arg.URL)
	if arg.Title == "" {
		return model.MenuEntry{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if arg.URL == "" {
		return model.MenuEntry{}, &ValidationError{Field: "url", Message: "url is required"}
	}
	if arg.Target == "" {
		arg.Target = model.TargetSelf
	}
	if !model.IsValidTarget(arg.Target) {
		return model.MenuEntry{}, &ValidationError{Field: "target", Message: "unknown link target"}
	}

	parentID := sql.NullInt64{}
	if arg.ParentID != nil {
		if *arg.ParentID == arg.ID {
			return model.MenuEntry{}, &ValidationError{Field: "parent_id", Message: "entry cannot be its own parent"}
		}
		parent, err := s.Get(ctx, *arg.ParentID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				return model.MenuEntry{}, &ValidationError{Field: "parent_id", Message: "parent entry does not exist"}
			}
			return model.MenuEntry{}, err
		}
		if parent.Zone != entry.Zone {
			return model.MenuEntry{}, &ValidationError{Field: "parent_id", Message: "parent must be in the same zone"}
		}
		if err := s.checkAncestry(ctx, arg.ID, *arg.ParentID); err != nil {
			return model.MenuEntry{}, err
		}
		parentID = sql.NullInt64{Int64: *arg.ParentID, Valid: true}
	}

	icon := sql.NullString{}
	if arg.Icon != nil && *arg.Icon != "" {
		icon = sql.NullString{String: *arg.Icon, Valid: true}
	}

	updated, err := s.queries.UpdateMenuEntry(ctx, store.UpdateMenuEntryParams{
		ID:        arg.ID,
		Title:     arg.Title,
		URL:       arg.URL,
		ParentID:  parentID,
		Icon:      icon,
		Target:    arg.Target,
		IsActive:  arg.IsActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.MenuEntry{}, err
	}

	s.invalidate(ctx, entry.Zone)
	return updated, nil
}

// checkAncestry rejects a parent assignment that would place an entry
// under its own descendant. It walks the parent chain upward from the
// candidate parent; reaching the entry means a cycle, and exceeding
// the depth bound is treated the same way.
func (s *Service) checkAncestry(ctx context.Context, entryID, parentID int64) error {
	current := parentID
	for depth := 0; depth < maxAncestorDepth; depth++ {
		node, err := s.queries.GetMenuEntryByID(ctx, current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if !node.ParentID.Valid {
			return nil
		}
		if node.ParentID.Int64 == entryID {
			return &ValidationError{Field: "parent_id", Message: "cannot set a descendant as parent (circular reference)"}
		}
		current = node.ParentID.Int64
	}
	return &ValidationError{Field: "parent_id", Message: "menu nesting too deep"}
}

// invalidate drops cached navigation trees for the given zones.
func (s *Service) invalidate(ctx context.Context, zones ...string) {
	if s.nav == nil {
		return
	}
	for _, zone := range zones {
		_ = s.nav.Invalidate(ctx, zone)
	}
}
