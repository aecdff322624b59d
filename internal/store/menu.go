// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
)

const menuEntryColumns = `id, title, url, zone, parent_id, sort_order, icon, target, is_active, source_type, source_id, created_at, updated_at`

func scanMenuEntry(row interface{ Scan(...any) error }) (model.MenuEntry, error) {
	var e model.MenuEntry
	err := row.Scan(
		&e.ID, &e.Title, &e.URL, &e.Zone, &e.ParentID, &e.SortOrder,
		&e.Icon, &e.Target, &e.IsActive, &e.SourceType, &e.SourceID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// CreateMenuEntryParams holds the fields for inserting a menu entry.
type CreateMenuEntryParams struct {
	Title      string
	URL        string
	Zone       string
	ParentID   sql.NullInt64
	SortOrder  int64
	Icon       sql.NullString
	Target     string
	IsActive   bool
	SourceType string
	SourceID   sql.NullInt64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const createMenuEntry = `
INSERT INTO menu_entries (title, url, zone, parent_id, sort_order, icon, target, is_active, source_type, source_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + menuEntryColumns

// CreateMenuEntry inserts a menu entry and returns the stored row.
func (q *Queries) CreateMenuEntry(ctx context.Context, arg CreateMenuEntryParams) (model.MenuEntry, error) {
	row := q.db.QueryRowContext(ctx, createMenuEntry,
		arg.Title, arg.URL, arg.Zone, arg.ParentID, arg.SortOrder,
		arg.Icon, arg.Target, arg.IsActive, arg.SourceType, arg.SourceID,
		arg.CreatedAt, arg.UpdatedAt,
	)
	return scanMenuEntry(row)
}

const getMenuEntryByID = `SELECT ` + menuEntryColumns + ` FROM menu_entries WHERE id = ?`

// GetMenuEntryByID fetches a single menu entry.
func (q *Queries) GetMenuEntryByID(ctx context.Context, id int64) (model.MenuEntry, error) {
	return scanMenuEntry(q.db.QueryRowContext(ctx, getMenuEntryByID, id))
}

const listMenuEntriesByZone = `
SELECT ` + menuEntryColumns + `
FROM menu_entries
WHERE zone = ?
ORDER BY sort_order ASC, title ASC`

// ListMenuEntriesByZone returns all entries in a zone ordered by
// (sort_order, title) ascending.
func (q *Queries) ListMenuEntriesByZone(ctx context.Context, zone string) ([]model.MenuEntry, error) {
	rows, err := q.db.QueryContext(ctx, listMenuEntriesByZone, zone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		e, err := scanMenuEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateMenuEntryParams holds the mutable fields of a menu entry.
type UpdateMenuEntryParams struct {
	ID        int64
	Title     string
	URL       string
	ParentID  sql.NullInt64
	Icon      sql.NullString
	Target    string
	IsActive  bool
	UpdatedAt time.Time
}

const updateMenuEntry = `
UPDATE menu_entries
SET title = ?, url = ?, parent_id = ?, icon = ?, target = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + menuEntryColumns

// UpdateMenuEntry updates display fields of an entry and returns the stored row.
func (q *Queries) UpdateMenuEntry(ctx context.Context, arg UpdateMenuEntryParams) (model.MenuEntry, error) {
	row := q.db.QueryRowContext(ctx, updateMenuEntry,
		arg.Title, arg.URL, arg.ParentID, arg.Icon, arg.Target, arg.IsActive,
		arg.UpdatedAt, arg.ID,
	)
	return scanMenuEntry(row)
}

const updateMenuEntryActive = `UPDATE menu_entries SET is_active = ?, updated_at = ? WHERE id = ?`

// UpdateMenuEntryActive sets the active flag of an entry.
func (q *Queries) UpdateMenuEntryActive(ctx context.Context, id int64, isActive bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateMenuEntryActive, isActive, updatedAt, id)
	return err
}

// UpdateMenuEntryPlacementParams holds the fields for re-homing an entry.
type UpdateMenuEntryPlacementParams struct {
	ID        int64
	Zone      string
	ParentID  sql.NullInt64
	SortOrder int64
	UpdatedAt time.Time
}

const updateMenuEntryPlacement = `
UPDATE menu_entries
SET zone = ?, parent_id = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

// UpdateMenuEntryPlacement moves an entry to a zone/parent/rank.
func (q *Queries) UpdateMenuEntryPlacement(ctx context.Context, arg UpdateMenuEntryPlacementParams) error {
	_, err := q.db.ExecContext(ctx, updateMenuEntryPlacement,
		arg.Zone, arg.ParentID, arg.SortOrder, arg.UpdatedAt, arg.ID)
	return err
}

const updateMenuEntrySortOrder = `UPDATE menu_entries SET sort_order = ?, updated_at = ? WHERE id = ?`

// UpdateMenuEntrySortOrder sets the rank of a single entry.
func (q *Queries) UpdateMenuEntrySortOrder(ctx context.Context, id, sortOrder int64, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateMenuEntrySortOrder, sortOrder, updatedAt, id)
	return err
}

const updateMenuEntryZone = `UPDATE menu_entries SET zone = ?, updated_at = ? WHERE id = ?`

// UpdateMenuEntryZone re-zones a single entry keeping its parent and rank.
func (q *Queries) UpdateMenuEntryZone(ctx context.Context, id int64, zone string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateMenuEntryZone, zone, updatedAt, id)
	return err
}

const updateMenuEntryTitleURL = `UPDATE menu_entries SET title = ?, url = ?, updated_at = ? WHERE id = ?`

// UpdateMenuEntryTitleURL rewrites the display fields of a shadow entry.
func (q *Queries) UpdateMenuEntryTitleURL(ctx context.Context, id int64, title, url string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateMenuEntryTitleURL, title, url, updatedAt, id)
	return err
}

const shiftMenuEntrySortOrders = `
UPDATE menu_entries
SET sort_order = sort_order + 1, updated_at = ?
WHERE zone = ? AND sort_order >= ? AND id != ?`

// ShiftMenuEntrySortOrders opens a rank gap in a zone for an incoming entry.
func (q *Queries) ShiftMenuEntrySortOrders(ctx context.Context, zone string, fromOrder, excludeID int64, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, shiftMenuEntrySortOrders, updatedAt, zone, fromOrder, excludeID)
	return err
}

const getMaxMenuEntrySortOrder = `
SELECT COALESCE(MAX(sort_order), 0)
FROM menu_entries
WHERE zone = ? AND parent_id IS ?`

// GetMaxMenuEntrySortOrder returns the highest rank among siblings, 0 when none.
func (q *Queries) GetMaxMenuEntrySortOrder(ctx context.Context, zone string, parentID sql.NullInt64) (int64, error) {
	var maxOrder int64
	err := q.db.QueryRowContext(ctx, getMaxMenuEntrySortOrder, zone, parentID).Scan(&maxOrder)
	return maxOrder, err
}

const getMenuEntryBySource = `
SELECT ` + menuEntryColumns + `
FROM menu_entries
WHERE source_type = ? AND source_id = ? AND zone = ?`

// GetMenuEntryBySource fetches the shadow entry mirroring a content row in a zone.
func (q *Queries) GetMenuEntryBySource(ctx context.Context, sourceType string, sourceID int64, zone string) (model.MenuEntry, error) {
	return scanMenuEntry(q.db.QueryRowContext(ctx, getMenuEntryBySource, sourceType, sourceID, zone))
}

const listMenuEntryChildren = `
SELECT ` + menuEntryColumns + `
FROM menu_entries
WHERE parent_id = ?
ORDER BY sort_order ASC, title ASC`

// ListMenuEntryChildren returns the direct children of an entry.
func (q *Queries) ListMenuEntryChildren(ctx context.Context, parentID int64) ([]model.MenuEntry, error) {
	rows, err := q.db.QueryContext(ctx, listMenuEntryChildren, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		e, err := scanMenuEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const countMenuEntryChildren = `SELECT COUNT(*) FROM menu_entries WHERE parent_id = ?`

// CountMenuEntryChildren returns the number of direct children of an entry.
func (q *Queries) CountMenuEntryChildren(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMenuEntryChildren, parentID).Scan(&count)
	return count, err
}

const deleteMenuEntry = `DELETE FROM menu_entries WHERE id = ?`

// DeleteMenuEntry removes a single entry.
func (q *Queries) DeleteMenuEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenuEntry, id)
	return err
}

const deleteMenuEntriesByURL = `DELETE FROM menu_entries WHERE url = ?`

// DeleteMenuEntriesByURL removes every entry pointing at a URL, across all
// zones. Used when the URL target itself is removed.
func (q *Queries) DeleteMenuEntriesByURL(ctx context.Context, url string) error {
	_, err := q.db.ExecContext(ctx, deleteMenuEntriesByURL, url)
	return err
}

const deleteMenuEntriesBySource = `DELETE FROM menu_entries WHERE source_type = ? AND source_id = ?`

// DeleteMenuEntriesBySource removes the shadow entries of a content row.
func (q *Queries) DeleteMenuEntriesBySource(ctx context.Context, sourceType string, sourceID int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenuEntriesBySource, sourceType, sourceID)
	return err
}
