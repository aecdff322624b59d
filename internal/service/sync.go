// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// The sync bridge keeps shadow menu entries mirroring page and
// category lifecycle. Every helper here runs against the caller's
// transaction so a page write and its shadow write commit or roll
// back together.

// availableZone returns the pool zone a source type is mirrored into.
func availableZone(sourceType string) string {
	if sourceType == model.SourceCategory {
		return model.ZoneAvailableCategories
	}
	return model.ZoneAvailablePages
}

// createShadowEntry appends a shadow entry at the end of the source's
// available pool.
func createShadowEntry(ctx context.Context, q *store.Queries, sourceType string, sourceID int64, title, url string, isActive bool, now time.Time) error {
	zone := availableZone(sourceType)

	maxOrder, err := q.GetMaxMenuEntrySortOrder(ctx, zone, sql.NullInt64{})
	if err != nil {
		return err
	}

	_, err = q.CreateMenuEntry(ctx, store.CreateMenuEntryParams{
		Title:      title,
		URL:        url,
		Zone:       zone,
		SortOrder:  maxOrder + 1,
		Target:     model.TargetSelf,
		IsActive:   isActive,
		SourceType: sourceType,
		SourceID:   sql.NullInt64{Int64: sourceID, Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return err
}

// renameShadowEntry rewrites the title and url of the shadow entry
// still living in the available pool. Copies an admin promoted into a
// visible zone are independent rows and are left untouched. A missing
// shadow entry is not an error: the source may have been promoted out
// of the pool.
func renameShadowEntry(ctx context.Context, q *store.Queries, sourceType string, sourceID int64, title, url string, now time.Time) error {
	shadow, err := q.GetMenuEntryBySource(ctx, sourceType, sourceID, availableZone(sourceType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return q.UpdateMenuEntryTitleURL(ctx, shadow.ID, title, url, now)
}

// setShadowActive propagates a source activation change to its shadow
// entry in the available pool. Promoted copies keep their own flag.
func setShadowActive(ctx context.Context, q *store.Queries, sourceType string, sourceID int64, isActive bool, now time.Time) error {
	shadow, err := q.GetMenuEntryBySource(ctx, sourceType, sourceID, availableZone(sourceType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return q.UpdateMenuEntryActive(ctx, shadow.ID, isActive, now)
}

// deleteShadowEntries removes every menu entry tied to a deleted
// source: rows linked by source key, plus any row still pointing at
// the source's url in any zone. The second pass catches promoted
// copies created before the entry carried source keys.
func deleteShadowEntries(ctx context.Context, q *store.Queries, sourceType string, sourceID int64, url string) error {
	if err := q.DeleteMenuEntriesBySource(ctx, sourceType, sourceID); err != nil {
		return err
	}
	return q.DeleteMenuEntriesByURL(ctx, url)
}
