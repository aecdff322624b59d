// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/store"
	"github.com/NjCayao/misistema-sub002/internal/testutil"
)

func newQueries(t *testing.T) *store.Queries {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db)
}

func createEntry(t *testing.T, q *store.Queries, title, zone string, order int64) model.MenuEntry {
	t.Helper()
	now := time.Now()
	e, err := q.CreateMenuEntry(context.Background(), store.CreateMenuEntryParams{
		Title:      title,
		URL:        "/" + title,
		Zone:       zone,
		SortOrder:  order,
		Target:     model.TargetSelf,
		IsActive:   true,
		SourceType: model.SourceNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateMenuEntry: %v", err)
	}
	return e
}

func TestCreateMenuEntryRoundTrip(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	e := createEntry(t, q, "inicio", model.ZoneMain, 1)
	if e.ID == 0 {
		t.Fatal("CreateMenuEntry returned zero id")
	}

	got, err := q.GetMenuEntryByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetMenuEntryByID: %v", err)
	}
	if got.Title != "inicio" {
		t.Errorf("Title = %q, want %q", got.Title, "inicio")
	}
	if got.Zone != model.ZoneMain {
		t.Errorf("Zone = %q, want %q", got.Zone, model.ZoneMain)
	}
	if got.SourceType != model.SourceNone {
		t.Errorf("SourceType = %q, want %q", got.SourceType, model.SourceNone)
	}
	if got.ParentID.Valid {
		t.Errorf("ParentID = %v, want null", got.ParentID)
	}
}

func TestListMenuEntriesByZoneOrdering(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	createEntry(t, q, "bravo", model.ZoneMain, 2)
	createEntry(t, q, "alpha", model.ZoneMain, 2)
	createEntry(t, q, "charlie", model.ZoneMain, 1)
	createEntry(t, q, "elsewhere", model.ZoneFooter, 1)

	entries, err := q.ListMenuEntriesByZone(ctx, model.ZoneMain)
	if err != nil {
		t.Fatalf("ListMenuEntriesByZone: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	want := []string{"charlie", "alpha", "bravo"}
	for i, e := range entries {
		if e.Title != want[i] {
			t.Errorf("entries[%d].Title = %q, want %q", i, e.Title, want[i])
		}
	}
}

func TestShiftMenuEntrySortOrders(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	a := createEntry(t, q, "a", model.ZoneFooter, 1)
	b := createEntry(t, q, "b", model.ZoneFooter, 2)
	c := createEntry(t, q, "c", model.ZoneFooter, 3)

	// Open a gap at rank 2, pretending b is the entry being placed
	if err := q.ShiftMenuEntrySortOrders(ctx, model.ZoneFooter, 2, b.ID, time.Now()); err != nil {
		t.Fatalf("ShiftMenuEntrySortOrders: %v", err)
	}

	checks := []struct {
		id   int64
		want int64
	}{
		{a.ID, 1}, // below the gap, untouched
		{b.ID, 2}, // excluded from the shift
		{c.ID, 4}, // pushed down
	}
	for _, ck := range checks {
		e, err := q.GetMenuEntryByID(ctx, ck.id)
		if err != nil {
			t.Fatalf("GetMenuEntryByID: %v", err)
		}
		if e.SortOrder != ck.want {
			t.Errorf("entry %d SortOrder = %d, want %d", ck.id, e.SortOrder, ck.want)
		}
	}
}

func TestGetMaxMenuEntrySortOrder(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	maxOrder, err := q.GetMaxMenuEntrySortOrder(ctx, model.ZoneSidebar, sql.NullInt64{})
	if err != nil {
		t.Fatalf("GetMaxMenuEntrySortOrder: %v", err)
	}
	if maxOrder != 0 {
		t.Errorf("max for empty zone = %d, want 0", maxOrder)
	}

	createEntry(t, q, "x", model.ZoneSidebar, 4)
	createEntry(t, q, "y", model.ZoneSidebar, 9)

	maxOrder, err = q.GetMaxMenuEntrySortOrder(ctx, model.ZoneSidebar, sql.NullInt64{})
	if err != nil {
		t.Fatalf("GetMaxMenuEntrySortOrder: %v", err)
	}
	if maxOrder != 9 {
		t.Errorf("max = %d, want 9", maxOrder)
	}
}

func TestDeleteMenuEntriesByURL(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	createEntry(t, q, "legal", model.ZoneMain, 1)
	createEntry(t, q, "legal", model.ZoneFooter, 1)
	keep := createEntry(t, q, "contacto", model.ZoneFooter, 2)

	if err := q.DeleteMenuEntriesByURL(ctx, "/legal"); err != nil {
		t.Fatalf("DeleteMenuEntriesByURL: %v", err)
	}

	for _, zone := range []string{model.ZoneMain, model.ZoneFooter} {
		entries, err := q.ListMenuEntriesByZone(ctx, zone)
		if err != nil {
			t.Fatalf("ListMenuEntriesByZone: %v", err)
		}
		for _, e := range entries {
			if e.URL == "/legal" {
				t.Errorf("entry %d in %s still points at /legal", e.ID, zone)
			}
		}
	}

	if _, err := q.GetMenuEntryByID(ctx, keep.ID); err != nil {
		t.Errorf("unrelated entry removed: %v", err)
	}
}

func TestGetMenuEntryBySource(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	now := time.Now()
	_, err := q.CreateMenuEntry(ctx, store.CreateMenuEntryParams{
		Title:      "Nosotros",
		URL:        "/nosotros",
		Zone:       model.ZoneAvailablePages,
		SortOrder:  1,
		Target:     model.TargetSelf,
		IsActive:   true,
		SourceType: model.SourcePage,
		SourceID:   sql.NullInt64{Int64: 7, Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateMenuEntry: %v", err)
	}

	got, err := q.GetMenuEntryBySource(ctx, model.SourcePage, 7, model.ZoneAvailablePages)
	if err != nil {
		t.Fatalf("GetMenuEntryBySource: %v", err)
	}
	if got.Title != "Nosotros" {
		t.Errorf("Title = %q, want Nosotros", got.Title)
	}

	_, err = q.GetMenuEntryBySource(ctx, model.SourcePage, 7, model.ZoneMain)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestCountMenuEntryChildren(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	parent := createEntry(t, q, "padre", model.ZoneMain, 1)

	count, err := q.CountMenuEntryChildren(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CountMenuEntryChildren: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	now := time.Now()
	_, err = q.CreateMenuEntry(ctx, store.CreateMenuEntryParams{
		Title:      "hijo",
		URL:        "/hijo",
		Zone:       model.ZoneMain,
		ParentID:   sql.NullInt64{Int64: parent.ID, Valid: true},
		SortOrder:  1,
		Target:     model.TargetSelf,
		IsActive:   true,
		SourceType: model.SourceNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateMenuEntry: %v", err)
	}

	count, err = q.CountMenuEntryChildren(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CountMenuEntryChildren: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
