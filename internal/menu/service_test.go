// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

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

func setupService(t *testing.T) (*Service, *store.Queries) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewService(db, nil), store.New(db)
}

// insertEntry creates an entry row directly, bypassing the service,
// for arranging test fixtures.
func insertEntry(t *testing.T, q *store.Queries, title, zone string, parentID int64, order int64, sourceType string, sourceID int64) model.MenuEntry {
	t.Helper()

	now := time.Now()
	arg := store.CreateMenuEntryParams{
		Title:      title,
		URL:        "/" + title,
		Zone:       zone,
		SortOrder:  order,
		Target:     model.TargetSelf,
		IsActive:   true,
		SourceType: sourceType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if parentID != 0 {
		arg.ParentID = sql.NullInt64{Int64: parentID, Valid: true}
	}
	if sourceID != 0 {
		arg.SourceID = sql.NullInt64{Int64: sourceID, Valid: true}
	}

	e, err := q.CreateMenuEntry(context.Background(), arg)
	if err != nil {
		t.Fatalf("CreateMenuEntry: %v", err)
	}
	return e
}

func TestCreateCustomLink(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("assigns next sort order", func(t *testing.T) {
		first, err := svc.CreateCustomLink(ctx, "Blog", "https://blog.example.com", model.ZoneAvailablePages)
		if err != nil {
			t.Fatalf("CreateCustomLink: %v", err)
		}
		if first.SortOrder != 1 {
			t.Errorf("first.SortOrder = %d, want 1", first.SortOrder)
		}
		if first.IsActive != true {
			t.Error("new link should be active")
		}
		if first.IsShadow() {
			t.Error("custom link should not be a shadow entry")
		}

		second, err := svc.CreateCustomLink(ctx, "Docs", "https://docs.example.com", model.ZoneAvailablePages)
		if err != nil {
			t.Fatalf("CreateCustomLink: %v", err)
		}
		if second.SortOrder != 2 {
			t.Errorf("second.SortOrder = %d, want 2", second.SortOrder)
		}
	})

	t.Run("defaults to available pages zone", func(t *testing.T) {
		e, err := svc.CreateCustomLink(ctx, "Forum", "https://forum.example.com", "")
		if err != nil {
			t.Fatalf("CreateCustomLink: %v", err)
		}
		if e.Zone != model.ZoneAvailablePages {
			t.Errorf("Zone = %q, want %q", e.Zone, model.ZoneAvailablePages)
		}
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := svc.CreateCustomLink(ctx, "  ", "/x", model.ZoneMain)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("rejects empty url", func(t *testing.T) {
		_, err := svc.CreateCustomLink(ctx, "X", "", model.ZoneMain)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("rejects unknown zone", func(t *testing.T) {
		_, err := svc.CreateCustomLink(ctx, "X", "/x", "navbar")
		var ze *InvalidZoneError
		if !errors.As(err, &ze) {
			t.Fatalf("err = %v, want InvalidZoneError", err)
		}
	})
}

func TestListZoneOrdering(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	// Same rank: title breaks the tie
	insertEntry(t, q, "zeta", model.ZoneFooter, 0, 2, model.SourceNone, 0)
	insertEntry(t, q, "alpha", model.ZoneFooter, 0, 2, model.SourceNone, 0)
	insertEntry(t, q, "first", model.ZoneFooter, 0, 1, model.SourceNone, 0)

	entries, err := svc.ListZone(ctx, model.ZoneFooter)
	if err != nil {
		t.Fatalf("ListZone: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Title != "first" || entries[1].Title != "alpha" || entries[2].Title != "zeta" {
		t.Errorf("order = %q %q %q, want first alpha zeta",
			entries[0].Title, entries[1].Title, entries[2].Title)
	}

	// Stable across repeated calls with no writes in between
	again, err := svc.ListZone(ctx, model.ZoneFooter)
	if err != nil {
		t.Fatalf("ListZone: %v", err)
	}
	for i := range entries {
		if entries[i].ID != again[i].ID {
			t.Errorf("ordering not stable at index %d", i)
		}
	}

	_, err = svc.ListZone(ctx, "bogus")
	var ze *InvalidZoneError
	if !errors.As(err, &ze) {
		t.Fatalf("err = %v, want InvalidZoneError", err)
	}
}

func TestMove(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	a := insertEntry(t, q, "a", model.ZoneMain, 0, 1, model.SourceNone, 0)
	b := insertEntry(t, q, "b", model.ZoneMain, 0, 2, model.SourceNone, 0)
	c := insertEntry(t, q, "c", model.ZoneAvailablePages, 0, 1, model.SourceNone, 0)

	if err := svc.Move(ctx, c.ID, model.ZoneMain, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	entries, err := svc.ListZone(ctx, model.ZoneMain)
	if err != nil {
		t.Fatalf("ListZone: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].ID != c.ID || entries[0].SortOrder != 1 {
		t.Errorf("entries[0] = %q/%d, want c/1", entries[0].Title, entries[0].SortOrder)
	}
	if entries[1].ID != a.ID || entries[1].SortOrder != 2 {
		t.Errorf("entries[1] = %q/%d, want a/2", entries[1].Title, entries[1].SortOrder)
	}
	if entries[2].ID != b.ID || entries[2].SortOrder != 3 {
		t.Errorf("entries[2] = %q/%d, want b/3", entries[2].Title, entries[2].SortOrder)
	}

	avail, err := svc.ListZone(ctx, model.ZoneAvailablePages)
	if err != nil {
		t.Fatalf("ListZone: %v", err)
	}
	if len(avail) != 0 {
		t.Errorf("len(avail) = %d, want 0 after promotion", len(avail))
	}

	t.Run("unknown zone", func(t *testing.T) {
		err := svc.Move(ctx, a.ID, "header", 1)
		var ze *InvalidZoneError
		if !errors.As(err, &ze) {
			t.Fatalf("err = %v, want InvalidZoneError", err)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		err := svc.Move(ctx, 99999, model.ZoneMain, 1)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})
}

func TestMoveAcrossZonesCarriesSubtree(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	parent := insertEntry(t, q, "services", model.ZoneMain, 0, 1, model.SourceNone, 0)
	child := insertEntry(t, q, "consulting", model.ZoneMain, parent.ID, 1, model.SourceNone, 0)
	grandchild := insertEntry(t, q, "audit", model.ZoneMain, child.ID, 1, model.SourceNone, 0)

	if err := svc.Move(ctx, parent.ID, model.ZoneFooter, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	for _, id := range []int64{parent.ID, child.ID, grandchild.ID} {
		e, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%d): %v", id, err)
		}
		if e.Zone != model.ZoneFooter {
			t.Errorf("entry %d zone = %q, want %q", id, e.Zone, model.ZoneFooter)
		}
	}

	// Nesting survives the move
	moved, _ := svc.Get(ctx, child.ID)
	if !moved.ParentID.Valid || moved.ParentID.Int64 != parent.ID {
		t.Errorf("child.ParentID = %v, want %d", moved.ParentID, parent.ID)
	}

	// The moved root is detached from its old parent chain
	root, _ := svc.Get(ctx, parent.ID)
	if root.ParentID.Valid {
		t.Errorf("parent.ParentID = %v, want null", root.ParentID)
	}
}

func TestMoveWithinZoneKeepsParent(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	parent := insertEntry(t, q, "root", model.ZoneSidebar, 0, 1, model.SourceNone, 0)
	child := insertEntry(t, q, "leaf", model.ZoneSidebar, parent.ID, 1, model.SourceNone, 0)

	if err := svc.Move(ctx, child.ID, model.ZoneSidebar, 5); err != nil {
		t.Fatalf("Move: %v", err)
	}

	e, _ := svc.Get(ctx, child.ID)
	if !e.ParentID.Valid || e.ParentID.Int64 != parent.ID {
		t.Errorf("ParentID = %v, want %d", e.ParentID, parent.ID)
	}
	if e.SortOrder != 5 {
		t.Errorf("SortOrder = %d, want 5", e.SortOrder)
	}
}

func TestReorderAll(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	a := insertEntry(t, q, "a", model.ZoneMain, 0, 3, model.SourceNone, 0)
	b := insertEntry(t, q, "b", model.ZoneMain, 0, 7, model.SourceNone, 0)
	c := insertEntry(t, q, "c", model.ZoneMain, 0, 9, model.SourceNone, 0)

	t.Run("full payload produces dense ranks", func(t *testing.T) {
		err := svc.ReorderAll(ctx, map[string][]int64{
			model.ZoneMain: {c.ID, a.ID, b.ID},
		})
		if err != nil {
			t.Fatalf("ReorderAll: %v", err)
		}

		entries, _ := svc.ListZone(ctx, model.ZoneMain)
		wantOrder := []int64{c.ID, a.ID, b.ID}
		for i, e := range entries {
			if e.ID != wantOrder[i] {
				t.Errorf("entries[%d].ID = %d, want %d", i, e.ID, wantOrder[i])
			}
			if e.SortOrder != int64(i)+1 {
				t.Errorf("entries[%d].SortOrder = %d, want %d", i, e.SortOrder, i+1)
			}
		}
	})

	t.Run("omitted entries keep their rank", func(t *testing.T) {
		// Only a and b submitted; c keeps rank 1 from the previous run
		err := svc.ReorderAll(ctx, map[string][]int64{
			model.ZoneMain: {b.ID, a.ID},
		})
		if err != nil {
			t.Fatalf("ReorderAll: %v", err)
		}

		e, _ := svc.Get(ctx, c.ID)
		if e.SortOrder != 1 {
			t.Errorf("c.SortOrder = %d, want 1 (untouched)", e.SortOrder)
		}
		bb, _ := svc.Get(ctx, b.ID)
		if bb.SortOrder != 1 {
			t.Errorf("b.SortOrder = %d, want 1", bb.SortOrder)
		}
		aa, _ := svc.Get(ctx, a.ID)
		if aa.SortOrder != 2 {
			t.Errorf("a.SortOrder = %d, want 2", aa.SortOrder)
		}
	})

	t.Run("empty payload is a no-op", func(t *testing.T) {
		if err := svc.ReorderAll(ctx, map[string][]int64{}); err != nil {
			t.Fatalf("ReorderAll: %v", err)
		}
	})

	t.Run("unknown zone rejected before any write", func(t *testing.T) {
		err := svc.ReorderAll(ctx, map[string][]int64{"bogus": {a.ID}})
		var ze *InvalidZoneError
		if !errors.As(err, &ze) {
			t.Fatalf("err = %v, want InvalidZoneError", err)
		}
	})
}

func TestToggleStatus(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	e := insertEntry(t, q, "promo", model.ZoneSidebar, 0, 1, model.SourceNone, 0)

	off, err := svc.ToggleStatus(ctx, e.ID)
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if off.IsActive {
		t.Error("first toggle should deactivate")
	}

	on, err := svc.ToggleStatus(ctx, e.ID)
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if !on.IsActive {
		t.Error("second toggle should reactivate")
	}

	_, err = svc.ToggleStatus(ctx, 99999)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestDelete(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	t.Run("custom link", func(t *testing.T) {
		e := insertEntry(t, q, "temp", model.ZoneMain, 0, 1, model.SourceNone, 0)
		if err := svc.Delete(ctx, e.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		_, err := svc.Get(ctx, e.ID)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("entry still present after delete: %v", err)
		}
	})

	t.Run("shadow entry in pool is blocked", func(t *testing.T) {
		e := insertEntry(t, q, "nosotros", model.ZoneAvailablePages, 0, 1, model.SourcePage, 42)
		err := svc.Delete(ctx, e.ID)
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConflictError", err)
		}

		// Entry must be unchanged
		got, err := svc.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("Get after blocked delete: %v", err)
		}
		if got.Title != "nosotros" || !got.IsActive {
			t.Error("blocked delete modified the entry")
		}
	})

	t.Run("promoted shadow copy is deletable", func(t *testing.T) {
		e := insertEntry(t, q, "oferta", model.ZoneMain, 0, 5, model.SourcePage, 43)
		if err := svc.Delete(ctx, e.ID); err != nil {
			t.Fatalf("Delete promoted copy: %v", err)
		}
	})

	t.Run("entry with children is blocked", func(t *testing.T) {
		parent := insertEntry(t, q, "padre", model.ZoneFooter, 0, 1, model.SourceNone, 0)
		insertEntry(t, q, "hijo", model.ZoneFooter, parent.ID, 1, model.SourceNone, 0)

		err := svc.Delete(ctx, parent.ID)
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConflictError", err)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		err := svc.Delete(ctx, 99999)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})
}

func TestUpdateEntryParentValidation(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	a := insertEntry(t, q, "a", model.ZoneMain, 0, 1, model.SourceNone, 0)
	b := insertEntry(t, q, "b", model.ZoneMain, a.ID, 1, model.SourceNone, 0)
	c := insertEntry(t, q, "c", model.ZoneMain, b.ID, 1, model.SourceNone, 0)
	other := insertEntry(t, q, "other", model.ZoneFooter, 0, 1, model.SourceNone, 0)

	update := func(id int64, parent *int64) error {
		e, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		_, err = svc.UpdateEntry(ctx, UpdateEntryParams{
			ID:       id,
			Title:    e.Title,
			URL:      e.URL,
			ParentID: parent,
			Target:   e.Target,
			IsActive: e.IsActive,
		})
		return err
	}

	t.Run("self parent rejected", func(t *testing.T) {
		err := update(a.ID, &a.ID)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("descendant as parent rejected", func(t *testing.T) {
		err := update(a.ID, &c.ID)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("cross-zone parent rejected", func(t *testing.T) {
		err := update(a.ID, &other.ID)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("valid reparent", func(t *testing.T) {
		if err := update(c.ID, &a.ID); err != nil {
			t.Fatalf("UpdateEntry: %v", err)
		}
		e, _ := svc.Get(ctx, c.ID)
		if !e.ParentID.Valid || e.ParentID.Int64 != a.ID {
			t.Errorf("ParentID = %v, want %d", e.ParentID, a.ID)
		}
	})

	t.Run("shadow entry edits rejected", func(t *testing.T) {
		shadow := insertEntry(t, q, "mirror", model.ZoneAvailablePages, 0, 9, model.SourcePage, 7)
		_, err := svc.UpdateEntry(ctx, UpdateEntryParams{
			ID:       shadow.ID,
			Title:    "renamed",
			URL:      "/renamed",
			Target:   model.TargetSelf,
			IsActive: true,
		})
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want ConflictError", err)
		}
	})
}

func TestTreeFromZone(t *testing.T) {
	svc, q := setupService(t)
	ctx := context.Background()

	root := insertEntry(t, q, "inicio", model.ZoneMain, 0, 1, model.SourceNone, 0)
	insertEntry(t, q, "sub", model.ZoneMain, root.ID, 1, model.SourceNone, 0)
	hidden := insertEntry(t, q, "oculto", model.ZoneMain, 0, 2, model.SourceNone, 0)
	if _, err := svc.ToggleStatus(ctx, hidden.ID); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}

	tree, err := svc.Tree(ctx, model.ZoneMain)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("len(tree) = %d, want 2", len(tree))
	}

	public, err := svc.PublicTree(ctx, model.ZoneMain)
	if err != nil {
		t.Fatalf("PublicTree: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("len(public) = %d, want 1", len(public))
	}
	if public[0].Title != "inicio" || len(public[0].Children) != 1 {
		t.Errorf("public root = %q with %d children, want inicio with 1",
			public[0].Title, len(public[0].Children))
	}
}
