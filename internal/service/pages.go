// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/cache"
	"github.com/NjCayao/misistema-sub002/internal/menu"
	"github.com/NjCayao/misistema-sub002/internal/model"
	"github.com/NjCayao/misistema-sub002/internal/render"
	"github.com/NjCayao/misistema-sub002/internal/store"
	"github.com/NjCayao/misistema-sub002/internal/util"
)

// PageService manages site pages together with their shadow menu
// entries. Page writes and the matching menu writes share one
// transaction: a page cannot exist without being menu-assignable.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
	nav     *cache.NavCache
}

// NewPageService creates a PageService.
func NewPageService(db *sql.DB, nav *cache.NavCache) *PageService {
	return &PageService{
		db:      db,
		queries: store.New(db),
		nav:     nav,
	}
}

// CreatePageParams holds the input for creating a page.
type CreatePageParams struct {
	Title    string
	Slug     string
	Body     string
	IsActive bool
}

// Create stores a page and its shadow entry in the available pages
// pool. An empty slug is derived from the title.
func (s *PageService) Create(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	arg.Title = strings.TrimSpace(arg.Title)
	if arg.Title == "" {
		return model.Page{}, &menu.ValidationError{Field: "title", Message: "title is required"}
	}

	if arg.Slug == "" {
		arg.Slug = util.Slugify(arg.Title)
	}
	if !util.IsValidSlug(arg.Slug) {
		return model.Page{}, &menu.ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and hyphens"}
	}

	taken, err := s.queries.PageSlugExists(ctx, arg.Slug)
	if err != nil {
		return model.Page{}, err
	}
	if taken > 0 {
		return model.Page{}, &menu.ValidationError{Field: "slug", Message: "slug is already in use"}
	}

	bodyHTML, err := render.Markdown(arg.Body)
	if err != nil {
		return model.Page{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Page{}, err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	page, err := qtx.CreatePage(ctx, store.CreatePageParams{
		Title:     arg.Title,
		Slug:      arg.Slug,
		Body:      arg.Body,
		BodyHTML:  bodyHTML,
		IsActive:  arg.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Page{}, err
	}

	if err := createShadowEntry(ctx, qtx, model.SourcePage, page.ID, page.Title, page.URL(), page.IsActive, now); err != nil {
		return model.Page{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Page{}, err
	}

	s.invalidateNav(ctx)
	return page, nil
}

// UpdatePageParams holds the input for updating a page.
type UpdatePageParams struct {
	ID       int64
	Title    string
	Slug     string
	Body     string
	IsActive bool
}

// Update rewrites a page. A slug or title change rewrites the shadow
// entry in the available pool; an active flag change propagates there
// too. Promoted copies in visible zones are independent rows and do
// not follow renames.
func (s *PageService) Update(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	old, err := s.queries.GetPageByID(ctx, arg.ID)
	if err != nil {
		return model.Page{}, err
	}

	arg.Title = strings.TrimSpace(arg.Title)
	if arg.Title == "" {
		return model.Page{}, &menu.ValidationError{Field: "title", Message: "title is required"}
	}
	if arg.Slug == "" {
		arg.Slug = old.Slug
	}
	if !util.IsValidSlug(arg.Slug) {
		return model.Page{}, &menu.ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and hyphens"}
	}

	if arg.Slug != old.Slug {
		taken, err := s.queries.PageSlugExistsExcluding(ctx, arg.Slug, arg.ID)
		if err != nil {
			return model.Page{}, err
		}
		if taken > 0 {
			return model.Page{}, &menu.ValidationError{Field: "slug", Message: "slug is already in use"}
		}
	}

	bodyHTML, err := render.Markdown(arg.Body)
	if err != nil {
		return model.Page{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Page{}, err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	page, err := qtx.UpdatePage(ctx, store.UpdatePageParams{
		ID:        arg.ID,
		Title:     arg.Title,
		Slug:      arg.Slug,
		Body:      arg.Body,
		BodyHTML:  bodyHTML,
		IsActive:  arg.IsActive,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Page{}, err
	}

	if page.Title != old.Title || page.Slug != old.Slug {
		if err := renameShadowEntry(ctx, qtx, model.SourcePage, page.ID, page.Title, page.URL(), now); err != nil {
			return model.Page{}, err
		}
	}
	if page.IsActive != old.IsActive {
		if err := setShadowActive(ctx, qtx, model.SourcePage, page.ID, page.IsActive, now); err != nil {
			return model.Page{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Page{}, err
	}

	s.invalidateNav(ctx)
	return page, nil
}

// Delete removes a page and cascades across the menu: the shadow
// entry and every entry in any zone still pointing at the page's url.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	page, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if err := qtx.DeletePage(ctx, id); err != nil {
		return err
	}
	if err := deleteShadowEntries(ctx, qtx, model.SourcePage, id, page.URL()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateNav(ctx)
	return nil
}

// Get fetches a page by id.
func (s *PageService) Get(ctx context.Context, id int64) (model.Page, error) {
	return s.queries.GetPageByID(ctx, id)
}

// GetBySlug fetches a page by slug.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (model.Page, error) {
	return s.queries.GetPageBySlug(ctx, slug)
}

// GetActiveBySlug fetches a page by slug for public rendering.
// Inactive pages are reported as missing.
func (s *PageService) GetActiveBySlug(ctx context.Context, slug string) (model.Page, error) {
	page, err := s.queries.GetPageBySlug(ctx, slug)
	if err != nil {
		return model.Page{}, err
	}
	if !page.IsActive {
		return model.Page{}, sql.ErrNoRows
	}
	return page, nil
}

// List returns a page of pages ordered by title.
func (s *PageService) List(ctx context.Context, limit, offset int64) ([]model.Page, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queries.ListPages(ctx, store.ListPagesParams{Limit: limit, Offset: offset})
}

// IsNotFound reports whether an error from this service means the
// page does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (s *PageService) invalidateNav(ctx context.Context) {
	if s.nav != nil {
		_ = s.nav.InvalidateAll(ctx)
	}
}
