// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
)

const pageColumns = `id, title, slug, body, body_html, is_active, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyHTML, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePageParams holds the fields for inserting a page.
type CreatePageParams struct {
	Title     string
	Slug      string
	Body      string
	BodyHTML  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const createPage = `
INSERT INTO pages (title, slug, body, body_html, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

// CreatePage inserts a page and returns the stored row.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title, arg.Slug, arg.Body, arg.BodyHTML, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanPage(row)
}

const getPageByID = `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

// GetPageByID fetches a single page.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageBySlug = `SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`

// GetPageBySlug fetches a single page by slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, slug))
}

const listPages = `SELECT ` + pageColumns + ` FROM pages ORDER BY title ASC LIMIT ? OFFSET ?`

// ListPagesParams holds pagination for listing pages.
type ListPagesParams struct {
	Limit  int64
	Offset int64
}

// ListPages returns pages ordered by title.
func (q *Queries) ListPages(ctx context.Context, arg ListPagesParams) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, listPages, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// UpdatePageParams holds the mutable fields of a page.
type UpdatePageParams struct {
	ID        int64
	Title     string
	Slug      string
	Body      string
	BodyHTML  string
	IsActive  bool
	UpdatedAt time.Time
}

const updatePage = `
UPDATE pages
SET title = ?, slug = ?, body = ?, body_html = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

// UpdatePage updates a page and returns the stored row.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title, arg.Slug, arg.Body, arg.BodyHTML, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

const deletePage = `DELETE FROM pages WHERE id = ?`

// DeletePage removes a page.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}

const pageSlugExists = `SELECT COUNT(*) FROM pages WHERE slug = ?`

// PageSlugExists returns a non-zero count if the slug is taken.
func (q *Queries) PageSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, pageSlugExists, slug).Scan(&count)
	return count, err
}

const pageSlugExistsExcluding = `SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`

// PageSlugExistsExcluding checks slug uniqueness ignoring one page.
func (q *Queries) PageSlugExistsExcluding(ctx context.Context, slug string, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, pageSlugExistsExcluding, slug, id).Scan(&count)
	return count, err
}
