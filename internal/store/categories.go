// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
)

const categoryColumns = `id, name, slug, description, parent_id, position, is_active, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCategoryParams holds the fields for inserting a category.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description sql.NullString
	ParentID    sql.NullInt64
	Position    int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const createCategory = `
INSERT INTO categories (name, slug, description, parent_id, position, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + categoryColumns

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory,
		arg.Name, arg.Slug, arg.Description, arg.ParentID, arg.Position,
		arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanCategory(row)
}

const getCategoryByID = `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

// GetCategoryByID fetches a single category.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryByID, id))
}

const listCategories = `SELECT ` + categoryColumns + ` FROM categories ORDER BY position ASC, name ASC`

// ListCategories returns all categories ordered by position then name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const listChildCategories = `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = ? ORDER BY position ASC, name ASC`

// ListChildCategories returns the direct children of a category.
func (q *Queries) ListChildCategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, listChildCategories, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategoryParams holds the mutable fields of a category.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description sql.NullString
	ParentID    sql.NullInt64
	Position    int64
	IsActive    bool
	UpdatedAt   time.Time
}

const updateCategory = `
UPDATE categories
SET name = ?, slug = ?, description = ?, parent_id = ?, position = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + categoryColumns

// UpdateCategory updates a category and returns the stored row.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, updateCategory,
		arg.Name, arg.Slug, arg.Description, arg.ParentID, arg.Position,
		arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanCategory(row)
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

// DeleteCategory removes a category.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}

const categorySlugExists = `SELECT COUNT(*) FROM categories WHERE slug = ?`

// CategorySlugExists returns a non-zero count if the slug is taken.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, categorySlugExists, slug).Scan(&count)
	return count, err
}

const categorySlugExistsExcluding = `SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?`

// CategorySlugExistsExcluding checks slug uniqueness ignoring one category.
func (q *Queries) CategorySlugExistsExcluding(ctx context.Context, slug string, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, categorySlugExistsExcluding, slug, id).Scan(&count)
	return count, err
}

const countChildCategories = `SELECT COUNT(*) FROM categories WHERE parent_id = ?`

// CountChildCategories returns the number of direct children of a category.
func (q *Queries) CountChildCategories(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countChildCategories, parentID).Scan(&count)
	return count, err
}
