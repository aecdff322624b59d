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
	"github.com/NjCayao/misistema-sub002/internal/store"
	"github.com/NjCayao/misistema-sub002/internal/util"
)

// maxCategoryDepth bounds the parent-chain walk used to reject
// circular category nesting.
const maxCategoryDepth = 20

// CategoryService manages product categories together with their
// shadow menu entries, mirroring the page lifecycle handling.
type CategoryService struct {
	db      *sql.DB
	queries *store.Queries
	nav     *cache.NavCache
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(db *sql.DB, nav *cache.NavCache) *CategoryService {
	return &CategoryService{
		db:      db,
		queries: store.New(db),
		nav:     nav,
	}
}

// CreateCategoryParams holds the input for creating a category.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
	ParentID    *int64
	Position    int64
	IsActive    bool
}

// Create stores a category and its shadow entry in the available
// categories pool, in one transaction.
func (s *CategoryService) Create(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	arg.Name = strings.TrimSpace(arg.Name)
	if arg.Name == "" {
		return model.Category{}, &menu.ValidationError{Field: "name", Message: "name is required"}
	}

	if arg.Slug == "" {
		arg.Slug = util.Slugify(arg.Name)
	}
	if !util.IsValidSlug(arg.Slug) {
		return model.Category{}, &menu.ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and hyphens"}
	}

	taken, err := s.queries.CategorySlugExists(ctx, arg.Slug)
	if err != nil {
		return model.Category{}, err
	}
	if taken > 0 {
		return model.Category{}, &menu.ValidationError{Field: "slug", Message: "slug is already in use"}
	}

	parentID, err := s.resolveParent(ctx, 0, arg.ParentID)
	if err != nil {
		return model.Category{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Category{}, err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	cat, err := qtx.CreateCategory(ctx, store.CreateCategoryParams{
		Name:        arg.Name,
		Slug:        arg.Slug,
		Description: nullString(arg.Description),
		ParentID:    parentID,
		Position:    arg.Position,
		IsActive:    arg.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Category{}, err
	}

	if err := createShadowEntry(ctx, qtx, model.SourceCategory, cat.ID, cat.Name, cat.URL(), cat.IsActive, now); err != nil {
		return model.Category{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Category{}, err
	}

	s.invalidateNav(ctx)
	return cat, nil
}

// UpdateCategoryParams holds the input for updating a category.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ParentID    *int64
	Position    int64
	IsActive    bool
}

// Update rewrites a category, keeping its shadow entry in step the
// same way page updates do.
func (s *CategoryService) Update(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	old, err := s.queries.GetCategoryByID(ctx, arg.ID)
	if err != nil {
		return model.Category{}, err
	}

	arg.Name = strings.TrimSpace(arg.Name)
	if arg.Name == "" {
		return model.Category{}, &menu.ValidationError{Field: "name", Message: "name is required"}
	}
	if arg.Slug == "" {
		arg.Slug = old.Slug
	}
	if !util.IsValidSlug(arg.Slug) {
		return model.Category{}, &menu.ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and hyphens"}
	}

	if arg.Slug != old.Slug {
		taken, err := s.queries.CategorySlugExistsExcluding(ctx, arg.Slug, arg.ID)
		if err != nil {
			return model.Category{}, err
		}
		if taken > 0 {
			return model.Category{}, &menu.ValidationError{Field: "slug", Message: "slug is already in use"}
		}
	}

	parentID, err := s.resolveParent(ctx, arg.ID, arg.ParentID)
	if err != nil {
		return model.Category{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Category{}, err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	cat, err := qtx.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:          arg.ID,
		Name:        arg.Name,
		Slug:        arg.Slug,
		Description: nullString(arg.Description),
		ParentID:    parentID,
		Position:    arg.Position,
		IsActive:    arg.IsActive,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Category{}, err
	}

	if cat.Name != old.Name || cat.Slug != old.Slug {
		if err := renameShadowEntry(ctx, qtx, model.SourceCategory, cat.ID, cat.Name, cat.URL(), now); err != nil {
			return model.Category{}, err
		}
	}
	if cat.IsActive != old.IsActive {
		if err := setShadowActive(ctx, qtx, model.SourceCategory, cat.ID, cat.IsActive, now); err != nil {
			return model.Category{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Category{}, err
	}

	s.invalidateNav(ctx)
	return cat, nil
}

// Delete removes a category and cascades across the menu. Categories
// with child categories are blocked until the children are moved.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	cat, err := s.queries.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.queries.CountChildCategories(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return &menu.ConflictError{Message: "category has child categories; move or delete them first"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if err := qtx.DeleteCategory(ctx, id); err != nil {
		return err
	}
	if err := deleteShadowEntries(ctx, qtx, model.SourceCategory, id, cat.URL()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateNav(ctx)
	return nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	return s.queries.GetCategoryByID(ctx, id)
}

// List returns all categories ordered by position and name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.queries.ListCategories(ctx)
}

// resolveParent validates a parent assignment: the parent must exist
// and must not be the category itself or one of its descendants.
func (s *CategoryService) resolveParent(ctx context.Context, id int64, parentID *int64) (sql.NullInt64, error) {
	if parentID == nil {
		return sql.NullInt64{}, nil
	}
	if id != 0 && *parentID == id {
		return sql.NullInt64{}, &menu.ValidationError{Field: "parent_id", Message: "category cannot be its own parent"}
	}

	current := *parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		node, err := s.queries.GetCategoryByID(ctx, current)
		if errors.Is(err, sql.ErrNoRows) {
			if depth == 0 {
				return sql.NullInt64{}, &menu.ValidationError{Field: "parent_id", Message: "parent category does not exist"}
			}
			return sql.NullInt64{Int64: *parentID, Valid: true}, nil
		}
		if err != nil {
			return sql.NullInt64{}, err
		}
		if !node.ParentID.Valid {
			return sql.NullInt64{Int64: *parentID, Valid: true}, nil
		}
		if id != 0 && node.ParentID.Int64 == id {
			return sql.NullInt64{}, &menu.ValidationError{Field: "parent_id", Message: "cannot set a descendant as parent (circular reference)"}
		}
		current = node.ParentID.Int64
	}
	return sql.NullInt64{}, &menu.ValidationError{Field: "parent_id", Message: "category nesting too deep"}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (s *CategoryService) invalidateNav(ctx context.Context) {
	if s.nav != nil {
		_ = s.nav.InvalidateAll(ctx)
	}
}
