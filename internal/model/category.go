// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Category represents a product/content category.
type Category struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"-"`
	ParentID    sql.NullInt64  `json:"-"`
	Position    int64          `json:"position"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// URL returns the public path the category listing is served under.
func (c *Category) URL() string {
	return "/categoria/" + c.Slug
}
