// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Menu zones. The first three render on the storefront; the available_*
// zones are pools of entries waiting to be promoted by an admin.
const (
	ZoneMain                = "main"
	ZoneFooter              = "footer"
	ZoneSidebar             = "sidebar"
	ZoneAvailablePages      = "available_pages"
	ZoneAvailableCategories = "available_categories"
)

// ValidZones contains all recognized menu zones.
var ValidZones = []string{
	ZoneMain,
	ZoneFooter,
	ZoneSidebar,
	ZoneAvailablePages,
	ZoneAvailableCategories,
}

// Menu target values
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank}

// Source types for shadow entries. An empty source type marks a custom link.
const (
	SourceNone     = ""
	SourcePage     = "page"
	SourceCategory = "category"
)

// MenuEntry represents a single navigation entry in a zone.
// Shadow entries (SourceType page/category) mirror a content row and may only
// change through the sync bridge; custom links are fully editable.
type MenuEntry struct {
	ID         int64
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

// IsShadow reports whether the entry mirrors a page or category.
func (e *MenuEntry) IsShadow() bool {
	return e.SourceType != SourceNone
}

// IsValidZone checks if a zone value is recognized.
func IsValidZone(zone string) bool {
	for _, z := range ValidZones {
		if z == zone {
			return true
		}
	}
	return false
}

// IsVisibleZone reports whether a zone renders on the storefront.
func IsVisibleZone(zone string) bool {
	return zone == ZoneMain || zone == ZoneFooter || zone == ZoneSidebar
}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	for _, t := range ValidTargets {
		if t == target {
			return true
		}
	}
	return false
}
