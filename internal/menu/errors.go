// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menu implements the navigation composition engine: menu
// entries organized into placement zones, moved and re-ranked by the
// admin, mirrored from pages and categories, and assembled into
// nested trees for rendering.
package menu

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError reports a referenced entry that does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("menu entry %d not found", e.ID)
}

// ConflictError reports an operation blocked by the current state of
// the entry, such as deleting a shadow entry or a parent with children.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidZoneError reports an unrecognized placement zone.
type InvalidZoneError struct {
	Zone string
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("invalid zone %q", e.Zone)
}

// IsDomainError reports whether err belongs to the menu error
// taxonomy, meaning its message is safe to show to the admin UI.
func IsDomainError(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		ze *InvalidZoneError
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) || errors.As(err, &ze)
}
