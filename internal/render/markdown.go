// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts page bodies to safe HTML.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements like <script> and event
// handlers from rendered page bodies while keeping safe formatting tags.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts a markdown body to sanitized HTML.
func Markdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips unsafe markup from an HTML fragment.
func SanitizeHTML(html string) string {
	return htmlSanitizer.Sanitize(html)
}
