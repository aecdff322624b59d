// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"github.com/NjCayao/misistema-sub002/internal/model"
)

// TreeNode is one node of a rendered navigation tree.
type TreeNode struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Icon     string     `json:"icon,omitempty"`
	Target   string     `json:"target"`
	IsActive bool       `json:"is_active"`
	Children []TreeNode `json:"children"`
}

// BuildTree converts a flat zone listing into a nested tree.
// The input must already be ordered by (sort_order, title); the tree
// preserves that order at every level. Entries whose parent is missing
// from the listing are dropped rather than surfaced as roots.
func BuildTree(entries []model.MenuEntry) []TreeNode {
	return buildTree(entries, false)
}

// BuildPublicTree is BuildTree with inactive entries removed. An
// inactive parent hides its whole subtree even when the children are
// individually active.
func BuildPublicTree(entries []model.MenuEntry) []TreeNode {
	return buildTree(entries, true)
}

func buildTree(entries []model.MenuEntry, activeOnly bool) []TreeNode {
	byParent := make(map[int64][]model.MenuEntry)
	var roots []model.MenuEntry

	for _, e := range entries {
		if activeOnly && !e.IsActive {
			continue
		}
		if e.ParentID.Valid {
			byParent[e.ParentID.Int64] = append(byParent[e.ParentID.Int64], e)
		} else {
			roots = append(roots, e)
		}
	}

	// Orphans appear when a parent was filtered out or points at a
	// row outside this listing; they stay hidden along with their
	// own descendants.
	var attach func(entries []model.MenuEntry) []TreeNode
	attach = func(entries []model.MenuEntry) []TreeNode {
		nodes := make([]TreeNode, 0, len(entries))
		for _, e := range entries {
			node := TreeNode{
				ID:       e.ID,
				Title:    e.Title,
				URL:      e.URL,
				Target:   e.Target,
				IsActive: e.IsActive,
				Children: []TreeNode{},
			}
			if e.Icon.Valid {
				node.Icon = e.Icon.String
			}
			if children, ok := byParent[e.ID]; ok {
				node.Children = attach(children)
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	return attach(roots)
}
