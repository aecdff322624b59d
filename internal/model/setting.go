// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting groups
const (
	SettingGroupSite    = "site"
	SettingGroupPayment = "payment"
	SettingGroupEmail   = "email"
	SettingGroupSEO     = "seo"
)

// ValidSettingGroups contains all recognized setting groups.
var ValidSettingGroups = []string{
	SettingGroupSite,
	SettingGroupPayment,
	SettingGroupEmail,
	SettingGroupSEO,
}

// Setting represents a single key/value configuration entry.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Group     string    `json:"group"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidSettingGroup checks if a settings group is recognized.
func IsValidSettingGroup(group string) bool {
	for _, g := range ValidSettingGroups {
		if g == group {
			return true
		}
	}
	return false
}
