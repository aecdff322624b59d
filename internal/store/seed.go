// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/auth"
	"github.com/NjCayao/misistema-sub002/internal/model"
)

// Seed ensures the minimum data the application needs: an admin user
// and the default site settings. When doSeed is set, demo content is
// created too.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	q := New(db)

	if err := seedAdmin(ctx, q); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	if err := seedSettings(ctx, q); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	if doSeed {
		if err := seedDemoContent(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}
	return nil
}

// seedAdmin creates the first admin account when the users table is
// empty. The password comes from MISISTEMA_ADMIN_PASSWORD, or is
// generated and logged once so the operator can sign in.
func seedAdmin(ctx context.Context, q *Queries) error {
	count, err := q.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("MISISTEMA_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	password := os.Getenv("MISISTEMA_ADMIN_PASSWORD")
	generated := false
	if password == "" {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return err
		}
		password = hex.EncodeToString(raw)
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         "Administrator",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	if generated {
		slog.Info("created initial admin user", "email", user.Email, "password", password)
	} else {
		slog.Info("created initial admin user", "email", user.Email)
	}
	return nil
}

// seedSettings inserts default settings without overwriting existing
// values.
func seedSettings(ctx context.Context, q *Queries) error {
	defaults := []struct {
		key, value, group string
	}{
		{"site_name", "MiSistema", model.SettingGroupSite},
		{"site_tagline", "", model.SettingGroupSite},
		{"contact_email", "", model.SettingGroupSite},
		{"currency", "USD", model.SettingGroupPayment},
		{"smtp_host", "", model.SettingGroupEmail},
		{"smtp_port", "587", model.SettingGroupEmail},
		{"meta_title", "MiSistema", model.SettingGroupSEO},
		{"meta_description", "", model.SettingGroupSEO},
	}

	now := time.Now()
	for _, d := range defaults {
		_, err := q.GetSetting(ctx, d.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err := q.UpsertSetting(ctx, d.key, d.value, d.group, now); err != nil {
			return err
		}
	}
	return nil
}

// seedDemoContent creates a couple of pages and categories with their
// shadow menu entries, for local development.
func seedDemoContent(ctx context.Context, db *sql.DB) error {
	q := New(db)

	if _, err := q.GetPageBySlug(ctx, "nosotros"); err == nil {
		return nil // already seeded
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := New(db).WithTx(tx)
	now := time.Now()

	pages := []struct{ title, slug, body string }{
		{"Nosotros", "nosotros", "Acerca de la empresa."},
		{"Contacto", "contacto", "Formulario de contacto."},
	}
	for i, p := range pages {
		page, err := qtx.CreatePage(ctx, CreatePageParams{
			Title:     p.title,
			Slug:      p.slug,
			Body:      p.body,
			BodyHTML:  "<p>" + p.body + "</p>",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if _, err := qtx.CreateMenuEntry(ctx, CreateMenuEntryParams{
			Title:      page.Title,
			URL:        "/" + page.Slug,
			Zone:       model.ZoneAvailablePages,
			SortOrder:  int64(i) + 1,
			Target:     model.TargetSelf,
			IsActive:   true,
			SourceType: model.SourcePage,
			SourceID:   sql.NullInt64{Int64: page.ID, Valid: true},
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
	}

	categories := []struct{ name, slug string }{
		{"Plantillas", "plantillas"},
		{"Componentes", "componentes"},
	}
	for i, c := range categories {
		cat, err := qtx.CreateCategory(ctx, CreateCategoryParams{
			Name:      c.name,
			Slug:      c.slug,
			Position:  int64(i) + 1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if _, err := qtx.CreateMenuEntry(ctx, CreateMenuEntryParams{
			Title:      cat.Name,
			URL:        "/categoria/" + cat.Slug,
			Zone:       model.ZoneAvailableCategories,
			SortOrder:  int64(i) + 1,
			Target:     model.TargetSelf,
			IsActive:   true,
			SourceType: model.SourceCategory,
			SourceID:   sql.NullInt64{Int64: cat.ID, Valid: true},
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}
