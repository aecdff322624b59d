// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/NjCayao/misistema-sub002/internal/cache"
	"github.com/NjCayao/misistema-sub002/internal/config"
	"github.com/NjCayao/misistema-sub002/internal/handler"
	"github.com/NjCayao/misistema-sub002/internal/logging"
	"github.com/NjCayao/misistema-sub002/internal/menu"
	"github.com/NjCayao/misistema-sub002/internal/middleware"
	"github.com/NjCayao/misistema-sub002/internal/scheduler"
	"github.com/NjCayao/misistema-sub002/internal/service"
	"github.com/NjCayao/misistema-sub002/internal/session"
	"github.com/NjCayao/misistema-sub002/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "MiSistema - e-commerce content and menu administration\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MISISTEMA_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MISISTEMA_DB_PATH          SQLite database path (default: ./data/misistema.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MISISTEMA_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MISISTEMA_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MISISTEMA_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("misistema %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Tee WARN and ERROR logs into the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	appCache, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "prefix", cfg.CachePrefix)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	navCache := cache.NewNavCache(appCache, time.Duration(cfg.CacheTTL)*time.Second)

	// Services
	menuService := menu.NewService(db, navCache)
	pageService := service.NewPageService(db, navCache)
	categoryService := service.NewCategoryService(db, navCache)
	eventService := service.NewEventService(db)

	// Background maintenance
	sched := scheduler.New(db, logger, time.Duration(cfg.EventRetentionDays)*24*time.Hour)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Handlers
	menusHandler := handler.NewMenusHandler(menuService, eventService, logger)
	pagesHandler := handler.NewPagesHandler(pageService, eventService, logger)
	categoriesHandler := handler.NewCategoriesHandler(categoryService, eventService, logger)
	settingsHandler := handler.NewSettingsHandler(db, eventService, logger)
	authHandler := handler.NewAuthHandler(db, sessionManager, loginProtection, eventService, logger)
	eventsHandler := handler.NewEventsHandler(db, logger)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment(), strconv.Itoa(cfg.ServerPort))))

	// Public surface
	r.Get("/healthz", healthHandler.Check)
	r.Get("/nav/{zone}", menusHandler.Nav)
	r.Get("/p/{slug}", pagesHandler.Show)
	r.Post("/login", authHandler.Login)

	// Admin surface
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Post("/logout", authHandler.Logout)

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", menusHandler.Zones)
			r.Get("/{zone}", menusHandler.ZoneTree)
			r.Post("/move_element", menusHandler.MoveElement)
			r.Post("/update_order", menusHandler.UpdateOrder)
			r.Post("/toggle_status", menusHandler.ToggleStatus)
			r.Post("/delete_element", menusHandler.DeleteElement)
			r.Post("/create_custom_link", menusHandler.CreateCustomLink)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pagesHandler.List)
			r.Post("/", pagesHandler.Create)
			r.Get("/{id}", pagesHandler.Get)
			r.Put("/{id}", pagesHandler.Update)
			r.Delete("/{id}", pagesHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoriesHandler.List)
			r.Post("/", categoriesHandler.Create)
			r.Get("/{id}", categoriesHandler.Get)
			r.Put("/{id}", categoriesHandler.Update)
			r.Delete("/{id}", categoriesHandler.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/{group}", settingsHandler.Group)
			r.Put("/{group}", settingsHandler.UpdateGroup)
		})

		r.Get("/events", eventsHandler.Recent)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
