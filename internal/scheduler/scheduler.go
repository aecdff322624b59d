// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NjCayao/misistema-sub002/internal/store"
)

// Scheduler handles periodic maintenance like event log pruning.
type Scheduler struct {
	db          *sql.DB
	cron        *cron.Cron
	logger      *slog.Logger
	eventMaxAge time.Duration
}

// New creates a scheduler instance. eventMaxAge controls how long event
// log entries are retained.
func New(db *sql.DB, logger *slog.Logger, eventMaxAge time.Duration) *Scheduler {
	return &Scheduler{
		db:          db,
		cron:        cron.New(),
		logger:      logger,
		eventMaxAge: eventMaxAge,
	}
}

// Start begins the scheduler with a nightly event log pruning job.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("failed to prune event log", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneEvents removes event log entries past the retention window.
func (s *Scheduler) pruneEvents() error {
	if s.eventMaxAge <= 0 {
		return nil
	}

	queries := store.New(s.db)
	cutoff := time.Now().Add(-s.eventMaxAge)

	if err := queries.DeleteOldEvents(context.Background(), cutoff); err != nil {
		return err
	}

	s.logger.Info("pruned event log", "cutoff", cutoff)
	return nil
}
