// Package scheduler runs the periodic maintenance tasks: rebuilding the
// fund directory snapshot and pruning old analysis records.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"FundPulse/internal/common"
	"FundPulse/internal/directory"
	"FundPulse/internal/provider"
	"FundPulse/internal/recorder"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Store    *directory.Store
	Market   provider.MarketData
	Recorder recorder.Recorder
	Ctx      context.Context

	seedFile      string
	retentionDays int
	logger        *common.Logger
}

// NewScheduler creates a new Scheduler. seedFile may be empty to skip
// persisting the fund table after each refresh.
func NewScheduler(ctx context.Context, store *directory.Store, market provider.MarketData, rec recorder.Recorder, seedFile string, retentionDays int, logger *common.Logger) *Scheduler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Store:         store,
		Market:        market,
		Recorder:      rec,
		Ctx:           ctx,
		seedFile:      seedFile,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// RegisterAll registers the directory refresh and the nightly prune.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshDirectory); err != nil {
		return fmt.Errorf("register directory refresh: %w", err)
	}
	// Prune old analysis rows every day at 03:30.
	if _, err := s.Cron.AddFunc("0 30 3 * * *", s.pruneRecords); err != nil {
		return fmt.Errorf("register prune: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// RefreshNow rebuilds the directory immediately (startup / manual trigger).
func (s *Scheduler) RefreshNow() {
	s.refreshDirectory()
}

// refreshDirectory fetches the fund list and swaps in a fresh snapshot. On
// failure the previous snapshot stays in service.
func (s *Scheduler) refreshDirectory() {
	funds, err := s.Market.FundList(s.Ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("directory refresh failed, keeping previous snapshot")
		return
	}
	if len(funds) == 0 {
		s.logger.Warn().Msg("directory refresh returned no funds, keeping previous snapshot")
		return
	}

	s.Store.Replace(directory.New(funds))
	s.logger.Info().Int("funds", len(funds)).Msg("directory snapshot replaced")

	if s.seedFile != "" {
		if err := directory.SaveSeed(s.seedFile, funds); err != nil {
			s.logger.Error().Err(err).Str("path", s.seedFile).Msg("save fund seed failed")
		}
	}
}

func (s *Scheduler) pruneRecords() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.Recorder.Prune(cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("prune analysis records failed")
		return
	}
	if deleted > 0 {
		s.logger.Info().Int64("rows", deleted).Time("cutoff", cutoff).Msg("old analysis records pruned")
	}
}
