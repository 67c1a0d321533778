package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FundPulse/internal/analyzer"
	"FundPulse/internal/common"
	"FundPulse/internal/config"
	"FundPulse/internal/directory"
	"FundPulse/internal/provider"
	"FundPulse/internal/recorder"
	"FundPulse/internal/scheduler"
	"FundPulse/internal/server"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		common.NewLogger("info").Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		common.NewLogger("info").Fatal().Err(err).Msg("config validation")
	}

	logger := common.NewLogger(cfg.Log.Level)
	logger.Info().Msg("FundPulse starting")

	// Market-data client
	market := provider.NewClient(cfg.DataSource.BaseURL, cfg.DataSource.APIKey,
		provider.WithTimeout(time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second),
		provider.WithRateLimit(cfg.DataSource.RatePerSecond),
		provider.WithProxy(cfg.Proxy),
		provider.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the initial directory snapshot: provider first, seed file as
	// fallback when the provider is unreachable at startup.
	store, err := buildDirectory(ctx, market, cfg.Directory.SeedFile, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build fund directory")
	}
	logger.Info().Int("funds", store.Snapshot().Len()).Msg("fund directory ready")

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Analyzer
	a := analyzer.New(store, market, analyzer.Options{
		Workers:      cfg.Analysis.Workers,
		RollingDays:  cfg.Analysis.RollingDays,
		Persistence:  cfg.Analysis.Persistence,
		MaxPortfolio: cfg.Analysis.MaxPortfolio,
		Recorder:     rec,
		Logger:       logger,
	})

	// Scheduler: hourly directory refresh, nightly record prune
	sched := scheduler.NewScheduler(ctx, store, market, rec,
		cfg.Directory.SeedFile, cfg.Database.RetentionDays, logger)
	if err := sched.RegisterAll(cfg.Directory.RefreshCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(a, store, server.Options{
		RatePerMinute: cfg.Server.RatePerMinute,
		RateBurst:     cfg.Server.RateBurst,
		Logger:        logger,
	})
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received, stopping")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	logger.Info().Msg("FundPulse stopped")
}

func buildDirectory(ctx context.Context, market provider.MarketData, seedFile string, logger *common.Logger) (*directory.Store, error) {
	funds, err := market.FundList(ctx)
	if err != nil || len(funds) == 0 {
		logger.Warn().Err(err).Msg("fund list fetch failed, trying seed file")
		funds, err = directory.LoadSeed(seedFile)
		if err != nil {
			return nil, err
		}
		if len(funds) == 0 {
			return nil, errors.New("no fund list from provider and no usable seed file")
		}
	} else if seedFile != "" {
		if err := directory.SaveSeed(seedFile, funds); err != nil {
			logger.Warn().Err(err).Str("path", seedFile).Msg("save fund seed failed")
		}
	}
	return directory.NewStore(directory.New(funds)), nil
}
