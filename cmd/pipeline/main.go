// Package main runs the tracker pipeline once:
// parse → match → leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/orchestrator"
	"alpha-tracker/internal/pipeline"
	"alpha-tracker/internal/storage"
	chstore "alpha-tracker/internal/storage/clickhouse"
	"alpha-tracker/internal/storage/memory"
	"alpha-tracker/internal/storage/migrations"
	pgstore "alpha-tracker/internal/storage/postgres"
	"alpha-tracker/pkg/logger"
)

// appStores holds every store the orchestrator needs.
type appStores struct {
	accounts    storage.AccountStore
	posts       storage.PostStore
	signals     storage.SignalStore
	outcomes    storage.OutcomeStore
	leaderboard storage.LeaderboardStore

	prices      storage.PricePointStore
	quotes      storage.PredictionQuoteStore
	resolutions storage.PredictionResolutionStore
	events      storage.SportsEventStore
	lines       storage.SportsLineStore
}

func main() {
	fixtures := flag.Bool("fixtures", false, "Run on in-memory stores seeded with demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("cancelling pipeline")
		cancel()
	}()

	useMemory := cfg.UseMemory || *fixtures
	stores, cleanup, err := createStores(ctx, cfg, useMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	if *fixtures {
		fs := pipeline.FixtureStores{
			Accounts:    stores.accounts,
			Posts:       stores.posts,
			Prices:      stores.prices,
			Quotes:      stores.quotes,
			Resolutions: stores.resolutions,
			Events:      stores.events,
			Lines:       stores.lines,
		}
		if err := pipeline.LoadFixtures(ctx, fs, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("load fixtures")
		}
		log.Info().Msg("fixtures loaded")
	}

	orch := orchestrator.New(orchestrator.Options{
		Config:                    cfg,
		PostStore:                 stores.posts,
		SignalStore:               stores.signals,
		OutcomeStore:              stores.outcomes,
		LeaderboardStore:          stores.leaderboard,
		PricePointStore:           stores.prices,
		PredictionQuoteStore:      stores.quotes,
		PredictionResolutionStore: stores.resolutions,
		SportsEventStore:          stores.events,
		SportsLineStore:           stores.lines,
		Logger:                    log,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	log.Info().
		Int("posts", result.PostsProcessed).
		Int("dropped", result.PostsDropped).
		Int("signals_created", result.SignalsCreated).
		Int("discarded", result.SignalsDiscarded).
		Int("settled", result.OutcomesSettled).
		Int("expired", result.SignalsExpired).
		Int("pending", result.SignalsPending).
		Int("windows", result.WindowsComputed).
		Msg("pipeline complete")
	for _, e := range result.Errors {
		log.Warn().Str("detail", e).Msg("row error")
	}
}

// createStores builds either the in-memory store set or the
// Postgres + ClickHouse pair, running migrations in database mode.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (*appStores, func(), error) {
	if useMemory {
		m := memory.NewStores()
		return &appStores{
			accounts:    m.Accounts,
			posts:       m.Posts,
			signals:     m.Signals,
			outcomes:    m.Outcomes,
			leaderboard: m.Leaderboard,
			prices:      m.Prices,
			quotes:      m.Quotes,
			resolutions: m.Resolutions,
			events:      m.Events,
			lines:       m.Lines,
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &appStores{
		accounts:    pgstore.NewAccountStore(pool),
		posts:       pgstore.NewPostStore(pool),
		signals:     pgstore.NewSignalStore(pool),
		outcomes:    pgstore.NewOutcomeStore(pool),
		leaderboard: pgstore.NewLeaderboardStore(pool),
		resolutions: pgstore.NewPredictionResolutionStore(pool),
		events:      pgstore.NewSportsEventStore(pool),

		prices: chstore.NewPricePointStore(chConn),
		quotes: chstore.NewPredictionQuoteStore(chConn),
		lines:  chstore.NewSportsLineStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}
