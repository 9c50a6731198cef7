// Package main generates the leaderboard report files from stored data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/orchestrator"
	"alpha-tracker/internal/pipeline"
	"alpha-tracker/internal/reporting"
	"alpha-tracker/internal/storage"
	chstore "alpha-tracker/internal/storage/clickhouse"
	"alpha-tracker/internal/storage/memory"
	"alpha-tracker/internal/storage/migrations"
	pgstore "alpha-tracker/internal/storage/postgres"
	"alpha-tracker/pkg/logger"
)

func main() {
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	fixtures := flag.Bool("fixtures", false, "Run the pipeline on in-memory demo data first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	useMemory := cfg.UseMemory || *fixtures
	stores, cleanup, err := createStores(ctx, cfg, useMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	// In fixtures mode there is nothing stored yet; seed and run the
	// pipeline so the report has data.
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
		if _, err := orch.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("pipeline run failed")
		}
	}

	gen := reporting.NewGenerator(stores.accounts, stores.signals, stores.outcomes, stores.leaderboard, cfg.WindowDays)
	report, err := gen.Generate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("generate report")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", *outputDir).Msg("create output directory")
	}

	mdPath := filepath.Join(*outputDir, "LEADERBOARD.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		log.Fatal().Err(err).Msg("write markdown report")
	}
	csvPath := filepath.Join(*outputDir, "LEADERBOARD.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report)), 0644); err != nil {
		log.Fatal().Err(err).Msg("write csv report")
	}

	fmt.Println("Leaderboard report generated:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// appStores holds every store the report command touches.
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
