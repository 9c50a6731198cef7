// Package main runs the tracker as a long-lived service: the pipeline
// on a cron schedule plus an HTTP API for leaderboard, health and
// Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/observability"
	"alpha-tracker/internal/orchestrator"
	"alpha-tracker/internal/pipeline"
	"alpha-tracker/internal/storage"
	chstore "alpha-tracker/internal/storage/clickhouse"
	"alpha-tracker/internal/storage/memory"
	"alpha-tracker/internal/storage/migrations"
	pgstore "alpha-tracker/internal/storage/postgres"
	"alpha-tracker/pkg/logger"
)

const dateLayout = "2006-01-02"

// Server wires the scheduled pipeline and the HTTP API over one store set.
type Server struct {
	cfg    *config.Config
	stores *appStores
	orch   *orchestrator.Orchestrator
	log    zerolog.Logger

	mu         sync.Mutex
	running    bool
	lastRun    time.Time
	lastResult *orchestrator.RunResult
	runs       int
	startedAt  time.Time
}

// appStores holds every store the service needs.
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

	srv := &Server{
		cfg:    cfg,
		stores: stores,
		log:    log,
		orch: orchestrator.New(orchestrator.Options{
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
		}),
		startedAt: time.Now(),
	}

	// Run once at startup so the API has data before the first tick.
	srv.runPipeline(ctx)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CronSchedule, func() { srv.runPipeline(ctx) }); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CronSchedule).Msg("invalid cron schedule")
	}
	scheduler.Start()
	log.Info().Str("schedule", cfg.CronSchedule).Msg("pipeline scheduled")

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	cronCtx := scheduler.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	<-cronCtx.Done()
	log.Info().Msg("shutdown complete")
}

// runPipeline executes one orchestrator run, skipping if one is already
// in flight.
func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("pipeline already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	result, err := s.orch.Run(ctx)

	s.mu.Lock()
	s.running = false
	s.lastRun = time.Now()
	s.runs++
	if err == nil {
		s.lastResult = result
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("pipeline run failed")
		return
	}
	s.log.Info().
		Dur("elapsed", time.Since(start)).
		Int("signals_created", result.SignalsCreated).
		Int("settled", result.OutcomesSettled).
		Msg("scheduled pipeline run complete")
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// leaderboardEntry is the JSON shape of one ranked account.
type leaderboardEntry struct {
	Rank              int      `json:"rank"`
	AccountID         string   `json:"account_id"`
	NSignals          int      `json:"n_signals"`
	WinRate           *float64 `json:"win_rate"`
	MeanExcessReturn  *float64 `json:"mean_excess_return"`
	RiskAdjusted      *float64 `json:"risk_adjusted"`
	MeanBrier         *float64 `json:"mean_brier"`
	MeanCLVPoints     *float64 `json:"mean_clv_points"`
	MeanPredictionPnL *float64 `json:"mean_prediction_pnl"`
	AlphaScore        *float64 `json:"alpha_score"`
}

type leaderboardResponse struct {
	WindowDays int                `json:"window_days"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Entries    []leaderboardEntry `json:"entries"`
}

// handleLeaderboard serves the latest snapshot for one window. The
// window defaults to the shortest configured one.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	windows := append([]int(nil), s.cfg.WindowDays...)
	sort.Ints(windows)
	days := windows[0]

	if q := r.URL.Query().Get("window"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "window must be an integer number of days", http.StatusBadRequest)
			return
		}
		found := false
		for _, d := range windows {
			if d == n {
				found = true
				break
			}
		}
		if !found {
			http.Error(w, fmt.Sprintf("window %d not configured, have %v", n, windows), http.StatusBadRequest)
			return
		}
		days = n
	}

	endDay := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := endDay.AddDate(0, 0, -days).Format(dateLayout)
	endDate := endDay.Format(dateLayout)

	entries, err := s.stores.leaderboard.GetWindow(r.Context(), days, startDate, endDate)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard query failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := leaderboardResponse{
		WindowDays: days,
		StartDate:  startDate,
		EndDate:    endDate,
		Entries:    make([]leaderboardEntry, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = leaderboardEntry{
			Rank:              i + 1,
			AccountID:         e.AccountID,
			NSignals:          e.NSignals,
			WinRate:           e.WinRate,
			MeanExcessReturn:  e.MeanExcessReturn,
			RiskAdjusted:      e.RiskAdjusted,
			MeanBrier:         e.MeanBrier,
			MeanCLVPoints:     e.MeanCLVPoints,
			MeanPredictionPnL: e.MeanPredictionPnL,
			AlphaScore:        e.AlphaScore,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// statusResponse is the JSON response for /status.
type statusResponse struct {
	Status  string    `json:"status"`
	Uptime  string    `json:"uptime"`
	Runs    int       `json:"runs"`
	LastRun time.Time `json:"last_run,omitempty"`
	Running bool      `json:"running"`

	SignalsCreated  int `json:"signals_created,omitempty"`
	OutcomesSettled int `json:"outcomes_settled,omitempty"`
	SignalsPending  int `json:"signals_pending,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := statusResponse{
		Status:  "running",
		Uptime:  time.Since(s.startedAt).String(),
		Runs:    s.runs,
		LastRun: s.lastRun,
		Running: s.running,
	}
	if s.lastResult != nil {
		resp.SignalsCreated = s.lastResult.SignalsCreated
		resp.OutcomesSettled = s.lastResult.OutcomesSettled
		resp.SignalsPending = s.lastResult.SignalsPending
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
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
