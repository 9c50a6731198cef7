package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// Aggregator computes leaderboard snapshots from settled signals and
// their outcomes. Recomputing a window replaces its rows.
type Aggregator struct {
	cfg         *config.Config
	signals     storage.SignalStore
	outcomes    storage.OutcomeStore
	leaderboard storage.LeaderboardStore
	log         zerolog.Logger

	now func() time.Time
}

func NewAggregator(
	cfg *config.Config,
	signals storage.SignalStore,
	outcomes storage.OutcomeStore,
	leaderboard storage.LeaderboardStore,
	log zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		cfg:         cfg,
		signals:     signals,
		outcomes:    outcomes,
		leaderboard: leaderboard,
		log:         log,
		now:         time.Now,
	}
}

const dateLayout = "2006-01-02"

// ComputeWindow builds one leaderboard snapshot for the rolling window of
// windowDays ending at end (exclusive, truncated to a UTC date). Returns
// the upserted entries ranked by alpha score.
func (a *Aggregator) ComputeWindow(ctx context.Context, windowDays int, end time.Time) ([]*domain.LeaderboardEntry, error) {
	endDay := end.UTC().Truncate(24 * time.Hour)
	startDay := endDay.AddDate(0, 0, -windowDays)
	startDate := startDay.Format(dateLayout)
	endDate := endDay.Format(dateLayout)

	signals, err := a.signals.GetSettledInRange(ctx, startDay.UnixMilli(), endDay.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("load settled signals: %w", err)
	}

	// Group signal ids per account.
	byAccount := map[string][]string{}
	for _, s := range signals {
		byAccount[s.AccountID] = append(byAccount[s.AccountID], s.SignalID)
	}

	var rows []*accountRow
	for accountID, ids := range byAccount {
		outcomes, oErr := a.outcomes.GetBySignalIDs(ctx, ids)
		if oErr != nil {
			return nil, fmt.Errorf("load outcomes for %s: %w", accountID, oErr)
		}
		if len(outcomes) == 0 {
			continue
		}
		row := computeRow(accountID, outcomes, a.cfg.MinRatioN)
		rows = append(rows, row)

		for signalID, ratio := range row.RiskPerOutcome {
			if uErr := a.outcomes.UpdateRiskAdjusted(ctx, signalID, ratio); uErr != nil {
				return nil, fmt.Errorf("backfill risk ratio for %s: %w", signalID, uErr)
			}
		}
	}
	sortRows(rows)

	scores := scoreRows(rows, a.cfg.MinPopulation)

	computedAt := a.now().UnixMilli()
	entries := make([]*domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entry := &domain.LeaderboardEntry{
			AccountID:         r.AccountID,
			WindowDays:        windowDays,
			StartDate:         startDate,
			EndDate:           endDate,
			NSignals:          r.NSignals,
			WinRate:           r.WinRate,
			MeanExcessReturn:  r.MeanExcessReturn,
			RiskAdjusted:      r.RiskAdjusted,
			MeanBrier:         r.MeanBrier,
			MeanCLVPoints:     r.MeanCLVPoints,
			MeanPredictionPnL: r.MeanPredictionPnL,
			AlphaScore:        scores[r.AccountID],
			ComputedAt:        computedAt,
		}
		if err := a.leaderboard.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("upsert leaderboard entry for %s: %w", r.AccountID, err)
		}
		entries = append(entries, entry)
	}

	a.log.Info().
		Int("window_days", windowDays).
		Str("start_date", startDate).
		Str("end_date", endDate).
		Int("accounts", len(entries)).
		Msg("leaderboard window computed")

	return a.leaderboard.GetWindow(ctx, windowDays, startDate, endDate)
}

// ComputeAllWindows runs every configured window ending now.
func (a *Aggregator) ComputeAllWindows(ctx context.Context) (map[int][]*domain.LeaderboardEntry, error) {
	out := make(map[int][]*domain.LeaderboardEntry, len(a.cfg.WindowDays))
	for _, days := range a.cfg.WindowDays {
		entries, err := a.ComputeWindow(ctx, days, a.now())
		if err != nil {
			return nil, err
		}
		out[days] = entries
	}
	return out, nil
}
