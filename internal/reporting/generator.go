package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

const dateLayout = "2006-01-02"

// Generator produces reports from stored data.
type Generator struct {
	accountStore     storage.AccountStore
	signalStore      storage.SignalStore
	outcomeStore     storage.OutcomeStore
	leaderboardStore storage.LeaderboardStore
	windows          []int
	now              func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator over the given stores. windows
// lists the rolling window lengths in days, matching the aggregator's
// configuration.
func NewGenerator(
	accountStore storage.AccountStore,
	signalStore storage.SignalStore,
	outcomeStore storage.OutcomeStore,
	leaderboardStore storage.LeaderboardStore,
	windows []int,
) *Generator {
	return &Generator{
		accountStore:     accountStore,
		signalStore:      signalStore,
		outcomeStore:     outcomeStore,
		leaderboardStore: leaderboardStore,
		windows:          windows,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report for the windows ending today.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	accounts, err := g.accountStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	handles := make(map[string]string, len(accounts))
	for _, a := range accounts {
		handles[a.AccountID] = a.Handle
	}

	summary, settled, err := g.generateDataSummary(ctx, len(accounts))
	if err != nil {
		return nil, err
	}

	breakdown, err := g.generateClassBreakdown(ctx, settled)
	if err != nil {
		return nil, err
	}

	sections, err := g.generateWindowSections(ctx, handles)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:    g.now(),
		AccountCount:   len(accounts),
		WindowCount:    len(sections),
		DataSummary:    *summary,
		ClassBreakdown: breakdown,
		Windows:        sections,
	}, nil
}

// generateDataSummary counts signals by lifecycle state and finds the
// settled date range. Returns the settled signals for reuse by the
// class breakdown.
func (g *Generator) generateDataSummary(ctx context.Context, accountCount int) (*DataSummary, []*domain.Signal, error) {
	pending, err := g.signalStore.GetByStatus(ctx, domain.SignalStatusPending)
	if err != nil {
		return nil, nil, fmt.Errorf("load pending signals: %w", err)
	}
	settled, err := g.signalStore.GetByStatus(ctx, domain.SignalStatusSettled)
	if err != nil {
		return nil, nil, fmt.Errorf("load settled signals: %w", err)
	}
	expired, err := g.signalStore.GetByStatus(ctx, domain.SignalStatusExpired)
	if err != nil {
		return nil, nil, fmt.Errorf("load expired signals: %w", err)
	}

	var dateRangeStart, dateRangeEnd int64
	if len(settled) > 0 {
		dateRangeStart = settled[0].PostedAt
		dateRangeEnd = settled[0].PostedAt
		for _, s := range settled {
			if s.PostedAt < dateRangeStart {
				dateRangeStart = s.PostedAt
			}
			if s.PostedAt > dateRangeEnd {
				dateRangeEnd = s.PostedAt
			}
		}
	}

	return &DataSummary{
		TotalAccounts:  accountCount,
		TotalSignals:   len(pending) + len(settled) + len(expired),
		PendingSignals: len(pending),
		SettledSignals: len(settled),
		ExpiredSignals: len(expired),
		DateRangeStart: dateRangeStart,
		DateRangeEnd:   dateRangeEnd,
	}, settled, nil
}

// generateClassBreakdown joins settled signals with their outcomes and
// tallies win/loss/push per asset class.
func (g *Generator) generateClassBreakdown(ctx context.Context, settled []*domain.Signal) ([]ClassBreakdownRow, error) {
	ids := make([]string, len(settled))
	classBySignal := make(map[string]string, len(settled))
	for i, s := range settled {
		ids[i] = s.SignalID
		classBySignal[s.SignalID] = string(s.AssetClass)
	}

	outcomes, err := g.outcomeStore.GetBySignalIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}

	byClass := make(map[string]*ClassBreakdownRow)
	for _, o := range outcomes {
		class := classBySignal[o.SignalID]
		row := byClass[class]
		if row == nil {
			row = &ClassBreakdownRow{AssetClass: class}
			byClass[class] = row
		}
		row.Settled++
		switch {
		case o.Won == nil:
			row.Pushes++
		case *o.Won:
			row.Wins++
		default:
			row.Losses++
		}
	}

	rows := make([]ClassBreakdownRow, 0, len(byClass))
	for _, row := range byClass {
		if decided := row.Wins + row.Losses; decided > 0 {
			wr := float64(row.Wins) / float64(decided)
			row.WinRate = &wr
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].AssetClass < rows[j].AssetClass
	})
	return rows, nil
}

// generateWindowSections loads the latest snapshot for each configured
// window and assigns ranks. Snapshot dates are derived from the clock
// the same way the aggregator derives them, so the report always reads
// the windows the last aggregation wrote.
func (g *Generator) generateWindowSections(ctx context.Context, handles map[string]string) ([]WindowSection, error) {
	endDay := g.now().UTC().Truncate(24 * time.Hour)

	windows := append([]int(nil), g.windows...)
	sort.Ints(windows)

	sections := make([]WindowSection, 0, len(windows))
	for _, days := range windows {
		startDate := endDay.AddDate(0, 0, -days).Format(dateLayout)
		endDate := endDay.Format(dateLayout)

		entries, err := g.leaderboardStore.GetWindow(ctx, days, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("load %dd window: %w", days, err)
		}

		rows := make([]LeaderboardRow, len(entries))
		for i, e := range entries {
			rows[i] = LeaderboardRow{
				Rank:              i + 1,
				AccountID:         e.AccountID,
				Handle:            handles[e.AccountID],
				WindowDays:        e.WindowDays,
				StartDate:         e.StartDate,
				EndDate:           e.EndDate,
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

		sections = append(sections, WindowSection{
			WindowDays: days,
			StartDate:  startDate,
			EndDate:    endDate,
			Rows:       rows,
		})
	}
	return sections, nil
}
