// Package leaderboard aggregates outcomes into per-account window
// snapshots with a cross-sectionally normalized composite score.
package leaderboard

import (
	"math"
	"sort"

	"alpha-tracker/internal/domain"
)

// accountRow carries one account's raw metrics between the two scoring
// phases.
type accountRow struct {
	AccountID string
	NSignals  int

	WinRate           *float64
	MeanExcessReturn  *float64
	RiskAdjusted      *float64
	MeanBrier         *float64
	MeanCLVPoints     *float64
	MeanPredictionPnL *float64

	// RiskPerOutcome maps signal_id to that outcome's excess return
	// divided by the account's excess stddev, for backfilling.
	RiskPerOutcome map[string]*float64
}

// metric identifies one column of the cross-sectional normalization.
type metric struct {
	name        string
	value       func(*accountRow) *float64
	lowerBetter bool // sign-flip the z-score
}

// metricsTable lists the composite's inputs in a fixed order.
var metricsTable = []metric{
	{"win_rate", func(r *accountRow) *float64 { return r.WinRate }, false},
	{"mean_excess_return", func(r *accountRow) *float64 { return r.MeanExcessReturn }, false},
	{"risk_adjusted", func(r *accountRow) *float64 { return r.RiskAdjusted }, false},
	{"mean_brier", func(r *accountRow) *float64 { return r.MeanBrier }, true},
	{"mean_clv_points", func(r *accountRow) *float64 { return r.MeanCLVPoints }, false},
	{"mean_prediction_pnl", func(r *accountRow) *float64 { return r.MeanPredictionPnL }, false},
}

// computeRow computes one account's raw metrics from its outcomes in the
// window.
func computeRow(accountID string, outcomes []*domain.Outcome, minRatioN int) *accountRow {
	row := &accountRow{
		AccountID:      accountID,
		NSignals:       len(outcomes),
		RiskPerOutcome: make(map[string]*float64),
	}

	wins, losses := 0, 0
	var excess, briers, clvs, pnls []float64
	var excessIDs []string
	for _, o := range outcomes {
		if o.Won != nil {
			if *o.Won {
				wins++
			} else {
				losses++
			}
		}
		if o.ExcessReturn != nil {
			excess = append(excess, *o.ExcessReturn)
			excessIDs = append(excessIDs, o.SignalID)
		}
		if o.Brier != nil {
			briers = append(briers, *o.Brier)
		}
		if o.CLVPoints != nil {
			clvs = append(clvs, *o.CLVPoints)
		}
		if o.PnLPerContract != nil {
			pnls = append(pnls, *o.PnLPerContract)
		}
	}

	if wins+losses > 0 {
		wr := float64(wins) / float64(wins+losses)
		row.WinRate = &wr
	}
	row.MeanExcessReturn = meanOf(excess)
	row.MeanBrier = meanOf(briers)
	row.MeanCLVPoints = meanOf(clvs)
	row.MeanPredictionPnL = meanOf(pnls)

	// The risk-adjusted ratio needs enough settled excess returns for a
	// stable stddev; below the minimum it stays null.
	for _, id := range excessIDs {
		row.RiskPerOutcome[id] = nil
	}
	if len(excess) >= minRatioN {
		sd := sampleStddev(excess)
		if sd > 0 {
			ratio := *row.MeanExcessReturn / sd
			row.RiskAdjusted = &ratio
			for i, id := range excessIDs {
				r := excess[i] / sd
				row.RiskPerOutcome[id] = &r
			}
		}
	}

	return row
}

// scoreRows runs the two-phase cross-sectional normalization: first
// collect each metric's population statistics, then score every account
// against them. A metric with fewer than minPopulation reporting accounts
// is excluded from every composite rather than defaulted.
func scoreRows(rows []*accountRow, minPopulation int) map[string]*float64 {
	type stats struct {
		mean, stddev float64
		n            int
	}
	populations := make(map[string]stats, len(metricsTable))

	// Phase 1: population statistics per metric.
	for _, m := range metricsTable {
		var values []float64
		for _, r := range rows {
			if v := m.value(r); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) < minPopulation {
			continue
		}
		mu := mean(values)
		populations[m.name] = stats{mean: mu, stddev: populationStddev(values, mu), n: len(values)}
	}

	// Phase 2: score each account over the metrics it reports.
	scores := make(map[string]*float64, len(rows))
	for _, r := range rows {
		var zs []float64
		for _, m := range metricsTable {
			pop, ok := populations[m.name]
			if !ok {
				continue
			}
			v := m.value(r)
			if v == nil {
				continue
			}
			z := 0.0
			if pop.stddev > 0 {
				z = (*v - pop.mean) / pop.stddev
			}
			if m.lowerBetter {
				z = -z
			}
			zs = append(zs, z)
		}
		if len(zs) == 0 {
			scores[r.AccountID] = nil
			continue
		}
		alpha := mean(zs)
		scores[r.AccountID] = &alpha
	}
	return scores
}

// sortRows orders rows by account id for deterministic output.
func sortRows(rows []*accountRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountID < rows[j].AccountID })
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := mean(values)
	return &m
}

// populationStddev is the ddof=0 stddev used for cross-sectional
// z-scores.
func populationStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// sampleStddev is the n-1 stddev used for the per-account risk-adjusted
// ratio.
func sampleStddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
