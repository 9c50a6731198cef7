package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Leaderboard Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Accounts: %d | Windows: %d\n\n", r.AccountCount, r.WindowCount))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Accounts | %d |\n", r.DataSummary.TotalAccounts))
	sb.WriteString(fmt.Sprintf("| Total Signals | %d |\n", r.DataSummary.TotalSignals))
	sb.WriteString(fmt.Sprintf("| Pending Signals | %d |\n", r.DataSummary.PendingSignals))
	sb.WriteString(fmt.Sprintf("| Settled Signals | %d |\n", r.DataSummary.SettledSignals))
	sb.WriteString(fmt.Sprintf("| Expired Signals | %d |\n", r.DataSummary.ExpiredSignals))
	sb.WriteString(fmt.Sprintf("| Date Range Start (ms) | %d |\n", r.DataSummary.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Date Range End (ms) | %d |\n", r.DataSummary.DateRangeEnd))
	sb.WriteString("\n")

	// Asset Class Breakdown
	sb.WriteString("## Asset Class Breakdown\n\n")
	if len(r.ClassBreakdown) > 0 {
		sb.WriteString("| Class | Settled | Wins | Losses | Pushes | WinRate |\n")
		sb.WriteString("|-------|---------|------|--------|--------|--------|\n")
		for _, c := range r.ClassBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %s |\n",
				c.AssetClass, c.Settled, c.Wins, c.Losses, c.Pushes, mdFloat(c.WinRate)))
		}
	} else {
		sb.WriteString("No settled outcomes available.\n")
	}
	sb.WriteString("\n")

	// Leaderboards, one table per window
	for _, w := range r.Windows {
		sb.WriteString(fmt.Sprintf("## Leaderboard %dd (%s to %s)\n\n", w.WindowDays, w.StartDate, w.EndDate))
		if len(w.Rows) == 0 {
			sb.WriteString("No entries for this window.\n\n")
			continue
		}
		sb.WriteString("| Rank | Handle | Signals | WinRate | Excess | RiskAdj | Brier | CLV | PredPnL | Alpha |\n")
		sb.WriteString("|------|--------|---------|---------|--------|---------|-------|-----|---------|-------|\n")
		for _, row := range w.Rows {
			handle := row.Handle
			if handle == "" {
				handle = row.AccountID
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				row.Rank, handle, row.NSignals,
				mdFloat(row.WinRate),
				mdFloat(row.MeanExcessReturn),
				mdFloat(row.RiskAdjusted),
				mdFloat(row.MeanBrier),
				mdFloat(row.MeanCLVPoints),
				mdFloat(row.MeanPredictionPnL),
				mdFloat(row.AlphaScore)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func mdFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
