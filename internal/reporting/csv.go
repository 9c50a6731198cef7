package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders every window's leaderboard rows as one flat CSV
// string. Nullable metrics render as empty fields.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("window_days,start_date,end_date,rank,account_id,handle,n_signals,")
	sb.WriteString("win_rate,mean_excess_return,risk_adjusted,mean_brier,mean_clv_points,mean_prediction_pnl,alpha_score\n")

	for _, w := range r.Windows {
		for _, row := range w.Rows {
			sb.WriteString(fmt.Sprintf("%d,%s,%s,%d,%s,%s,%d,%s,%s,%s,%s,%s,%s,%s\n",
				row.WindowDays,
				row.StartDate,
				row.EndDate,
				row.Rank,
				row.AccountID,
				row.Handle,
				row.NSignals,
				csvFloat(row.WinRate),
				csvFloat(row.MeanExcessReturn),
				csvFloat(row.RiskAdjusted),
				csvFloat(row.MeanBrier),
				csvFloat(row.MeanCLVPoints),
				csvFloat(row.MeanPredictionPnL),
				csvFloat(row.AlphaScore),
			))
		}
	}

	return sb.String()
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
