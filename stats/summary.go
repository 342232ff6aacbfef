package stats

import "time"

// SummaryInput carries the upstream analyzer outputs the composer folds
// into the KPI snapshot. Zero values are acceptable everywhere; the
// composer never fails on sparse input.
type SummaryInput struct {
	TotalRecords   int64
	SuccessRecords int64
	Countries      int
	DaysWithData   int
	FirstDate      time.Time
	LastDate       time.Time
	GlobalTrend    TrendResult
	AnomalyCount   int
	TopCountry     string
	TopCountryPct  float64
}

// summaryKeys is the fixed KPI key set. ComposeSummary always emits
// exactly these keys so dashboard widgets can bind to them blindly.
var summaryKeys = []string{
	"total_records",
	"active_countries",
	"days_observed",
	"calendar_days",
	"availability_pct",
	"avg_records_per_day",
	"success_rate_pct",
	"trend_direction",
	"trend_confidence",
	"anomaly_count",
	"top_country",
	"top_country_share_pct",
}

// SummaryKeys returns the stable KPI key set
func SummaryKeys() []string {
	keys := make([]string, len(summaryKeys))
	copy(keys, summaryKeys)
	return keys
}

// ComposeSummary folds analyzer outputs into a flat KPI mapping with a
// fixed key set regardless of input size.
func ComposeSummary(in SummaryInput) map[string]interface{} {
	calendarDays := 0
	if !in.FirstDate.IsZero() && !in.LastDate.IsZero() && !in.LastDate.Before(in.FirstDate) {
		calendarDays = int(in.LastDate.Sub(in.FirstDate).Hours()/24) + 1
	}

	availability := 0.0
	if calendarDays > 0 {
		availability = float64(in.DaysWithData) / float64(calendarDays) * 100
	}

	avgPerDay := 0.0
	if in.DaysWithData > 0 {
		avgPerDay = float64(in.TotalRecords) / float64(in.DaysWithData)
	}

	successRate := 0.0
	if in.TotalRecords > 0 {
		successRate = float64(in.SuccessRecords) / float64(in.TotalRecords) * 100
	}

	direction := in.GlobalTrend.Direction
	if direction == "" {
		direction = TrendFlat
	}

	return map[string]interface{}{
		"total_records":         in.TotalRecords,
		"active_countries":      in.Countries,
		"days_observed":         in.DaysWithData,
		"calendar_days":         calendarDays,
		"availability_pct":      availability,
		"avg_records_per_day":   avgPerDay,
		"success_rate_pct":      successRate,
		"trend_direction":       direction,
		"trend_confidence":      in.GlobalTrend.Confidence,
		"anomaly_count":         in.AnomalyCount,
		"top_country":           in.TopCountry,
		"top_country_share_pct": in.TopCountryPct,
	}
}
