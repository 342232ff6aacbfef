package stats

import "time"

// Trend directions
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// DailyPoint is a single observation of a daily series
type DailyPoint struct {
	Date  time.Time
	Value float64
}

// TrendResult describes a least-squares fit over a daily series
type TrendResult struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"` // R-squared of the fit, 0..1
	Points     int     `json:"points"`
}

// WeekdayProfile summarizes behavior of one weekday across the period
type WeekdayProfile struct {
	Weekday      time.Weekday `json:"weekday"`
	Mean         float64      `json:"mean"`
	StdDev       float64      `json:"std_dev"`
	Consistency  float64      `json:"consistency_pct"` // 0..100
	SampleWeeks  int          `json:"sample_weeks"`    // complete weeks scored
	DominantSign int          `json:"dominant_sign"`   // +1 above overall mean, -1 below
}

// AnomalyPoint flags one observation outside its rolling baseline band
type AnomalyPoint struct {
	Date      time.Time `json:"date"`
	Observed  float64   `json:"observed"`
	Baseline  float64   `json:"baseline"`
	Deviation float64   `json:"deviation_score"` // distance in standard deviations
	Direction string    `json:"direction"`       // spike or drop
}

// CorrelationPair is the Pearson coefficient for one country pair
type CorrelationPair struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Coefficient float64 `json:"coefficient"`
	SampleDays  int     `json:"sample_days"`
}

// ForecastResult is a naive next-day projection
type ForecastResult struct {
	Valid     bool    `json:"valid"`
	NextValue float64 `json:"next_value"`
	TrendPct  float64 `json:"trend_pct"` // half-vs-half change over the last window
}
