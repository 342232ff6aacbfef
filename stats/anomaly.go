package stats

import (
	"math"
	"sort"
)

// Anomaly directions
const (
	DirectionSpike = "spike"
	DirectionDrop  = "drop"
)

// maxDeviationScore caps the reported score when the trailing window has
// zero variance; any departure from a constant baseline is flagged.
const maxDeviationScore = 100.0

// RollingAnomalies flags points that fall outside baseline +/- k*stddev,
// where the baseline is the mean of the trailing window of prior points.
// The first window points have no complete baseline and are never flagged.
func RollingAnomalies(points []DailyPoint, window int, k float64) []AnomalyPoint {
	if window < 2 || len(points) <= window {
		return nil
	}

	var flags []AnomalyPoint
	for i := window; i < len(points); i++ {
		baseline, stddev := windowStats(points[i-window : i])
		observed := points[i].Value

		var score float64
		if stddev > 0 {
			score = math.Abs(observed-baseline) / stddev
		} else if observed != baseline {
			score = maxDeviationScore
		}

		if score <= k {
			continue
		}

		direction := DirectionSpike
		if observed < baseline {
			direction = DirectionDrop
		}
		flags = append(flags, AnomalyPoint{
			Date:      points[i].Date,
			Observed:  observed,
			Baseline:  baseline,
			Deviation: score,
			Direction: direction,
		})
	}
	return flags
}

// CriticalLowDays flags days whose value falls under ratio of the series
// mean. These usually indicate collection gaps or pipeline outages rather
// than ordinary variance.
func CriticalLowDays(points []DailyPoint, ratio float64) []AnomalyPoint {
	mean := Mean(points)
	if mean <= 0 {
		return nil
	}
	threshold := mean * ratio

	var flags []AnomalyPoint
	for _, p := range points {
		if p.Value >= threshold {
			continue
		}
		stddev := StdDev(points)
		score := maxDeviationScore
		if stddev > 0 {
			score = (mean - p.Value) / stddev
		}
		flags = append(flags, AnomalyPoint{
			Date:      p.Date,
			Observed:  p.Value,
			Baseline:  mean,
			Deviation: score,
			Direction: DirectionDrop,
		})
	}
	return flags
}

// IQRFences returns the Tukey outlier fences (Q1-1.5*IQR, Q3+1.5*IQR)
// for a set of values. The lower fence is clamped at zero since sizes
// and volumes cannot be negative.
func IQRFences(values []float64) (lower, upper float64) {
	if len(values) == 0 {
		return 0, 0
	}
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	lower = q1 - 1.5*iqr
	if lower < 0 {
		lower = 0
	}
	upper = q3 + 1.5*iqr
	return lower, upper
}

// Quantile computes the q-th quantile with linear interpolation between
// the two nearest ranks, matching the convention of the legacy dashboard.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func windowStats(window []DailyPoint) (mean, stddev float64) {
	var sum float64
	for _, p := range window {
		sum += p.Value
	}
	mean = sum / float64(len(window))

	var ss float64
	for _, p := range window {
		ss += (p.Value - mean) * (p.Value - mean)
	}
	stddev = math.Sqrt(ss / float64(len(window)))
	return mean, stddev
}
