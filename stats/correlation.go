package stats

import (
	"math"
	"sort"
	"time"
)

// Pearson calculates the Pearson correlation coefficient between two
// equal-length series. Degenerate input (constant series, length
// mismatch handled by truncation) returns 0 rather than NaN.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return 0
	}

	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := float64(n)*sumXY - sumX*sumY
	denominator := math.Sqrt((float64(n)*sumX2 - sumX*sumX) * (float64(n)*sumY2 - sumY*sumY))

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// AlignDaily lines two daily series up on the union of their dates.
// Dates present in one series only are filled with zero: a day with no
// records means zero processed volume, not missing data.
func AlignDaily(a, b []DailyPoint) (x, y []float64) {
	byDateA := make(map[string]float64, len(a))
	byDateB := make(map[string]float64, len(b))
	dateSet := make(map[string]struct{}, len(a)+len(b))

	for _, p := range a {
		k := p.Date.Format(time.DateOnly)
		byDateA[k] = p.Value
		dateSet[k] = struct{}{}
	}
	for _, p := range b {
		k := p.Date.Format(time.DateOnly)
		byDateB[k] = p.Value
		dateSet[k] = struct{}{}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	x = make([]float64, len(dates))
	y = make([]float64, len(dates))
	for i, d := range dates {
		x[i] = byDateA[d]
		y[i] = byDateB[d]
	}
	return x, y
}

// CorrelatePairs computes the Pearson coefficient for every pair of
// series with at least minDays aligned observations. Pairs come back in
// deterministic lexical order, strongest magnitude first within ties
// left to the caller.
func CorrelatePairs(series map[string][]DailyPoint, minDays int) []CorrelationPair {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []CorrelationPair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			x, y := AlignDaily(series[names[i]], series[names[j]])
			if len(x) < minDays {
				continue
			}
			pairs = append(pairs, CorrelationPair{
				A:           names[i],
				B:           names[j],
				Coefficient: Pearson(x, y),
				SampleDays:  len(x),
			})
		}
	}
	return pairs
}
