package stats

import "math"

// LinearTrend fits a least-squares line over a time-ordered daily series.
// Direction is the sign of the slope once the projected change over the
// series exceeds noiseRatio of the series mean; smaller movements are flat.
// Fewer than 2 points yields a flat result with zero confidence.
func LinearTrend(points []DailyPoint, noiseRatio float64) TrendResult {
	n := len(points)
	if n < 2 {
		return TrendResult{Direction: TrendFlat, Points: n}
	}

	// x is the day index 0..n-1; dates are assumed ordered by the caller
	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumX2 += x * x
	}

	fn := float64(n)
	denominator := fn*sumX2 - sumX*sumX
	if denominator == 0 {
		return TrendResult{Direction: TrendFlat, Points: n}
	}

	slope := (fn*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / fn
	mean := sumY / fn

	// R-squared from residuals
	var ssRes, ssTot float64
	for i, p := range points {
		fit := intercept + slope*float64(i)
		ssRes += (p.Value - fit) * (p.Value - fit)
		ssTot += (p.Value - mean) * (p.Value - mean)
	}
	confidence := 0.0
	if ssTot > 0 {
		confidence = 1 - ssRes/ssTot
		if confidence < 0 {
			confidence = 0
		}
	}

	direction := TrendFlat
	projected := slope * float64(n-1)
	if mean != 0 && math.Abs(projected) >= math.Abs(mean)*noiseRatio {
		if slope > 0 {
			direction = TrendUp
		} else {
			direction = TrendDown
		}
	} else if mean == 0 && slope != 0 {
		if slope > 0 {
			direction = TrendUp
		} else {
			direction = TrendDown
		}
	}

	return TrendResult{
		Slope:      slope,
		Intercept:  intercept,
		Direction:  direction,
		Confidence: confidence,
		Points:     n,
	}
}

// RollingMean computes the trailing mean with the given window.
// Early positions use however many points are available (min one).
func RollingMean(points []DailyPoint, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		sum += p.Value
		if i >= window {
			sum -= points[i-window].Value
		}
		count := i + 1
		if count > window {
			count = window
		}
		out[i] = sum / float64(count)
	}
	return out
}

// Mean returns the arithmetic mean of the series values
func Mean(points []DailyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

// StdDev returns the population standard deviation of the series values
func StdDev(points []DailyPoint) float64 {
	n := len(points)
	if n == 0 {
		return 0
	}
	mean := Mean(points)
	var ss float64
	for _, p := range points {
		ss += (p.Value - mean) * (p.Value - mean)
	}
	return math.Sqrt(ss / float64(n))
}
