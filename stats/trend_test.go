package stats

import (
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(values ...float64) []DailyPoint {
	points := make([]DailyPoint, len(values))
	for i, v := range values {
		points[i] = DailyPoint{Date: day(i), Value: v}
	}
	return points
}

func TestLinearTrend(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		noiseRatio    float64
		wantDirection string
		wantSlope     float64
		wantConf      float64
	}{
		{
			name:          "Steadily increasing",
			values:        []float64{10, 15, 20, 25, 30, 35, 40},
			noiseRatio:    0.05,
			wantDirection: TrendUp,
			wantSlope:     5,
			wantConf:      1,
		},
		{
			name:          "Steadily decreasing",
			values:        []float64{40, 35, 30, 25, 20, 15, 10},
			noiseRatio:    0.05,
			wantDirection: TrendDown,
			wantSlope:     -5,
			wantConf:      1,
		},
		{
			name:          "Constant series is flat",
			values:        []float64{100, 100, 100, 100, 100},
			noiseRatio:    0.05,
			wantDirection: TrendFlat,
			wantSlope:     0,
			wantConf:      0,
		},
		{
			name:          "Tiny drift stays inside the noise band",
			values:        []float64{100, 100.1, 100.2, 100.3, 100.4},
			noiseRatio:    0.05,
			wantDirection: TrendFlat,
			wantSlope:     0.1,
			wantConf:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearTrend(series(tt.values...), tt.noiseRatio)
			if got.Direction != tt.wantDirection {
				t.Errorf("expected direction %s, got %s", tt.wantDirection, got.Direction)
			}
			if math.Abs(got.Slope-tt.wantSlope) > 1e-9 {
				t.Errorf("expected slope %v, got %v", tt.wantSlope, got.Slope)
			}
			if math.Abs(got.Confidence-tt.wantConf) > 1e-9 {
				t.Errorf("expected confidence %v, got %v", tt.wantConf, got.Confidence)
			}
		})
	}
}

func TestLinearTrendShortSeries(t *testing.T) {
	got := LinearTrend(series(42), 0.05)
	if got.Direction != TrendFlat {
		t.Errorf("expected flat for single point, got %s", got.Direction)
	}
	if got.Confidence != 0 {
		t.Errorf("expected zero confidence for single point, got %v", got.Confidence)
	}

	got = LinearTrend(nil, 0.05)
	if got.Direction != TrendFlat || got.Points != 0 {
		t.Errorf("expected flat empty result, got %+v", got)
	}
}

func TestRollingMean(t *testing.T) {
	got := RollingMean(series(10, 20, 30, 40), 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestMeanAndStdDev(t *testing.T) {
	points := series(2, 4, 4, 4, 5, 5, 7, 9)
	if m := Mean(points); math.Abs(m-5) > 1e-9 {
		t.Errorf("expected mean 5, got %v", m)
	}
	if sd := StdDev(points); math.Abs(sd-2) > 1e-9 {
		t.Errorf("expected stddev 2, got %v", sd)
	}
	if m := Mean(nil); m != 0 {
		t.Errorf("expected zero mean for empty series, got %v", m)
	}
}
