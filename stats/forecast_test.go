package stats

import (
	"math"
	"testing"
)

func TestForecastTooShort(t *testing.T) {
	if got := Forecast(series(100, 200)); got.Valid {
		t.Errorf("expected invalid forecast for 2 points, got %+v", got)
	}
}

func TestForecastFlatSeries(t *testing.T) {
	got := Forecast(series(100, 100, 100, 100, 100, 100, 100))
	if !got.Valid {
		t.Fatal("expected valid forecast")
	}
	if math.Abs(got.NextValue-100) > 1e-9 {
		t.Errorf("expected projection 100 on a flat series, got %v", got.NextValue)
	}
	if got.TrendPct != 0 {
		t.Errorf("expected zero trend on a flat series, got %v", got.TrendPct)
	}
}

func TestForecastGrowingSeries(t *testing.T) {
	got := Forecast(series(10, 20, 30, 40, 50, 60, 70))
	if !got.Valid {
		t.Fatal("expected valid forecast")
	}

	// First half mean 20, second half mean 55: +175%. Base is the mean
	// of the last three days (60), projected to 60 * 2.75 = 165.
	if math.Abs(got.TrendPct-175) > 1e-9 {
		t.Errorf("expected trend +175%%, got %v", got.TrendPct)
	}
	if math.Abs(got.NextValue-165) > 1e-9 {
		t.Errorf("expected projection 165, got %v", got.NextValue)
	}
}

func TestForecastUsesTrailingWindowOnly(t *testing.T) {
	// Ancient history outside the trailing week must not move the projection
	long := series(9999, 9999, 9999, 10, 20, 30, 40, 50, 60, 70)
	short := series(10, 20, 30, 40, 50, 60, 70)

	a := Forecast(long)
	b := Forecast(short)
	if math.Abs(a.NextValue-b.NextValue) > 1e-9 {
		t.Errorf("trailing-window forecast differs: %v vs %v", a.NextValue, b.NextValue)
	}
}
