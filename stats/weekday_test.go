package stats

import (
	"math"
	"testing"
	"time"
)

// weekdaySeries builds daily points from 2024-01-01 (a Monday) with
// weekday values on Monday-Friday and weekend values on Saturday-Sunday.
func weekdaySeries(days int, weekdayVal, weekendVal float64) []DailyPoint {
	points := make([]DailyPoint, days)
	for i := 0; i < days; i++ {
		d := day(i)
		v := weekdayVal
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			v = weekendVal
		}
		points[i] = DailyPoint{Date: d, Value: v}
	}
	return points
}

func TestWeekdayProfilesConsistency(t *testing.T) {
	// Three complete weeks of a strict weekday/weekend split
	profiles := WeekdayProfiles(weekdaySeries(21, 100, 10))
	if len(profiles) != 7 {
		t.Fatalf("expected 7 profiles, got %d", len(profiles))
	}

	byDay := make(map[time.Weekday]WeekdayProfile)
	for _, p := range profiles {
		byDay[p.Weekday] = p
	}

	monday := byDay[time.Monday]
	if monday.SampleWeeks != 3 {
		t.Errorf("expected 3 sample weeks for Monday, got %d", monday.SampleWeeks)
	}
	if monday.Consistency != 100 {
		t.Errorf("expected 100%% consistency for Monday, got %v", monday.Consistency)
	}
	if monday.DominantSign != 1 {
		t.Errorf("expected Monday above the mean, got sign %d", monday.DominantSign)
	}
	if math.Abs(monday.Mean-100) > 1e-9 {
		t.Errorf("expected Monday mean 100, got %v", monday.Mean)
	}

	saturday := byDay[time.Saturday]
	if saturday.Consistency != 100 {
		t.Errorf("expected 100%% consistency for Saturday, got %v", saturday.Consistency)
	}
	if saturday.DominantSign != -1 {
		t.Errorf("expected Saturday below the mean, got sign %d", saturday.DominantSign)
	}
}

func TestWeekdayProfilesConsistencyBounds(t *testing.T) {
	// Noisy series: consistency must still land in [0, 100]
	values := []float64{90, 120, 80, 110, 95, 30, 20, 130, 70, 105, 85, 100, 25, 15}
	points := make([]DailyPoint, len(values))
	for i, v := range values {
		points[i] = DailyPoint{Date: day(i), Value: v}
	}

	for _, p := range WeekdayProfiles(points) {
		if p.Consistency < 0 || p.Consistency > 100 {
			t.Errorf("%s: consistency %v out of range", p.Weekday, p.Consistency)
		}
	}
}

func TestWeekdayProfilesPartialWeekExcluded(t *testing.T) {
	// Three complete weeks plus a dangling Monday and Tuesday
	points := weekdaySeries(23, 100, 10)
	profiles := WeekdayProfiles(points)

	for _, p := range profiles {
		if p.Weekday != time.Monday {
			continue
		}
		// The fourth, incomplete week must not be scored
		if p.SampleWeeks != 3 {
			t.Errorf("expected 3 sample weeks, got %d", p.SampleWeeks)
		}
		// But its observations still feed the mean
		if math.Abs(p.Mean-100) > 1e-9 {
			t.Errorf("expected Monday mean 100, got %v", p.Mean)
		}
	}
}

func TestWeekdayProfilesOrdering(t *testing.T) {
	profiles := WeekdayProfiles(weekdaySeries(14, 100, 10))
	if profiles[0].Weekday != time.Monday {
		t.Errorf("expected Monday first, got %s", profiles[0].Weekday)
	}
	if profiles[len(profiles)-1].Weekday != time.Sunday {
		t.Errorf("expected Sunday last, got %s", profiles[len(profiles)-1].Weekday)
	}
}

func TestWeekdayProfilesEmpty(t *testing.T) {
	if got := WeekdayProfiles(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
