package stats

import (
	"math"
	"testing"
)

func TestHourlyWindows(t *testing.T) {
	counts := map[int]float64{
		3:  10,
		9:  100,
		14: 80,
		23: 20,
	}

	got := HourlyWindows(counts)

	if got.PeakHour != 9 {
		t.Errorf("expected peak hour 9, got %d", got.PeakHour)
	}
	if got.ValleyHour != 3 {
		t.Errorf("expected valley hour 3, got %d", got.ValleyHour)
	}

	// 180 of 210 records land inside 08:00-18:00
	if math.Abs(got.BusinessPct-180.0/210.0*100) > 1e-9 {
		t.Errorf("unexpected business share %v", got.BusinessPct)
	}
	// 30 of 210 land in the 22:00-06:00 night window
	if math.Abs(got.NightPct-30.0/210.0*100) > 1e-9 {
		t.Errorf("unexpected night share %v", got.NightPct)
	}

	// Hourly mean is 52.5; hours 3 and 23 run under half of it
	wantMaintenance := []int{3, 23}
	if len(got.MaintenanceHours) != len(wantMaintenance) {
		t.Fatalf("expected maintenance hours %v, got %v", wantMaintenance, got.MaintenanceHours)
	}
	for i, h := range wantMaintenance {
		if got.MaintenanceHours[i] != h {
			t.Errorf("expected maintenance hours %v, got %v", wantMaintenance, got.MaintenanceHours)
			break
		}
	}
}

func TestHourlyWindowsEmpty(t *testing.T) {
	got := HourlyWindows(nil)
	if got.PeakHour != -1 || got.ValleyHour != -1 {
		t.Errorf("expected sentinel hours for empty input, got %+v", got)
	}
	if got.BusinessPct != 0 || got.NightPct != 0 {
		t.Errorf("expected zero shares for empty input, got %+v", got)
	}
}
