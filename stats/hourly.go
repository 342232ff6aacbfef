package stats

// HourlyBreakdown summarizes the 24-hour load profile of the pipeline
type HourlyBreakdown struct {
	PeakHour         int     `json:"peak_hour"`
	ValleyHour       int     `json:"valley_hour"`
	BusinessPct      float64 `json:"business_pct"` // 08:00-18:00 share
	NightPct         float64 `json:"night_pct"`    // 22:00-06:00 share
	MaintenanceHours []int   `json:"maintenance_hours"`
}

// HourlyWindows classifies hours of the day from total counts per hour.
// Maintenance windows are hours running under half the hourly mean,
// candidates for batch jobs and upgrades.
func HourlyWindows(counts map[int]float64) HourlyBreakdown {
	b := HourlyBreakdown{PeakHour: -1, ValleyHour: -1}
	if len(counts) == 0 {
		return b
	}

	var total, business, night float64
	peakVal, valleyVal := -1.0, -1.0
	for hour := 0; hour < 24; hour++ {
		v, ok := counts[hour]
		if !ok {
			continue
		}
		total += v
		if hour >= 8 && hour <= 18 {
			business += v
		}
		if hour >= 22 || hour < 6 {
			night += v
		}
		if peakVal < 0 || v > peakVal {
			peakVal = v
			b.PeakHour = hour
		}
		if valleyVal < 0 || v < valleyVal {
			valleyVal = v
			b.ValleyHour = hour
		}
	}

	if total > 0 {
		b.BusinessPct = business / total * 100
		b.NightPct = night / total * 100
	}

	mean := total / float64(len(counts))
	for hour := 0; hour < 24; hour++ {
		if v, ok := counts[hour]; ok && v < mean*0.5 {
			b.MaintenanceHours = append(b.MaintenanceHours, hour)
		}
	}
	return b
}
