package stats

import (
	"math"
	"sort"
	"time"
)

// WeekdayProfiles groups a daily series by weekday and scores how
// consistently each weekday lands on the same side of the overall mean.
// Only ISO weeks with all seven days present contribute to consistency;
// per-weekday means and deviations use every observation.
func WeekdayProfiles(points []DailyPoint) []WeekdayProfile {
	if len(points) == 0 {
		return nil
	}

	overall := Mean(points)

	// Per-weekday accumulation
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, p := range points {
		wd := p.Date.Weekday()
		sums[wd] += p.Value
		counts[wd]++
	}

	// Group points into ISO weeks and keep only complete ones
	type weekKey struct {
		year int
		week int
	}
	weeks := make(map[weekKey]map[time.Weekday]float64)
	for _, p := range points {
		y, w := p.Date.ISOWeek()
		k := weekKey{y, w}
		if weeks[k] == nil {
			weeks[k] = make(map[time.Weekday]float64)
		}
		weeks[k][p.Date.Weekday()] = p.Value
	}

	// Deviation signs per weekday across complete weeks
	signs := make(map[time.Weekday][]int)
	for _, days := range weeks {
		if len(days) < 7 {
			continue
		}
		for wd, v := range days {
			sign := 0
			switch {
			case v > overall:
				sign = 1
			case v < overall:
				sign = -1
			}
			signs[wd] = append(signs[wd], sign)
		}
	}

	profiles := make([]WeekdayProfile, 0, len(counts))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		count, ok := counts[wd]
		if !ok {
			continue
		}
		mean := sums[wd] / float64(count)

		var ss float64
		for _, p := range points {
			if p.Date.Weekday() == wd {
				ss += (p.Value - mean) * (p.Value - mean)
			}
		}
		stddev := math.Sqrt(ss / float64(count))

		profile := WeekdayProfile{
			Weekday: wd,
			Mean:    mean,
			StdDev:  stddev,
		}

		if obs := signs[wd]; len(obs) > 0 {
			pos, neg := 0, 0
			for _, s := range obs {
				if s > 0 {
					pos++
				} else if s < 0 {
					neg++
				}
			}
			dominant := 1
			matches := pos
			if neg > pos {
				dominant = -1
				matches = neg
			}
			profile.DominantSign = dominant
			profile.SampleWeeks = len(obs)
			profile.Consistency = float64(matches) / float64(len(obs)) * 100
		}

		profiles = append(profiles, profile)
	}

	// Monday-first ordering for presentation
	sort.Slice(profiles, func(i, j int) bool {
		return mondayFirst(profiles[i].Weekday) < mondayFirst(profiles[j].Weekday)
	})
	return profiles
}

func mondayFirst(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
