package app

import (
	"log"
	"time"

	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/stats"
)

// PeriodicityAnalyzer periodically rebuilds the weekday load profiles
type PeriodicityAnalyzer struct {
	repo     *database.LogRepository
	analysis config.AnalysisConfig
	done     chan bool
}

// NewPeriodicityAnalyzer creates a new periodicity analyzer
func NewPeriodicityAnalyzer(repo *database.LogRepository, analysis config.AnalysisConfig) *PeriodicityAnalyzer {
	return &PeriodicityAnalyzer{
		repo:     repo,
		analysis: analysis,
		done:     make(chan bool),
	}
}

// Start begins the recompute loop
func (pa *PeriodicityAnalyzer) Start() {
	log.Println("📅 Periodicity Analyzer started")

	ticker := time.NewTicker(time.Duration(pa.analysis.PeriodicityIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial run
	pa.computeProfiles()

	for {
		select {
		case <-ticker.C:
			pa.computeProfiles()
		case <-pa.done:
			log.Println("📅 Periodicity Analyzer stopped")
			return
		}
	}
}

// Stop stops the recompute loop
func (pa *PeriodicityAnalyzer) Stop() {
	pa.done <- true
}

// computeProfiles rebuilds weekday profiles for every scope. Weekday
// patterns need several weeks of history, so this looks back further
// than the trend window.
func (pa *PeriodicityAnalyzer) computeProfiles() {
	log.Println("📅 Rebuilding weekday profiles...")

	since := time.Now().AddDate(0, 0, -3*pa.analysis.TrendWindowDays)
	now := time.Now().UTC()

	var rows []database.WeekdayProfileDB

	global, err := pa.repo.GlobalDailyAggregates(since)
	if err != nil {
		log.Printf("⚠️  Failed to load global daily series: %v", err)
		return
	}
	rows = append(rows, pa.profile(database.ScopeGlobal, global, now)...)

	for _, country := range database.Countries {
		aggregates, err := pa.repo.DailyAggregates(country, since)
		if err != nil {
			log.Printf("⚠️  Failed to load daily series for %s: %v", country, err)
			continue
		}
		rows = append(rows, pa.profile(country, aggregates, now)...)
	}

	if len(rows) == 0 {
		log.Println("📅 No data yet, skipping weekday profile store")
		return
	}

	if err := pa.repo.ReplaceWeekdayProfiles(rows); err != nil {
		log.Printf("⚠️  Failed to store weekday profiles: %v", err)
		return
	}
	log.Printf("✅ Weekday profile rebuild complete: %d rows", len(rows))
}

func (pa *PeriodicityAnalyzer) profile(scope string, aggregates []database.DailyAggregate, now time.Time) []database.WeekdayProfileDB {
	points := make([]stats.DailyPoint, len(aggregates))
	for i, a := range aggregates {
		points[i] = stats.DailyPoint{Date: a.Date, Value: float64(a.RecordCount)}
	}

	profiles := stats.WeekdayProfiles(points)
	rows := make([]database.WeekdayProfileDB, len(profiles))
	for i, p := range profiles {
		rows[i] = database.WeekdayProfileDB{
			Scope:          scope,
			Weekday:        int(p.Weekday),
			MeanVolume:     p.Mean,
			StdDev:         p.StdDev,
			ConsistencyPct: p.Consistency,
			SampleWeeks:    p.SampleWeeks,
			DominantSign:   p.DominantSign,
			ComputedAt:     now,
		}
	}
	return rows
}
