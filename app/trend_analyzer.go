package app

import (
	"log"
	"time"

	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/stats"
)

// TrendAnalyzer periodically refits volume trends per country and globally
type TrendAnalyzer struct {
	repo     *database.LogRepository
	analysis config.AnalysisConfig
	done     chan bool
}

// NewTrendAnalyzer creates a new trend analyzer
func NewTrendAnalyzer(repo *database.LogRepository, analysis config.AnalysisConfig) *TrendAnalyzer {
	return &TrendAnalyzer{
		repo:     repo,
		analysis: analysis,
		done:     make(chan bool),
	}
}

// Start begins the recompute loop
func (ta *TrendAnalyzer) Start() {
	log.Println("📈 Trend Analyzer started")

	ticker := time.NewTicker(time.Duration(ta.analysis.TrendIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial run
	ta.computeTrends()

	for {
		select {
		case <-ticker.C:
			ta.computeTrends()
		case <-ta.done:
			log.Println("📈 Trend Analyzer stopped")
			return
		}
	}
}

// Stop stops the recompute loop
func (ta *TrendAnalyzer) Stop() {
	ta.done <- true
}

// computeTrends refits the daily record-count series for every scope
func (ta *TrendAnalyzer) computeTrends() {
	log.Println("📈 Recomputing volume trends...")

	since := time.Now().AddDate(0, 0, -ta.analysis.TrendWindowDays)
	now := time.Now().UTC()

	var results []database.TrendResultDB

	global, err := ta.repo.GlobalDailyAggregates(since)
	if err != nil {
		log.Printf("⚠️  Failed to load global daily series: %v", err)
		return
	}
	results = append(results, ta.fit(database.ScopeGlobal, global, now))

	for _, country := range database.Countries {
		aggregates, err := ta.repo.DailyAggregates(country, since)
		if err != nil {
			log.Printf("⚠️  Failed to load daily series for %s: %v", country, err)
			continue
		}
		results = append(results, ta.fit(country, aggregates, now))
	}

	if err := ta.repo.ReplaceTrendResults(results); err != nil {
		log.Printf("⚠️  Failed to store trend results: %v", err)
		return
	}
	log.Printf("✅ Trend recompute complete: %d scopes", len(results))
}

func (ta *TrendAnalyzer) fit(scope string, aggregates []database.DailyAggregate, now time.Time) database.TrendResultDB {
	points := make([]stats.DailyPoint, len(aggregates))
	for i, a := range aggregates {
		points[i] = stats.DailyPoint{Date: a.Date, Value: float64(a.RecordCount)}
	}

	trend := stats.LinearTrend(points, ta.analysis.TrendNoiseRatio)
	return database.TrendResultDB{
		Scope:      scope,
		Slope:      trend.Slope,
		Intercept:  trend.Intercept,
		Direction:  trend.Direction,
		Confidence: trend.Confidence,
		WindowDays: ta.analysis.TrendWindowDays,
		ComputedAt: now,
	}
}
