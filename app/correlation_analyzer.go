package app

import (
	"log"
	"time"

	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/stats"
)

// CorrelationAnalyzer periodically recomputes country pair correlations
type CorrelationAnalyzer struct {
	repo     *database.LogRepository
	analysis config.AnalysisConfig
	done     chan bool
}

// NewCorrelationAnalyzer creates a new correlation analyzer
func NewCorrelationAnalyzer(repo *database.LogRepository, analysis config.AnalysisConfig) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{
		repo:     repo,
		analysis: analysis,
		done:     make(chan bool),
	}
}

// Start begins the recompute loop
func (ca *CorrelationAnalyzer) Start() {
	log.Println("🔗 Correlation Analyzer started")

	ticker := time.NewTicker(time.Duration(ca.analysis.CorrelationIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial run
	ca.computeCorrelations()

	for {
		select {
		case <-ticker.C:
			ca.computeCorrelations()
		case <-ca.done:
			log.Println("🔗 Correlation Analyzer stopped")
			return
		}
	}
}

// Stop stops the recompute loop
func (ca *CorrelationAnalyzer) Stop() {
	ca.done <- true
}

// computeCorrelations rebuilds the per-country daily series and refreshes
// the Pearson coefficient for every country pair with enough overlap.
func (ca *CorrelationAnalyzer) computeCorrelations() {
	log.Println("🔗 Recomputing country correlations...")

	since := time.Now().AddDate(0, 0, -3*ca.analysis.TrendWindowDays)
	now := time.Now().UTC()

	series := make(map[string][]stats.DailyPoint, len(database.Countries))
	for _, country := range database.Countries {
		aggregates, err := ca.repo.DailyAggregates(country, since)
		if err != nil {
			log.Printf("⚠️  Failed to load daily series for %s: %v", country, err)
			continue
		}
		if len(aggregates) == 0 {
			continue
		}
		series[country] = toPoints(aggregates)
	}

	pairs := stats.CorrelatePairs(series, ca.analysis.CorrelationMinDays)
	if len(pairs) == 0 {
		log.Println("🔗 Not enough overlapping data for correlations yet")
		return
	}

	rows := make([]database.CountryCorrelation, len(pairs))
	for i, p := range pairs {
		rows[i] = database.CountryCorrelation{
			CountryA:    p.A,
			CountryB:    p.B,
			Coefficient: p.Coefficient,
			SampleDays:  p.SampleDays,
			ComputedAt:  now,
		}
	}

	if err := ca.repo.ReplaceCorrelations(rows); err != nil {
		log.Printf("⚠️  Failed to store correlations: %v", err)
		return
	}
	log.Printf("✅ Correlation recompute complete: %d pairs", len(rows))
}
