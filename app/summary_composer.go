package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"flytxt-analytics/cache"
	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/realtime"
	"flytxt-analytics/stats"
)

// summaryCacheKey mirrors the key the API reads the cached snapshot from
const summaryCacheKey = "summary:latest"

// SummaryComposer periodically folds the analyzer outputs into one KPI
// snapshot, persists it and pushes a refresh event to dashboards.
type SummaryComposer struct {
	repo     *database.LogRepository
	redis    *cache.RedisClient
	broker   *realtime.Broker
	analysis config.AnalysisConfig
	done     chan bool
}

// NewSummaryComposer creates a new summary composer
func NewSummaryComposer(repo *database.LogRepository, redis *cache.RedisClient, broker *realtime.Broker, analysis config.AnalysisConfig) *SummaryComposer {
	return &SummaryComposer{
		repo:     repo,
		redis:    redis,
		broker:   broker,
		analysis: analysis,
		done:     make(chan bool),
	}
}

// Start begins the composition loop
func (sc *SummaryComposer) Start() {
	log.Println("📋 Summary Composer started")

	ticker := time.NewTicker(time.Duration(sc.analysis.SummaryIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial run
	sc.compose()

	for {
		select {
		case <-ticker.C:
			sc.compose()
		case <-sc.done:
			log.Println("📋 Summary Composer stopped")
			return
		}
	}
}

// Stop stops the composition loop
func (sc *SummaryComposer) Stop() {
	sc.done <- true
}

// compose builds the KPI snapshot from the latest stored analyzer outputs
func (sc *SummaryComposer) compose() {
	log.Println("📋 Composing KPI summary...")

	since := time.Now().AddDate(0, 0, -3*sc.analysis.TrendWindowDays)
	now := time.Now().UTC()

	dataset, err := sc.repo.Stats(since)
	if err != nil {
		log.Printf("⚠️  Failed to load dataset stats: %v", err)
		return
	}

	input := stats.SummaryInput{
		TotalRecords:   dataset.TotalRecords,
		SuccessRecords: dataset.SuccessRecords,
		Countries:      dataset.Countries,
		DaysWithData:   dataset.DaysWithData,
		FirstDate:      dataset.FirstDate,
		LastDate:       dataset.LastDate,
	}
	if input.FirstDate.Unix() == 0 {
		input.FirstDate = time.Time{}
		input.LastDate = time.Time{}
	}

	if trends, err := sc.repo.GetTrendResults(); err == nil {
		for _, t := range trends {
			if t.Scope == database.ScopeGlobal {
				input.GlobalTrend = stats.TrendResult{
					Slope:      t.Slope,
					Intercept:  t.Intercept,
					Direction:  t.Direction,
					Confidence: t.Confidence,
				}
				break
			}
		}
	}

	anomalySince := time.Now().AddDate(0, 0, -sc.analysis.RollingWindowDays)
	if flags, err := sc.repo.GetAnomalies("", 0, anomalySince); err == nil {
		input.AnomalyCount = len(flags)
	}

	if totals, err := sc.repo.CountryTotals(since); err == nil && len(totals) > 0 {
		var grand int64
		for _, t := range totals {
			grand += t.RecordCount
		}
		input.TopCountry = totals[0].Country
		if grand > 0 {
			input.TopCountryPct = float64(totals[0].RecordCount) / float64(grand) * 100
		}
	}

	summary := stats.ComposeSummary(input)

	payload, err := json.Marshal(summary)
	if err != nil {
		log.Printf("⚠️  Failed to marshal summary: %v", err)
		return
	}

	if err := sc.repo.SaveSummary(&database.PipelineSummary{
		GeneratedAt: now,
		Payload:     string(payload),
	}); err != nil {
		log.Printf("⚠️  Failed to persist summary: %v", err)
		return
	}

	if sc.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		ttl := time.Duration(sc.analysis.SummaryIntervalMinutes+5) * time.Minute
		if err := sc.redis.Set(ctx, summaryCacheKey, summary, ttl); err != nil {
			log.Printf("⚠️  Failed to cache summary: %v", err)
		}
		cancel()
	}

	sc.broker.Broadcast(realtime.EventSummaryRefresh, map[string]interface{}{
		"generated_at": now,
	})
	log.Println("✅ KPI summary composed")
}
