package app

import (
	"log"
	"time"

	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/realtime"
	"flytxt-analytics/stats"
)

// fileSizeSample caps how many recent per-file size observations feed
// the outlier fences on each pass.
const fileSizeSample = 5000

// AnomalyDetector periodically rescans the series for baseline departures
type AnomalyDetector struct {
	repo     *database.LogRepository
	broker   *realtime.Broker
	analysis config.AnalysisConfig
	done     chan bool
}

// NewAnomalyDetector creates a new anomaly detector
func NewAnomalyDetector(repo *database.LogRepository, broker *realtime.Broker, analysis config.AnalysisConfig) *AnomalyDetector {
	return &AnomalyDetector{
		repo:     repo,
		broker:   broker,
		analysis: analysis,
		done:     make(chan bool),
	}
}

// Start begins the detection loop
func (ad *AnomalyDetector) Start() {
	log.Println("🚨 Anomaly Detector started")

	ticker := time.NewTicker(time.Duration(ad.analysis.AnomalyIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial run
	ad.detect()

	for {
		select {
		case <-ticker.C:
			ad.detect()
		case <-ad.done:
			log.Println("🚨 Anomaly Detector stopped")
			return
		}
	}
}

// Stop stops the detection loop
func (ad *AnomalyDetector) Stop() {
	ad.done <- true
}

// detect runs every anomaly pass: daily baselines per scope, critical
// lows, hourly baselines and file size outliers. Each kind is a full
// recompute replacing the previous flags of that kind.
func (ad *AnomalyDetector) detect() {
	log.Println("🚨 Running anomaly detection pass...")

	total := 0
	total += ad.detectDateAnomalies()
	total += ad.detectCriticalLows()
	total += ad.detectHourAnomalies()
	total += ad.detectFileSizeOutliers()

	if total > 0 {
		ad.broker.Broadcast(realtime.EventAnomaly, map[string]interface{}{
			"count":       total,
			"detected_at": time.Now().UTC(),
		})
	}
	log.Printf("✅ Anomaly pass complete: %d flags", total)
}

func (ad *AnomalyDetector) detectDateAnomalies() int {
	since := time.Now().AddDate(0, 0, -3*ad.analysis.TrendWindowDays)
	now := time.Now().UTC()

	var flags []database.AnomalyFlag

	global, err := ad.repo.GlobalDailyAggregates(since)
	if err != nil {
		log.Printf("⚠️  Failed to load global daily series: %v", err)
		return 0
	}
	anomalies := stats.RollingAnomalies(toPoints(global),
		ad.analysis.RollingWindowDays, ad.analysis.DeviationThreshold)
	flags = append(flags, toFlags(database.ScopeGlobal, database.AnomalyKindDate, anomalies, now)...)

	for _, country := range database.Countries {
		aggregates, err := ad.repo.DailyAggregates(country, since)
		if err != nil {
			log.Printf("⚠️  Failed to load daily series for %s: %v", country, err)
			continue
		}
		// Per-country window and threshold may be overridden
		anomalies := stats.RollingAnomalies(toPoints(aggregates),
			ad.analysis.WindowFor(country), ad.analysis.DeviationFor(country))
		flags = append(flags, toFlags(country, database.AnomalyKindDate, anomalies, now)...)
	}

	if err := ad.repo.ReplaceAnomalies(database.AnomalyKindDate, flags); err != nil {
		log.Printf("⚠️  Failed to store date anomalies: %v", err)
		return 0
	}
	return len(flags)
}

func (ad *AnomalyDetector) detectCriticalLows() int {
	since := time.Now().AddDate(0, 0, -3*ad.analysis.TrendWindowDays)
	now := time.Now().UTC()

	var flags []database.AnomalyFlag
	for _, country := range database.Countries {
		aggregates, err := ad.repo.DailyAggregates(country, since)
		if err != nil {
			log.Printf("⚠️  Failed to load daily series for %s: %v", country, err)
			continue
		}
		lows := stats.CriticalLowDays(toPoints(aggregates), ad.analysis.CriticalLowRatio)
		flags = append(flags, toFlags(country, database.AnomalyKindCriticalLow, lows, now)...)
	}

	if err := ad.repo.ReplaceAnomalies(database.AnomalyKindCriticalLow, flags); err != nil {
		log.Printf("⚠️  Failed to store critical low flags: %v", err)
		return 0
	}
	return len(flags)
}

func (ad *AnomalyDetector) detectHourAnomalies() int {
	// Hourly baselines need less history than daily ones
	since := time.Now().AddDate(0, 0, -ad.analysis.TrendWindowDays)
	now := time.Now().UTC()

	series, err := ad.repo.HourlySeries(since)
	if err != nil {
		log.Printf("⚠️  Failed to load hourly series: %v", err)
		return 0
	}

	// 24 trailing hours as the baseline window for hour-level checks
	anomalies := stats.RollingAnomalies(toPoints(series), 24, ad.analysis.DeviationThreshold)

	flags := make([]database.AnomalyFlag, len(anomalies))
	for i, a := range anomalies {
		flags[i] = database.AnomalyFlag{
			Scope:          database.ScopeGlobal,
			Kind:           database.AnomalyKindHour,
			Key:            a.Date.Format("2006-01-02 15:00"),
			Observed:       a.Observed,
			Baseline:       a.Baseline,
			DeviationScore: a.Deviation,
			Direction:      a.Direction,
			DetectedAt:     now,
		}
	}

	if err := ad.repo.ReplaceAnomalies(database.AnomalyKindHour, flags); err != nil {
		log.Printf("⚠️  Failed to store hour anomalies: %v", err)
		return 0
	}
	return len(flags)
}

func (ad *AnomalyDetector) detectFileSizeOutliers() int {
	since := time.Now().AddDate(0, 0, -ad.analysis.TrendWindowDays)
	now := time.Now().UTC()

	entries, err := ad.repo.FileSizes(since, fileSizeSample)
	if err != nil {
		log.Printf("⚠️  Failed to load file sizes: %v", err)
		return 0
	}
	if len(entries) < 4 {
		return 0
	}

	sizes := make([]float64, len(entries))
	for i, e := range entries {
		sizes[i] = e.S3Size
	}
	lower, upper := stats.IQRFences(sizes)
	mean := 0.0
	for _, s := range sizes {
		mean += s
	}
	mean /= float64(len(sizes))

	var flags []database.AnomalyFlag
	for _, e := range entries {
		if e.S3Size >= lower && e.S3Size <= upper {
			continue
		}
		direction := stats.DirectionSpike
		score := 0.0
		if upper > 0 {
			score = e.S3Size / upper
		}
		if e.S3Size < lower {
			direction = stats.DirectionDrop
			if lower > 0 {
				score = lower / (e.S3Size + 1)
			}
		}
		flags = append(flags, database.AnomalyFlag{
			Scope:          e.Country,
			Kind:           database.AnomalyKindFile,
			Key:            e.FileID,
			Observed:       e.S3Size,
			Baseline:       mean,
			DeviationScore: score,
			Direction:      direction,
			DetectedAt:     now,
		})
	}

	if err := ad.repo.ReplaceAnomalies(database.AnomalyKindFile, flags); err != nil {
		log.Printf("⚠️  Failed to store file size outliers: %v", err)
		return 0
	}
	return len(flags)
}

func toPoints(aggregates []database.DailyAggregate) []stats.DailyPoint {
	points := make([]stats.DailyPoint, len(aggregates))
	for i, a := range aggregates {
		points[i] = stats.DailyPoint{Date: a.Date, Value: float64(a.RecordCount)}
	}
	return points
}

func toFlags(scope, kind string, anomalies []stats.AnomalyPoint, now time.Time) []database.AnomalyFlag {
	flags := make([]database.AnomalyFlag, len(anomalies))
	for i, a := range anomalies {
		flags[i] = database.AnomalyFlag{
			Scope:          scope,
			Kind:           kind,
			Key:            a.Date.Format(time.DateOnly),
			Observed:       a.Observed,
			Baseline:       a.Baseline,
			DeviationScore: a.Deviation,
			Direction:      a.Direction,
			DetectedAt:     now,
		}
	}
	return flags
}
