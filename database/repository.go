package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LogRepository handles database operations for pipeline log analytics
type LogRepository struct {
	db *Database
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *Database) *LogRepository {
	return &LogRepository{db: db}
}

// InitSchema performs auto-migration for all tables
func (r *LogRepository) InitSchema() error {
	fmt.Println("🔄 Starting database schema initialization...")

	err := r.db.db.AutoMigrate(
		&LogRecord{},
		&TrendResultDB{},
		&WeekdayProfileDB{},
		&AnomalyFlag{},
		&CountryCorrelation{},
		&PipelineSummary{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	fmt.Println("✅ Database schema ready")
	return nil
}

// InsertRecords stores parsed records in batches. Used by the live feed
// and small loads; bulk CSV imports go through the COPY loader instead.
func (r *LogRepository) InsertRecords(records []LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.db.CreateInBatches(records, 1000).Error; err != nil {
		return WrapDBError("InsertRecords", err)
	}
	return nil
}

// DailyAggregates recomputes the per-day rollup from raw records.
// country filters to one scope; empty means every country separately.
func (r *LogRepository) DailyAggregates(country string, since time.Time) ([]DailyAggregate, error) {
	query := `
		SELECT
			country,
			DATE(timestamp) AS date,
			SUM(volume) AS total_volume,
			COUNT(*) AS record_count,
			COUNT(*) FILTER (WHERE status ILIKE '%success%') AS success_count
		FROM log_records
		WHERE timestamp >= ?`
	args := []interface{}{since}
	if country != "" {
		query += " AND country = ?"
		args = append(args, country)
	}
	query += " GROUP BY country, DATE(timestamp) ORDER BY country, date"

	var aggregates []DailyAggregate
	if err := r.db.db.Raw(query, args...).Scan(&aggregates).Error; err != nil {
		return nil, WrapDBError("DailyAggregates", err)
	}
	return aggregates, nil
}

// GlobalDailyAggregates rolls all countries into one series per day
func (r *LogRepository) GlobalDailyAggregates(since time.Time) ([]DailyAggregate, error) {
	var aggregates []DailyAggregate
	err := r.db.db.Raw(`
		SELECT
			DATE(timestamp) AS date,
			SUM(volume) AS total_volume,
			COUNT(*) AS record_count,
			COUNT(*) FILTER (WHERE status ILIKE '%success%') AS success_count
		FROM log_records
		WHERE timestamp >= ?
		GROUP BY DATE(timestamp)
		ORDER BY date`, since).Scan(&aggregates).Error
	if err != nil {
		return nil, WrapDBError("GlobalDailyAggregates", err)
	}
	return aggregates, nil
}

// HourlyTotals returns total records per hour of day (0-23)
func (r *LogRepository) HourlyTotals(country string, since time.Time) (map[int]float64, error) {
	type row struct {
		Hour  int
		Count float64
	}
	query := `
		SELECT EXTRACT(HOUR FROM timestamp)::int AS hour, COUNT(*) AS count
		FROM log_records
		WHERE timestamp >= ?`
	args := []interface{}{since}
	if country != "" {
		query += " AND country = ?"
		args = append(args, country)
	}
	query += " GROUP BY hour ORDER BY hour"

	var rows []row
	if err := r.db.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, WrapDBError("HourlyTotals", err)
	}

	counts := make(map[int]float64, len(rows))
	for _, rw := range rows {
		counts[rw.Hour] = rw.Count
	}
	return counts, nil
}

// HourlySeries returns the record count per clock hour as an ordered
// series, the input for rolling hour-level anomaly detection.
func (r *LogRepository) HourlySeries(since time.Time) ([]DailyAggregate, error) {
	var series []DailyAggregate
	err := r.db.db.Raw(`
		SELECT
			date_trunc('hour', timestamp) AS date,
			SUM(volume) AS total_volume,
			COUNT(*) AS record_count
		FROM log_records
		WHERE timestamp >= ?
		GROUP BY date_trunc('hour', timestamp)
		ORDER BY date`, since).Scan(&series).Error
	if err != nil {
		return nil, WrapDBError("HourlySeries", err)
	}
	return series, nil
}

// CountryTotals returns record and volume totals per country
func (r *LogRepository) CountryTotals(since time.Time) ([]CountryTotal, error) {
	var totals []CountryTotal
	err := r.db.db.Raw(`
		SELECT country, COUNT(*) AS record_count, SUM(volume) AS total_volume
		FROM log_records
		WHERE timestamp >= ?
		GROUP BY country
		ORDER BY record_count DESC`, since).Scan(&totals).Error
	if err != nil {
		return nil, WrapDBError("CountryTotals", err)
	}
	return totals, nil
}

// Stats returns the headline shape of the loaded dataset
func (r *LogRepository) Stats(since time.Time) (*DatasetStats, error) {
	var stats DatasetStats
	err := r.db.db.Raw(`
		SELECT
			COUNT(*) AS total_records,
			COUNT(*) FILTER (WHERE status ILIKE '%success%') AS success_records,
			COUNT(DISTINCT country) AS countries,
			COUNT(DISTINCT DATE(timestamp)) AS days_with_data,
			COALESCE(MIN(timestamp), 'epoch'::timestamptz) AS first_date,
			COALESCE(MAX(timestamp), 'epoch'::timestamptz) AS last_date
		FROM log_records
		WHERE timestamp >= ?`, since).Scan(&stats).Error
	if err != nil {
		return nil, WrapDBError("Stats", err)
	}
	return &stats, nil
}

// FileSizes returns recent per-file size observations for outlier checks
func (r *LogRepository) FileSizes(since time.Time, limit int) ([]FileSizeEntry, error) {
	var entries []FileSizeEntry
	err := r.db.db.Raw(`
		SELECT file_id, country, AVG(s3_size) AS s3_size
		FROM log_records
		WHERE timestamp >= ? AND s3_size > 0
		GROUP BY file_id, country
		ORDER BY MAX(timestamp) DESC
		LIMIT ?`, since, limit).Scan(&entries).Error
	if err != nil {
		return nil, WrapDBError("FileSizes", err)
	}
	return entries, nil
}

// ReplaceTrendResults swaps the stored trend fits for a fresh set
func (r *LogRepository) ReplaceTrendResults(results []TrendResultDB) error {
	return r.replaceAll("ReplaceTrendResults", &TrendResultDB{}, results)
}

// ReplaceWeekdayProfiles swaps the stored weekday profiles for a fresh set
func (r *LogRepository) ReplaceWeekdayProfiles(profiles []WeekdayProfileDB) error {
	return r.replaceAll("ReplaceWeekdayProfiles", &WeekdayProfileDB{}, profiles)
}

// ReplaceCorrelations swaps the stored country correlations for a fresh set
func (r *LogRepository) ReplaceCorrelations(correlations []CountryCorrelation) error {
	return r.replaceAll("ReplaceCorrelations", &CountryCorrelation{}, correlations)
}

func (r *LogRepository) replaceAll(operation string, model interface{}, rows interface{}) error {
	err := r.db.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	return WrapDBError(operation, err)
}

// ReplaceAnomalies swaps stored flags of one kind for a fresh set.
// Detection is a full recompute, so stale flags of that kind go away.
func (r *LogRepository) ReplaceAnomalies(kind string, flags []AnomalyFlag) error {
	if !ValidAnomalyKind(kind) {
		return NewValidationError("kind", fmt.Sprintf("unknown anomaly kind %q", kind))
	}
	err := r.db.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", kind).Delete(&AnomalyFlag{}).Error; err != nil {
			return err
		}
		if len(flags) == 0 {
			return nil
		}
		return tx.CreateInBatches(flags, 500).Error
	})
	return WrapDBError("ReplaceAnomalies", err)
}

// SaveSummary stores a composed KPI snapshot
func (r *LogRepository) SaveSummary(summary *PipelineSummary) error {
	if err := r.db.db.Create(summary).Error; err != nil {
		return WrapDBError("SaveSummary", err)
	}
	return nil
}

// GetTrendResults returns the stored trend fits, global scope first
func (r *LogRepository) GetTrendResults() ([]TrendResultDB, error) {
	var results []TrendResultDB
	err := r.db.db.
		Order("CASE WHEN scope = 'global' THEN 0 ELSE 1 END, scope").
		Find(&results).Error
	if err != nil {
		return nil, WrapDBError("GetTrendResults", err)
	}
	return results, nil
}

// GetWeekdayProfiles returns the stored weekday profiles for a scope
func (r *LogRepository) GetWeekdayProfiles(scope string) ([]WeekdayProfileDB, error) {
	var profiles []WeekdayProfileDB
	err := r.db.db.Where("scope = ?", scope).Order("weekday").Find(&profiles).Error
	if err != nil {
		return nil, WrapDBError("GetWeekdayProfiles", err)
	}
	return profiles, nil
}

// GetAnomalies returns flags filtered by kind, score and age.
// Empty kind means all kinds.
func (r *LogRepository) GetAnomalies(kind string, minScore float64, since time.Time) ([]AnomalyFlag, error) {
	if kind != "" && !ValidAnomalyKind(kind) {
		return nil, NewValidationError("kind", fmt.Sprintf("unknown anomaly kind %q", kind))
	}
	query := r.db.db.
		Where("deviation_score >= ? AND detected_at >= ?", minScore, since).
		Order("deviation_score DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var flags []AnomalyFlag
	if err := query.Find(&flags).Error; err != nil {
		return nil, WrapDBError("GetAnomalies", err)
	}
	return flags, nil
}

// GetCorrelations returns stored pairs, optionally touching one country,
// strongest magnitude first.
func (r *LogRepository) GetCorrelations(country string, limit int) ([]CountryCorrelation, error) {
	query := r.db.db.Order("ABS(coefficient) DESC").Limit(limit)
	if country != "" {
		query = query.Where("country_a = ? OR country_b = ?", country, country)
	}

	var correlations []CountryCorrelation
	if err := query.Find(&correlations).Error; err != nil {
		return nil, WrapDBError("GetCorrelations", err)
	}
	return correlations, nil
}

// GetLatestSummary returns the most recent KPI snapshot
func (r *LogRepository) GetLatestSummary() (*PipelineSummary, error) {
	var summary PipelineSummary
	err := r.db.db.Order("generated_at DESC").First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("pipeline summary")
	}
	if err != nil {
		return nil, WrapDBError("GetLatestSummary", err)
	}
	return &summary, nil
}
