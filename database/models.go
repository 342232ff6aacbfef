package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Countries covered by the pipeline
var Countries = []string{"GT", "NI", "SV", "CR", "HN"}

// ScopeGlobal identifies results computed over all countries combined
const ScopeGlobal = "global"

// ValidCountry reports whether code is one of the five pipeline countries
func ValidCountry(code string) bool {
	for _, c := range Countries {
		if c == code {
			return true
		}
	}
	return false
}

// Database wraps the GORM connection
type Database struct {
	db *gorm.DB
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LogRecord is one processed-file entry from the pipeline logs.
// Records are immutable once loaded.
type LogRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Country   string    `gorm:"size:2;not null;index:idx_log_records_country_ts" json:"country"`
	Timestamp time.Time `gorm:"not null;index:idx_log_records_country_ts;index:idx_log_records_ts" json:"timestamp"`
	FileID    string    `gorm:"size:255;not null;index" json:"file_id"`
	Status    string    `gorm:"size:64;not null" json:"status"`
	Volume    int64     `gorm:"not null" json:"volume"`
	S3Size    int64     `json:"s3_size"`
	LocalSize int64     `json:"local_size"`
}

// DailyAggregate is a per-country, per-day rollup. It is derived from
// log_records by query and recomputed on each analysis pass, never stored.
type DailyAggregate struct {
	Country      string    `json:"country"`
	Date         time.Time `json:"date"`
	TotalVolume  int64     `json:"total_volume"`
	RecordCount  int64     `json:"record_count"`
	SuccessCount int64     `json:"success_count"`
}

// TrendResultDB persists the latest trend fit per scope
type TrendResultDB struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Scope      string    `gorm:"size:16;not null;uniqueIndex" json:"scope"` // country code or "global"
	Slope      float64   `json:"slope"`
	Intercept  float64   `json:"intercept"`
	Direction  string    `gorm:"size:8;not null" json:"direction"`
	Confidence float64   `json:"confidence"`
	WindowDays int       `json:"window_days"`
	ComputedAt time.Time `gorm:"not null" json:"computed_at"`
}

// TableName overrides the default pluralization
func (TrendResultDB) TableName() string {
	return "trend_results"
}

// WeekdayProfileDB persists the weekday pattern per scope
type WeekdayProfileDB struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Scope          string    `gorm:"size:16;not null;uniqueIndex:idx_weekday_scope_day" json:"scope"`
	Weekday        int       `gorm:"not null;uniqueIndex:idx_weekday_scope_day" json:"weekday"` // 0=Sunday per time.Weekday
	MeanVolume     float64   `json:"mean_volume"`
	StdDev         float64   `json:"std_dev"`
	ConsistencyPct float64   `json:"consistency_pct"`
	SampleWeeks    int       `json:"sample_weeks"`
	DominantSign   int       `json:"dominant_sign"`
	ComputedAt     time.Time `gorm:"not null" json:"computed_at"`
}

// TableName overrides the default pluralization
func (WeekdayProfileDB) TableName() string {
	return "weekday_profiles"
}

// Anomaly kinds
const (
	AnomalyKindDate        = "date"
	AnomalyKindHour        = "hour"
	AnomalyKindFile        = "file"
	AnomalyKindCriticalLow = "critical_low"
)

// ValidAnomalyKind reports whether kind is one of the stored flag kinds
func ValidAnomalyKind(kind string) bool {
	switch kind {
	case AnomalyKindDate, AnomalyKindHour, AnomalyKindFile, AnomalyKindCriticalLow:
		return true
	}
	return false
}

// AnomalyFlag marks one key whose metric left its baseline band
type AnomalyFlag struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Scope          string    `gorm:"size:16;not null;index" json:"scope"`
	Kind           string    `gorm:"size:16;not null;index" json:"kind"`
	Key            string    `gorm:"size:255;not null" json:"key"` // date, hour or file id
	Observed       float64   `json:"observed"`
	Baseline       float64   `json:"baseline"`
	DeviationScore float64   `gorm:"index" json:"deviation_score"`
	Direction      string    `gorm:"size:8" json:"direction"`
	DetectedAt     time.Time `gorm:"not null;index" json:"detected_at"`
}

// CountryCorrelation persists the Pearson coefficient for a country pair
type CountryCorrelation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CountryA    string    `gorm:"size:2;not null;uniqueIndex:idx_correlation_pair" json:"country_a"`
	CountryB    string    `gorm:"size:2;not null;uniqueIndex:idx_correlation_pair" json:"country_b"`
	Coefficient float64   `json:"coefficient"`
	SampleDays  int       `json:"sample_days"`
	ComputedAt  time.Time `gorm:"not null" json:"computed_at"`
}

// PipelineSummary stores composed KPI snapshots as JSON payloads
type PipelineSummary struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GeneratedAt time.Time `gorm:"not null;index" json:"generated_at"`
	Payload     string    `gorm:"type:text;not null" json:"payload"`
}

// CountryTotal is a per-country record/volume rollup (query result)
type CountryTotal struct {
	Country     string `json:"country"`
	RecordCount int64  `json:"record_count"`
	TotalVolume int64  `json:"total_volume"`
}

// FileSizeEntry is a per-file size observation (query result)
type FileSizeEntry struct {
	FileID  string  `json:"file_id"`
	Country string  `json:"country"`
	S3Size  float64 `json:"s3_size"`
}

// DatasetStats is the headline shape of the loaded dataset (query result)
type DatasetStats struct {
	TotalRecords   int64     `json:"total_records"`
	SuccessRecords int64     `json:"success_records"`
	Countries      int       `json:"countries"`
	DaysWithData   int       `json:"days_with_data"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
}
