package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"flytxt-analytics/database"
)

// ErrMalformedInput signals unusable input: missing required columns,
// an empty dataset, or too many unparseable rows.
var ErrMalformedInput = errors.New("malformed input")

// badRowTolerance is the fraction of unparseable rows a file may carry
// before the whole load is rejected.
const badRowTolerance = 0.10

// Column aliases. The legacy consolidated exports use Spanish headers;
// both spellings are accepted.
var headerAliases = map[string]string{
	"country":    "country",
	"pais":       "country",
	"timestamp":  "timestamp",
	"fecha":      "timestamp",
	"hour":       "hour",
	"hora":       "hour",
	"file_id":    "file_id",
	"archivo":    "file_id",
	"file":       "file_id",
	"status":     "status",
	"estado":     "status",
	"volume":     "volume",
	"registros":  "volume",
	"s3_size":    "s3_size",
	"local_size": "local_size",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// LoadFile reads a CSV or gzip-compressed CSV of pipeline log records
func LoadFile(path string) ([]database.LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid gzip: %v", ErrMalformedInput, path, err)
		}
		defer gz.Close()
		reader = gz
	}

	records, err := ParseRecords(reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ParseRecords parses delimited log records from r. The first row must
// be a header; required columns are country, timestamp and status.
func ParseRecords(r io.Reader) ([]database.LogRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty dataset", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", ErrMalformedInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerAliases[key]; ok {
			cols[canonical] = i
		}
	}
	for _, required := range []string{"country", "timestamp", "status"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrMalformedInput, required)
		}
	}

	var records []database.LogRecord
	badRows := 0
	totalRows := 0

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			totalRows++
			badRows++
			continue
		}
		totalRows++

		rec, err := parseRow(row, cols)
		if err != nil {
			badRows++
			continue
		}
		records = append(records, rec)
	}

	if totalRows == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrMalformedInput)
	}
	if float64(badRows) > float64(totalRows)*badRowTolerance {
		return nil, fmt.Errorf("%w: %d of %d rows unparseable", ErrMalformedInput, badRows, totalRows)
	}
	if badRows > 0 {
		log.Printf("⚠️  Skipped %d unparseable rows out of %d", badRows, totalRows)
	}

	return records, nil
}

func parseRow(row []string, cols map[string]int) (database.LogRecord, error) {
	var rec database.LogRecord

	country := strings.ToUpper(strings.TrimSpace(field(row, cols, "country")))
	if !database.ValidCountry(country) {
		return rec, fmt.Errorf("unknown country %q", country)
	}
	rec.Country = country

	ts, err := parseTimestamp(field(row, cols, "timestamp"))
	if err != nil {
		return rec, err
	}
	// Date-only exports carry the hour in a separate column
	if hourStr := field(row, cols, "hour"); hourStr != "" && ts.Hour() == 0 {
		if hour, err := strconv.Atoi(strings.TrimSpace(hourStr)); err == nil && hour >= 0 && hour <= 23 {
			ts = ts.Add(time.Duration(hour) * time.Hour)
		}
	}
	rec.Timestamp = ts

	rec.Status = strings.TrimSpace(field(row, cols, "status"))
	if rec.Status == "" {
		return rec, fmt.Errorf("missing status")
	}

	rec.FileID = strings.TrimSpace(field(row, cols, "file_id"))

	rec.Volume = 1
	if v := strings.TrimSpace(field(row, cols, "volume")); v != "" {
		vol, err := strconv.ParseInt(v, 10, 64)
		if err != nil || vol < 0 {
			return rec, fmt.Errorf("bad volume %q", v)
		}
		rec.Volume = vol
	}

	rec.S3Size = parseSize(field(row, cols, "s3_size"))
	rec.LocalSize = parseSize(field(row, cols, "local_size"))

	return rec, nil
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

func parseSize(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	// Sizes sometimes arrive as floats from the consolidation step
	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
		return int64(f)
	}
	return 0
}
