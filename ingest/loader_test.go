package ingest

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRecordsSpanishHeaders(t *testing.T) {
	csv := `pais,fecha,hora,archivo,estado,registros
GT,2024-01-02,14,export_gt_001.csv,SUCCESS,25
NI,2024-01-02,9,export_ni_001.csv,FAILED,12
`
	records, err := ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Country != "GT" {
		t.Errorf("expected country GT, got %s", first.Country)
	}
	if first.Timestamp.Hour() != 14 {
		t.Errorf("expected hour column merged into timestamp, got hour %d", first.Timestamp.Hour())
	}
	if first.FileID != "export_gt_001.csv" {
		t.Errorf("unexpected file id %s", first.FileID)
	}
	if first.Volume != 25 {
		t.Errorf("expected volume 25, got %d", first.Volume)
	}
}

func TestParseRecordsEnglishHeaders(t *testing.T) {
	csv := `country,timestamp,file_id,status,volume,s3_size,local_size
sv,2024-01-02 08:30:00,export_sv_001.csv,success,40,1024.5,1000
`
	records, err := ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Country != "SV" {
		t.Errorf("expected country normalized to SV, got %s", rec.Country)
	}
	if rec.Timestamp.Hour() != 8 || rec.Timestamp.Minute() != 30 {
		t.Errorf("unexpected timestamp %v", rec.Timestamp)
	}
	// Float sizes from the consolidation step are truncated
	if rec.S3Size != 1024 {
		t.Errorf("expected s3 size 1024, got %d", rec.S3Size)
	}
	if rec.LocalSize != 1000 {
		t.Errorf("expected local size 1000, got %d", rec.LocalSize)
	}
}

func TestParseRecordsDefaultVolume(t *testing.T) {
	csv := `country,timestamp,status
CR,2024-01-02,SUCCESS
`
	records, err := ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Volume != 1 {
		t.Errorf("expected default volume 1, got %d", records[0].Volume)
	}
}

func TestParseRecordsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"Empty input", ""},
		{"Header only", "country,timestamp,status\n"},
		{"Missing status column", "country,timestamp\nGT,2024-01-02\n"},
		{"Missing country column", "timestamp,status\n2024-01-02,SUCCESS\n"},
		{
			"Too many bad rows",
			"country,timestamp,status\nXX,2024-01-02,SUCCESS\nGT,not-a-date,SUCCESS\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestParseRecordsToleratesFewBadRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("country,timestamp,status\n")
	for i := 0; i < 19; i++ {
		sb.WriteString(fmt.Sprintf("GT,2024-01-%02d,SUCCESS\n", i+1))
	}
	// One unknown country among twenty rows stays under the tolerance
	sb.WriteString("XX,2024-01-20,SUCCESS\n")

	records, err := ParseRecords(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 19 {
		t.Errorf("expected 19 good records, got %d", len(records))
	}
}

func TestLoadFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("pais,fecha,estado\nHN,2024-01-02,SUCCESS\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Country != "HN" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestLoadFileBadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv.gz")
	if err := os.WriteFile(path, []byte("not gzip at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}
