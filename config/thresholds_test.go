package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeThresholds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadThresholds(t *testing.T) {
	path := writeThresholds(t, `
countries:
  gt:
    rolling_window_days: 14
    deviation_threshold: 2.5
  NI:
    deviation_threshold: 3.0
`)

	overrides, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gt, ok := overrides["GT"]
	if !ok {
		t.Fatal("expected lowercase country code normalized to GT")
	}
	if gt.RollingWindowDays == nil || *gt.RollingWindowDays != 14 {
		t.Errorf("unexpected rolling window override: %v", gt.RollingWindowDays)
	}
	if gt.DeviationThreshold == nil || *gt.DeviationThreshold != 2.5 {
		t.Errorf("unexpected deviation override: %v", gt.DeviationThreshold)
	}

	ni := overrides["NI"]
	if ni.RollingWindowDays != nil {
		t.Errorf("expected nil window for NI, got %v", *ni.RollingWindowDays)
	}
}

func TestLoadThresholdsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"Window too small",
			"countries:\n  GT:\n    rolling_window_days: 1\n",
		},
		{
			"Negative threshold",
			"countries:\n  GT:\n    deviation_threshold: -2.0\n",
		},
		{
			"Not YAML",
			"{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeThresholds(t, tt.content)
			if _, err := LoadThresholds(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	if _, err := LoadThresholds("/nonexistent/thresholds.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestAnalysisConfigOverrides(t *testing.T) {
	window := 14
	threshold := 3.5
	cfg := AnalysisConfig{
		RollingWindowDays:  7,
		DeviationThreshold: 2.0,
		Overrides: map[string]CountryThresholds{
			"GT": {RollingWindowDays: &window, DeviationThreshold: &threshold},
			"NI": {},
		},
	}

	if got := cfg.WindowFor("GT"); got != 14 {
		t.Errorf("expected overridden window 14, got %d", got)
	}
	if got := cfg.DeviationFor("GT"); got != 3.5 {
		t.Errorf("expected overridden threshold 3.5, got %v", got)
	}
	// Partial override falls back field by field
	if got := cfg.WindowFor("NI"); got != 7 {
		t.Errorf("expected default window 7, got %d", got)
	}
	// No override entry at all
	if got := cfg.DeviationFor("SV"); got != 2.0 {
		t.Errorf("expected default threshold 2.0, got %v", got)
	}
}
