package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CountryThresholds overrides anomaly parameters for a single country.
// Nil fields fall back to the global AnalysisConfig values.
type CountryThresholds struct {
	RollingWindowDays  *int     `yaml:"rolling_window_days"`
	DeviationThreshold *float64 `yaml:"deviation_threshold"`
}

type thresholdsFile struct {
	Countries map[string]CountryThresholds `yaml:"countries"`
}

// LoadThresholds reads per-country anomaly overrides from a YAML file.
// Country codes are normalized to upper case.
func LoadThresholds(path string) (map[string]CountryThresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}

	var f thresholdsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse thresholds file: %w", err)
	}

	overrides := make(map[string]CountryThresholds, len(f.Countries))
	for code, t := range f.Countries {
		if t.RollingWindowDays != nil && *t.RollingWindowDays < 2 {
			return nil, fmt.Errorf("thresholds for %s: rolling_window_days must be >= 2", code)
		}
		if t.DeviationThreshold != nil && *t.DeviationThreshold <= 0 {
			return nil, fmt.Errorf("thresholds for %s: deviation_threshold must be positive", code)
		}
		overrides[strings.ToUpper(code)] = t
	}
	return overrides, nil
}
