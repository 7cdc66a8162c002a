package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sigplot/domain/significance"
	"sigplot/internal/chart"
)

// ChartSettings is the YAML file describing thresholds and chart styling.
// Keys left out of the file keep their defaults.
type ChartSettings struct {
	Thresholds significance.Thresholds `yaml:"thresholds"`
	Bar        chart.BarConfig         `yaml:"bar"`
	Line       chart.LineConfig        `yaml:"line"`
}

// DefaultChartSettings returns the built-in thresholds and chart tables.
func DefaultChartSettings() ChartSettings {
	return ChartSettings{
		Thresholds: significance.DefaultThresholds(),
		Bar:        chart.DefaultBarConfig(),
		Line:       chart.DefaultLineConfig(),
	}
}

// LoadChartSettings reads path over the defaults. An empty path returns the
// defaults. Tables are checked against chart dimensions when a plan is
// built; here only the thresholds and bar geometry are validated.
func LoadChartSettings(path string) (ChartSettings, error) {
	settings := DefaultChartSettings()
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read chart settings: %w", err)
	}
	return ParseChartSettings(data)
}

// ParseChartSettings decodes YAML over the defaults.
func ParseChartSettings(data []byte) (ChartSettings, error) {
	settings := DefaultChartSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse chart settings: %w", err)
	}
	if err := settings.Thresholds.Validate(); err != nil {
		return settings, err
	}
	if err := settings.Bar.Bars.Geometry.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
