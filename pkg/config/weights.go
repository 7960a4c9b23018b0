package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
)

// LoadWeightProfile reads a YAML engine profile. Keys left out keep their
// default values, so a profile may override only the weights:
//
//	weights:
//	  urgency: 0.4
//	  importance: 0.3
//	  timing: 0.1
//	  effort: 0.1
//	  history: 0.1
//	urgency_window_hours: 48
//
// An empty path returns the defaults.
func LoadWeightProfile(path string) (services.PriorityEngineConfig, error) {
	cfg := services.DefaultPriorityEngineConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read weight profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse weight profile %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("weight profile %s: %w", path, err)
	}
	return cfg, nil
}
