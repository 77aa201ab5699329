package main

import (
	"fmt"
	"os"

	"github.com/frizyai/frizycore/compactor"
	"github.com/frizyai/frizycore/session"
	"gopkg.in/yaml.v3"
)

// exportConfig is the YAML configuration file for frizy-export.
type exportConfig struct {
	// DatabaseURL is the Postgres connection string. The DATABASE_URL
	// environment variable takes precedence if set.
	DatabaseURL string `yaml:"database_url"`

	// ProjectID selects the board whose work items are exported.
	ProjectID string `yaml:"project_id"`

	Project compactor.ProjectMetadata `yaml:"project"`

	Scoring compactor.Config `yaml:"scoring"`

	Tracker session.Config `yaml:"tracker"`
}

// loadConfig reads and validates the export configuration. A missing path
// yields a default configuration.
func loadConfig(path string) (*exportConfig, error) {
	cfg := &exportConfig{
		Scoring: *compactor.DefaultConfig(),
		Tracker: *session.DefaultConfig(),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	cfg.Scoring.ApplyDefaults()
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}
	cfg.Tracker.ApplyDefaults()
	if err := cfg.Tracker.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
