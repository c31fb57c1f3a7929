// Package config holds the user-facing configuration of the dataset
// generator: a yaml file with defaults, overridden by CLI flags, validated
// before any generation starts.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Solver backends.
const (
	BackendDLV    = "dlv"
	BackendMangle = "mangle"
)

// Config is the full configuration for one generation run.
type Config struct {
	// Seed initializes the run's random source. Negative means "pick one".
	Seed int64 `yaml:"seed"`

	// NumDatasets is how many independent datasets to generate.
	NumDatasets int `yaml:"num_datasets"`

	// NumTrainingSamples is how many training samples each dataset gets.
	NumTrainingSamples int `yaml:"num_training_samples"`

	// NumEvalCountries is the dev/test hold-out size.
	NumEvalCountries int `yaml:"num_eval_countries"`

	// Setting is the problem variant: S1, S2, or S3.
	Setting string `yaml:"setting"`

	// ClassFacts includes class-membership facts in the solver input.
	ClassFacts bool `yaml:"class_facts"`

	// Minimal trims training samples to target-relevant literals. Dev and
	// test samples are always minimal.
	Minimal bool `yaml:"minimal"`

	// OutputDir is where datasets are written.
	OutputDir string `yaml:"output_dir"`

	// DataPath points at a local countries.json. Empty means download into
	// the output directory.
	DataPath string `yaml:"data_path"`

	// Solver selects and configures the logic solver backend.
	Solver SolverConfig `yaml:"solver"`

	// Quiet suppresses everything below warn level.
	Quiet bool `yaml:"quiet"`
}

// SolverConfig configures the logic solver.
type SolverConfig struct {
	// Backend is "mangle" (embedded) or "dlv" (external subprocess).
	Backend string `yaml:"backend"`

	// ExePath is the DLV executable; required for the dlv backend.
	ExePath string `yaml:"exe_path"`

	// OntologyPath is the logic program to evaluate. The mangle backend
	// expects Mangle syntax, the dlv backend DLV syntax.
	OntologyPath string `yaml:"ontology_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Seed:               -1,
		NumDatasets:        1,
		NumTrainingSamples: 100,
		NumEvalCountries:   20,
		Setting:            "S1",
		OutputDir:          "out",
		Solver: SolverConfig{
			Backend:      BackendMangle,
			OntologyPath: "ontology/ontology.mg",
		},
	}
}

// Load reads a yaml config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate fails fast on any configuration error, before generation starts.
func (c *Config) Validate() error {
	if c.NumDatasets < 1 {
		return fmt.Errorf("num_datasets must be at least 1, got %d", c.NumDatasets)
	}
	if c.NumTrainingSamples < 1 {
		return fmt.Errorf("num_training_samples must be at least 1, got %d", c.NumTrainingSamples)
	}
	if c.NumEvalCountries < 1 {
		return fmt.Errorf("num_eval_countries must be at least 1, got %d", c.NumEvalCountries)
	}
	switch c.Setting {
	case "S1", "S2", "S3":
	default:
		return fmt.Errorf("setting must be one of S1, S2, S3, got %q", c.Setting)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	switch c.Solver.Backend {
	case BackendMangle:
	case BackendDLV:
		if c.Solver.ExePath == "" {
			return fmt.Errorf("solver.exe_path is required for the dlv backend")
		}
		if err := mustBeFile(c.Solver.ExePath, "solver.exe_path"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("solver.backend must be %q or %q, got %q", BackendDLV, BackendMangle, c.Solver.Backend)
	}
	if c.Solver.OntologyPath == "" {
		return fmt.Errorf("solver.ontology_path is required")
	}
	if err := mustBeFile(c.Solver.OntologyPath, "solver.ontology_path"); err != nil {
		return err
	}

	if c.DataPath != "" {
		if err := mustBeFile(c.DataPath, "data_path"); err != nil {
			return err
		}
	}
	return nil
}

func mustBeFile(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s %q is a directory", field, path)
	}
	return nil
}
