package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Solver.OntologyPath = writeFile(t, "ontology.mg", "Decl country(X).\n")
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Seed != -1 {
		t.Errorf("default seed = %d, want -1", cfg.Seed)
	}
	if cfg.NumTrainingSamples != 100 {
		t.Errorf("default num_training_samples = %d, want 100", cfg.NumTrainingSamples)
	}
	if cfg.NumEvalCountries != 20 {
		t.Errorf("default num_eval_countries = %d, want 20", cfg.NumEvalCountries)
	}
	if cfg.Setting != "S1" {
		t.Errorf("default setting = %q, want S1", cfg.Setting)
	}
	if cfg.Solver.Backend != BackendMangle {
		t.Errorf("default backend = %q, want %q", cfg.Solver.Backend, BackendMangle)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", strings.Join([]string{
		"seed: 42",
		"num_datasets: 3",
		"setting: S3",
		"solver:",
		"  backend: dlv",
		"  exe_path: /usr/local/bin/dlv",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Seed)
	}
	if cfg.NumDatasets != 3 {
		t.Errorf("num_datasets = %d, want 3", cfg.NumDatasets)
	}
	if cfg.Setting != "S3" {
		t.Errorf("setting = %q, want S3", cfg.Setting)
	}
	if cfg.Solver.Backend != BackendDLV {
		t.Errorf("backend = %q, want dlv", cfg.Solver.Backend)
	}
	// Untouched fields keep their defaults.
	if cfg.NumTrainingSamples != 100 {
		t.Errorf("num_training_samples = %d, want default 100", cfg.NumTrainingSamples)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "seed: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero datasets", func(c *Config) { c.NumDatasets = 0 }},
		{"zero samples", func(c *Config) { c.NumTrainingSamples = 0 }},
		{"zero eval countries", func(c *Config) { c.NumEvalCountries = 0 }},
		{"bad setting", func(c *Config) { c.Setting = "S4" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"bad backend", func(c *Config) { c.Solver.Backend = "clingo" }},
		{"dlv without exe", func(c *Config) { c.Solver.Backend = BackendDLV }},
		{"missing ontology", func(c *Config) { c.Solver.OntologyPath = "does/not/exist.mg" }},
		{"empty ontology path", func(c *Config) { c.Solver.OntologyPath = "" }},
		{"missing data path", func(c *Config) { c.DataPath = "does/not/exist.json" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDLVBackend(t *testing.T) {
	cfg := validConfig(t)
	cfg.Solver.Backend = BackendDLV
	cfg.Solver.ExePath = writeFile(t, "dlv", "#!/bin/sh\n")
	if err := cfg.Validate(); err != nil {
		t.Errorf("dlv config rejected: %v", err)
	}
}
