package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default request timeout 30s, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxAnalysisDimension != 512 {
		t.Errorf("Expected default max dimension 512, got %d", cfg.MaxAnalysisDimension)
	}
	if cfg.BatchConcurrency != 4 {
		t.Errorf("Expected default batch concurrency 4, got %d", cfg.BatchConcurrency)
	}
	if cfg.TrainingSeed != 42 || cfg.TrainingSamples != 1000 || cfg.ForestTrees != 100 {
		t.Errorf("Unexpected training defaults: seed=%d samples=%d trees=%d",
			cfg.TrainingSeed, cfg.TrainingSamples, cfg.ForestTrees)
	}
	if cfg.AzureEnabled() {
		t.Error("Expected Azure disabled without credentials")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("TRAINING_SAMPLES", "200")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Port)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("Expected request timeout 45s, got %v", cfg.RequestTimeout)
	}
	if cfg.TrainingSamples != 200 {
		t.Errorf("Expected 200 training samples, got %d", cfg.TrainingSamples)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "not-a-port"},
		{"port out of range", "PORT", "70000"},
		{"zero body size", "MAX_REQUEST_BODY_SIZE", "0"},
		{"tiny dimension", "MAX_ANALYSIS_DIMENSION", "50"},
		{"zero concurrency", "BATCH_CONCURRENCY", "0"},
		{"odd samples", "TRAINING_SAMPLES", "101"},
		{"too few samples", "TRAINING_SAMPLES", "4"},
		{"zero trees", "FOREST_TREES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 127.0.0.1 ", Port: " 8080 "}
	if got := cfg.ServerAddress(); got != "127.0.0.1:8080" {
		t.Errorf("Expected 127.0.0.1:8080, got %q", got)
	}
}

func TestAzureEnabled(t *testing.T) {
	cfg := &Config{AzureAccountName: "acct", AzureAccountKey: "key"}
	if !cfg.AzureEnabled() {
		t.Error("Expected Azure enabled with both credentials")
	}
	cfg.AzureAccountKey = ""
	if cfg.AzureEnabled() {
		t.Error("Expected Azure disabled without key")
	}
}
