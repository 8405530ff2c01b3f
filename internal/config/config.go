package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Largest edge length fed to the pipeline; bigger scans are downscaled.
	MaxAnalysisDimension int

	// Bound on concurrent analyses in a batch request.
	BatchConcurrency int

	// Classifier training knobs. The defaults reproduce the stock synthetic
	// model; operators tuning these must retrain before serving.
	TrainingSeed    uint64
	TrainingSamples int
	ForestTrees     int

	// Optional Azure Blob source for scans stored in hospital containers.
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether the blob image source should be wired in.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                 getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                 getEnvOrDefault("PORT", "8080"),
		RequestTimeout:       parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:    parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:      parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize:   parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxAnalysisDimension: int(parseIntOrDefault("MAX_ANALYSIS_DIMENSION", 512)),
		BatchConcurrency:     int(parseIntOrDefault("BATCH_CONCURRENCY", 4)),
		TrainingSeed:         uint64(parseIntOrDefault("TRAINING_SEED", 42)),
		TrainingSamples:      int(parseIntOrDefault("TRAINING_SAMPLES", 1000)),
		ForestTrees:          int(parseIntOrDefault("FOREST_TREES", 100)),
		AzureAccountName:     os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:      os.Getenv("AZURE_STORAGE_KEY"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxAnalysisDimension < 100 {
		return nil, fmt.Errorf("MAX_ANALYSIS_DIMENSION must be >= 100 (got %d)", cfg.MaxAnalysisDimension)
	}
	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be >= 1 (got %d)", cfg.BatchConcurrency)
	}
	if cfg.TrainingSamples < 10 || cfg.TrainingSamples%2 != 0 {
		return nil, fmt.Errorf("TRAINING_SAMPLES must be even and >= 10 (got %d)", cfg.TrainingSamples)
	}
	if cfg.ForestTrees < 1 {
		return nil, fmt.Errorf("FOREST_TREES must be >= 1 (got %d)", cfg.ForestTrees)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.AnalysisTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
