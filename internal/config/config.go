package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFeedURL is the consolidated key-figures feed published by opencovid19-fr.
const DefaultFeedURL = "https://raw.githubusercontent.com/opencovid19-fr/data/master/dist/chiffres-cles.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL         string
	FeedTimeout     time.Duration
	RegionCode      string
	ExcludedSources []string
	RefreshInterval time.Duration

	HTTPAddr            string
	ProjectionCacheSize int

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Snapshot publishing is optional; the service is fully usable over HTTP alone.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("PROJECTION_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		RegionCode:      sharedcfg.EnvOrDefault("REGION_CODE", "FRA"),
		ExcludedSources: parseExcludedSources(),
		RefreshInterval: refreshInterval,

		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ProjectionCacheSize: cacheSize,

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "reconciled-daily-data"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.RegionCode == "" {
		return nil, errors.New("REGION_CODE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseExcludedSources distinguishes an unset EXCLUDED_SOURCES (default list)
// from an explicitly empty one (no exclusions).
func parseExcludedSources() []string {
	v, ok := os.LookupEnv("EXCLUDED_SOURCES")
	if !ok {
		return slices.Clone(domain.DefaultExcludedSources)
	}
	return parseList(v)
}

// parseList splits a comma-separated list, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
