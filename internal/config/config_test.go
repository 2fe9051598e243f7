package config

import (
	"slices"
	"testing"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testFeedURL   = "http://feed.test/chiffres-cles.json"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "FRA", cfg.RegionCode)
	assert.Equal(t, domain.DefaultExcludedSources, cfg.ExcludedSources)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 256, cfg.ProjectionCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "reconciled-daily-data", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("FEED_URL", testFeedURL)
	t.Setenv("FEED_TIMEOUT", "5s")
	t.Setenv("REGION_CODE", "REG-11")
	t.Setenv("EXCLUDED_SOURCES", "OpenCOVID19-fr, Dashboard ")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PROJECTION_CACHE_SIZE", "32")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-sink")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testFeedURL, cfg.FeedURL)
	assert.Equal(t, 5*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "REG-11", cfg.RegionCode)
	assert.Equal(t, []string{"OpenCOVID19-fr", "Dashboard"}, cfg.ExcludedSources)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 32, cfg.ProjectionCacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaTopic)
}

func TestLoad_DefaultExcludedSourcesIsACopy(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.ExcludedSources)

	want := slices.Clone(domain.DefaultExcludedSources)
	cfg.ExcludedSources[0] = "mutated"
	assert.Equal(t, want, domain.DefaultExcludedSources)
}

func TestLoad_EmptyExcludedSourcesDisablesExclusion(t *testing.T) {
	t.Setenv("EXCLUDED_SOURCES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedSources)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"FEED_TIMEOUT", "soon"},
		{"FEED_TIMEOUT", "-1s"},
		{"REFRESH_INTERVAL", "0s"},
		{"REFRESH_INTERVAL", "hourly"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	for _, v := range []string{"abc", "0", "-5"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("PROJECTION_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PROJECTION_CACHE_SIZE")
		})
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseList(" a ,, b,"))
	assert.Empty(t, parseList(""))
}
