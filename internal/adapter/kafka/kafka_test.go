package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/config"
	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2020, 3, 10, 6, 0, 0, 0, time.UTC)
	snapshot := domain.DailySnapshot{
		RunID:  "run-1",
		Region: "FRA",
		Date:   "2020-03-10",
		Categories: domain.DailyCategoryData{
			domain.CategoryDeaths: {
				{Value: 30, Sources: []string{"Ministère"}, Diff: ptr(5), RollingAvg: ptr(10)},
				{Value: 31, Sources: []string{"Santé publique France"}},
			},
		},
		ComputedAt: now,
	}

	msg, err := serializeToMessage(snapshot)
	require.NoError(t, err)

	assert.Equal(t, []byte("FRA|2020-03-10"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[0].Value)
	assert.Equal(t, "region", msg.Headers[1].Key)
	assert.Equal(t, []byte("FRA"), msg.Headers[1].Value)
	assert.Equal(t, "computed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded domain.DailySnapshot
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, snapshot, decoded)
	assert.Contains(t, string(msg.Value), `"rolling_avg":10`)
	assert.NotContains(t, string(msg.Value), `"diff":null`, "alternates carry no derived fields")
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "REG-11|2020-03-01", MessageKey("REG-11", "2020-03-01"))
}

func TestWriter_LoadBatchEmpty(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "unused"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
