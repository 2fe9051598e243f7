package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/config"
	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces daily snapshots to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes one message per reconciled date in a single
// WriteMessages call. Messages are keyed by region and date so a consumer
// compacting the topic keeps the latest run for each day.
func (w *Writer) LoadBatch(ctx context.Context, snapshots []domain.DailySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshots))
	for i := range snapshots {
		msg, err := serializeToMessage(snapshots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d snapshots: %w", len(msgs), err)
	}
	w.logger.Debug("snapshots published", "topic", w.writer.Topic, "count", len(msgs), "run_id", snapshots[0].RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// MessageKey is the partition key of a snapshot message.
func MessageKey(region, date string) string {
	return region + "|" + date
}

// serializeToMessage marshals a DailySnapshot into a Kafka message.
func serializeToMessage(s domain.DailySnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot %s: %w", s.Date, err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey(s.Region, s.Date)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(s.RunID)},
			{Key: "region", Value: []byte(s.Region)},
			{Key: "computed_at", Value: []byte(s.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
