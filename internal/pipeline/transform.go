package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
)

// DatasetTransformer implements Transformer with the domain reconciliation
// pipeline for a single region.
type DatasetTransformer struct {
	opts   domain.NormalizeOptions
	logger *slog.Logger
}

// NewTransformer creates a DatasetTransformer for one region code.
func NewTransformer(opts domain.NormalizeOptions, logger *slog.Logger) *DatasetTransformer {
	return &DatasetTransformer{opts: opts, logger: logger}
}

func (t *DatasetTransformer) Transform(ctx context.Context, feed []domain.RawRecord) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := domain.ComputeReconciledDataset(feed, t.opts)

	if ds.Stats.FieldsDropped > 0 {
		t.logger.Debug("dropped non-numeric category fields", "count", ds.Stats.FieldsDropped)
	}
	if ds.Stats.RecordsKept == 0 {
		t.logger.Warn("no feed records matched region", "region", t.opts.RegionCode, "records_in", ds.Stats.RecordsIn)
	}
	return ds, nil
}
