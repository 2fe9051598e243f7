package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/couchcryptid/covid-data-etl-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 5 * time.Second
	maxBackoff     = 5 * time.Minute
)

// Extractor retrieves the complete raw feed.
type Extractor interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// Transformer turns a fetched feed into a reconciled dataset.
type Transformer interface {
	Transform(ctx context.Context, feed []domain.RawRecord) (*domain.Dataset, error)
}

// BatchLoader writes daily snapshots to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, snapshots []domain.DailySnapshot) error
}

// Pipeline periodically rebuilds the dataset from scratch and publishes it.
// The latest dataset is swapped atomically; readers never see a partial one.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	interval    time.Duration
	clock       clockwork.Clock

	latest atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline. A nil loader disables snapshot publishing.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		interval:    interval,
		clock:       clockwork.NewRealClock(),
	}
}

// WithClock replaces the clock driving the refresh timer.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// Dataset returns the most recently computed dataset, or nil before the
// first successful refresh.
func (p *Pipeline) Dataset() *domain.Dataset {
	return p.latest.Load()
}

// CheckReadiness returns nil once a dataset is available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("no dataset computed yet")
	}
	return nil
}

// Run refreshes immediately, then on every interval until the context is
// cancelled. Failed refreshes are retried with exponential backoff, capped
// at the refresh interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	ceiling := min(maxBackoff, p.interval)

	for {
		wait := p.interval
		if err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("refresh failed", "error", err, "retry_in", min(backoff, ceiling))
			wait = min(backoff, ceiling)
			backoff = nextBackoff(backoff, ceiling)
		} else {
			backoff = initialBackoff
		}

		if !p.sleep(ctx, wait) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Refresh runs one fetch-reconcile-publish cycle. The new dataset is served
// as soon as it is computed, even if publishing then fails.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := p.clock.Now()

	feed, err := p.extractor.Fetch(ctx)
	p.metrics.FeedFetchDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		p.metrics.FeedFetches.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch feed: %w", err)
	}
	p.metrics.FeedFetches.WithLabelValues("success").Inc()

	ds, err := p.transformer.Transform(ctx, feed)
	if err != nil {
		return fmt.Errorf("transform feed: %w", err)
	}

	p.latest.Store(ds)
	p.recordStats(ds)

	if err := p.publish(ctx, ds); err != nil {
		return err
	}

	p.metrics.RefreshDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.LastRefresh.Set(float64(p.clock.Now().Unix()))
	p.logger.Info("refresh complete",
		"run_id", ds.RunID,
		"region", ds.Region,
		"dates", ds.Stats.Dates,
		"records_kept", ds.Stats.RecordsKept,
		"duration", p.clock.Since(start),
	)
	return nil
}

func (p *Pipeline) publish(ctx context.Context, ds *domain.Dataset) error {
	if p.loader == nil {
		return nil
	}
	snapshots := ds.Snapshots()
	if len(snapshots) == 0 {
		return nil
	}
	if err := p.loader.LoadBatch(ctx, snapshots); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish snapshots: %w", err)
	}
	p.metrics.SnapshotsPublished.Add(float64(len(snapshots)))
	return nil
}

func (p *Pipeline) recordStats(ds *domain.Dataset) {
	p.metrics.RecordsFetched.Add(float64(ds.Stats.RecordsIn))
	p.metrics.RecordsKept.Add(float64(ds.Stats.RecordsKept))
	p.metrics.FieldsDropped.Add(float64(ds.Stats.FieldsDropped))
	p.metrics.DatesReconciled.Set(float64(ds.Stats.Dates))
	p.metrics.AlternateValues.Set(float64(ds.Stats.AlternateValues))
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func nextBackoff(current, ceiling time.Duration) time.Duration {
	next := current * 2
	if next > ceiling {
		return ceiling
	}
	return next
}
