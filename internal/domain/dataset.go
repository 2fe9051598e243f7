package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Dataset is the reconciled, metric-enriched history for one region. It is
// immutable once returned by ComputeReconciledDataset and safe for concurrent
// readers.
type Dataset struct {
	RunID      string
	Region     string
	ComputedAt time.Time
	Stats      IngestStats

	days  map[string]DailyCategoryData
	dates []string // ascending
}

// ComputeReconciledDataset runs the full pipeline over a fetched feed:
// normalize, group by date, reconcile each date, then derive metrics.
func ComputeReconciledDataset(feed []RawRecord, opts NormalizeOptions) *Dataset {
	stats := IngestStats{RecordsIn: len(feed)}

	normalized := make([]NormalizedRecord, 0, len(feed))
	for _, raw := range feed {
		rec, dropped, ok := Normalize(raw, opts)
		if !ok {
			continue
		}
		stats.RecordsKept++
		stats.FieldsDropped += dropped
		normalized = append(normalized, rec)
	}

	days := make(map[string]DailyCategoryData)
	for _, g := range GroupByDate(normalized) {
		day := Reconcile(g.Records)
		stats.AlternateValues += day.alternates()
		days[g.Date] = day
	}
	DeriveMetrics(days)

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	stats.Dates = len(dates)

	return &Dataset{
		RunID:      uuid.NewString(),
		Region:     opts.RegionCode,
		ComputedAt: clock.Now(),
		Stats:      stats,
		days:       days,
		dates:      dates,
	}
}

// Dates returns every date key in ascending order.
func (d *Dataset) Dates() []string {
	out := make([]string, len(d.dates))
	copy(out, d.dates)
	return out
}

// Day returns the reconciled data for a date. Callers must not mutate it.
func (d *Dataset) Day(date string) (DailyCategoryData, bool) {
	day, ok := d.days[date]
	return day, ok
}

// Primary returns the primary observation for (date, category).
func (d *Dataset) Primary(date string, c CategoryID) (Observation, bool) {
	day, ok := d.days[date]
	if !ok {
		return Observation{}, false
	}
	return day.Primary(c)
}

// PresentCategories returns every category reported on at least one date, in
// canonical order.
func (d *Dataset) PresentCategories() []CategoryID {
	seen := make(map[CategoryID]bool)
	for _, day := range d.days {
		for c, obs := range day {
			if len(obs) > 0 {
				seen[c] = true
			}
		}
	}
	out := make([]CategoryID, 0, len(seen))
	for _, c := range Categories {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// Snapshots flattens the dataset into one DailySnapshot per date, ascending.
func (d *Dataset) Snapshots() []DailySnapshot {
	out := make([]DailySnapshot, 0, len(d.dates))
	for _, date := range d.dates {
		out = append(out, DailySnapshot{
			RunID:      d.RunID,
			Region:     d.Region,
			Date:       date,
			Categories: d.days[date],
			ComputedAt: d.ComputedAt,
		})
	}
	return out
}
