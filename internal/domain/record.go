package domain

import (
	"context"
	"time"
)

// CategoryID identifies one measured quantity in the feed, e.g. "deces".
type CategoryID string

// Feed category identifiers, in canonical display order.
const (
	CategoryConfirmedCases CategoryID = "casConfirmes"
	CategoryHospitalized   CategoryID = "hospitalises"
	CategoryDeaths         CategoryID = "deces"
	CategoryCareHomeDeaths CategoryID = "decesEhpad"
	CategoryIntensiveCare  CategoryID = "reanimation"
	CategoryRecovered      CategoryID = "gueris"
	CategoryTestsPerformed CategoryID = "depistes"
)

// Categories lists every category the normalizer extracts from a raw record.
var Categories = []CategoryID{
	CategoryConfirmedCases,
	CategoryHospitalized,
	CategoryDeaths,
	CategoryCareHomeDeaths,
	CategoryIntensiveCare,
	CategoryRecovered,
	CategoryTestsPerformed,
}

// RawSource is the nested "source" object of a feed entry.
type RawSource struct {
	Name string `json:"nom"`
}

// RawRecord is one feed entry as received. Category values keep their raw
// textual form; coercion happens in [Normalize].
type RawRecord struct {
	Date   string
	Code   string
	Source RawSource
	Values map[CategoryID]RawValue
}

// RawValue is the literal text of a category field. Present is false when the
// field was missing or JSON null.
type RawValue struct {
	Text    string
	Present bool
}

// NormalizedRecord is a region-filtered feed entry with a patched date and
// only the category values that survived integer coercion.
type NormalizedRecord struct {
	Date   string
	Source string
	Values map[CategoryID]int64
}

// Observation is one distinct value reported for a (date, category) pair.
// Diff and RollingAvg are only ever set on the primary observation.
type Observation struct {
	Value      int64    `json:"value"`
	Sources    []string `json:"sources"`
	Diff       *int64   `json:"diff,omitempty"`
	RollingAvg *int64   `json:"rolling_avg,omitempty"`
}

// DailyCategoryData maps a category to its observations for one date. Index 0
// of each slice is the primary observation.
type DailyCategoryData map[CategoryID][]Observation

// IngestStats summarizes what the normalizer kept and dropped during a run.
type IngestStats struct {
	RecordsIn       int `json:"records_in"`
	RecordsKept     int `json:"records_kept"`
	FieldsDropped   int `json:"fields_dropped"`
	Dates           int `json:"dates"`
	AlternateValues int `json:"alternate_values"`
}

// DailySnapshot is the serialized form of one reconciled date, destined for
// the sink topic.
type DailySnapshot struct {
	RunID      string            `json:"run_id"`
	Region     string            `json:"region"`
	Date       string            `json:"date"`
	Categories DailyCategoryData `json:"categories"`
	ComputedAt time.Time         `json:"computed_at"`
}

// FeedFetcher retrieves the complete raw feed in one call.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]RawRecord, error)
}
