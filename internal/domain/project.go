package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
)

// Mode selects which value of the primary observation a series plots.
type Mode int

const (
	ModeRaw Mode = iota
	ModeDiff
	ModeRollingAvg
)

// ErrInvalidMode is returned by ParseMode for unknown mode names.
var ErrInvalidMode = errors.New("invalid display mode")

func (m Mode) String() string {
	switch m {
	case ModeDiff:
		return "diff"
	case ModeRollingAvg:
		return "rolling_avg"
	default:
		return "raw"
	}
}

// ParseMode accepts the mode names used in query strings. "delta" is the
// historical name for diff mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "value":
		return ModeRaw, nil
	case "diff", "delta":
		return ModeDiff, nil
	case "rolling", "rolling_avg", "rollingavg", "avg":
		return ModeRollingAvg, nil
	default:
		return ModeRaw, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ParseHidden parses a comma-separated list of category ids.
func ParseHidden(s string) map[CategoryID]bool {
	hidden := make(map[CategoryID]bool)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			hidden[CategoryID(part)] = true
		}
	}
	return hidden
}

// ProjectOptions controls a projection. DateFloor, when set, keeps only dates
// strictly after it; derived metrics still reflect the full history.
type ProjectOptions struct {
	Mode      Mode
	Hidden    map[CategoryID]bool
	DateFloor string
	Names     CategoryNamer
}

// Series is one category's values aligned to Chart.Labels. A nil entry is a
// gap: no primary observation, or the selected derived field is absent.
type Series struct {
	ID     CategoryID `json:"id"`
	Label  string     `json:"label"`
	Color  string     `json:"color"`
	Hidden bool       `json:"hidden"`
	Data   []*int64   `json:"data"`
}

// Chart is a presentation-ready projection of a dataset.
type Chart struct {
	Mode   string   `json:"mode"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Project reshapes the dataset into chart series. It only reads the dataset
// and is safe to call concurrently.
func Project(d *Dataset, opts ProjectOptions) Chart {
	labels := make([]string, 0, len(d.dates))
	for _, date := range d.dates {
		if opts.DateFloor == "" || date > opts.DateFloor {
			labels = append(labels, date)
		}
	}

	categories := d.PresentCategories()
	series := make([]Series, 0, len(categories))
	for _, c := range categories {
		data := make([]*int64, len(labels))
		for i, date := range labels {
			if obs, ok := d.Primary(date, c); ok {
				data[i] = plotted(obs, opts.Mode)
			}
		}
		series = append(series, Series{
			ID:     c,
			Label:  DisplayName(opts.Names, c),
			Color:  CategoryColor(c),
			Hidden: opts.Hidden[c],
			Data:   data,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return lessFinal(lastValue(series[i].Data), lastValue(series[j].Data))
	})

	return Chart{Mode: opts.Mode.String(), Labels: labels, Series: series}
}

// plotted returns a fresh copy of the value selected by mode.
func plotted(obs Observation, mode Mode) *int64 {
	var src *int64
	switch mode {
	case ModeDiff:
		src = obs.Diff
	case ModeRollingAvg:
		src = obs.RollingAvg
	default:
		src = &obs.Value
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func lastValue(data []*int64) *int64 {
	if len(data) == 0 {
		return nil
	}
	return data[len(data)-1]
}

// lessFinal orders ascending with nil last.
func lessFinal(a, b *int64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

// CategoryColor derives a stable "#rrggbb" color from a category id using a
// 32-bit string hash over its UTF-16 code units, so ids outside the BMP hash
// the same as they do in a browser.
func CategoryColor(id CategoryID) string {
	var h int32
	for _, u := range utf16.Encode([]rune(string(id))) {
		h = int32(u) + (h<<5 - h)
	}
	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%02x", (h>>(i*8))&0xff)
	}
	return b.String()
}
