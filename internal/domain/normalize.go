package domain

import (
	"strconv"
	"strings"
)

// DefaultExcludedSources lists sources that republish aggregates of the other
// sources and would otherwise show up as spurious agreement.
var DefaultExcludedSources = []string{"OpenCOVID19-fr"}

// NormalizeOptions selects which raw records survive normalization.
type NormalizeOptions struct {
	RegionCode      string
	ExcludedSources []string
}

func (o NormalizeOptions) excluded(source string) bool {
	for _, s := range o.ExcludedSources {
		if s == source {
			return true
		}
	}
	return false
}

// Normalize converts a raw record into its normalized shape. It returns false
// when the record belongs to another region or an excluded source. The second
// result reports how many category fields were present but failed coercion.
func Normalize(raw RawRecord, opts NormalizeOptions) (NormalizedRecord, int, bool) {
	if raw.Code != opts.RegionCode || opts.excluded(raw.Source.Name) {
		return NormalizedRecord{}, 0, false
	}

	rec := NormalizedRecord{
		Date:   normalizeDate(raw.Date),
		Source: raw.Source.Name,
		Values: make(map[CategoryID]int64, len(raw.Values)),
	}

	dropped := 0
	for _, c := range Categories {
		rv, ok := raw.Values[c]
		if !ok || !rv.Present {
			continue
		}
		v, ok := parseLeadingInt(rv.Text)
		if !ok {
			dropped++
			continue
		}
		rec.Values[c] = v
	}
	return rec, dropped, true
}

// normalizeDate patches the upstream "2020_03_14" defect. No other validation
// is performed.
func normalizeDate(date string) string {
	return strings.ReplaceAll(date, "_", "-")
}

// parseLeadingInt parses the longest signed decimal prefix of s, skipping
// leading whitespace: "12" → 12, "-3" → -3, "12.7" → 12, "12abc" → 12.
// Returns false when there are no leading digits.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Out of int64 range.
		return 0, false
	}
	return v, true
}
