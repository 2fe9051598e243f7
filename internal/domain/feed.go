package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrParseFeed is returned when the feed body is not a JSON array of objects.
	ErrParseFeed = errors.New("parse feed")
	// ErrFetchFeed is returned when the feed cannot be retrieved at all.
	ErrFetchFeed = errors.New("feed unavailable")
)

// ParseFeed decodes a complete feed body. Individual noisy fields never fail
// the parse; only a structurally invalid document does.
func ParseFeed(data []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFeed, err)
	}
	return records, nil
}

// UnmarshalJSON reads the fields the pipeline cares about and keeps category
// values as raw text, whatever JSON type they arrived as.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("feed entry is null")
	}

	*r = RawRecord{
		Date:   textField(fields["date"]),
		Code:   textField(fields["code"]),
		Values: make(map[CategoryID]RawValue, len(Categories)),
	}

	if src, ok := fields["source"]; ok {
		var s struct {
			Nom json.RawMessage `json:"nom"`
		}
		// A malformed source object leaves the name empty.
		if err := json.Unmarshal(src, &s); err == nil {
			r.Source.Name = textField(s.Nom)
		}
	}

	for _, c := range Categories {
		raw, ok := fields[string(c)]
		if !ok {
			continue
		}
		if v, present := rawValue(raw); present {
			r.Values[c] = v
		}
	}
	return nil
}

// rawValue returns the text of a JSON scalar. Strings are unquoted, numbers
// are rendered as their integer part, null is absent.
func rawValue(raw json.RawMessage) (RawValue, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return RawValue{}, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return RawValue{}, false
		}
		return RawValue{Text: s, Present: true}, true
	}
	return RawValue{Text: numberText(string(raw)), Present: true}, true
}

// numberText truncates a JSON number literal toward zero, so "1e3" reads as
// "1000" and "1.5E2" as "150". Plain integers are kept verbatim to avoid
// float rounding; anything ParseFloat rejects or int64 cannot hold is left
// for the normalizer to drop or scan.
func numberText(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return lit
	}
	return strconv.FormatInt(int64(f), 10)
}

func textField(raw json.RawMessage) string {
	v, ok := rawValue(raw)
	if !ok {
		return ""
	}
	return v.Text
}
