package domain

import "sort"

// DateGroup holds the records reported for one calendar date, in first-seen
// order after the global descending date sort.
type DateGroup struct {
	Date    string
	Records []NormalizedRecord
}

// GroupByDate stably sorts records by date descending and partitions them by
// date. Groups are returned newest first; records keep their relative input
// order within a date.
func GroupByDate(records []NormalizedRecord) []DateGroup {
	sorted := make([]NormalizedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	var groups []DateGroup
	for _, rec := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Date == rec.Date {
			groups[n-1].Records = append(groups[n-1].Records, rec)
			continue
		}
		groups = append(groups, DateGroup{Date: rec.Date, Records: []NormalizedRecord{rec}})
	}
	return groups
}
