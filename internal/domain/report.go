package domain

// Report is the per-day listing of every reconciled observation, newest first.
type Report struct {
	Region string      `json:"region"`
	RunID  string      `json:"run_id"`
	Days   []ReportDay `json:"days"`
}

// ReportDay lists the categories reported on one date.
type ReportDay struct {
	Date       string           `json:"date"`
	Categories []ReportCategory `json:"categories"`
}

// ReportCategory lists every observation for one category on one date,
// primary first.
type ReportCategory struct {
	ID      CategoryID    `json:"id"`
	Name    string        `json:"name"`
	Entries []ReportEntry `json:"entries"`
}

// ReportEntry is one observation compared against the prior day's primary.
// Unlike Observation.Diff, it is filled in for alternates too.
type ReportEntry struct {
	Value       int64    `json:"value"`
	Sources     []string `json:"sources"`
	Primary     bool     `json:"primary"`
	Diff        *int64   `json:"diff,omitempty"`
	DiffPercent *float64 `json:"diff_percent,omitempty"`
}

// BuildReport lists the dataset newest date first, categories in canonical
// order. DiffPercent is relative to the observation's own value and is
// omitted when that value is zero.
func BuildReport(d *Dataset, names CategoryNamer) Report {
	r := Report{Region: d.Region, RunID: d.RunID, Days: make([]ReportDay, 0, len(d.dates))}

	for i := len(d.dates) - 1; i >= 0; i-- {
		date := d.dates[i]
		day := d.days[date]
		prior, hasPrior := PriorDay(date)

		rd := ReportDay{Date: date}
		for _, c := range Categories {
			obs := day[c]
			if len(obs) == 0 {
				continue
			}

			var prev *int64
			if hasPrior {
				if v, ok := primaryValue(d.days, prior, c); ok {
					prev = &v
				}
			}

			rc := ReportCategory{ID: c, Name: DisplayName(names, c), Entries: make([]ReportEntry, 0, len(obs))}
			for j, o := range obs {
				rc.Entries = append(rc.Entries, reportEntry(o, j == 0, prev))
			}
			rd.Categories = append(rd.Categories, rc)
		}
		r.Days = append(r.Days, rd)
	}
	return r
}

func reportEntry(o Observation, primary bool, prev *int64) ReportEntry {
	e := ReportEntry{
		Value:   o.Value,
		Sources: append([]string(nil), o.Sources...),
		Primary: primary,
	}
	if prev == nil {
		return e
	}
	diff := o.Value - *prev
	e.Diff = &diff
	if o.Value != 0 {
		pct := float64(diff) * 100 / float64(o.Value)
		e.DiffPercent = &pct
	}
	return e
}
