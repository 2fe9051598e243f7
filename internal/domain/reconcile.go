package domain

// Reconcile merges one date's records into per-category observations.
// Sources agreeing on a value share one observation; each new distinct value
// is appended as an alternate. The first distinct value seen is the primary.
func Reconcile(records []NormalizedRecord) DailyCategoryData {
	day := make(DailyCategoryData)
	for _, rec := range records {
		for _, c := range Categories {
			v, ok := rec.Values[c]
			if !ok {
				continue
			}
			day[c] = mergeObservation(day[c], v, rec.Source)
		}
	}
	return day
}

func mergeObservation(obs []Observation, value int64, source string) []Observation {
	for i := range obs {
		if obs[i].Value == value {
			obs[i].Sources = append(obs[i].Sources, source)
			return obs
		}
	}
	return append(obs, Observation{Value: value, Sources: []string{source}})
}

// Primary returns the primary observation for a category, if any.
func (d DailyCategoryData) Primary(c CategoryID) (Observation, bool) {
	obs := d[c]
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[0], true
}

// alternates counts non-primary observations across all categories.
func (d DailyCategoryData) alternates() int {
	n := 0
	for _, obs := range d {
		if len(obs) > 1 {
			n += len(obs) - 1
		}
	}
	return n
}
