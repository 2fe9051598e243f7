package domain

// CategoryNamer resolves display names for category ids.
type CategoryNamer interface {
	CategoryName(id CategoryID) (string, bool)
}

// CategoryNames is a static CategoryNamer backed by a map.
type CategoryNames map[CategoryID]string

// CategoryName implements CategoryNamer.
func (n CategoryNames) CategoryName(id CategoryID) (string, bool) {
	name, ok := n[id]
	return name, ok
}

// DefaultCategoryNames holds the French labels used by the published feed.
var DefaultCategoryNames = CategoryNames{
	CategoryConfirmedCases: "Cas confirmés",
	CategoryHospitalized:   "Hospitalisés",
	CategoryDeaths:         "Décès",
	CategoryCareHomeDeaths: "Décès en EHPAD",
	CategoryIntensiveCare:  "En réanimation",
	CategoryRecovered:      "Guéris",
	CategoryTestsPerformed: "Dépistés",
}

// DisplayName looks up a category's label, falling back to the raw id when the
// namer is nil or has no entry.
func DisplayName(namer CategoryNamer, id CategoryID) string {
	if namer == nil {
		return string(id)
	}
	if name, ok := namer.CategoryName(id); ok && name != "" {
		return name
	}
	return string(id)
}
