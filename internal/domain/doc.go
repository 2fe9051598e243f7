// Package domain models the multi-source COVID-19 key-figures feed and the
// reconciliation pipeline built on top of it.
//
// # Data Source
//
// The feed is the consolidated "chiffres-cles" JSON published by the
// opencovid19-fr project: a flat array of objects, one per (date, region,
// source) report. Several sources (ministry, regional health agencies, press
// digests) report the same figures for the same day, sometimes agreeing and
// sometimes not.
//
// # Feed Conventions
//
// Region code:
//
//	"FRA" for the national total, "REG-xx" for regions, "DEP-xx" for departments.
//	A run processes exactly one code; every other record is discarded.
//
// Date format:
//
//	"YYYY-MM-DD". A known upstream defect emits "2020_03_14"-style dates, so
//	every underscore is replaced with a hyphen. No further validation happens;
//	an unparseable date becomes its own group and never receives derived
//	metrics.
//
// Category values:
//
//	Numbers, numeric strings, empty strings, or noise. Values are coerced
//	like a leading-integer parse: "12" → 12, "12.7" → 12, "12abc" → 12.
//	Anything without leading digits ("", "n/a", null) drops the field for that
//	record only.
//
// # Reconciliation
//
// Within a date, sources reporting the same integer for a category collapse
// into one [Observation] carrying every source name in encounter order. A
// differing value becomes an alternate observation. The first distinct value
// seen is the primary one; only primaries take part in [DeriveMetrics].
//
// # Derived Metrics
//
// Both metrics use literal calendar arithmetic, never "previous available
// record":
//
//	diff        = primary(D) − primary(D−1)           absent if D−1 is missing
//	rolling avg = round(Σ primary(D−1 … D−7) / 7)    absent if any day is missing
package domain
