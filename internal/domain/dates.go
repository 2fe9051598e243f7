package domain

import "time"

// DateLayout is the calendar-day format used for dataset keys.
const DateLayout = "2006-01-02"

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// ShiftDate shifts a YYYY-MM-DD key by n calendar days. Returns false for keys
// that do not parse.
func ShiftDate(date string, n int) (string, bool) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", false
	}
	return AddDays(t, n).Format(DateLayout), true
}

// PriorDay returns the calendar day immediately before date.
func PriorDay(date string) (string, bool) {
	return ShiftDate(date, -1)
}

// RecentFloor returns the DateFloor that keeps the last n days up to and
// including today.
func RecentFloor(n int) string {
	floor, _ := ShiftDate(Today(), -n)
	return floor
}
