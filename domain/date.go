package domain

import "time"

// DayFormat is the calendar-day key used when bucketing tasks.
const DayFormat = "2006-01-02"

// RangesOverlap reports whether [s1,e1] and [s2,e2] share at least one day.
// Boundaries are inclusive: ranges touching on a single day overlap.
func RangesOverlap(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayBounds returns the first and last representable instants of t's calendar day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// DayKey formats t's calendar day for grouping.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}
