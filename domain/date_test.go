package domain

import (
	"testing"
	"time"
)

func day(value string) time.Time {
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap_InclusiveBoundaries(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical ranges", "2025-01-01", "2025-01-31", "2025-01-01", "2025-01-31", true},
		{"shared single boundary day", "2025-01-01", "2025-01-31", "2025-01-31", "2025-02-15", true},
		{"adjacent, one day apart", "2025-01-01", "2025-01-31", "2025-02-01", "2025-02-15", false},
		{"fully contained", "2025-01-01", "2025-12-31", "2025-06-01", "2025-06-30", true},
		{"disjoint before", "2025-03-01", "2025-03-10", "2025-01-01", "2025-01-31", false},
		{"single-day range inside", "2025-05-05", "2025-05-05", "2025-05-01", "2025-05-10", true},
		{"single-day range touching start", "2025-05-01", "2025-05-01", "2025-05-01", "2025-05-10", true},
	}
	for _, tc := range cases {
		got := RangesOverlap(day(tc.s1), day(tc.e1), day(tc.s2), day(tc.e2))
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		// Overlap is symmetric.
		if back := RangesOverlap(day(tc.s2), day(tc.e2), day(tc.s1), day(tc.e1)); back != tc.want {
			t.Fatalf("%s (reversed): got %v, want %v", tc.name, back, tc.want)
		}
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Fatalf("expected same day for instants on 2025-03-14")
	}
	if SameDay(evening, nextDay) {
		t.Fatalf("expected different days across midnight")
	}
}

func TestDayBounds_CoverWholeDay(t *testing.T) {
	at := time.Date(2025, 7, 20, 13, 45, 12, 999, time.UTC)
	start, end := DayBounds(at)

	if start != time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start of day: %v", start)
	}
	if !end.Before(time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end of day must precede next midnight, got %v", end)
	}
	if !SameDay(start, end) {
		t.Fatalf("bounds must stay on the same calendar day")
	}
}

func TestDayKey(t *testing.T) {
	at := time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)
	if got := DayKey(at); got != "2025-01-05" {
		t.Fatalf("got %q, want 2025-01-05", got)
	}
}
