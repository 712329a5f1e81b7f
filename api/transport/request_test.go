package transport

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	calendar, err := ParseDate("2025-01-31")
	if err != nil {
		t.Fatalf("calendar date rejected: %v", err)
	}
	if calendar != time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected instant: %v", calendar)
	}

	instant, err := ParseDate("2025-01-31T15:04:05Z")
	if err != nil {
		t.Fatalf("RFC3339 instant rejected: %v", err)
	}
	if instant.Hour() != 15 {
		t.Fatalf("unexpected instant: %v", instant)
	}

	for _, bad := range []string{"", "31-01-2025", "2025/01/31", "January 31"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
