package bot

import (
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("Failed to load location %s: %v", name, err)
	}
	return loc
}

func TestDayKey(t *testing.T) {
	utc := time.UTC

	// 2024-01-05T10:00:00 in the fixed timezone buckets to "05/01/24"
	key := DayKey(time.Date(2024, 1, 5, 10, 0, 0, 0, utc), utc)
	if key != "05/01/24" {
		t.Errorf("Expected key '05/01/24', got '%s'", key)
	}
}

func TestDayKey_ConvertsToFixedZone(t *testing.T) {
	berlin := mustLoadLocation(t, "Europe/Berlin")

	// 23:30 UTC on Jan 5 is already Jan 6 in Berlin (UTC+1)
	ts := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC)
	key := DayKey(ts, berlin)
	if key != "06/01/24" {
		t.Errorf("Expected key '06/01/24', got '%s'", key)
	}
}

func TestBucketDays(t *testing.T) {
	utc := time.UTC
	times := []time.Time{
		time.Date(2024, 1, 5, 10, 0, 0, 0, utc),
		time.Date(2024, 1, 5, 18, 30, 0, 0, utc),
		time.Date(2024, 1, 7, 9, 0, 0, 0, utc),
		time.Date(2023, 12, 31, 23, 59, 0, 0, utc),
	}

	days := BucketDays(times, utc)

	expected := []string{"07/01/24", "05/01/24", "31/12/23"}
	if len(days) != len(expected) {
		t.Fatalf("Expected %d days, got %d: %v", len(expected), len(days), days)
	}
	for i, day := range expected {
		if days[i] != day {
			t.Errorf("Expected days[%d] = '%s', got '%s'", i, day, days[i])
		}
	}
}

func TestBucketDays_Empty(t *testing.T) {
	days := BucketDays(nil, time.UTC)
	if len(days) != 0 {
		t.Errorf("Expected no days, got %v", days)
	}
}

func TestDayBounds(t *testing.T) {
	utc := time.UTC

	from, to, err := DayBounds("05/01/24", utc)
	if err != nil {
		t.Fatalf("Failed to compute day bounds: %v", err)
	}

	expectedFrom := time.Date(2024, 1, 5, 0, 0, 0, 0, utc)
	expectedTo := time.Date(2024, 1, 6, 0, 0, 0, 0, utc)
	if !from.Equal(expectedFrom) {
		t.Errorf("Expected from %v, got %v", expectedFrom, from)
	}
	if !to.Equal(expectedTo) {
		t.Errorf("Expected to %v, got %v", expectedTo, to)
	}

	// Timestamps inside the day fall within the half-open window
	inside := time.Date(2024, 1, 5, 10, 0, 0, 0, utc)
	if inside.Before(from) || !inside.Before(to) {
		t.Error("Expected 10:00 to fall within day bounds")
	}
}

func TestDayBounds_InvalidKey(t *testing.T) {
	_, _, err := DayBounds("not-a-date", time.UTC)
	if err == nil {
		t.Error("Expected error for invalid day key")
	}
}

func TestDayBounds_RoundTripsDayKey(t *testing.T) {
	berlin := mustLoadLocation(t, "Europe/Berlin")

	ts := time.Date(2024, 3, 31, 15, 0, 0, 0, berlin) // DST switch day
	key := DayKey(ts, berlin)

	from, to, err := DayBounds(key, berlin)
	if err != nil {
		t.Fatalf("Failed to compute day bounds: %v", err)
	}
	if ts.Before(from) || !ts.Before(to) {
		t.Errorf("Expected %v to fall within bounds of its own key [%v, %v)", ts, from, to)
	}
}
