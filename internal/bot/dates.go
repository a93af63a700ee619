package bot

import (
	"sort"
	"time"
)

// dayKeyLayout is the calendar-day key format (day/month/two-digit year)
const dayKeyLayout = "02/01/06"

// DayKey returns the calendar-day bucket key of t in the given timezone
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// BucketDays groups timestamps into distinct calendar-day keys in the
// given timezone, newest day first
func BucketDays(times []time.Time, loc *time.Location) []string {
	starts := make(map[string]time.Time)
	for _, t := range times {
		local := t.In(loc)
		key := local.Format(dayKeyLayout)
		if _, ok := starts[key]; !ok {
			starts[key] = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		}
	}

	keys := make([]string, 0, len(starts))
	for key := range starts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return starts[keys[i]].After(starts[keys[j]])
	})
	return keys
}

// DayBounds returns the [start, end) bounds of the calendar day named by
// key in the given timezone. End is the start of the following day, so
// DST transitions do not shift the window.
func DayBounds(key string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}
