package analyze

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// LongestStreak returns the longest run of consecutive calendar dates.
// Only the date part of each value is used; duplicates are ignored.
func LongestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(days))
	seen := make(map[time.Time]bool, len(days))
	for _, d := range days {
		civil := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if !seen[civil] {
			seen[civil] = true
			dates = append(dates, civil)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	best, current := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, 1)) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 1
		}
	}
	return best
}

// parseDates converts YYYY-MM-DD keys to dates, skipping malformed keys.
func parseDates(keys []string) []time.Time {
	out := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		if d, err := time.Parse(dateLayout, k); err == nil {
			out = append(out, d)
		}
	}
	return out
}
