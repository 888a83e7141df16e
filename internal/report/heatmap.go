package report

import (
	"time"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
)

// Calendar geometry and scale.
const (
	heatCellSize = 12
	heatCellGap  = 2
	heatPitch    = heatCellSize + heatCellGap
	heatMaxLevel = 4
	// heatSpanDays is how far back the calendar reaches when the report
	// covers all years.
	heatSpanDays = 364
	dayLayout    = "2006-01-02"
)

// heatColors is indexed by heat level.
var heatColors = []string{"#1e293b", "#164e63", "#0e7490", "#06b6d4", "#22d3ee"}

type heatCell struct {
	Date    string
	Count   int
	Level   int
	Week    int
	Weekday int // 0 is Monday
	X, Y    int
	Color   string
}

type monthTick struct {
	Label string
	Week  int
	X     int
}

type heatmap struct {
	Start, End string
	Weeks      int
	Cells      []heatCell
	Months     []monthTick
}

// buildHeatmap lays out one cell per local day, one column per week with
// Monday on top. A report for a single year covers that calendar year;
// otherwise the grid ends on the last active day (or today) and reaches
// back heatSpanDays. Cells are positioned from (x0, y0).
func buildHeatmap(days analyze.Histogram, year *int, today time.Time, x0, y0 int) heatmap {
	var start, end time.Time
	if year != nil {
		start = time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(*year, time.December, 31, 0, 0, 0, 0, time.UTC)
	} else {
		end = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if last, ok := lastDay(days); ok {
			end = last
		}
		start = end.AddDate(0, 0, -heatSpanDays)
	}
	monday := start.AddDate(0, 0, -mondayIndex(start.Weekday()))

	counts := make(map[string]int, len(days))
	for _, b := range days {
		counts[b.Key] = b.Count
	}
	max := days.Max()

	h := heatmap{Start: start.Format(dayLayout), End: end.Format(dayLayout)}
	for d, offset := monday, 0; !d.After(end); d, offset = d.AddDate(0, 0, 1), offset+1 {
		key := d.Format(dayLayout)
		week, weekday := offset/7, offset%7
		level := heatLevel(counts[key], max)
		h.Cells = append(h.Cells, heatCell{
			Date:    key,
			Count:   counts[key],
			Level:   level,
			Week:    week,
			Weekday: weekday,
			X:       x0 + week*heatPitch,
			Y:       y0 + weekday*heatPitch,
			Color:   heatColors[level],
		})
		h.Weeks = week + 1
	}

	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(end); m = m.AddDate(0, 1, 0) {
		week := 0
		if m.After(monday) {
			week = daysBetween(monday, m) / 7
		}
		h.Months = append(h.Months, monthTick{Label: m.Format("Jan"), Week: week, X: x0 + week*heatPitch})
	}
	return h
}

// heatLevel buckets count against max into 0..heatMaxLevel by quarters.
func heatLevel(count, max int) int {
	if max <= 0 || count <= 0 {
		return 0
	}
	switch {
	case 4*count < max:
		return 1
	case 2*count < max:
		return 2
	case 4*count < 3*max:
		return 3
	default:
		return heatMaxLevel
	}
}

func lastDay(days analyze.Histogram) (time.Time, bool) {
	var last time.Time
	for _, b := range days {
		d, err := time.Parse(dayLayout, b.Key)
		if err != nil {
			continue
		}
		if d.After(last) {
			last = d
		}
	}
	return last, !last.IsZero()
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
