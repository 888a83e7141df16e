package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
)

// Share card geometry.
const (
	cardWidth     = 1200
	cardHeight    = 900
	chartLeft     = 60
	chartBottom   = 800
	chartHeight   = 200
	monthsWidth   = 420
	weekdaysLeft  = 520
	weekdaysWidth = 210
	hoursLeft     = 770
	hoursWidth    = 370
	statPitch     = 185
	heatLeft      = 100
	heatTop       = 330
	modelsLeft    = 880
	barGap        = 3
	modelsShown   = 5
	modelMaxRunes = 26
)

type stat struct {
	X     int
	Label string
	Value string
}

type bar struct {
	X, Y, W, H int
	Label      string
	Count      int
}

type barChart struct {
	Title  string
	Left   int
	Bottom int
	Bars   []bar
}

type swatch struct {
	X     int
	Color string
}

type weekdayLabel struct {
	Y     int
	Label string
}

type shareView struct {
	Width, Height int
	YearLabel     string
	Source        string
	Stats         []stat
	Charts        []barChart
	Heat          heatmap
	HeatLeft      int
	HeatTop       int
	HeatSize      int
	Weekdays      []weekdayLabel
	LegendY       int
	Legend        []swatch
	ModelsLeft    int
	Models        []analyze.Entry
}

// ShareSVG renders a fixed-size image card suitable for posting. today
// anchors the calendar when the summary spans all years.
func ShareSVG(s analyze.Summary, yearLabel string, today time.Time) ([]byte, error) {
	peak := "n/a"
	if s.BusiestHourLocal != nil {
		peak = fmt.Sprintf("%02d:00", *s.BusiestHourLocal)
	}
	values := []struct{ label, value string }{
		{"messages", comma(s.TotalMessages)},
		{"conversations", comma(s.TotalConversations)},
		{"active days", comma(s.ActiveDays)},
		{"longest streak", fmt.Sprintf("%dd", s.LongestStreakDays)},
		{"peak hour", peak},
		{"words / message", fmt.Sprintf("%.1f", s.WordsPerMessage)},
	}
	stats := make([]stat, len(values))
	for i, v := range values {
		stats[i] = stat{X: chartLeft + i*statPitch, Label: v.label, Value: v.value}
	}

	models := make([]analyze.Entry, 0, modelsShown)
	for _, m := range s.TopModels {
		if len(models) == modelsShown {
			break
		}
		models = append(models, analyze.Entry{Key: truncate(m.Key, modelMaxRunes), Count: m.Count})
	}

	view := shareView{
		Width:     cardWidth,
		Height:    cardHeight,
		YearLabel: yearLabel,
		Source:    s.Source,
		Stats:     stats,
		Charts: []barChart{
			{"messages by month", chartLeft, chartBottom, layoutBars(s.MessagesByMonth, chartLeft, monthsWidth)},
			{"messages by weekday", weekdaysLeft, chartBottom, layoutBars(s.MessagesByWeekday, weekdaysLeft, weekdaysWidth)},
			{"messages by hour", hoursLeft, chartBottom, layoutBars(s.MessagesByHour, hoursLeft, hoursWidth)},
		},
		Heat:       buildHeatmap(s.MessagesByDayLocal, s.Year, today, heatLeft, heatTop),
		HeatLeft:   heatLeft,
		HeatTop:    heatTop,
		HeatSize:   heatCellSize,
		LegendY:    heatTop + 7*heatPitch + 10,
		ModelsLeft: modelsLeft,
		Models:     models,
	}
	for i, d := range []string{"Mon", "Wed", "Fri"} {
		view.Weekdays = append(view.Weekdays, weekdayLabel{Y: heatTop + 2*i*heatPitch + heatCellSize - 2, Label: d})
	}
	for i, c := range heatColors {
		view.Legend = append(view.Legend, swatch{X: heatLeft + 40 + i*(heatPitch+2), Color: c})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "share.svg.tmpl", view); err != nil {
		return nil, fmt.Errorf("render share card: %w", err)
	}
	return buf.Bytes(), nil
}

// layoutBars lays out one bar per bucket across width, scaled to the
// tallest bucket.
func layoutBars(h analyze.Histogram, left, width int) []bar {
	if len(h) == 0 {
		return nil
	}
	max := h.Max()
	w := width/len(h) - barGap
	if w < 1 {
		w = 1
	}
	bars := make([]bar, len(h))
	for i, b := range h {
		height := 0
		if max > 0 {
			height = b.Count * chartHeight / max
		}
		bars[i] = bar{
			X:     left + i*(w+barGap),
			Y:     chartBottom - height,
			W:     w,
			H:     height,
			Label: b.Key,
			Count: b.Count,
		}
	}
	return bars
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
