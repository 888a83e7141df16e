// Package report renders a Summary into the files a user looks at:
// summary.json, report.html and share.svg.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
)

// Output file names inside the output directory.
const (
	SummaryFile = "summary.json"
	HTMLFile    = "report.html"
	ShareFile   = "share.svg"
)

const maxFunFacts = 8

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"pct":    pct,
	"hour":   func(h int) string { return fmt.Sprintf("%02d:00", h) },
	"comma":  comma,
	"fixed1": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"add":    func(a, b int) int { return a + b },
	"mul":    func(a, b int) int { return a * b },
}).ParseFS(templateFS, "templates/*.tmpl"))

// WriteAll writes the three output files into outDir and returns their paths.
func WriteAll(outDir string, s analyze.Summary, yearLabel string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	summaryJSON, err := SummaryJSON(s)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	page, err := HTML(s, yearLabel, now)
	if err != nil {
		return nil, err
	}
	card, err := ShareSVG(s, yearLabel, now)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{HTMLFile, page},
		{SummaryFile, summaryJSON},
		{ShareFile, card},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(outDir, f.name)
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SummaryJSON returns the indented summary with a trailing newline.
func SummaryJSON(s analyze.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return append(data, '\n'), nil
}

type htmlView struct {
	S           analyze.Summary
	YearLabel   string
	GeneratedAt string
	FunFacts    []string
	TopWord     string
	Heatmap     heatmap
	Charts      []chart
	Tables      []table
	Data        template.JS
}

type chart struct {
	Title string
	Rows  analyze.Histogram
	Max   int
}

type table struct {
	Title string
	Rows  []analyze.Entry
}

// HTML renders the standalone report page. generatedAt also anchors the
// calendar when the summary spans all years.
func HTML(s analyze.Summary, yearLabel string, generatedAt time.Time) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	facts := s.FunFacts
	if len(facts) > maxFunFacts {
		facts = facts[:maxFunFacts]
	}
	view := htmlView{
		S:           s,
		YearLabel:   yearLabel,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		FunFacts:    facts,
		TopWord:     "n/a",
		Heatmap:     buildHeatmap(s.MessagesByDayLocal, s.Year, generatedAt, 0, 0),
		Charts: []chart{
			{"Messages by month", s.MessagesByMonth, s.MessagesByMonth.Max()},
			{"Messages by weekday", s.MessagesByWeekday, s.MessagesByWeekday.Max()},
			{"Messages by hour (local)", s.MessagesByHour, s.MessagesByHour.Max()},
		},
		Tables: []table{
			{"Top words", s.TopWords},
			{"Top bigrams", s.TopBigrams},
			{"Top conversations", s.TopTitles},
			{"Models", s.TopModels},
			{"Longest conversations", s.LongestConversations},
		},
		// json.Marshal escapes <, > and & so the payload cannot close the
		// script element.
		Data: template.JS(raw),
	}

	if len(s.TopWords) > 0 {
		view.TopWord = s.TopWords[0].Key
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report.html.tmpl", view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func pct(n, max int) int {
	if max <= 0 {
		return 0
	}
	return n * 100 / max
}

// comma formats n with thousands separators.
func comma(n int) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
