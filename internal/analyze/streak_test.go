package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want int
	}{
		{"empty", nil, 0},
		{"single", []string{"2024-05-05"}, 1},
		{"run with gap", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"}, 3},
		{"unsorted with duplicates", []string{"2024-01-03", "2024-01-01", "2024-01-02", "2024-01-02"}, 3},
		{"across month and leap day", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 3},
		{"across year", []string{"2023-12-31", "2024-01-01"}, 2},
		{"later run longer", []string{"2024-01-01", "2024-01-05", "2024-01-06"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var days []time.Time
			for _, s := range tt.days {
				days = append(days, day(s))
			}
			assert.Equal(t, tt.want, LongestStreak(days))
		})
	}
}

func TestParseDates_SkipsMalformed(t *testing.T) {
	got := parseDates([]string{"2024-01-01", "garbage"})
	assert.Equal(t, []time.Time{day("2024-01-01")}, got)
}
