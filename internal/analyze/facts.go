package analyze

import "fmt"

// funFacts lists one-line observations for the statistics that exist.
func funFacts(s Summary) []string {
	facts := []string{}
	if month, n := maxBucket(s.MessagesByMonth); n > 0 {
		facts = append(facts, "Most chatty month: "+month)
	}
	if day, n := maxBucket(s.MessagesByWeekday); n > 0 {
		facts = append(facts, "Favorite weekday: "+day)
	}
	if s.BusiestHourLocal != nil {
		facts = append(facts, fmt.Sprintf("Peak hour (local): %02d:00", *s.BusiestHourLocal))
	}
	if s.BusiestDayLocal != "" {
		facts = append(facts, fmt.Sprintf("Busiest day: %s (%d messages)", s.BusiestDayLocal, s.BusiestDayMessages))
	}
	if s.LongestStreakDays > 0 {
		facts = append(facts, fmt.Sprintf("Longest streak: %d days", s.LongestStreakDays))
	}
	return facts
}
