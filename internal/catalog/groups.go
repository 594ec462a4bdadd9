package catalog

import (
	"sort"
	"time"

	"github.com/kennithz884/snapmind/internal/models"
)

// DayLabel returns the calendar-day label for ts relative to now:
// "Today", "Yesterday", or a formatted date like "January 2, 2026".
func DayLabel(ts, now time.Time) string {
	y1, m1, d1 := ts.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y2, m2, d2 = yesterday.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Yesterday"
	}
	return ts.Format("January 2, 2006")
}

// GroupByDay partitions records by calendar-day label, newest-first within
// and across groups. Pure and deterministic given the same records and now.
func GroupByDay(records []models.Screenshot, now time.Time) []models.DayGroup {
	sorted := make([]models.Screenshot, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CapturedAt.After(sorted[j].CapturedAt)
	})

	var groups []models.DayGroup
	idx := make(map[string]int)
	for _, s := range sorted {
		label := DayLabel(s.CapturedAt, now)
		i, ok := idx[label]
		if !ok {
			i = len(groups)
			idx[label] = i
			groups = append(groups, models.DayGroup{Label: label})
		}
		groups[i].Items = append(groups[i].Items, s)
	}
	return groups
}
