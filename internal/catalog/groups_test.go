package catalog

import (
	"reflect"
	"testing"
	"time"

	"github.com/kennithz884/snapmind/internal/models"
)

func TestDayLabel(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		ts   time.Time
		want string
	}{
		{now.Add(-2 * time.Hour), "Today"},
		{time.Date(2026, time.March, 10, 0, 0, 1, 0, time.UTC), "Today"},
		{time.Date(2026, time.March, 9, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC), "March 5, 2026"},
		{time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC), "December 31, 2025"},
	}
	for _, c := range cases {
		if got := DayLabel(c.ts, now); got != c.want {
			t.Errorf("DayLabel(%v) = %q, want %q", c.ts, got, c.want)
		}
	}
}

func TestGroupByDay_OrderAndPartitioning(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	records := []models.Screenshot{
		{ID: "lastweek", CapturedAt: now.AddDate(0, 0, -5)},
		{ID: "today-early", CapturedAt: now.Add(-6 * time.Hour)},
		{ID: "yesterday", CapturedAt: now.AddDate(0, 0, -1)},
		{ID: "today-late", CapturedAt: now.Add(-1 * time.Hour)},
	}

	groups := GroupByDay(records, now)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Label != "Today" || groups[1].Label != "Yesterday" || groups[2].Label != "March 5, 2026" {
		t.Errorf("labels = %q %q %q", groups[0].Label, groups[1].Label, groups[2].Label)
	}
	if groups[0].Items[0].ID != "today-late" || groups[0].Items[1].ID != "today-early" {
		t.Errorf("today group not newest-first: %v", groups[0].Items)
	}
}

func TestGroupByDay_Idempotent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	records := []models.Screenshot{
		{ID: "a", CapturedAt: now.Add(-time.Hour)},
		{ID: "b", CapturedAt: now.AddDate(0, 0, -1)},
	}

	first := GroupByDay(records, now)
	second := GroupByDay(records, now)
	if !reflect.DeepEqual(first, second) {
		t.Error("grouping is not idempotent for unchanged input and now")
	}
}

func TestGroupByDay_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	records := []models.Screenshot{
		{ID: "old", CapturedAt: now.Add(-72 * time.Hour)},
		{ID: "new", CapturedAt: now},
	}
	_ = GroupByDay(records, now)
	if records[0].ID != "old" {
		t.Error("input slice order was mutated")
	}
}

func TestGroupByDay_Empty(t *testing.T) {
	if groups := GroupByDay(nil, time.Now()); len(groups) != 0 {
		t.Errorf("empty catalog should yield no groups, got %d", len(groups))
	}
}
