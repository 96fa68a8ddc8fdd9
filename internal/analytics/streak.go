// Package analytics derives engagement statistics from sparse completion
// records. All functions are pure; "today" is always an input, never read
// from the clock here.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/dayplan/dayplan/internal/store"
)

// day truncates t to its calendar date, preserving the location.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeStreak counts consecutive calendar days, ending today or yesterday,
// that each have at least one completed task. A most recent completion before
// yesterday means the streak is broken, and the walk stops at the first gap.
func ComputeStreak(today time.Time, completed []time.Time) int {
	if len(completed) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(completed))
	days := make([]time.Time, 0, len(completed))
	for _, t := range completed {
		d := day(t)
		key := d.Format(store.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[j].Before(days[i]) })

	today = day(today)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	cursor := days[0]
	for _, d := range days[1:] {
		if !d.Equal(cursor.AddDate(0, 0, -1)) {
			break
		}
		streak++
		cursor = d
	}
	return streak
}

// BuildActivityWindow produces exactly 7 entries spanning today-6 through
// today in ascending order, substituting 0 for dates absent from raw.
func BuildActivityWindow(today time.Time, raw []store.DailyTaskCount) []store.DailyTaskCount {
	byDay := make(map[string]int, len(raw))
	for _, c := range raw {
		byDay[day(c.Date).Format(store.DateLayout)] = c.Count
	}

	today = day(today)
	window := make([]store.DailyTaskCount, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		window = append(window, store.DailyTaskCount{
			Date:  d,
			Count: byDay[d.Format(store.DateLayout)],
		})
	}
	return window
}

// CompletionRate is the integer percentage of completed tasks for a day,
// 0 when nothing was planned.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
