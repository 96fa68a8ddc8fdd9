package analytics

import (
	"testing"
	"time"

	"github.com/dayplan/dayplan/internal/store"
)

var today = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestComputeStreakEmpty(t *testing.T) {
	if got := ComputeStreak(today, nil); got != 0 {
		t.Fatalf("empty input: got %d, want 0", got)
	}
}

func TestComputeStreakTodayOnly(t *testing.T) {
	if got := ComputeStreak(today, []time.Time{today}); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestComputeStreakEndsYesterday(t *testing.T) {
	dates := []time.Time{daysAgo(1), daysAgo(2), daysAgo(3)}
	if got := ComputeStreak(today, dates); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestComputeStreakBrokenBeforeYesterday(t *testing.T) {
	dates := []time.Time{daysAgo(2), daysAgo(3), daysAgo(4)}
	if got := ComputeStreak(today, dates); got != 0 {
		t.Fatalf("most recent before yesterday: got %d, want 0", got)
	}
}

func TestComputeStreakConsecutive(t *testing.T) {
	dates := []time.Time{today, daysAgo(1), daysAgo(2)}
	if got := ComputeStreak(today, dates); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestComputeStreakStopsAtGap(t *testing.T) {
	dates := []time.Time{today, daysAgo(2)}
	if got := ComputeStreak(today, dates); got != 1 {
		t.Fatalf("gap at yesterday: got %d, want 1", got)
	}
}

func TestComputeStreakIgnoresDuplicates(t *testing.T) {
	dates := []time.Time{today, today, daysAgo(1), daysAgo(1), daysAgo(2)}
	if got := ComputeStreak(today, dates); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestComputeStreakUnsortedInput(t *testing.T) {
	dates := []time.Time{daysAgo(2), today, daysAgo(1)}
	if got := ComputeStreak(today, dates); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestComputeStreakIgnoresTimeOfDay(t *testing.T) {
	dates := []time.Time{
		today.Add(23*time.Hour + 59*time.Minute),
		daysAgo(1).Add(5 * time.Minute),
	}
	if got := ComputeStreak(today.Add(8*time.Hour), dates); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestComputeStreakAnyListContainingToday(t *testing.T) {
	// Property: completed lists containing today always give streak >= 1.
	inputs := [][]time.Time{
		{today},
		{today, daysAgo(5)},
		{today, daysAgo(1), daysAgo(3)},
	}
	for _, dates := range inputs {
		if got := ComputeStreak(today, dates); got < 1 {
			t.Fatalf("list %v containing today: got %d, want >= 1", dates, got)
		}
	}
}

func TestBuildActivityWindowShape(t *testing.T) {
	window := BuildActivityWindow(today, nil)
	if len(window) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(window))
	}
	for i, e := range window {
		want := daysAgo(6 - i)
		if !e.Date.Equal(want) {
			t.Fatalf("entry %d: got %v, want %v", i, e.Date, want)
		}
		if e.Count != 0 {
			t.Fatalf("entry %d: empty input should give 0, got %d", i, e.Count)
		}
	}
}

func TestBuildActivityWindowSparseInput(t *testing.T) {
	raw := []store.DailyTaskCount{
		{Date: today, Count: 4},
		{Date: daysAgo(3), Count: 2},
		{Date: daysAgo(9), Count: 7}, // outside the window
	}
	window := BuildActivityWindow(today, raw)
	if len(window) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(window))
	}
	if window[6].Count != 4 {
		t.Fatalf("today: got %d, want 4", window[6].Count)
	}
	if window[3].Count != 2 {
		t.Fatalf("today-3: got %d, want 2", window[3].Count)
	}
	for _, i := range []int{0, 1, 2, 4, 5} {
		if window[i].Count != 0 {
			t.Fatalf("entry %d: got %d, want 0", i, window[i].Count)
		}
	}
}

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0}, // no division-by-zero
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 2, 50},
	}
	for _, c := range cases {
		if got := CompletionRate(c.completed, c.total); got != c.want {
			t.Fatalf("CompletionRate(%d, %d) = %d, want %d", c.completed, c.total, got, c.want)
		}
	}
}
