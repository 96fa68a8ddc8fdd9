// Package timeline interleaves fixed routine slots with user-created tasks
// for the day view. Item is a closed two-case variant; render code dispatches
// with a single switch.
package timeline

import (
	"sort"

	"github.com/dayplan/dayplan/internal/store"
)

// Item is either a FixedSlot or a TaskEntry.
type Item interface {
	// Start is the HH:mm start time; empty sorts first (all-day entries).
	Start() string
	item()
}

// FixedSlot is a routine entry (wake up, lunch, wind down) shown every day
// regardless of planned tasks.
type FixedSlot struct {
	Label     string
	StartTime string
	EndTime   string
}

func (FixedSlot) item() {}

func (f FixedSlot) Start() string { return f.StartTime }

// TaskEntry wraps a user-created task.
type TaskEntry struct {
	Task store.Task
}

func (TaskEntry) item() {}

func (e TaskEntry) Start() string { return e.Task.StartTime }

// Title returns the display label for an item.
func Title(it Item) string {
	switch v := it.(type) {
	case FixedSlot:
		return v.Label
	case TaskEntry:
		return v.Task.Title
	}
	return ""
}

// Merge interleaves fixed slots and tasks in start-time order. The sort is
// stable so same-time entries keep their input order, fixed slots first.
func Merge(fixed []FixedSlot, tasks []store.Task) []Item {
	items := make([]Item, 0, len(fixed)+len(tasks))
	for _, f := range fixed {
		items = append(items, f)
	}
	for _, t := range tasks {
		items = append(items, TaskEntry{Task: t})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Start() < items[j].Start() })
	return items
}
