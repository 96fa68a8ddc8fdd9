// Package alarm registers one-shot wake triggers for task reminders.
package alarm

import (
	"log"
	"sync"
	"time"

	"github.com/dayplan/dayplan/internal/notify"
	"github.com/dayplan/dayplan/internal/store"
)

// Fixed copy for the wind-down pre-reminder and the normal reminder title.
const (
	reminderTitle = "Task Reminder"
	windDownTitle = "Time to wind down"
	windDownBody  = "Your next task starts soon. Wrap up and get ready."
)

type triggerKey struct {
	taskID   int64
	windDown bool
}

// Scheduler keeps at most one pending trigger per task id (plus at most one
// wind-down pre-reminder per id). Re-scheduling replaces the previous
// trigger; canceling with nothing pending is a no-op.
type Scheduler struct {
	Surface notify.Surface
	// Now and Location are injectable for tests; nil means the system clock
	// and the local zone.
	Now      func() time.Time
	Location *time.Location

	mu     sync.Mutex
	timers map[triggerKey]*time.Timer
}

func New(surface notify.Surface) *Scheduler {
	return &Scheduler{
		Surface: surface,
		timers:  make(map[triggerKey]*time.Timer),
	}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// Schedule registers the reminder trigger for t. A malformed date or time, or
// a start instant not strictly in the future, is a silent no-op: stale tasks
// must never fire, and scheduling failures never reach the caller.
func (s *Scheduler) Schedule(t store.Task) {
	s.scheduleAt(t, 0, false)
}

// ScheduleWindDown registers a pre-reminder that fires lead before the task
// starts, with the fixed wind-down copy.
func (s *Scheduler) ScheduleWindDown(t store.Task, lead time.Duration) {
	s.scheduleAt(t, lead, true)
}

func (s *Scheduler) scheduleAt(t store.Task, lead time.Duration, windDown bool) {
	at, err := t.StartsAt(s.loc())
	if err != nil {
		log.Printf("[ALARM] Task %d: %v, skipping", t.ID, err)
		return
	}
	delay := at.Add(-lead).Sub(s.now())
	if delay <= 0 {
		return
	}

	key := triggerKey{taskID: t.ID, windDown: windDown}
	taskID, title := t.ID, t.Title

	s.mu.Lock()
	defer s.mu.Unlock()
	if tm, ok := s.timers[key]; ok {
		tm.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.fire(key, taskID, title)
	})
}

// fire runs on the timer goroutine: a short synchronous unit of work that
// builds and posts one notification.
func (s *Scheduler) fire(key triggerKey, taskID int64, title string) {
	s.mu.Lock()
	delete(s.timers, key)
	s.mu.Unlock()

	n := notify.Notification{
		// Truncated to the platform identifier width so a re-fire for the
		// same task replaces rather than stacks.
		ID:        int32(taskID),
		ChannelID: notify.ChannelTaskReminders,
	}
	if key.windDown {
		n.Title = windDownTitle
		n.Body = windDownBody
	} else {
		n.Title = reminderTitle
		n.Body = title
	}
	if err := s.Surface.Post(n); err != nil {
		log.Printf("[ALARM] Post reminder for task %d: %v", taskID, err)
	}
}

// Cancel removes any pending triggers for t, including its wind-down
// pre-reminder. An alarm that already fired is unaffected.
func (s *Scheduler) Cancel(t store.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []triggerKey{{t.ID, false}, {t.ID, true}} {
		if tm, ok := s.timers[key]; ok {
			tm.Stop()
			delete(s.timers, key)
		}
	}
}

// Pending reports whether a reminder trigger is registered for the task id.
func (s *Scheduler) Pending(taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[triggerKey{taskID, false}]
	return ok
}

// PendingCount returns the number of registered triggers of any kind.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, tm := range s.timers {
		tm.Stop()
		delete(s.timers, key)
	}
}
