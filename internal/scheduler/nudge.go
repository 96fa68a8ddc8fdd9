package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dayplan/dayplan/internal/notify"
	"github.com/dayplan/dayplan/internal/store"
)

const nudgeNotificationID int32 = -2

// EngagementNudge reminds the user to plan their day when nothing is
// scheduled after their configured wake-up time.
type EngagementNudge struct {
	DB      *store.DB
	Surface notify.Surface
	// Now is injectable for tests; nil means the system clock.
	Now func() time.Time
}

func (j *EngagementNudge) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Run posts a nudge when today has zero planned tasks and the wake time has
// passed. Unlike the update check, store and post errors surface as job
// failure; the runner's next tick is the retry.
func (j *EngagementNudge) Run(ctx context.Context) error {
	p, err := j.DB.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if p == nil || p.WakeUpTime == "" {
		return nil
	}

	wake, err := p.WakeTime()
	if err != nil {
		// Malformed wake time degrades to a no-op, like any other boundary
		// parse failure.
		log.Printf("[NUDGE] %v, skipping", err)
		return nil
	}

	now := j.now()
	wakeToday := time.Date(now.Year(), now.Month(), now.Day(), wake.Hour(), wake.Minute(), 0, 0, now.Location())
	if !now.After(wakeToday) {
		return nil
	}

	today := now.Format(store.DateLayout)
	count, err := j.DB.CountTasksOn(ctx, today)
	if err != nil {
		return fmt.Errorf("count today's tasks: %w", err)
	}
	if count > 0 {
		return nil
	}

	// No per-day dedup flag is persisted, so a zero-task day can nudge again
	// on a later tick after wake time. See DESIGN.md.
	n := notify.Notification{
		ID:        nudgeNotificationID,
		Title:     "Plan your day",
		Body:      "You haven't scheduled anything today. Add a task to get started.",
		ChannelID: notify.ChannelAppAlerts,
	}
	if err := j.Surface.Post(n); err != nil {
		return fmt.Errorf("post nudge: %w", err)
	}
	return nil
}
