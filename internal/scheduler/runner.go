// Package scheduler runs named recurring jobs on a periodic tick. Job
// registrations persist in the store, so a restart keeps existing schedules
// instead of resetting them.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/dayplan/dayplan/internal/store"
)

// Names and intervals of the two built-in jobs.
const (
	UpdateCheckName     = "update-check"
	UpdateCheckInterval = 6 * time.Hour

	EngagementNudgeName     = "engagement-nudge"
	EngagementNudgeInterval = 2 * time.Hour
)

// Registration binds a persisted job name to its body and constraints.
type Registration struct {
	Name         string
	Interval     time.Duration
	NeedsNetwork bool
	Run          func(ctx context.Context) error
}

// Runner executes due jobs at-least-once per interval. There is no explicit
// retry: a failed, deferred, or missed run is compensated by the next
// periodic tick. Jobs are independent and never coordinated.
type Runner struct {
	DB   *store.DB
	Tick time.Duration
	// Online reports network connectivity; nil uses a TCP dial probe.
	Online func() bool
	// Now is injectable for tests; nil means the system clock.
	Now func() time.Time

	jobs map[string]Registration
	stop chan struct{}
}

func NewRunner(db *store.DB) *Runner {
	return &Runner{
		DB:   db,
		Tick: 1 * time.Minute,
		jobs: make(map[string]Registration),
		stop: make(chan struct{}),
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Register persists the job schedule and binds its body for this process.
// Keep-existing policy: a job with the same name already scheduled is left
// untouched, never duplicated or reset.
func (r *Runner) Register(ctx context.Context, reg Registration) error {
	if reg.Name == "" || reg.Run == nil {
		return fmt.Errorf("scheduler: registration needs a name and a body")
	}
	if _, ok := r.jobs[reg.Name]; ok {
		return nil
	}
	if err := r.DB.RegisterJob(ctx, reg.Name, reg.Interval, r.now()); err != nil {
		return err
	}
	r.jobs[reg.Name] = reg
	return nil
}

// Start begins the background loop.
func (r *Runner) Start() {
	go func() {
		ticker := time.NewTicker(r.Tick)
		defer ticker.Stop()

		log.Println("[SCHEDULER] Started, checking every", r.Tick)

		for {
			select {
			case <-ticker.C:
				r.checkAndRun()
			case <-r.stop:
				log.Println("[SCHEDULER] Stopped")
				return
			}
		}
	}()
}

// Stop halts the runner.
func (r *Runner) Stop() {
	close(r.stop)
}

func (r *Runner) checkAndRun() {
	ctx := context.Background()
	due, err := r.DB.DueJobs(ctx, r.now())
	if err != nil {
		log.Printf("[SCHEDULER] Error listing due jobs: %v", err)
		return
	}

	for _, row := range due {
		reg, ok := r.jobs[row.Name]
		if !ok {
			// Persisted by an earlier run of a build that no longer binds it.
			log.Printf("[SCHEDULER] No body bound for job %s, skipping", row.Name)
			continue
		}
		if reg.NeedsNetwork && !r.online() {
			// Constraint unmet: leave the row due so the next tick retries.
			log.Printf("[SCHEDULER] Deferring %s: network unavailable", row.Name)
			continue
		}

		runErr := reg.Run(ctx)
		if runErr != nil {
			log.Printf("[SCHEDULER] Job %s failed: %v", row.Name, runErr)
		}
		// Mark the run either way; the row's own interval drives the next tick.
		if err := r.DB.MarkJobRun(ctx, row.Name, r.now(), row.Interval, runErr); err != nil {
			log.Printf("[SCHEDULER] Error marking job %s run: %v", row.Name, err)
		}
	}
}

func (r *Runner) online() bool {
	if r.Online != nil {
		return r.Online()
	}
	conn, err := net.DialTimeout("tcp", "1.1.1.1:443", 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
