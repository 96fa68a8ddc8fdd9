package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dayplan/dayplan/internal/store"
)

// nineAM is a fixed wall-clock "now" comfortably after a 06:30 wake time.
var nineAM = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newNudge(t *testing.T, now time.Time) (*EngagementNudge, *fakeSurface, *store.DB) {
	t.Helper()
	db := newTestDB(t)
	surface := &fakeSurface{}
	job := &EngagementNudge{DB: db, Surface: surface, Now: func() time.Time { return now }}
	return job, surface, db
}

func TestNudgeNoProfile(t *testing.T) {
	job, surface, _ := newNudge(t, nineAM)
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(surface.posted()) != 0 {
		t.Fatal("no profile means no nudge")
	}
}

func TestNudgeNoWakeTime(t *testing.T) {
	job, surface, db := newNudge(t, nineAM)
	db.SaveProfile(context.Background(), store.Profile{Name: "Sam"})

	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(surface.posted()) != 0 {
		t.Fatal("unset wake time means no nudge")
	}
}

func TestNudgeBeforeWakeTime(t *testing.T) {
	fiveAM := time.Date(2026, 3, 14, 5, 0, 0, 0, time.UTC)
	job, surface, db := newNudge(t, fiveAM)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "06:30"})

	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(surface.posted()) != 0 {
		t.Fatal("nudge is only relevant after wake time")
	}
}

func TestNudgeExactlyAtWakeTime(t *testing.T) {
	wake := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	job, surface, db := newNudge(t, wake)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "06:30"})

	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// "Not after" includes the exact wake minute.
	if len(surface.posted()) != 0 {
		t.Fatal("now == wake time should not nudge")
	}
}

func TestNudgeZeroTasksPostsNudge(t *testing.T) {
	job, surface, db := newNudge(t, nineAM)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "06:30"})

	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	posts := surface.posted()
	if len(posts) != 1 {
		t.Fatalf("expected one nudge, got %d", len(posts))
	}
	if posts[0].ID != nudgeNotificationID {
		t.Fatalf("wrong notification id: %d", posts[0].ID)
	}
}

func TestNudgeWithPlannedTasks(t *testing.T) {
	job, surface, db := newNudge(t, nineAM)
	ctx := context.Background()
	db.SaveProfile(ctx, store.Profile{WakeUpTime: "06:30"})
	db.CreateTask(ctx, store.Task{Title: "Planned", Date: nineAM.Format(store.DateLayout)})

	if err := job.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(surface.posted()) != 0 {
		t.Fatal("a planned day needs no nudge")
	}
}

func TestNudgeMalformedWakeTimeIsNoOp(t *testing.T) {
	job, surface, db := newNudge(t, nineAM)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "sunrise"})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("malformed wake time must degrade to a no-op: %v", err)
	}
	if len(surface.posted()) != 0 {
		t.Fatal("malformed wake time must not nudge")
	}
}

func TestNudgePostErrorSurfacesAsFailure(t *testing.T) {
	job, surface, db := newNudge(t, nineAM)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "06:30"})
	surface.err = errors.New("bridge offline")

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("post failure must surface as job failure")
	}
}

func TestNudgeStoreErrorSurfacesAsFailure(t *testing.T) {
	job, _, db := newNudge(t, nineAM)
	db.SaveProfile(context.Background(), store.Profile{WakeUpTime: "06:30"})
	db.Close()

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("store failure must surface as job failure")
	}
}
