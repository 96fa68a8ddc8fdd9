// dayplan is the reminder and engagement daemon behind the day-planner app:
// it restores task alarms at startup, runs the recurring update-check and
// engagement-nudge jobs, and posts notifications through the configured
// surface. The planner UI owns task CRUD; this process owns time.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dayplan/dayplan/internal/alarm"
	"github.com/dayplan/dayplan/internal/config"
	"github.com/dayplan/dayplan/internal/notify"
	"github.com/dayplan/dayplan/internal/scheduler"
	"github.com/dayplan/dayplan/internal/store"
	"github.com/dayplan/dayplan/internal/version"
)

func main() {
	_ = godotenv.Load()
	cfg := config.New("")
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	surface := pickSurface(cfg)
	if err := surface.EnsureChannel(notify.ChannelTaskReminders,
		"Task Reminders", "Exact-time reminders for planned tasks", notify.ImportanceHigh); err != nil {
		return fmt.Errorf("ensure channel: %w", err)
	}
	if err := surface.EnsureChannel(notify.ChannelAppAlerts,
		"App Alerts", "Update prompts and planning nudges", notify.ImportanceDefault); err != nil {
		return fmt.Errorf("ensure channel: %w", err)
	}

	alarms := alarm.New(surface)
	defer alarms.Stop()
	if err := restoreAlarms(ctx, db, alarms, cfg); err != nil {
		return fmt.Errorf("restore alarms: %w", err)
	}

	runner := scheduler.NewRunner(db)
	update := &scheduler.UpdateCheck{
		Versions:  version.NewClient(cfg.VersionURL, cfg.VersionAPIKey),
		Surface:   surface,
		BuildCode: cfg.BuildCode,
	}
	if err := runner.Register(ctx, scheduler.Registration{
		Name:         scheduler.UpdateCheckName,
		Interval:     scheduler.UpdateCheckInterval,
		NeedsNetwork: true,
		Run:          update.Run,
	}); err != nil {
		return err
	}
	nudge := &scheduler.EngagementNudge{DB: db, Surface: surface}
	if err := runner.Register(ctx, scheduler.Registration{
		Name:     scheduler.EngagementNudgeName,
		Interval: scheduler.EngagementNudgeInterval,
		Run:      nudge.Run,
	}); err != nil {
		return err
	}
	runner.Start()
	defer runner.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("[DAYPLAN] Shutting down")
	return nil
}

func pickSurface(cfg *config.Config) notify.Surface {
	allowed := func() bool { return cfg.NotificationsEnabled }
	if cfg.WebhookURL != "" {
		s := notify.NewWebhookSurface(cfg.WebhookURL, cfg.WebhookSecret)
		s.Allowed = allowed
		return s
	}
	s := notify.NewLogSurface()
	s.Allowed = allowed
	return s
}

// restoreAlarms re-registers wake triggers for future incomplete tasks, the
// same pass the app runs after a device reboot. Stale and all-day tasks are
// skipped by the alarm scheduler's own guards.
func restoreAlarms(ctx context.Context, db *store.DB, alarms *alarm.Scheduler, cfg *config.Config) error {
	today := time.Now().Format(store.DateLayout)
	tasks, err := db.UpcomingTasks(ctx, today)
	if err != nil {
		return err
	}
	restored := 0
	for _, t := range tasks {
		if t.IsAllDay || t.StartTime == "" {
			continue
		}
		alarms.Schedule(t)
		if cfg.WindDownLeadMinutes > 0 {
			alarms.ScheduleWindDown(t, time.Duration(cfg.WindDownLeadMinutes)*time.Minute)
		}
		restored++
	}
	log.Printf("[DAYPLAN] Restored alarms for %d upcoming tasks", restored)
	return nil
}
