package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecurringJob is one named background job registration with its periodic
// schedule. The row, not the process, is the durable record of the schedule.
type RecurringJob struct {
	Name      string
	Interval  time.Duration
	NextRunAt time.Time
	LastRunAt *time.Time
	LastError string
}

// RegisterJob records a named recurring job due at firstRun. An existing
// registration with the same name is left untouched, never duplicated or
// reset.
func (db *DB) RegisterJob(ctx context.Context, name string, interval time.Duration, firstRun time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO recurring_jobs (name, interval_secs, next_run_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, int64(interval/time.Second), firstRun,
	)
	if err != nil {
		return fmt.Errorf("register job %q: %w", name, err)
	}
	return nil
}

// DueJobs returns registrations whose next run is at or before now.
func (db *DB) DueJobs(ctx context.Context, now time.Time) ([]RecurringJob, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, interval_secs, next_run_at, last_run_at, last_error
		 FROM recurring_jobs WHERE next_run_at <= ? ORDER BY next_run_at`, now)
	if err != nil {
		return nil, fmt.Errorf("due jobs: %w", err)
	}
	defer rows.Close()

	var jobs []RecurringJob
	for rows.Next() {
		var j RecurringJob
		var secs int64
		var lastRun sql.NullTime
		var lastErr sql.NullString
		if err := rows.Scan(&j.Name, &secs, &j.NextRunAt, &lastRun, &lastErr); err != nil {
			return nil, err
		}
		j.Interval = time.Duration(secs) * time.Second
		if lastRun.Valid {
			j.LastRunAt = &lastRun.Time
		}
		if lastErr.Valid {
			j.LastError = lastErr.String
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// GetJob returns a registration by name, or nil when absent.
func (db *DB) GetJob(ctx context.Context, name string) (*RecurringJob, error) {
	var j RecurringJob
	var secs int64
	var lastRun sql.NullTime
	var lastErr sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT name, interval_secs, next_run_at, last_run_at, last_error
		 FROM recurring_jobs WHERE name = ?`, name,
	).Scan(&j.Name, &secs, &j.NextRunAt, &lastRun, &lastErr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %q: %w", name, err)
	}
	j.Interval = time.Duration(secs) * time.Second
	if lastRun.Valid {
		j.LastRunAt = &lastRun.Time
	}
	if lastErr.Valid {
		j.LastError = lastErr.String
	}
	return &j, nil
}

// MarkJobRun records an invocation and schedules the next one. Failed runs
// are marked too; the next periodic tick is the implicit retry.
func (db *DB) MarkJobRun(ctx context.Context, name string, now time.Time, interval time.Duration, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := db.ExecContext(ctx,
		`UPDATE recurring_jobs SET last_run_at = ?, last_error = ?, next_run_at = ? WHERE name = ?`,
		now, msg, now.Add(interval), name,
	)
	if err != nil {
		return fmt.Errorf("mark job %q run: %w", name, err)
	}
	return nil
}
