package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Wire formats for calendar dates and wall-clock times carried by task rows.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrMalformedTime reports a date or time string that does not parse. Callers
// degrade to a no-op or a fallback instead of propagating it.
var ErrMalformedTime = errors.New("store: malformed date or time")

// Task is one planned entry on a calendar day. Dates and times stay in their
// string wire form in the row; parse them at the boundary with Day/StartsAt.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`       // yyyy-MM-dd
	StartTime   string    `json:"start_time"` // HH:mm
	EndTime     string    `json:"end_time"`   // HH:mm
	IsAllDay    bool      `json:"is_all_day"`
	IsCompleted bool      `json:"is_completed"`
	Notes       string    `json:"notes"`
	Subtasks    []string  `json:"subtasks"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyTaskCount is a per-day completed-task count derived by query, never
// persisted.
type DailyTaskCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Day parses the task's calendar date in loc.
func (t Task) Day(loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, t.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedTime, t.Date)
	}
	return d, nil
}

// StartsAt resolves the task's date and start time to an absolute instant in loc.
func (t Task) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := t.Day(loc)
	if err != nil {
		return time.Time{}, err
	}
	clk, err := time.Parse(ClockLayout, t.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start time %q", ErrMalformedTime, t.StartTime)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clk.Hour(), clk.Minute(), 0, 0, loc), nil
}

// Duration returns the planned length of a timed task. Inverted or malformed
// ranges collapse to zero; the store does not enforce start <= end.
func (t Task) Duration() time.Duration {
	start, err := time.Parse(ClockLayout, t.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(ClockLayout, t.EndTime)
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// CreateTask inserts a task and returns its store-assigned id.
func (db *DB) CreateTask(ctx context.Context, t Task) (int64, error) {
	subs, err := marshalSubtasks(t.Subtasks)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO tasks (title, date, start_time, end_time, is_all_day, is_completed, notes, subtasks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Date, t.StartTime, t.EndTime, t.IsAllDay, t.IsCompleted, t.Notes, subs,
	)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return res.LastInsertId()
}

// UpdateTask rewrites every mutable field of the task row.
func (db *DB) UpdateTask(ctx context.Context, t Task) error {
	subs, err := marshalSubtasks(t.Subtasks)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, date = ?, start_time = ?, end_time = ?, is_all_day = ?,
		        is_completed = ?, notes = ?, subtasks = ?
		 WHERE id = ?`,
		t.Title, t.Date, t.StartTime, t.EndTime, t.IsAllDay, t.IsCompleted, t.Notes, subs, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}

// DeleteTask removes a task row.
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// SetTaskCompleted toggles the completion flag.
func (db *DB) SetTaskCompleted(ctx context.Context, id int64, done bool) error {
	_, err := db.ExecContext(ctx, `UPDATE tasks SET is_completed = ? WHERE id = ?`, done, id)
	return err
}

const taskColumns = `id, title, date, start_time, end_time, is_all_day, is_completed, notes, subtasks, created_at`

// GetTask returns the task by id, or nil when it does not exist.
func (db *DB) GetTask(ctx context.Context, id int64) (*Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// TasksOn returns the tasks planned for a calendar date, ordered by start time.
func (db *DB) TasksOn(ctx context.Context, date string) ([]Task, error) {
	return db.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE date = ? ORDER BY start_time, id`, date)
}

// UpcomingTasks returns incomplete tasks on or after the given date, the set
// whose reminders need re-registering after a restart.
func (db *DB) UpcomingTasks(ctx context.Context, from string) ([]Task, error) {
	return db.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE date >= ? AND is_completed = 0 ORDER BY date, start_time, id`, from)
}

// CountTasksOn returns how many tasks are planned for a calendar date.
func (db *DB) CountTasksOn(ctx context.Context, date string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE date = ?`, date).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks on %s: %w", date, err)
	}
	return n, nil
}

// TodayTotals returns the completed and total task counts for a calendar date.
func (db *DB) TodayTotals(ctx context.Context, date string) (completed, total int, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(is_completed), 0), COUNT(*) FROM tasks WHERE date = ?`, date,
	).Scan(&completed, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("totals on %s: %w", date, err)
	}
	return completed, total, nil
}

// CompletedDates returns the distinct calendar dates with at least one
// completed task, most recent first. Rows with malformed dates are skipped.
func (db *DB) CompletedDates(ctx context.Context, loc *time.Location) ([]time.Time, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT date FROM tasks WHERE is_completed = 1 ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("completed dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(DateLayout, raw, loc)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DailyCompletedCounts returns per-day completed counts for dates in
// [from, to], ascending. Days with no completions are absent.
func (db *DB) DailyCompletedCounts(ctx context.Context, loc *time.Location, from, to string) ([]DailyTaskCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT date, COUNT(*) FROM tasks
		 WHERE is_completed = 1 AND date BETWEEN ? AND ?
		 GROUP BY date ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily completed counts: %w", err)
	}
	defer rows.Close()

	var counts []DailyTaskCount
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(DateLayout, raw, loc)
		if err != nil {
			continue
		}
		counts = append(counts, DailyTaskCount{Date: d, Count: n})
	}
	return counts, rows.Err()
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...interface{}) ([]Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var subs string
	err := row.Scan(&t.ID, &t.Title, &t.Date, &t.StartTime, &t.EndTime,
		&t.IsAllDay, &t.IsCompleted, &t.Notes, &subs, &t.CreatedAt)
	if err != nil {
		return Task{}, err
	}
	if subs != "" {
		if err := json.Unmarshal([]byte(subs), &t.Subtasks); err != nil {
			// Unreadable subtask payload degrades to an empty list.
			t.Subtasks = nil
		}
	}
	return t, nil
}

func marshalSubtasks(subs []string) (string, error) {
	if subs == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		return "", fmt.Errorf("marshal subtasks: %w", err)
	}
	return string(raw), nil
}
