package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// profileID fixes the user profile to one row. The single-user profile is a
// one-row table contract, not process-global state.
const profileID = 1

// Profile is the user profile row. WakeUpTime is empty until the user sets it.
type Profile struct {
	Name       string `json:"name"`
	ImagePath  string `json:"image_path"`
	WakeUpTime string `json:"wake_up_time"` // HH:mm
}

// GetProfile returns the profile, or nil when no row has been written yet.
func (db *DB) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := db.QueryRowContext(ctx,
		`SELECT name, image_path, wake_up_time FROM user_profile WHERE id = ?`, profileID,
	).Scan(&p.Name, &p.ImagePath, &p.WakeUpTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// SaveProfile upserts the single profile row; the first write materializes it.
func (db *DB) SaveProfile(ctx context.Context, p Profile) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO user_profile (id, name, image_path, wake_up_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, image_path = excluded.image_path, wake_up_time = excluded.wake_up_time`,
		profileID, p.Name, p.ImagePath, p.WakeUpTime,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// WakeTime parses the configured wake-up time as a wall-clock value.
func (p *Profile) WakeTime() (time.Time, error) {
	t, err := time.Parse(ClockLayout, p.WakeUpTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: wake time %q", ErrMalformedTime, p.WakeUpTime)
	}
	return t, nil
}
