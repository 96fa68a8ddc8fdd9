package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Keys written by the host app's onboarding and theming flows. This subsystem
// stores them verbatim and never interprets them.
const (
	SettingDarkTheme  = "dark_theme"
	SettingThemeColor = "theme_color"
	SettingFirstRun   = "first_run"
	SettingUserName   = "user_name"
)

// GetSetting returns the stored value for key, or empty when unset.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting writes a key, overwriting any existing value.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
