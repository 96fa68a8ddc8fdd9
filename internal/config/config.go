// Package config builds runtime configuration from the environment with an
// optional config.json overlay in the config dir.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds runtime configuration. Secrets (webhook secret, version table
// key) are read from the environment or the config dir at runtime; never
// committed.
type Config struct {
	// ConfigDir is where config.json and dayplan.db live (e.g. ~/.config/dayplan or .dayplan).
	ConfigDir string `json:"-"`
	// DBPath is the path to dayplan.db.
	DBPath string `json:"-"`

	// VersionURL is the remote version table endpoint; empty leaves the
	// update check reporting "up to date".
	VersionURL string `json:"version_url"`
	// VersionAPIKey authenticates version table reads.
	VersionAPIKey string `json:"version_api_key"`
	// BuildCode is the running build's version code for update comparison.
	BuildCode int `json:"build_code"`

	// WebhookURL receives notification posts; empty falls back to the log surface.
	WebhookURL string `json:"webhook_url"`
	// WebhookSecret is sent with each post so the receiver can authenticate us.
	WebhookSecret string `json:"webhook_secret"`
	// NotificationsEnabled is the permission gate for posting.
	NotificationsEnabled bool `json:"notifications_enabled"`

	// WindDownLeadMinutes schedules a pre-reminder this long before each
	// timed task; 0 disables wind-down reminders.
	WindDownLeadMinutes int `json:"wind_down_lead_minutes"`
}

// DefaultConfigDir returns the default config directory (project-local
// .dayplan if present, else ~/.config/dayplan).
func DefaultConfigDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".dayplan")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dayplan")
}

// New builds config from env and optional config dir. ConfigDir can be empty
// to use the default.
func New(configDir string) *Config {
	if configDir == "" {
		if d := os.Getenv("DAYPLAN_CONFIG_DIR"); d != "" {
			configDir = d
		} else {
			configDir = DefaultConfigDir()
		}
	}

	buildCode := 1
	if v := os.Getenv("DAYPLAN_BUILD_CODE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			buildCode = n
		}
	}
	lead := 0
	if v := os.Getenv("DAYPLAN_WIND_DOWN_LEAD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			lead = n
		}
	}

	cfg := &Config{
		ConfigDir:            configDir,
		DBPath:               filepath.Join(configDir, "dayplan.db"),
		VersionURL:           os.Getenv("DAYPLAN_VERSION_URL"),
		VersionAPIKey:        os.Getenv("DAYPLAN_VERSION_API_KEY"),
		BuildCode:            buildCode,
		WebhookURL:           os.Getenv("DAYPLAN_WEBHOOK_URL"),
		WebhookSecret:        os.Getenv("DAYPLAN_WEBHOOK_SECRET"),
		NotificationsEnabled: os.Getenv("DAYPLAN_NOTIFICATIONS_DISABLED") != "1",
		WindDownLeadMinutes:  lead,
	}

	// Priority: Env < Config File. Keys present in JSON overwrite fields;
	// keys missing leave the env value untouched.
	configPath := filepath.Join(configDir, "config.json")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = json.Unmarshal(data, cfg)
	}

	return cfg
}
