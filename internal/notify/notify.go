// Package notify adapts the platform notification surface: channel
// registration, a permission gate, and posting.
package notify

// Importance mirrors the platform's channel importance levels.
type Importance int

const (
	ImportanceDefault Importance = iota
	ImportanceHigh
)

// Fixed channel ids used across the subsystem.
const (
	// ChannelTaskReminders carries per-task and wind-down alarms.
	ChannelTaskReminders = "task_reminders"
	// ChannelAppAlerts carries update prompts and planning nudges.
	ChannelAppAlerts = "app_alerts"
)

// Notification is one user-visible message. Posting the same ID again
// replaces the previous notification instead of stacking.
type Notification struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID string `json:"channel_id"`
}

// Surface is the presentation boundary. EnsureChannel must be idempotent:
// re-creating an existing channel is a safe no-op. Post checks notification
// permission first and silently skips when it is denied.
type Surface interface {
	EnsureChannel(id, name, description string, importance Importance) error
	Post(n Notification) error
}
