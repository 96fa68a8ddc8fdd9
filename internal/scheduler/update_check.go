package scheduler

import (
	"context"
	"log"

	"github.com/dayplan/dayplan/internal/notify"
	"github.com/dayplan/dayplan/internal/version"
)

// updateNotificationID is fixed (and outside the task id range) so repeated
// checks replace the previous prompt.
const updateNotificationID int32 = -1

// UpdateCheck compares the remote version table against the running build and
// notifies when a newer version exists.
type UpdateCheck struct {
	Versions  *version.Client
	Surface   notify.Surface
	BuildCode int
}

// Run fetches all version rows and posts an update prompt when the highest
// version code exceeds the running build's. Remote failures are treated as
// "no update available": this job always reports success.
func (j *UpdateCheck) Run(ctx context.Context) error {
	rows, err := j.Versions.List(ctx)
	if err != nil {
		log.Printf("[UPDATE] Version fetch failed, assuming up to date: %v", err)
		return nil
	}

	latest, ok := version.Latest(rows)
	if !ok || latest.VersionCode <= j.BuildCode {
		return nil
	}

	body := latest.Changelog
	if body == "" {
		body = "A new version of the app is ready to download."
	}
	n := notify.Notification{
		ID:        updateNotificationID,
		Title:     "Update available: " + latest.VersionName,
		Body:      body,
		ChannelID: notify.ChannelAppAlerts,
	}
	if err := j.Surface.Post(n); err != nil {
		log.Printf("[UPDATE] Post update notification: %v", err)
	}
	return nil
}
