// Package notify decides whether user notifications may be sent and
// dispatches them, best-effort, to the main server.
package notify

import (
	"time"

	"github.com/avetisov/toolhub/internal/models"
	"go.uber.org/zap"
)

// ShouldSuppress reports whether a notification of the given category
// must be held back for a user. now must already be in the user's time
// zone. Two independent rules apply: the quiet-hours window and the
// per-category controls; either one suppresses.
func ShouldSuppress(prefs models.Preferences, category string, now time.Time) bool {
	if enabled, ok := prefs.NotificationControls[category]; ok && !enabled {
		return true
	}
	return inQuietHours(prefs.QuietHours, now)
}

// inQuietHours checks now against the user's quiet-hours window. The
// window is [start, end): inclusive of start, exclusive of end. A
// window with start > end spans midnight. Unparseable start/end times
// never suppress.
func inQuietHours(qh models.QuietHours, now time.Time) bool {
	if !qh.Enabled {
		return false
	}
	start, err := parseClock(qh.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(qh.End)
	if err != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()

	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

// parseClock parses a "15:04" time of day into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// UserLocation resolves an IANA zone name, falling back to UTC with a
// logged warning. A bad zone name must never block a notification send.
func UserLocation(name string, log *zap.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("invalid timezone, defaulting to UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
