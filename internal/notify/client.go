package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avetisov/toolhub/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the delivery result of a dispatch attempt.
type Outcome string

const (
	// OutcomeDelivered means the main server accepted the notification.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSuppressed means the gate held the notification back.
	OutcomeSuppressed Outcome = "suppressed"
	// OutcomeFailed means dispatch was attempted but did not succeed.
	// The failure is logged and never propagated: notification delivery
	// is a side channel, independent of the task that triggered it.
	OutcomeFailed Outcome = "failed"
)

// Notifier sends best-effort notification and progress calls to the
// main server.
type Notifier struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// NewNotifier constructs a Notifier. timeout bounds every outbound call.
func NewNotifier(baseURL string, timeout time.Duration, log *zap.Logger) *Notifier {
	return &Notifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
}

// NotifyUser dispatches a notification to a user unless the user's
// preferences suppress it. The returned Outcome is informational;
// callers are free to ignore it.
func (n *Notifier) NotifyUser(ctx context.Context, userID, message, taskID, category string, prefs models.Preferences) Outcome {
	loc := UserLocation(prefs.QuietHours.Timezone, n.log)
	if ShouldSuppress(prefs, category, n.now().In(loc)) {
		n.log.Info("notification suppressed by user preferences",
			zap.String("user_id", userID),
			zap.String("category", category),
		)
		return OutcomeSuppressed
	}

	payload := map[string]any{
		"user_id": userID,
		"message": message,
		"task_id": taskID,
	}
	if err := n.post(ctx, "/notifications/internal/create", payload); err != nil {
		n.log.Error("failed to send notification",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return OutcomeFailed
	}

	n.log.Info("notification sent",
		zap.String("user_id", userID),
		zap.String("task_id", taskID),
	)
	return OutcomeDelivered
}

// PushProgressUpdate forwards a task progress update to the main
// server, which pushes it to the client over its own channel.
// Fire-and-forget: failures are logged and swallowed.
func (n *Notifier) PushProgressUpdate(ctx context.Context, userID, taskID, runID string, message json.RawMessage) {
	payload := map[string]any{
		"user_id": userID,
		"task_id": taskID,
		"run_id":  runID,
		"message": message,
	}
	if err := n.post(ctx, "/tasks/internal/progress-update", payload); err != nil {
		n.log.Error("failed to push progress update",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	}
}

// PushTaskRefresh tells the main server to refresh a user's task list.
// The message field is unused by the receiving endpoint.
func (n *Notifier) PushTaskRefresh(ctx context.Context, userID, taskID, runID string) {
	payload := map[string]any{
		"user_id": userID,
		"task_id": taskID,
		"run_id":  runID,
		"message": "",
	}
	if err := n.post(ctx, "/tasks/internal/task-update-push", payload); err != nil {
		n.log.Error("failed to push task refresh",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	}
}

func (n *Notifier) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return nil
}
