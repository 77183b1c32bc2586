// Package notify provides a logging Notifier for deployments without an
// outbound mail integration. Delivery is best-effort by contract; callers
// never propagate notifier errors.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/request/models"
)

// LogNotifier writes notifications to the structured log instead of sending
// email. Implements the orchestrator's Notifier interface.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a notifier that logs instead of delivering.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyRequestCreated(ctx context.Context, userID uuid.UUID, requestType models.Type, coolingOffEnd *time.Time) error {
	attrs := []any{
		"user_id", userID.String(),
		"request_type", string(requestType),
	}
	if coolingOffEnd != nil {
		attrs = append(attrs, "cooling_off_ends_at", coolingOffEnd.Format(time.RFC3339))
	}
	n.logger.InfoContext(ctx, "notify: data request created", attrs...)
	return nil
}

func (n *LogNotifier) NotifyExportReady(ctx context.Context, userID uuid.UUID, downloadURL string, retention time.Duration) error {
	n.logger.InfoContext(ctx, "notify: export ready",
		"user_id", userID.String(),
		"download_url", downloadURL,
		"retention", retention.String(),
	)
	return nil
}
