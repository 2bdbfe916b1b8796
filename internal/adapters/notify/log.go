package notify

import (
	"context"
	"log/slog"
)

// LogNotifier implements ports.NotificationService by writing each push to
// the structured log. It stands in for a real push provider.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) SendPush(ctx context.Context, recipient, title, body string) error {
	n.logger.InfoContext(ctx, "push sent", "recipient", recipient, "title", title, "body", body)
	return nil
}
