package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobhydra/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes alerts to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each alert via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert. It never fails.
func (n *LogNotifier) Notify(_ context.Context, a model.Alert) error {
	n.logger.Info("job alert",
		"row", a.RowID,
		"title", a.Title,
		"link", a.Link,
		"match", model.Percent(a.MatchPercent),
		"suitability", model.Percent(a.Suitability),
		"draft", a.HasDraft,
		"accept", a.AcceptToken(),
		"reject", a.RejectToken(),
	)
	return nil
}
