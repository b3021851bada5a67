// Package notifier delivers match alerts to chat services and terminals.
package notifier

import (
	"context"
	"errors"

	"github.com/amishk599/jobhydra/internal/model"
)

// Multi fans an alert out to several notifiers. Every notifier is tried;
// the joined error reports the ones that failed.
type Multi []model.Notifier

var _ model.Notifier = Multi(nil)

func (m Multi) Notify(ctx context.Context, a model.Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendTestMessage sends a dummy alert to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	return n.Notify(ctx, model.Alert{
		RowID:        0,
		Title:        "Test notification: integration verified",
		Link:         "https://example.com/jobs/test",
		MatchPercent: 100,
		Suitability:  100,
		HasDraft:     false,
		Source:       model.SourceSearch,
	})
}
