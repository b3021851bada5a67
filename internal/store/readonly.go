package store

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobhydra/internal/model"
)

// ReadOnly reads history from an inner sink but drops every append. Used in
// dry-run mode so a run can be rehearsed against real history.
type ReadOnly struct {
	inner  model.Sink
	logger *slog.Logger
}

var _ model.Sink = (*ReadOnly)(nil)

func NewReadOnly(inner model.Sink, logger *slog.Logger) *ReadOnly {
	return &ReadOnly{inner: inner, logger: logger}
}

func (s *ReadOnly) LoadHistory(ctx context.Context) (model.History, error) {
	return s.inner.LoadHistory(ctx)
}

func (s *ReadOnly) Append(_ context.Context, rows []model.Row) error {
	for _, r := range rows {
		s.logger.Info("dry run: row not persisted", "row", r.ID, "title", r.Title, "link", r.Link)
	}
	return nil
}

// Empty is a sink with no history that discards appends.
type Empty struct{}

var _ model.Sink = Empty{}

func (Empty) LoadHistory(context.Context) (model.History, error) {
	return model.History{}, nil
}

func (Empty) Append(context.Context, []model.Row) error { return nil }
