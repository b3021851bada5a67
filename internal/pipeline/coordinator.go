package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobhydra/internal/model"
)

// DefaultDraftThreshold is the score both axes must reach before a cover
// letter is drafted.
const DefaultDraftThreshold = 85

// Classifier ranks one chunk. It never fails; no verdicts is a valid answer.
type Classifier interface {
	Classify(ctx context.Context, chunk []model.Candidate) []model.Verdict
}

// Drafter writes a cover letter, reporting false when none was produced.
type Drafter interface {
	Draft(ctx context.Context, c model.Candidate) (string, bool)
}

// Coordinator turns verdicts into rows and alerts.
type Coordinator struct {
	drafter   Drafter
	notifier  model.Notifier
	cursor    *Cursor
	threshold float64
	clock     func() time.Time
	recorder  Recorder
	logger    *slog.Logger

	drafts int
}

// NewCoordinator wires a coordinator. drafter may be nil to disable drafting.
func NewCoordinator(drafter Drafter, notifier model.Notifier, cursor *Cursor, threshold float64, clock func() time.Time, logger *slog.Logger) *Coordinator {
	if clock == nil {
		clock = time.Now
	}
	return &Coordinator{
		drafter:   drafter,
		notifier:  notifier,
		cursor:    cursor,
		threshold: threshold,
		clock:     clock,
		logger:    logger,
	}
}

// Drafts reports how many cover letters were produced so far.
func (c *Coordinator) Drafts() int { return c.drafts }

// Handle processes the verdicts of one chunk in order and returns the rows
// they produced. Notification failures are logged and do not stop the run.
func (c *Coordinator) Handle(ctx context.Context, chunk []model.Candidate, verdicts []model.Verdict) []model.Row {
	var rows []model.Row
	for _, v := range verdicts {
		if v.Index < 0 || v.Index >= len(chunk) {
			c.logger.Warn("verdict index outside chunk, skipping", "index", v.Index, "size", len(chunk))
			continue
		}
		cand := chunk[v.Index]

		row := model.Row{
			Status:       model.StatusNew,
			Label:        model.LabelAIMatch,
			Title:        cand.Title,
			Company:      model.CompanyPlaceholder,
			Link:         cand.Link,
			Timestamp:    c.clock(),
			MatchPercent: v.MatchPercent,
			Suitability:  v.Suitability,
		}

		if c.qualifies(v) && c.drafter != nil {
			if letter, ok := c.drafter.Draft(ctx, cand); ok {
				row.CoverLetter = letter
				c.drafts++
			} else {
				c.logger.Warn("no cover letter drafted", "title", cand.Title)
			}
		}

		row.ID = c.cursor.Next()

		alert := model.Alert{
			RowID:        row.ID,
			Title:        row.Title,
			Link:         row.Link,
			MatchPercent: row.MatchPercent,
			Suitability:  row.Suitability,
			HasDraft:     row.CoverLetter != "",
			Source:       cand.Source,
		}
		if err := c.notifier.Notify(ctx, alert); err != nil {
			c.logger.Error("notification failed", "row", row.ID, "title", row.Title, "error", err)
			if c.recorder != nil {
				c.recorder.NotificationFailed()
			}
		}

		c.logger.Info("match",
			"row", row.ID,
			"title", row.Title,
			"match", model.Percent(row.MatchPercent),
			"suitability", model.Percent(row.Suitability),
			"draft", alert.HasDraft,
		)
		rows = append(rows, row)
	}
	return rows
}

func (c *Coordinator) qualifies(v model.Verdict) bool {
	return v.MatchPercent >= c.threshold && v.Suitability >= c.threshold
}
