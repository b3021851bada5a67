package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/amishk599/jobhydra/internal/model"
)

// --- Fakes ---

type stubSource struct {
	name  string
	kind  model.SourceKind
	cands []model.Candidate
	err   error
}

func (s *stubSource) Name() string           { return s.name }
func (s *stubSource) Kind() model.SourceKind { return s.kind }
func (s *stubSource) Fetch(_ context.Context) ([]model.Candidate, error) {
	// Copy so repeated runs see the same batch.
	out := make([]model.Candidate, len(s.cands))
	copy(out, s.cands)
	return out, s.err
}

// memSink keeps rows in memory and counts header + rows like a sheet.
type memSink struct {
	header   bool
	links    []string
	rows     []model.Row
	appends  int
	loadErr  error
	writeErr error
}

func (s *memSink) LoadHistory(_ context.Context) (model.History, error) {
	if s.loadErr != nil {
		return model.History{}, s.loadErr
	}
	count := len(s.rows)
	if s.header {
		count++
	}
	return model.History{Links: append([]string(nil), s.links...), RowCount: count}, nil
}

func (s *memSink) Append(_ context.Context, rows []model.Row) error {
	s.appends++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.rows = append(s.rows, rows...)
	for _, r := range rows {
		s.links = append(s.links, r.Link)
	}
	return nil
}

// scriptedClassifier returns one verdict slice per call, in order.
type scriptedClassifier struct {
	script [][]model.Verdict
	seen   [][]model.Candidate
}

func (c *scriptedClassifier) Classify(_ context.Context, chunk []model.Candidate) []model.Verdict {
	c.seen = append(c.seen, append([]model.Candidate(nil), chunk...))
	i := len(c.seen) - 1
	if i < len(c.script) {
		return c.script[i]
	}
	return nil
}

type recordingDrafter struct {
	letter string
	fail   bool
	calls  []string
}

func (d *recordingDrafter) Draft(_ context.Context, c model.Candidate) (string, bool) {
	d.calls = append(d.calls, c.Title)
	if d.fail {
		return "", false
	}
	return d.letter, true
}

type recordingNotifier struct {
	alerts []model.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a model.Alert) error {
	n.alerts = append(n.alerts, a)
	return n.err
}

type recordingRecorder struct {
	mu             sync.Mutex
	fetched        int
	failedSources  int
	failedNotifies int
	summaries      []Summary
}

func (r *recordingRecorder) SourceFetched(_ model.SourceKind, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched += n
}

func (r *recordingRecorder) SourceFailed(_ model.SourceKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failedSources++
}

func (r *recordingRecorder) NotificationFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failedNotifies++
}

func (r *recordingRecorder) RunFinished(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
}

type upperEnricher struct{}

func (upperEnricher) Enrich(_ context.Context, c model.Candidate) string {
	if c.Title == "keep" {
		return c.Snippet
	}
	return "full text of " + c.Title
}

// --- Helpers ---

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return func() time.Time { return t }
}

func cands(titles ...string) []model.Candidate {
	out := make([]model.Candidate, len(titles))
	for i, t := range titles {
		out[i] = model.Candidate{Title: t, RawLink: "https://x.com/" + t, Link: "https://x.com/" + t, Snippet: "about " + t}
	}
	return out
}
