// Package pipeline runs one discovery pass: load history, gather, dedup,
// enrich, classify in chunks, coordinate actions and flush rows.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobhydra/internal/filter"
	"github.com/amishk599/jobhydra/internal/model"
	"github.com/amishk599/jobhydra/internal/source"
)

const (
	DefaultChunkSize  = 5
	DefaultChunkDelay = 5 * time.Second
)

// Recorder receives run metrics. All methods must be safe for concurrent use.
type Recorder interface {
	source.Recorder
	NotificationFailed()
	RunFinished(s Summary)
}

// Options tunes a run.
type Options struct {
	ChunkSize      int
	ChunkDelay     time.Duration
	DraftThreshold float64
	FetchLimit     int // concurrent source fetches, <= 0 for unlimited
	EnrichLimit    int // concurrent enrichment fetches
}

// Deps are the collaborators of a run. Enricher, Drafter and Recorder may be nil.
type Deps struct {
	Sources    []model.Source
	Sink       model.Sink
	Policy     *filter.TitlePolicy
	Enricher   model.Enricher
	Classifier Classifier
	Drafter    Drafter
	Notifier   model.Notifier
	Recorder   Recorder
	Clock      func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Fetched    int // raw candidates from all sources
	Accepted   int // unique candidates after dedup and the title policy
	Excluded   int
	Duplicates int
	Invalid    int
	Enriched   int // candidates whose full text replaced the snippet
	Chunks     int
	Matches    int // rows produced
	Drafts     int
	FirstRow   int // correlation id of the first row, 0 when there were no matches
	Duration   time.Duration
}

// Pipeline is a configured run. It holds no state between runs.
type Pipeline struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New creates a pipeline, filling in defaults for unset options.
func New(deps Deps, opts Options, logger *slog.Logger) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkDelay < 0 {
		opts.ChunkDelay = 0
	}
	if opts.DraftThreshold <= 0 {
		opts.DraftThreshold = DefaultDraftThreshold
	}
	if opts.EnrichLimit <= 0 {
		opts.EnrichLimit = 4
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Pipeline{deps: deps, opts: opts, logger: logger}
}

// Run performs one full pass. Only a history load failure or a failed final
// append is returned as an error; every other failure degrades to less output.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := p.deps.Clock()
	sum := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run", sum.RunID)

	history, err := p.deps.Sink.LoadHistory(ctx)
	if err != nil {
		return sum, fmt.Errorf("loading history: %w", err)
	}
	logger.Info("history loaded", "links", len(history.Links), "rows", history.RowCount)

	var srcRec source.Recorder
	if p.deps.Recorder != nil {
		srcRec = p.deps.Recorder
	}
	batches := source.Gather(ctx, p.deps.Sources, p.opts.FetchLimit, srcRec, logger)
	for _, b := range batches {
		sum.Fetched += len(b)
	}

	dedup := filter.NewDeduplicator(p.deps.Policy, history.Links)
	cands := dedup.Merge(batches)
	st := dedup.Stats()
	sum.Accepted = len(cands)
	sum.Excluded = st.Excluded
	sum.Duplicates = st.Duplicates
	sum.Invalid = st.Invalid
	logger.Info("candidates merged",
		"fetched", sum.Fetched,
		"accepted", sum.Accepted,
		"excluded", sum.Excluded,
		"duplicates", sum.Duplicates,
	)

	if p.deps.Enricher != nil {
		sum.Enriched = p.enrich(ctx, cands)
	}

	cursor := NewCursor(history.NextRow())
	coord := NewCoordinator(p.deps.Drafter, p.deps.Notifier, cursor, p.opts.DraftThreshold, p.deps.Clock, logger)
	coord.recorder = p.deps.Recorder

	var rows []model.Row
	chunks := Chunk(cands, p.opts.ChunkSize)
	for i, chunk := range chunks {
		verdicts := p.deps.Classifier.Classify(ctx, chunk)
		rows = append(rows, coord.Handle(ctx, chunk, verdicts)...)
		sum.Chunks++

		if i < len(chunks)-1 {
			if err := sleep(ctx, p.opts.ChunkDelay); err != nil {
				logger.Warn("run interrupted between chunks", "error", err)
				break
			}
		}
	}
	sum.Matches = len(rows)
	sum.Drafts = coord.Drafts()
	if len(rows) > 0 {
		sum.FirstRow = rows[0].ID
	}

	if len(rows) > 0 {
		// Interrupted runs still flush: alerts for these ids were already sent.
		if err := p.deps.Sink.Append(context.WithoutCancel(ctx), rows); err != nil {
			return sum, fmt.Errorf("appending %d rows: %w", len(rows), err)
		}
	}

	sum.Duration = p.deps.Clock().Sub(start)
	logger.Info("run complete",
		"chunks", sum.Chunks,
		"matches", sum.Matches,
		"drafts", sum.Drafts,
		"duration", sum.Duration,
	)
	if p.deps.Recorder != nil {
		p.deps.Recorder.RunFinished(sum)
	}
	return sum, nil
}

// enrich fills FullText in place and returns how many candidates changed.
func (p *Pipeline) enrich(ctx context.Context, cands []model.Candidate) int {
	changed := make([]bool, len(cands))
	var g errgroup.Group
	g.SetLimit(p.opts.EnrichLimit)
	for i := range cands {
		g.Go(func() error {
			text := p.deps.Enricher.Enrich(ctx, cands[i])
			if text != "" && text != cands[i].Snippet {
				cands[i].FullText = text
				changed[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, c := range changed {
		if c {
			n++
		}
	}
	return n
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
