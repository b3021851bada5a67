// Package source implements the job-listing providers and the fan-out that
// runs them together.
package source

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobhydra/internal/model"
)

// Recorder is told how many candidates each source produced.
type Recorder interface {
	SourceFetched(kind model.SourceKind, n int)
	SourceFailed(kind model.SourceKind)
}

// Gather runs every source concurrently (at most limit at once; limit <= 0
// means no limit) and returns one batch per source, in the order of sources.
// A failing source is logged and contributes an empty batch.
func Gather(ctx context.Context, sources []model.Source, limit int, rec Recorder, logger *slog.Logger) [][]model.Candidate {
	batches := make([][]model.Candidate, len(sources))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			cands, err := src.Fetch(ctx)
			if err != nil {
				logger.Warn("source failed, using empty batch", "source", src.Name(), "kind", src.Kind(), "error", err)
				if rec != nil {
					rec.SourceFailed(src.Kind())
				}
				return nil
			}
			for j := range cands {
				cands[j].Source = src.Kind()
				cands[j].Origin = src.Name()
			}
			batches[i] = cands
			logger.Debug("source fetched", "source", src.Name(), "candidates", len(cands))
			if rec != nil {
				rec.SourceFetched(src.Kind(), len(cands))
			}
			return nil
		})
	}
	_ = g.Wait()
	return batches
}
