package model

import (
	"context"
)

// SourceKind identifies the family of provider a candidate came from.
type SourceKind string

const (
	SourceSearch    SourceKind = "search"    // keyed web search API
	SourceWebSearch SourceKind = "websearch" // free-text web search
	SourceFeed      SourceKind = "feed"      // syndication feed
	SourceScrape    SourceKind = "scrape"    // full-text scrape of a listing page
	SourceBoard     SourceKind = "board"     // public ATS board API
)

// Candidate is a raw job listing as returned by any Source, enriched in place
// by the normalizer (Link) and optionally the enricher (FullText).
type Candidate struct {
	Title    string
	RawLink  string
	Snippet  string
	FullText string     // empty unless the enricher found a usable document
	Link     string     // canonical link, set by the deduplicator
	Source   SourceKind // provider family
	Origin   string     // provider instance name, for logging
}

// Text returns the best available description of the candidate.
func (c Candidate) Text() string {
	if c.FullText != "" {
		return c.FullText
	}
	return c.Snippet
}

// Source fetches raw candidates from one external provider.
// Implementations return an error on any transport or decode failure; callers
// treat a failed source as an empty batch.
type Source interface {
	Name() string
	Kind() SourceKind
	Fetch(ctx context.Context) ([]Candidate, error)
}

// Enricher retrieves a fuller description for a candidate. It never fails:
// on any problem it returns the candidate's snippet unchanged.
type Enricher interface {
	Enrich(ctx context.Context, c Candidate) string
}
