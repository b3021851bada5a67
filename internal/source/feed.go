package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/amishk599/jobhydra/internal/model"
)

// DefaultJobicyFeed lists remote security-engineering roles.
const DefaultJobicyFeed = "https://jobicy.com/?feed=job_feed&job_categories=security-engineer&job_types=remote"

// feedSnippetLength caps the snippet taken from an item summary.
const feedSnippetLength = 200

// Feed reads an RSS or Atom feed of listings.
type Feed struct {
	name   string
	url    string
	client *http.Client
}

// NewFeed creates a feed provider.
func NewFeed(name, url string, client *http.Client) *Feed {
	return &Feed{name: name, url: url, client: client}
}

func (f *Feed) Name() string { return "feed[" + f.name + "]" }

func (f *Feed) Kind() model.SourceKind { return model.SourceFeed }

// Fetch downloads and parses the feed.
func (f *Feed) Fetch(ctx context.Context) ([]model.Candidate, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client
	fp.UserAgent = DefaultUserAgent

	parsed, err := fp.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.name, err)
	}

	cands := make([]model.Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		cands = append(cands, model.Candidate{
			Title:   item.Title,
			RawLink: item.Link,
			Snippet: truncate(extractText(summary), feedSnippetLength),
		})
	}
	return cands, nil
}
