package source

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"

	"github.com/amishk599/jobhydra/internal/credential"
	"github.com/amishk599/jobhydra/internal/model"
)

// CustomSearch runs one Programmable Search query for one result page. The
// {key, cx} pair is chosen per call from the pool.
type CustomSearch struct {
	svc      *customsearch.Service
	pool     []credential.Search
	selector credential.Selector
	query    string
	start    int64
}

// NewCustomSearch creates a provider for query starting at result start (1-based).
// svc should be created without credentials; the key is sent per call.
func NewCustomSearch(svc *customsearch.Service, pool []credential.Search, selector credential.Selector, query string, start int64) *CustomSearch {
	return &CustomSearch{svc: svc, pool: pool, selector: selector, query: query, start: start}
}

func (s *CustomSearch) Name() string {
	return fmt.Sprintf("search[%s]@%d", s.query, s.start)
}

func (s *CustomSearch) Kind() model.SourceKind { return model.SourceSearch }

// Fetch returns the page's items as candidates.
func (s *CustomSearch) Fetch(ctx context.Context) ([]model.Candidate, error) {
	cred, err := credential.Select(s.selector, s.pool)
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}

	resp, err := s.svc.Cse.List().
		Cx(cred.CX).
		Q(s.query).
		Start(s.start).
		Context(ctx).
		Do(googleapi.QueryParameter("key", cred.Key))
	if err != nil {
		return nil, fmt.Errorf("custom search %q: %w", s.query, err)
	}

	cands := make([]model.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		cands = append(cands, model.Candidate{
			Title:   item.Title,
			RawLink: item.Link,
			Snippet: item.Snippet,
		})
	}
	return cands, nil
}
