package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/amishk599/jobhydra/internal/model"
)

// ScrapeTarget describes where listings sit on a page.
type ScrapeTarget struct {
	Name    string
	URL     string
	Item    string // selector of one listing
	Title   string // selector of the title inside an item
	Link    string // selector of the anchor inside an item; empty means the title element
	Snippet string // optional selector of a summary inside an item
}

// Scrape extracts listings from a careers or job-board page with colly.
type Scrape struct {
	target    ScrapeTarget
	transport http.RoundTripper
	timeout   time.Duration
}

// NewScrape creates a scrape provider. transport may be nil for the default.
func NewScrape(target ScrapeTarget, transport http.RoundTripper, timeout time.Duration) *Scrape {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scrape{target: target, transport: transport, timeout: timeout}
}

func (s *Scrape) Name() string { return "scrape[" + s.target.Name + "]" }

func (s *Scrape) Kind() model.SourceKind { return model.SourceScrape }

// Fetch visits the page once and collects every item matched by the selectors.
func (s *Scrape) Fetch(ctx context.Context) ([]model.Candidate, error) {
	c := colly.NewCollector(colly.UserAgent(DefaultUserAgent))
	c.SetRequestTimeout(s.timeout)
	if s.transport != nil {
		c.WithTransport(s.transport)
	}

	var (
		cands    []model.Candidate
		fetchErr error
	)
	c.OnHTML(s.target.Item, func(e *colly.HTMLElement) {
		title := strings.Join(strings.Fields(e.ChildText(s.target.Title)), " ")
		linkSel := s.target.Link
		if linkSel == "" {
			linkSel = s.target.Title
		}
		href := e.ChildAttr(linkSel, "href")
		if title == "" || href == "" {
			return
		}
		cand := model.Candidate{
			Title:   title,
			RawLink: e.Request.AbsoluteURL(href),
		}
		if s.target.Snippet != "" {
			cand.Snippet = truncate(strings.Join(strings.Fields(e.ChildText(s.target.Snippet)), " "), 300)
		}
		cands = append(cands, cand)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = &model.HTTPError{StatusCode: r.StatusCode, Err: err}
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Visit(s.target.URL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("scrape %s: %w", s.target.Name, ctx.Err())
	case err := <-done:
		if err == nil {
			err = fetchErr
		}
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", s.target.Name, err)
		}
	}
	return cands, nil
}
