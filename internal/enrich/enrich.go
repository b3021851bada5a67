// Package enrich fetches the full posting text behind a candidate link.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobhydra/internal/model"
)

const (
	defaultMinLength = 300
	defaultMaxLength = 4000
	defaultTimeout   = 10 * time.Second

	// maxBodyBytes bounds how much of a page is read.
	maxBodyBytes = 2 << 20
)

const userAgent = "Mozilla/5.0 (compatible; jobhydra/1.0)"

// postingSelectors mark the description block on common job boards, most
// specific first.
var postingSelectors = []string{
	".job-description",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	".section-wrapper.page-full-width",
	"#content",
	"main",
	"article",
}

const noiseSelector = "nav, footer, header, script, style, noscript, form, .cookie-banner, .popup, .sidebar"

// HTMLEnricher downloads the posting page and extracts its main text.
type HTMLEnricher struct {
	client    *http.Client
	timeout   time.Duration
	minLength int
	maxLength int
	logger    *slog.Logger
}

var _ model.Enricher = (*HTMLEnricher)(nil)

// Option configures an HTMLEnricher.
type Option func(*HTMLEnricher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *HTMLEnricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMinLength sets the shortest extracted text that replaces the snippet.
func WithMinLength(n int) Option {
	return func(e *HTMLEnricher) {
		if n > 0 {
			e.minLength = n
		}
	}
}

// WithMaxLength caps the extracted text.
func WithMaxLength(n int) Option {
	return func(e *HTMLEnricher) {
		if n > 0 {
			e.maxLength = n
		}
	}
}

// NewHTMLEnricher creates an enricher using client for every request.
func NewHTMLEnricher(client *http.Client, logger *slog.Logger, opts ...Option) *HTMLEnricher {
	e := &HTMLEnricher{
		client:    client,
		timeout:   defaultTimeout,
		minLength: defaultMinLength,
		maxLength: defaultMaxLength,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns the page text for c.Link, or c.Snippet when the page cannot
// be fetched or holds too little text.
func (e *HTMLEnricher) Enrich(ctx context.Context, c model.Candidate) string {
	link := c.Link
	if link == "" {
		link = c.RawLink
	}
	if link == "" {
		return c.Snippet
	}

	text, err := e.fetch(ctx, link)
	if err != nil {
		e.logger.Debug("enrichment failed, keeping snippet", "link", link, "error", err)
		return c.Snippet
	}
	if len([]rune(text)) < e.minLength {
		e.logger.Debug("enriched text too short, keeping snippet", "link", link, "length", len([]rune(text)))
		return c.Snippet
	}
	return text
}

func (e *HTMLEnricher) fetch(ctx context.Context, link string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("enrich %s: %w", link, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrich %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("enrich %s: unexpected status %d", link, resp.StatusCode),
		}
	}

	text, err := ExtractText(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("enrich %s: %w", link, err)
	}
	return truncate(text, e.maxLength), nil
}

// ExtractText parses an HTML document and returns the text of its posting
// block, falling back to the body, with whitespace collapsed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	content := doc.Find("body")
	for _, sel := range postingSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}
	return strings.Join(strings.Fields(content.Text()), " "), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
