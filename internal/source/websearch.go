package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobhydra/internal/model"
)

// DefaultWebSearchURL is the DuckDuckGo HTML endpoint.
const DefaultWebSearchURL = "https://html.duckduckgo.com/html/"

// WebSearch runs a free-text query against an HTML search results page and
// parses the result list. No API key is involved.
type WebSearch struct {
	endpoint string
	query    string
	client   *http.Client
}

// NewWebSearch creates a free-text search provider.
func NewWebSearch(endpoint, query string, client *http.Client) *WebSearch {
	if endpoint == "" {
		endpoint = DefaultWebSearchURL
	}
	return &WebSearch{endpoint: endpoint, query: query, client: client}
}

func (s *WebSearch) Name() string { return fmt.Sprintf("websearch[%s]", s.query) }

func (s *WebSearch) Kind() model.SourceKind { return model.SourceWebSearch }

// Fetch issues the query and returns the parsed results.
func (s *WebSearch) Fetch(ctx context.Context) ([]model.Candidate, error) {
	u := s.endpoint + "?" + url.Values{"q": {s.query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("web search %q: %w", s.query, err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search %q: %w", s.query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("web search %q: unexpected status %d", s.query, resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("web search %q: parse html: %w", s.query, err)
	}

	var cands []model.Candidate
	doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
		a := sel.Find("a.result__a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		link := unwrapRedirect(href)
		title := strings.Join(strings.Fields(a.Text()), " ")
		if link == "" || title == "" {
			return
		}
		cands = append(cands, model.Candidate{
			Title:   title,
			RawLink: link,
			Snippet: strings.Join(strings.Fields(sel.Find(".result__snippet").Text()), " "),
		})
	})
	return cands, nil
}

// unwrapRedirect resolves DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links.
func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
