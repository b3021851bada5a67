package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches listings from a Greenhouse public job board.
type Greenhouse struct {
	boardToken string
	client     *http.Client
}

// NewGreenhouse creates a new provider for a Greenhouse board.
func NewGreenhouse(boardToken string, client *http.Client) *Greenhouse {
	return &Greenhouse{boardToken: boardToken, client: client}
}

func (a *Greenhouse) Name() string { return "greenhouse[" + a.boardToken + "]" }

func (a *Greenhouse) Kind() model.SourceKind { return model.SourceBoard }

// Fetch retrieves all jobs on the board, with their descriptions.
func (a *Greenhouse) Fetch(ctx context.Context) ([]model.Candidate, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, a.boardToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("greenhouse fetch for %s: unexpected status %d", a.boardToken, resp.StatusCode),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}

	cands := make([]model.Candidate, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		// Greenhouse double-encodes content; extractText unescapes before stripping tags.
		snippet := strings.TrimSpace(gj.Location.Name + " " + truncate(extractText(gj.Content), 300))
		cands = append(cands, model.Candidate{
			Title:   gj.Title,
			RawLink: gj.AbsoluteURL,
			Snippet: snippet,
		})
	}
	return cands, nil
}
