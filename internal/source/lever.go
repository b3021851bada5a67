package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Location     string   `json:"location"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Categories       leverCategories `json:"categories"`
	HostedURL        string          `json:"hostedUrl"`
}

// Lever fetches listings from the Lever public postings API.
type Lever struct {
	companySlug string
	client      *http.Client
}

// NewLever creates a new provider for a Lever board.
func NewLever(companySlug string, client *http.Client) *Lever {
	return &Lever{companySlug: companySlug, client: client}
}

func (a *Lever) Name() string { return "lever[" + a.companySlug + "]" }

func (a *Lever) Kind() model.SourceKind { return model.SourceBoard }

// Fetch retrieves all postings for the company.
func (a *Lever) Fetch(ctx context.Context) ([]model.Candidate, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.companySlug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.companySlug, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.companySlug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("lever fetch for %s: unexpected status %d", a.companySlug, resp.StatusCode),
		}
	}

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.companySlug, err)
	}

	cands := make([]model.Candidate, 0, len(leverJobs))
	for _, lj := range leverJobs {
		// Prefer allLocations if available, fallback to location
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}
		cands = append(cands, model.Candidate{
			Title:   lj.Text,
			RawLink: lj.HostedURL,
			Snippet: strings.TrimSpace(location + " " + truncate(strings.Join(strings.Fields(lj.DescriptionPlain), " "), 300)),
		})
	}
	return cands, nil
}
