package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/amishk599/jobhydra/internal/credential"
)

// GeminiProvider calls the Gemini API through the genai SDK. A client is built
// per call because the API key rotates per call; building one does no I/O.
type GeminiProvider struct {
	keys       []string
	selector   credential.Selector
	model      string
	baseURL    string // overrides the API base URL (tests, proxies)
	httpClient *http.Client
}

// NewGeminiProvider creates a provider for the given model.
func NewGeminiProvider(keys []string, selector credential.Selector, model, baseURL string, httpClient *http.Client) *GeminiProvider {
	return &GeminiProvider{
		keys:       keys,
		selector:   selector,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Complete generates content for req and returns the concatenated text parts.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	key, err := credential.Select(p.selector, p.keys)
	if err != nil {
		return "", fmt.Errorf("gemini: select api key: %w", err)
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cc.HTTPOptions.BaseURL = p.baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    genai.Ptr[float32](0.2),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}
