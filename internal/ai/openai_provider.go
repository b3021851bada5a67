package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/jobhydra/internal/credential"
	"github.com/amishk599/jobhydra/internal/model"
)

// DefaultGroqBaseURL is the OpenAI-compatible endpoint of Groq.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIProvider calls an OpenAI-compatible /chat/completions endpoint. Every
// call picks an API key from the pool, so quota is spread over several accounts.
type OpenAIProvider struct {
	name       string
	baseURL    string
	keys       []string
	selector   credential.Selector
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider targeting an OpenAI-compatible API.
func NewOpenAIProvider(name, baseURL string, keys []string, selector credential.Selector, model string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		name:       name,
		baseURL:    baseURL,
		keys:       keys,
		selector:   selector,
		model:      model,
		httpClient: httpClient,
	}
}

// chatRequest mirrors the /chat/completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse mirrors the relevant fields of the response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

func (p *OpenAIProvider) Name() string { return p.name }

// Complete sends req and returns the first choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	key, err := credential.Select(p.selector, p.keys)
	if err != nil {
		return "", fmt.Errorf("%s: select api key: %w", p.name, err)
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	reqBody := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	if req.JSON {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	url := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: request: %w", p.name, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", p.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", p.name, truncate(string(respBytes), 200)),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("%s: parse response: %w", p.name, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%s: error (%s): %s", p.name, chatResp.Error.Type, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices", p.name)
	}
	return chatResp.Choices[0].Message.Content, nil
}
