package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each alert to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the alert as one Block Kit message.
func (s *SlackNotifier) Notify(ctx context.Context, a model.Alert) error {
	body, err := json.Marshal(buildPayload(a))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("slack returned %d", resp.StatusCode),
		}
	}
	s.logger.Debug("slack message sent", "row", a.RowID, "title", a.Title)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type     string    `json:"type"`
	Text     slackText `json:"text"`
	ActionID string    `json:"action_id,omitempty"`
	Value    string    `json:"value,omitempty"`
	URL      string    `json:"url,omitempty"`
	Style    string    `json:"style,omitempty"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildPayload(a model.Alert) slackPayload {
	draft := "No"
	if a.HasDraft {
		draft = "Yes"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🤖 Job alert: " + a.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Match:*\n" + model.Percent(a.MatchPercent)},
				{Type: "mrkdwn", Text: "*Entry-level:*\n" + model.Percent(a.Suitability)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Cover letter:*\n" + draft},
				{Type: "mrkdwn", Text: "*Source:*\n" + capitalize(string(a.Source))},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("<%s|Open listing>", a.Link)},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:     "button",
					Text:     slackText{Type: "plain_text", Text: "✅ Apply"},
					ActionID: a.AcceptToken(),
					Value:    a.AcceptToken(),
					Style:    "primary",
				},
				{
					Type:     "button",
					Text:     slackText{Type: "plain_text", Text: "❌ Trash"},
					ActionID: a.RejectToken(),
					Value:    a.RejectToken(),
					Style:    "danger",
				},
			},
		},
		{Type: "divider"},
	}

	return slackPayload{Blocks: blocks}
}
