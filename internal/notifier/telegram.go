package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobhydra/internal/model"
)

// DefaultTelegramURL is the Bot API base URL.
const DefaultTelegramURL = "https://api.telegram.org"

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier sends one message per alert to a chat, with Apply and
// Trash buttons whose callback data carries the row's correlation id.
type TelegramNotifier struct {
	baseURL    string
	token      string
	chatID     string
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTelegramNotifier creates a notifier. limiter paces messages and may be nil.
func NewTelegramNotifier(baseURL, token, chatID string, limiter *rate.Limiter, httpClient *http.Client, logger *slog.Logger) *TelegramNotifier {
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	return &TelegramNotifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		chatID:     chatID,
		limiter:    limiter,
		httpClient: httpClient,
		logger:     logger,
	}
}

type telegramMessage struct {
	ChatID      string           `json:"chat_id"`
	Text        string           `json:"text"`
	ParseMode   string           `json:"parse_mode"`
	ReplyMarkup telegramKeyboard `json:"reply_markup"`
}

type telegramKeyboard struct {
	InlineKeyboard [][]telegramButton `json:"inline_keyboard"`
}

type telegramButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify posts the alert via sendMessage.
func (t *TelegramNotifier) Notify(ctx context.Context, a model.Alert) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("telegram pacing: %w", err)
		}
	}

	body, err := json.Marshal(buildTelegramMessage(t.chatID, a))
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// The URL embeds the token; do not surface it.
		return fmt.Errorf("post to telegram: %w", redactToken(err, t.token))
	}
	defer resp.Body.Close()

	var tr telegramResponse
	_ = json.NewDecoder(resp.Body).Decode(&tr)
	if resp.StatusCode != http.StatusOK || !tr.OK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("telegram returned %d: %s", resp.StatusCode, tr.Description),
		}
	}
	t.logger.Debug("telegram message sent", "row", a.RowID, "title", a.Title)
	return nil
}

func buildTelegramMessage(chatID string, a model.Alert) telegramMessage {
	var b strings.Builder
	b.WriteString("🤖 <b>JOB ALERT</b>\n")
	b.WriteString(html.EscapeString(a.Title))
	b.WriteString("\n")
	b.WriteString(html.EscapeString(a.Link))
	fmt.Fprintf(&b, "\nMatch: %s | Entry-level: %s", model.Percent(a.MatchPercent), model.Percent(a.Suitability))
	if a.HasDraft {
		b.WriteString("\n📝 Cover letter drafted")
	}

	return telegramMessage{
		ChatID:    chatID,
		Text:      b.String(),
		ParseMode: "HTML",
		ReplyMarkup: telegramKeyboard{InlineKeyboard: [][]telegramButton{{
			{Text: "✅ Apply", CallbackData: a.AcceptToken()},
			{Text: "❌ Trash", CallbackData: a.RejectToken()},
		}}},
	}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}
