package ai

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"text/template"

	"github.com/amishk599/jobhydra/internal/model"
)

// Drafter writes a tailored cover letter for a single strong match.
type Drafter struct {
	provider Provider
	profile  string
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewDrafter creates a drafter. provider is usually a *Fallback.
func NewDrafter(provider Provider, profile string, tmpl *template.Template, logger *slog.Logger) *Drafter {
	return &Drafter{provider: provider, profile: profile, tmpl: tmpl, logger: logger}
}

// Draft returns the generated letter, or false when no provider produced one.
func (d *Drafter) Draft(ctx context.Context, c model.Candidate) (string, bool) {
	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, struct {
		Profile, Title, Link, Text string
	}{
		Profile: d.profile,
		Title:   c.Title,
		Link:    c.Link,
		Text:    truncate(c.Text(), 3000),
	}); err != nil {
		d.logger.Error("render cover letter prompt", "error", err)
		return "", false
	}

	text, err := d.provider.Complete(ctx, Request{Prompt: buf.String(), Check: checkNotBlank})
	if err != nil {
		d.logger.Warn("no cover letter drafted", "title", c.Title, "error", err)
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

var errBlank = errors.New("empty response")

func checkNotBlank(text string) error {
	if strings.TrimSpace(text) == "" {
		return errBlank
	}
	return nil
}
