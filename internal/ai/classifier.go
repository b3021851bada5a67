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

// maxJobText caps the description sent per job to keep chunk prompts short.
const maxJobText = 1000

const classifierSystem = "You are a strict job-listing screener. You answer with JSON only."

type promptJob struct {
	Index int
	Title string
	Text  string
}

// Classifier ranks a chunk of candidates against the user profile.
type Classifier struct {
	provider Provider
	profile  string
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewClassifier creates a classifier. provider is usually a *Fallback.
func NewClassifier(provider Provider, profile string, tmpl *template.Template, logger *slog.Logger) *Classifier {
	return &Classifier{provider: provider, profile: profile, tmpl: tmpl, logger: logger}
}

// Classify returns verdicts whose indices are valid positions in chunk. A
// provider failure or an unparseable answer yields no verdicts; it never errors.
func (c *Classifier) Classify(ctx context.Context, chunk []model.Candidate) []model.Verdict {
	if len(chunk) == 0 {
		return nil
	}
	prompt, err := c.render(chunk)
	if err != nil {
		c.logger.Error("render classify prompt", "error", err)
		return nil
	}
	text, err := c.provider.Complete(ctx, Request{
		System: classifierSystem,
		Prompt: prompt,
		JSON:   true,
		Check:  checkJSONObject,
	})
	if err != nil {
		c.logger.Warn("chunk has no verdict, treating as zero matches", "size", len(chunk), "error", err)
		return nil
	}
	verdicts := ParseVerdicts(text, len(chunk))
	c.logger.Debug("chunk classified", "size", len(chunk), "verdicts", len(verdicts))
	return verdicts
}

func (c *Classifier) render(chunk []model.Candidate) (string, error) {
	jobs := make([]promptJob, len(chunk))
	for i, cand := range chunk {
		jobs[i] = promptJob{
			Index: i,
			Title: oneLine(cand.Title),
			Text:  oneLine(truncate(cand.Text(), maxJobText)),
		}
	}
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, struct {
		Profile string
		Jobs    []promptJob
	}{Profile: c.profile, Jobs: jobs}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// errUnparseable marks a response holding no JSON object.
var errUnparseable = errors.New("response holds no JSON object")

func checkJSONObject(text string) error {
	if _, ok := ParseJSONObject(text); !ok {
		return errUnparseable
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
