package ai

import (
	"context"
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedProvider returns a canned response or error and counts calls.
type scriptedProvider struct {
	name     string
	response string
	err      error
	calls    int
	prompts  []string
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Complete(_ context.Context, req Request) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, req.Prompt)
	return p.response, p.err
}

type countingRecorder struct {
	failed []string
}

func (r *countingRecorder) ProviderFailed(name string) { r.failed = append(r.failed, name) }
