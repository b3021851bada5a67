package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoVerdict is returned when every provider in a Fallback failed.
var ErrNoVerdict = errors.New("no verdict from any provider")

// FailureRecorder is told about every provider that produced no verdict.
type FailureRecorder interface {
	ProviderFailed(provider string)
}

// Fallback tries providers in order and returns the first success. Each
// provider is called at most once per Complete.
type Fallback struct {
	providers []Provider
	recorder  FailureRecorder
	logger    *slog.Logger
}

// NewFallback returns a chain over providers (primary first). recorder may be nil.
func NewFallback(providers []Provider, recorder FailureRecorder, logger *slog.Logger) *Fallback {
	return &Fallback{providers: providers, recorder: recorder, logger: logger}
}

func (f *Fallback) Name() string { return "fallback" }

// Complete returns the first provider's successful response.
func (f *Fallback) Complete(ctx context.Context, req Request) (string, error) {
	lastErr := errors.New("no providers configured")
	for _, p := range f.providers {
		text, err := p.Complete(ctx, req)
		if err == nil && req.Check != nil {
			err = req.Check(text)
		}
		if err == nil {
			return text, nil
		}
		f.logger.Warn("provider gave no verdict", "provider", p.Name(), "error", err)
		if f.recorder != nil {
			f.recorder.ProviderFailed(p.Name())
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: %w", ErrNoVerdict, lastErr)
}
