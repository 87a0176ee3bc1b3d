// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explain produces natural-language explanations of concepts and
// structures from the built artifacts. Text generation is delegated to a
// Completer backend; the build pipeline never calls into this package.
package explain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pdb-educator/internal/secrets"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

// DefaultMaxTokens bounds a completion when the caller passes zero.
const DefaultMaxTokens = 500

// Backend names accepted in AIConfig.Backend.
const (
	BackendAuto   = "auto"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendMock   = "mock"
)

// ErrNoBackend is returned by Select when no candidate is available.
var ErrNoBackend = errors.New("no completion backend available")

// Completer is a text-completion capability. Implementations must honour
// ctx cancellation in Complete.
type Completer interface {
	Name() string
	Available(ctx context.Context) bool
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Backends returns the candidate completers for cfg in preference order.
// "auto" (or empty) yields OpenAI, Ollama, then Mock. Credentials missing
// from cfg are taken from the secrets map.
func Backends(cfg types.AIConfig, loaded map[string]string) ([]Completer, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = secrets.Get(loaded, secrets.OpenAIAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = secrets.Get(loaded, secrets.OllamaURL)
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendAuto:
		return []Completer{NewOpenAI(cfg), NewOllama(cfg), Mock{}}, nil
	case BackendOpenAI:
		return []Completer{NewOpenAI(cfg)}, nil
	case BackendOllama:
		return []Completer{NewOllama(cfg)}, nil
	case BackendMock:
		return []Completer{Mock{}}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: want auto, openai, ollama, or mock", cfg.Backend)
	}
}

// Select returns the first available backend.
func Select(ctx context.Context, backends ...Completer) (Completer, error) {
	for _, b := range backends {
		if b.Available(ctx) {
			slog.Debug("selected completion backend", "backend", b.Name())
			return b, nil
		}
		slog.Debug("completion backend unavailable", "backend", b.Name())
	}
	return nil, ErrNoBackend
}

// Limited throttles calls to Complete.
type Limited struct {
	Completer
	limiter *rate.Limiter
}

// NewLimited wraps c so that Complete runs at most rps times per second.
// A non-positive rps returns c unchanged.
func NewLimited(c Completer, rps float64) Completer {
	if rps <= 0 {
		return c
	}
	return &Limited{Completer: c, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Complete waits for the limiter, then delegates.
func (l *Limited) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.Completer.Complete(ctx, prompt, maxTokens)
}
