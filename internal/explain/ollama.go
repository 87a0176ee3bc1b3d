// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/pdiddy/pdb-educator/internal/httputil"
	"github.com/pdiddy/pdb-educator/pkg/types"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:1b"
	probeTimeout       = 5 * time.Second
	defaultTimeout     = 30 * time.Second
)

// Ollama completes prompts against a local Ollama server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama builds the backend from cfg.
func NewOllama(cfg types.AIConfig) *Ollama {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultOllamaURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = defaultOllamaModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Ollama{baseURL: base, model: model, client: &http.Client{Timeout: timeout}}
}

func (o *Ollama) Name() string { return BackendOllama }

// Available probes GET /api/tags. Any transport error or non-200 answer
// means the server is unusable.
func (o *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := httputil.DoWithRetry(ctx, o.client, req, 1)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (o *Ollama) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	llm, err := ollama.New(
		ollama.WithServerURL(o.baseURL),
		ollama.WithModel(o.model),
		ollama.WithHTTPClient(o.client),
	)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, llm, systemInstructions+"\n\n"+prompt, llms.WithMaxTokens(maxTokens))
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	return strings.TrimSpace(out), nil
}
