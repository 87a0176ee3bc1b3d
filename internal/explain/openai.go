// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/pdiddy/pdb-educator/pkg/types"
)

const defaultOpenAIModel = "gpt-4o-mini"

// systemInstructions frames every completion as a teaching explanation.
const systemInstructions = "You are an expert molecular biology teacher. Explain concepts clearly for students."

// OpenAI completes prompts through the OpenAI Responses API.
type OpenAI struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAI builds the backend from cfg. Extra request options (base URL,
// HTTP client) are appended after the key.
func NewOpenAI(cfg types.AIConfig, opts ...option.RequestOption) *OpenAI {
	model := cfg.Model
	if model == "" || strings.Contains(model, ":") {
		// Ollama tags like llama3.2:1b are not OpenAI model names.
		model = defaultOpenAIModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	reqOpts = append(reqOpts, opts...)
	client := openai.NewClient(reqOpts...)
	return &OpenAI{apiKey: cfg.APIKey, model: model, client: &client}
}

func (o *OpenAI) Name() string { return BackendOpenAI }

// Available reports whether an API key is configured.
func (o *OpenAI) Available(context.Context) bool { return o.apiKey != "" }

func (o *OpenAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.apiKey == "" {
		return "", errors.New("openai: API key not set (OPENAI_API_KEY or .secrets/openai-api-key)")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(int64(maxTokens)),
		Instructions:    openai.String(systemInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", errors.New("openai: empty response")
	}
	return text, nil
}
