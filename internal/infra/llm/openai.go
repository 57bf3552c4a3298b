package llm

import (
	"context"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompat talks to any OpenAI-compatible chat completions endpoint.
// It serves both the OpenAI API and Gemini's OpenAI-compatible endpoint.
type OpenAICompat struct {
	name   string
	model  string
	client *openai.Client
	caller caller
}

// NewOpenAICompat builds a client for cfg. cfg must already be validated.
func NewOpenAICompat(cfg Config) *OpenAICompat {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = resolveOpenAIBaseURL(cfg)
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &OpenAICompat{
		name:   cfg.Provider,
		model:  cfg.model(),
		client: openai.NewClientWithConfig(clientCfg),
		caller: newCaller(cfg.Provider, cfg.timeout()),
	}
}

// Name implements Client.
func (o *OpenAICompat) Name() string {
	return o.name
}

// Generate implements Client.
func (o *OpenAICompat) Generate(ctx context.Context, req Request) Result {
	return o.caller.call(ctx, o.model, func(ctx context.Context) (string, error) {
		return o.doGenerate(ctx, req)
	})
}

func (o *OpenAICompat) doGenerate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   req.MaxOutputTokens,
		Temperature: temperature32(req.Temperature),
		TopP:        float32(req.TopP),
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func resolveOpenAIBaseURL(cfg Config) string {
	switch {
	case cfg.BaseURL != "":
		return strings.TrimSuffix(cfg.BaseURL, "/")
	case cfg.Provider == ProviderGemini:
		return GeminiBaseURL
	default:
		return openai.DefaultConfig("").BaseURL
	}
}

// temperature32 converts t for go-openai, which omits a zero temperature from
// the request body. The smallest positive float32 is sent for zero instead.
func temperature32(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
