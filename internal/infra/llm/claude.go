package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// jsonOnlyInstruction is appended to the system prompt when a JSON answer is
// requested, since the Messages API has no JSON response mode.
const jsonOnlyInstruction = "\n\nRespond with JSON only, without code fences or commentary."

// Claude implements Client with the Anthropic Messages API.
type Claude struct {
	model  string
	client anthropic.Client
	caller caller
}

// NewClaude builds a client for cfg. cfg must already be validated.
func NewClaude(cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Claude{
		model:  cfg.model(),
		client: anthropic.NewClient(opts...),
		caller: newCaller(ProviderClaude, cfg.timeout()),
	}
}

// Name implements Client.
func (c *Claude) Name() string {
	return ProviderClaude
}

// Generate implements Client.
func (c *Claude) Generate(ctx context.Context, req Request) Result {
	return c.caller.call(ctx, c.model, func(ctx context.Context) (string, error) {
		return c.doGenerate(ctx, req)
	})
}

func (c *Claude) doGenerate(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.JSONResponse {
		system += jsonOnlyInstruction
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxOutputTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		// Recent models reject temperature and top_p together; only temperature is sent.
		Temperature: anthropic.Float(req.Temperature),
	}
	if strings.TrimSpace(system) != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
