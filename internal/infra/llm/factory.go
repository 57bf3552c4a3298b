package llm

import (
	"fmt"
	"log/slog"
)

// New validates cfg and builds the client for its provider.
// An empty credential yields ErrMissingCredential before any network use.
func New(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var client Client
	switch cfg.Provider {
	case ProviderGemini, ProviderOpenAI:
		client = NewOpenAICompat(cfg)
	case ProviderClaude:
		client = NewClaude(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	slog.Info("llm client initialized",
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.model()),
		slog.Duration("timeout", cfg.timeout()))

	return client, nil
}
