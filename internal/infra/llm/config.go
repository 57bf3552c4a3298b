package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"news-tag-app/pkg/config"
)

const (
	defaultTimeout = 60 * time.Second

	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultClaudeModel = "claude-sonnet-4-5"

	// GeminiBaseURL is the OpenAI-compatible endpoint of the Gemini API.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// credentialEnv maps a provider to the environment variable holding its key.
var credentialEnv = map[string]string{
	ProviderGemini: "GEMINI_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderClaude: "ANTHROPIC_API_KEY",
}

// Config selects and configures a provider.
type Config struct {
	// Provider is one of gemini, openai, claude.
	Provider string
	APIKey   string
	// Model overrides the provider default when non-empty.
	Model string
	// BaseURL overrides the provider endpoint when non-empty.
	BaseURL string
	// Timeout bounds a single Generate call.
	Timeout time.Duration
	// HTTPClient is used for API calls; nil means the SDK default.
	HTTPClient *http.Client
}

// LoadConfig reads the provider configuration from the environment.
//
// Environment variables:
//   - LLM_PROVIDER: gemini (default), openai or claude
//   - GEMINI_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY: credential of the selected provider
//   - LLM_MODEL: model override
//   - LLM_BASE_URL: endpoint override
//   - LLM_TIMEOUT: per-call timeout (default 60s)
//
// The credential is not checked here; New reports ErrMissingCredential.
func LoadConfig() Config {
	provider := strings.ToLower(config.GetEnvString("LLM_PROVIDER", ProviderGemini))

	var apiKey string
	if env, ok := credentialEnv[provider]; ok {
		apiKey = config.GetEnvString(env, "")
	}

	return Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    config.GetEnvString("LLM_MODEL", ""),
		BaseURL:  config.GetEnvString("LLM_BASE_URL", ""),
		Timeout:  config.GetEnvDuration("LLM_TIMEOUT", defaultTimeout),
	}
}

// CredentialEnv returns the environment variable that holds the provider's key.
func CredentialEnv(provider string) string {
	return credentialEnv[provider]
}

// Validate checks the provider name, the credential and the timeout.
func (c Config) Validate() error {
	env, ok := credentialEnv[c.Provider]
	if !ok {
		return fmt.Errorf("%w: %q (must be gemini, openai or claude)", ErrUnknownProvider, c.Provider)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredential, env)
	}
	if c.Timeout != 0 {
		if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid llm timeout: %w", err)
		}
	}
	return nil
}

// model returns the configured model or the provider default.
func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderClaude:
		return defaultClaudeModel
	default:
		return defaultGeminiModel
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}
