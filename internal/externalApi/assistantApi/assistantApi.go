package assistantApi

import (
	"context"
	"fmt"

	"github.com/KotFed0t/finfusion/config"
)

const (
	ProviderWebhook = "webhook"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Relay forwards one enriched prompt to an inference endpoint and returns the reply text.
type Relay interface {
	Relay(ctx context.Context, prompt string) (string, error)
}

func New(ctx context.Context, cfg *config.Config) (Relay, error) {
	switch cfg.API.Assistant.Provider {
	case ProviderWebhook:
		if cfg.API.Assistant.Url == "" {
			return nil, fmt.Errorf("ASSISTANT_URL is required for provider %q", ProviderWebhook)
		}
		return NewWebhookRelay(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIRelay(cfg), nil
	case ProviderGemini:
		return NewGeminiRelay(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", cfg.API.Assistant.Provider)
	}
}
