package assistantApi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/KotFed0t/finfusion/utils"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiRelay struct {
	client *genai.Client
	model  string
}

func NewGeminiRelay(ctx context.Context, cfg *config.Config) (*GeminiRelay, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.API.Assistant.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.API.Assistant.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiRelay{client: client, model: model}, nil
}

func (r *GeminiRelay) Relay(ctx context.Context, prompt string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GeminiRelay.Relay"

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("generate content failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", externalApi.RejectedWithErr(apiErr.Code, apiErr.Message, err)
		}
		return "", externalApi.Unreachable(err)
	}

	text := resp.Text()
	if text == "" {
		return "", externalApi.Rejected(0, "empty reply")
	}

	return text, nil
}
