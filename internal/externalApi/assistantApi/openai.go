package assistantApi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIRelay sends the prompt as a single user message to an OpenAI compatible chat endpoint.
type OpenAIRelay struct {
	client *openai.Client
	model  string
}

func NewOpenAIRelay(cfg *config.Config) *OpenAIRelay {
	clientCfg := openai.DefaultConfig(cfg.API.Assistant.ApiKey)
	if cfg.API.Assistant.Url != "" {
		clientCfg.BaseURL = cfg.API.Assistant.Url
	}

	model := cfg.API.Assistant.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIRelay{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (r *OpenAIRelay) Relay(ctx context.Context, prompt string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "OpenAIRelay.Relay"

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		slog.Error("chat completion failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", externalApi.Rejected(0, "empty reply")
	}

	return resp.Choices[0].Message.Content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return externalApi.RejectedWithErr(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return externalApi.RejectedWithErr(reqErr.HTTPStatusCode, "", err)
	}
	return externalApi.Unreachable(err)
}
