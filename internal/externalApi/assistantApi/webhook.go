package assistantApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/KotFed0t/finfusion/internal/externalApi/middleware"
	"github.com/KotFed0t/finfusion/internal/model/ledgerModel"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/go-resty/resty/v2"
)

// WebhookRelay posts {"payload": prompt} to a hosted inference webhook and reads {"text": reply}.
type WebhookRelay struct {
	client *resty.Client
}

func NewWebhookRelay(cfg *config.Config) *WebhookRelay {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Assistant.Url).
		SetHeader("Content-Type", "application/json")

	if cfg.API.Assistant.ApiKey != "" {
		client.SetHeader(cfg.API.Assistant.ApiKeyHeader, cfg.API.Assistant.ApiKey)
	}

	return &WebhookRelay{client: middleware.Logger(client, "assistantWebhook", cfg.API.Assistant.ApiKeyHeader)}
}

func (r *WebhookRelay) Relay(ctx context.Context, prompt string) (reply string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WebhookRelay.Relay"

	slog.Debug("WebhookRelay.Relay start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("WebhookRelay.Relay failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("WebhookRelay.Relay completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(ledgerModel.AssistantRequest{Payload: prompt}).
		Post("")
	if err != nil {
		return "", externalApi.Unreachable(err)
	}

	if !resp.IsSuccess() {
		return "", externalApi.Rejected(resp.StatusCode(), externalApi.BackendMessage(resp.Body()))
	}

	res := ledgerModel.AssistantResponse{}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return "", externalApi.RejectedWithErr(resp.StatusCode(), "", fmt.Errorf("decode response: %w", err))
	}

	if res.Text == "" {
		return "", externalApi.Rejected(resp.StatusCode(), "empty reply")
	}

	return res.Text, nil
}
