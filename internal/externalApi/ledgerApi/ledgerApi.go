package ledgerApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/converter/ledgerConverter"
	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/KotFed0t/finfusion/internal/externalApi/middleware"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/model/ledgerModel"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const idempotencyKeyHeader = "Idempotency-Key"

var errMissingWalletAmount = errors.New("wallet_amount missing in response")

// LedgerApi is the gateway to the backend. It does no retries and no business logic.
type LedgerApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *LedgerApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.LedgerApi.Url).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &LedgerApi{client: middleware.Logger(client, "ledgerApi")}
}

func (a *LedgerApi) Authenticate(ctx context.Context, mobileNumber, mpin string) (model.LoginResult, error) {
	resp := ledgerModel.LoginResponse{}
	_, err := a.do(ctx, "LedgerApi.Authenticate", resty.MethodPost, "/login", "",
		ledgerModel.LoginRequest{MobileNumber: mobileNumber, MPIN: mpin}, &resp)
	if err != nil {
		return model.LoginResult{}, err
	}
	return ledgerConverter.ConvertLogin(mobileNumber, resp), nil
}

func (a *LedgerApi) Signup(ctx context.Context, req model.SignupRequest) (message string, err error) {
	resp := ledgerModel.MessageResponse{}
	_, err = a.do(ctx, "LedgerApi.Signup", resty.MethodPost, "/signup", "", ledgerConverter.ConvertSignup(req), &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (a *LedgerApi) Transfer(ctx context.Context, req model.TransferRequest) (model.TransferReceipt, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LedgerApi.Transfer"

	body, err := a.do(ctx, op, resty.MethodPost, "/transfer", req.ClientRequestID, ledgerConverter.ConvertTransferRequest(req), nil)
	if err != nil {
		return model.TransferReceipt{}, err
	}

	// the money has moved at this point, an unreadable body must not turn it into a failure
	resp := ledgerModel.TransferResponse{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			slog.Warn("can't unmarshall transfer response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return ledgerConverter.ConvertTransferResponse(resp), nil
}

func (a *LedgerApi) FetchBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	resp := ledgerModel.WalletAmountResponse{}
	_, err := a.do(ctx, "LedgerApi.FetchBalance", resty.MethodPost, "/get_wallet_amount", "",
		ledgerModel.MobileNumberRequest{MobileNumber: accountID}, &resp)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if resp.WalletAmount == nil {
		return decimal.Decimal{}, externalApi.RejectedWithErr(200, "", errMissingWalletAmount)
	}
	return *resp.WalletAmount, nil
}

func (a *LedgerApi) FetchPortfolio(ctx context.Context, accountID string) ([]model.Holding, error) {
	resp := ledgerModel.PortfolioResponse{}
	_, err := a.do(ctx, "LedgerApi.FetchPortfolio", resty.MethodPost, "/portfolio", "",
		ledgerModel.MobileNumberRequest{MobileNumber: accountID}, &resp)
	if err != nil {
		return nil, err
	}
	return ledgerConverter.ConvertHoldings(resp.Portfolio), nil
}

func (a *LedgerApi) SubmitTrade(ctx context.Context, req model.TradeRequest) (model.TradeReceipt, error) {
	url := "/buy_stock"
	if req.Side == model.SideSell {
		url = "/sell_stock"
	}

	resp := ledgerModel.MessageResponse{}
	_, err := a.do(ctx, "LedgerApi.SubmitTrade", resty.MethodPost, url, req.ClientRequestID, ledgerConverter.ConvertTradeRequest(req), &resp)
	if err != nil {
		return model.TradeReceipt{}, err
	}
	return model.TradeReceipt{Message: resp.Message}, nil
}

func (a *LedgerApi) FetchFinancialSummary(ctx context.Context, accountID string) (model.FinancialSummary, error) {
	resp := ledgerModel.SummaryResponse{}
	body, err := a.do(ctx, "LedgerApi.FetchFinancialSummary", resty.MethodPost, "/financial-summary", "",
		ledgerModel.SummaryRequest{Number: accountID, MobileNumber: accountID}, &resp)
	if err != nil {
		return model.FinancialSummary{}, err
	}
	return ledgerConverter.ConvertSummary(body, resp), nil
}

func (a *LedgerApi) Explore(ctx context.Context) (model.Catalog, error) {
	resp := ledgerModel.ExploreResponse{}
	_, err := a.do(ctx, "LedgerApi.Explore", resty.MethodGet, "/explore", "", nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Categories == nil {
		return nil, externalApi.Rejected(200, "Failed to fetch data.")
	}
	return ledgerConverter.ConvertCatalog(resp), nil
}

// do sends one request and maps the outcome onto the OperationError taxonomy.
// When result is not nil the success body is decoded into it. The raw success body is returned.
func (a *LedgerApi) do(ctx context.Context, op, method, url, idempotencyKey string, body, result any) (respBody []byte, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error(op+" failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug(op+" completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	req := a.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if idempotencyKey != "" {
		req.SetHeader(idempotencyKeyHeader, idempotencyKey)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, externalApi.Unreachable(err)
	}

	if !resp.IsSuccess() {
		return nil, externalApi.Rejected(resp.StatusCode(), externalApi.BackendMessage(resp.Body()))
	}

	if result != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return nil, externalApi.RejectedWithErr(resp.StatusCode(), "", fmt.Errorf("decode response: %w", err))
		}
	}

	return resp.Body(), nil
}
