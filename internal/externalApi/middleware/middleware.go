package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/finfusion/utils"
	"github.com/go-resty/resty/v2"
)

const redacted = "***"

// secretFields are request body fields that never reach the debug log.
var secretFields = []string{"mpin", "password"}

// Logger attaches request logging hooks to a resty client.
// With debug enabled the request dump goes through slog, with secret body fields
// and the given secret headers redacted.
func Logger(client *resty.Client, name string, secretHeaders ...string) *resty.Client {
	return client.
		SetLogger(restyLogger{api: name}).
		OnRequestLog(func(rl *resty.RequestLog) error {
			for _, h := range secretHeaders {
				if h != "" && rl.Header.Get(h) != "" {
					rl.Header.Set(h, redacted)
				}
			}
			rl.Body = RedactBody(rl.Body)
			return nil
		}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			slog.Debug(
				"start request",
				slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
				slog.String("api", name),
				slog.String("method", r.Method),
				slog.String("url", r.URL),
			)
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			slog.Info(
				"request finished",
				slog.String("rqID", utils.GetRequestIDFromCtx(resp.Request.Context())),
				slog.String("api", name),
				slog.String("method", resp.Request.Method),
				slog.String("url", resp.Request.URL),
				slog.Int("status", resp.StatusCode()),
				slog.String("request duration", fmt.Sprintf("%.2fs", resp.Time().Seconds())),
			)
			return nil
		}).
		OnError(func(r *resty.Request, err error) {
			slog.Error(
				"request failed",
				slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
				slog.String("api", name),
				slog.String("method", r.Method),
				slog.String("url", r.URL),
				slog.String("err", err.Error()),
			)
		})
}

// RedactBody masks secret fields of a JSON object body. Bodies that are not
// a JSON object are returned unchanged.
func RedactBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") {
		return body
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return body
	}

	found := false
	for _, f := range secretFields {
		if _, ok := fields[f]; ok {
			fields[f] = json.RawMessage(`"` + redacted + `"`)
			found = true
		}
	}
	if !found {
		return body
	}

	res, err := json.MarshalIndent(fields, "", "   ")
	if err != nil {
		return redacted
	}
	return string(res)
}

// restyLogger routes resty's own output into slog.
type restyLogger struct {
	api string
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("api", l.api))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	slog.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("api", l.api))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("api", l.api))
}
