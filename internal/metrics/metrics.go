package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSettled  = "settled"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// Collector owns a private registry so tests and multiple instances do not collide.
type Collector struct {
	registry          *prometheus.Registry
	transfers         *prometheus.CounterVec
	trades            *prometheus.CounterVec
	asks              *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	displayedBalance  prometheus.Gauge
}

func New() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		transfers: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "finfusion_transfers_total",
			Help: "Total number of transfer submissions by outcome",
		}, []string{"outcome"}),
		trades: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "finfusion_trades_total",
			Help: "Total number of trade submissions by side and outcome",
		}, []string{"side", "outcome"}),
		asks: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "finfusion_assistant_asks_total",
			Help: "Total number of assistant questions by outcome",
		}, []string{"outcome"}),
		operationDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finfusion_operation_duration_seconds",
			Help:    "Time taken by a user operation including remote calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		displayedBalance: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "finfusion_displayed_balance",
			Help: "Wallet balance currently shown to the user",
		}),
	}
}

func (c *Collector) ObserveTransfer(outcome string, duration time.Duration) {
	c.transfers.WithLabelValues(outcome).Inc()
	c.operationDuration.WithLabelValues("transfer").Observe(duration.Seconds())
}

func (c *Collector) ObserveTrade(side, outcome string, duration time.Duration) {
	c.trades.WithLabelValues(side, outcome).Inc()
	c.operationDuration.WithLabelValues("trade").Observe(duration.Seconds())
}

func (c *Collector) ObserveAsk(outcome string, duration time.Duration) {
	c.asks.WithLabelValues(outcome).Inc()
	c.operationDuration.WithLabelValues("ask").Observe(duration.Seconds())
}

func (c *Collector) SetDisplayedBalance(balance float64) {
	c.displayedBalance.Set(balance)
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr in the background. Shut the returned server down on exit.
func (c *Collector) StartServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.String("err", err.Error()))
		}
	}()

	return server
}

func Shutdown(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.String("err", err.Error()))
	}
}

// Nop discards observations. Used when no collector is wired.
type Nop struct{}

func (Nop) ObserveTransfer(string, time.Duration) {}
func (Nop) ObserveTrade(string, string, time.Duration) {}
func (Nop) ObserveAsk(string, time.Duration) {}
func (Nop) SetDisplayedBalance(float64) {}
