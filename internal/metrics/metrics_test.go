package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.ObserveTransfer(OutcomeSettled, 10*time.Millisecond)
	c.ObserveTransfer(OutcomeSettled, 10*time.Millisecond)
	c.ObserveTransfer(OutcomeRejected, 10*time.Millisecond)
	c.ObserveTrade("buy", OutcomeSettled, time.Millisecond)
	c.ObserveAsk(OutcomeFailed, time.Millisecond)
	c.SetDisplayedBalance(500.5)

	if got := testutil.ToFloat64(c.transfers.WithLabelValues(OutcomeSettled)); got != 2 {
		t.Errorf("settled transfers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.transfers.WithLabelValues(OutcomeRejected)); got != 1 {
		t.Errorf("rejected transfers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.trades.WithLabelValues("buy", OutcomeSettled)); got != 1 {
		t.Errorf("buy trades = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.asks.WithLabelValues(OutcomeFailed)); got != 1 {
		t.Errorf("failed asks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.displayedBalance); got != 500.5 {
		t.Errorf("displayed balance = %v, want 500.5", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveTransfer(OutcomeSettled, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `finfusion_transfers_total{outcome="settled"} 1`) {
		t.Errorf("metric not exposed:\n%s", body)
	}
}
