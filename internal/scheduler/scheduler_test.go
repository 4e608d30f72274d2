package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/finfusion/utils"
)

func TestWrap_RecoversPanic(t *testing.T) {
	task := wrap("panicky", func(ctx context.Context) error {
		panic("boom")
	})

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic escaped: %v", r)
		}
	}()
	task(context.Background())
}

func TestWrap_AttachesRequestID(t *testing.T) {
	var rqID string
	task := wrap("rqid", func(ctx context.Context) error {
		rqID = utils.GetRequestIDFromCtx(ctx)
		return nil
	})

	task(context.Background())

	if rqID == "" {
		t.Error("job ran without request id")
	}
}

func TestEvery_StartImmediately(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ran := make(chan struct{}, 1)
	err = s.Every("sync", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestEvery_InvalidInterval(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Every("bad", 0, func(ctx context.Context) error { return nil }, false); err == nil {
		t.Error("expected error for zero interval")
	}
}
