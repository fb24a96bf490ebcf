package amqp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wastechart/internal/core"
	"wastechart/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	if client.isCircuitOpen() {
		t.Fatal("circuit breaker should be closed initially")
	}

	for i := 0; i < maxFailures; i++ {
		client.recordFailure()
	}
	if !client.isCircuitOpen() {
		t.Fatal("circuit breaker should be open after max failures")
	}

	client.lastFailure.Store(time.Now().Add(-openTimeout - time.Second).UnixNano())
	if client.isCircuitOpen() {
		t.Error("circuit should move to half-open after the timeout")
	}
	if atomic.LoadInt32(&client.state) != StateHalfOpen {
		t.Error("state should be StateHalfOpen after the timeout")
	}

	client.recordSuccess()
	if atomic.LoadInt64(&client.failureCount) != 0 || atomic.LoadInt32(&client.state) != StateClosed {
		t.Error("success should reset the breaker")
	}
}

func TestClient_CircuitBreakerConcurrent(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				client.recordFailure()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				client.isCircuitOpen()
			}
		}()
	}
	wg.Wait()

	if !client.isCircuitOpen() {
		t.Error("circuit breaker should be open after concurrent failures")
	}
}

func TestPublishRenderEvent_Guards(t *testing.T) {
	client := &Client{
		exchangeName: "test_exchange",
		queueName:    "test_queue",
		logger:       log.New(log.Config{Output: io.Discard}),
	}

	t.Run("open circuit", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure.Store(time.Now().UnixNano())

		err := client.PublishRenderEvent(context.Background(), core.RenderEvent{ID: "x", Kind: core.KindBar})
		if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
			t.Errorf("expected circuit breaker error, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		client.recordSuccess()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.PublishRenderEvent(ctx, core.RenderEvent{ID: "x", Kind: core.KindBar}); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("no channel", func(t *testing.T) {
		client.recordSuccess()
		err := client.PublishRenderEvent(context.Background(), core.RenderEvent{ID: "x", Kind: core.KindBar})
		if err == nil {
			t.Fatal("expected error without a channel")
		}
		if atomic.LoadInt64(&client.failureCount) != 1 {
			t.Errorf("failureCount = %d, want 1", atomic.LoadInt64(&client.failureCount))
		}
	})
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestProcess(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	valid, err := EncodeRenderEvent(core.RenderEvent{ID: "evt-1", Kind: core.KindPie, Month: 3, Year: 2024, Success: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAck{}
		var got *core.RenderEvent
		process(context.Background(), logger, valid, ack, func(_ context.Context, e *core.RenderEvent) error {
			got = e
			return nil
		})
		if !ack.acked || ack.nacked {
			t.Errorf("ack = %+v, want acked", ack)
		}
		if got == nil || got.ID != "evt-1" || got.Kind != core.KindPie {
			t.Errorf("handler received %+v", got)
		}
	})

	t.Run("requeue on handler error", func(t *testing.T) {
		ack := &fakeAck{}
		process(context.Background(), logger, valid, ack, func(context.Context, *core.RenderEvent) error {
			return errors.New("db locked")
		})
		if !ack.nacked || !ack.requeue {
			t.Errorf("ack = %+v, want nack with requeue", ack)
		}
	})

	t.Run("drop malformed", func(t *testing.T) {
		ack := &fakeAck{}
		called := false
		process(context.Background(), logger, []byte(`{"kind":"bar"}`), ack, func(context.Context, *core.RenderEvent) error {
			called = true
			return nil
		})
		if called {
			t.Error("handler should not run for a malformed message")
		}
		if !ack.nacked || ack.requeue {
			t.Errorf("ack = %+v, want nack without requeue", ack)
		}
	})
}

func TestDecodeRenderEvent(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	body, err := EncodeRenderEvent(core.RenderEvent{ID: "evt-2", Kind: core.KindWorkbook, Bytes: 512, DurationMs: 40, Timestamp: ts})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	e, err := DecodeRenderEvent(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Bytes != 512 || e.DurationMs != 40 || !e.Timestamp.Equal(ts) {
		t.Errorf("decoded %+v", e)
	}

	if _, err := DecodeRenderEvent([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := DecodeRenderEvent([]byte(`{"id":"a"}`)); err == nil {
		t.Error("expected error for missing kind")
	}
}
