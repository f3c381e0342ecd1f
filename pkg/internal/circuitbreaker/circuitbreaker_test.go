package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/internallogger"
	"github.com/joeydtaylor/flexlog/pkg/internal/meter"
	"github.com/joeydtaylor/flexlog/pkg/internal/sensor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSink struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubSink) Name() string                     { return "stub" }
func (s *stubSink) Initialize(context.Context) error { return nil }
func (s *stubSink) Dispose(context.Context) error    { return nil }

func (s *stubSink) WriteBatch(context.Context, []*types.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubSink) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func batch() []*types.LogRecord { return []*types.LogRecord{types.NewLogRecord()} }

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	inner := &stubSink{err: errors.New("down")}
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := NewCircuitBreaker(inner, 2, time.Minute, withClock(clock.now))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := cb.WriteBatch(ctx, batch()); err == nil || errors.Is(err, ErrOpen) {
			t.Fatalf("write %d: expected inner error, got %v", i, err)
		}
	}
	if !cb.IsOpen() {
		t.Fatalf("expected breaker open after threshold")
	}
	err := cb.WriteBatch(ctx, batch())
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if inner.callCount() != 2 {
		t.Fatalf("open breaker must not reach inner sink; calls=%d", inner.callCount())
	}
}

func TestSuccessClearsFailureCount(t *testing.T) {
	inner := &stubSink{err: errors.New("flaky")}
	cb := NewCircuitBreaker(inner, 2, time.Minute)
	ctx := context.Background()

	_ = cb.WriteBatch(ctx, batch())
	inner.setErr(nil)
	if err := cb.WriteBatch(ctx, batch()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.ErrorCount() != 0 {
		t.Fatalf("expected count reset, got %d", cb.ErrorCount())
	}
	inner.setErr(errors.New("flaky"))
	_ = cb.WriteBatch(ctx, batch())
	if cb.IsOpen() {
		t.Fatalf("non-consecutive failures must not trip")
	}
}

func TestClosesAfterCooldown(t *testing.T) {
	inner := &stubSink{err: errors.New("down")}
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := NewCircuitBreaker(inner, 1, 30*time.Second, withClock(clock.now))
	ctx := context.Background()

	_ = cb.WriteBatch(ctx, batch())
	if !errors.Is(cb.WriteBatch(ctx, batch()), ErrOpen) {
		t.Fatalf("expected open")
	}
	clock.advance(30 * time.Second)
	inner.setErr(nil)
	if err := cb.WriteBatch(ctx, batch()); err != nil {
		t.Fatalf("expected write after cooldown, got %v", err)
	}
	if inner.callCount() != 2 {
		t.Fatalf("calls=%d", inner.callCount())
	}
}

func TestDebounceCollapsesBurst(t *testing.T) {
	inner := &stubSink{err: errors.New("down")}
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := NewCircuitBreaker(inner, 2, time.Minute, withClock(clock.now), WithDebounce(time.Second))
	ctx := context.Background()

	_ = cb.WriteBatch(ctx, batch())
	_ = cb.WriteBatch(ctx, batch())
	if cb.IsOpen() {
		t.Fatalf("failures inside the debounce window must count once")
	}
	clock.advance(2 * time.Second)
	_ = cb.WriteBatch(ctx, batch())
	if !cb.IsOpen() {
		t.Fatalf("expected open after debounced failures reach threshold")
	}
}

func TestManualTripAndReset(t *testing.T) {
	inner := &stubSink{}
	cb := NewCircuitBreaker(inner, 5, time.Hour)
	cb.Trip()
	if !errors.Is(cb.WriteBatch(context.Background(), batch()), ErrOpen) {
		t.Fatalf("expected open after Trip")
	}
	cb.Reset()
	if err := cb.WriteBatch(context.Background(), batch()); err != nil {
		t.Fatalf("expected closed after Reset, got %v", err)
	}
}

func TestRejectionReportsToSensorAndLogger(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	logger := internallogger.NewLogger(
		internallogger.LoggerWithCore(core),
		internallogger.LoggerWithLevel("debug"),
	)
	m := meter.NewMeter(meter.WithoutHostSampling())
	s := sensor.NewSensor(sensor.WithMeter(m))

	cb := NewCircuitBreaker(&stubSink{}, 1, time.Hour, WithLogger(logger), WithSensor(s))
	cb.Trip()
	_ = cb.WriteBatch(context.Background(), batch())

	if got := m.GetMetricCount(types.MetricSinkWriteErrorTotal); got != 1 {
		t.Fatalf("sink write errors = %d, want 1", got)
	}
	if obs.FilterMessage("Circuit breaker tripped").Len() != 1 {
		t.Fatalf("expected trip warning")
	}
	if obs.FilterMessage("Circuit open, batch rejected").Len() != 1 {
		t.Fatalf("expected rejection debug log")
	}
}

func TestNameDelegatesToInner(t *testing.T) {
	cb := NewCircuitBreaker(&stubSink{}, 1, time.Second)
	if cb.Name() != "stub" {
		t.Fatalf("Name() = %q", cb.Name())
	}
	var _ types.Sink = cb
}
