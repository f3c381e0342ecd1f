// Package dispatcher delivers one batch to the primary sinks concurrently and
// reroutes it to the fallback sinks only when every primary failed.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

var (
	// ErrNoSinkAccepted is joined into Outcome.Err when neither tier delivered the batch.
	ErrNoSinkAccepted = errors.New("dispatcher: no sink accepted the batch")
	// ErrSinkPanic wraps a panic recovered from a sink's WriteBatch.
	ErrSinkPanic = errors.New("dispatcher: sink panicked")
	errNilSink   = errors.New("dispatcher: nil sink")
)

// SinkError ties a write failure to the sink that produced it.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("dispatcher: sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Outcome summarises one Dispatch call.
type Outcome struct {
	Delivered      bool
	UsedFallback   bool
	PrimaryErrors  []error
	FallbackErrors []error
}

// Err is nil when the batch reached at least one sink, otherwise every
// per-sink error joined behind ErrNoSinkAccepted.
func (o Outcome) Err() error {
	if o.Delivered {
		return nil
	}
	errs := make([]error, 0, 1+len(o.PrimaryErrors)+len(o.FallbackErrors))
	errs = append(errs, ErrNoSinkAccepted)
	errs = append(errs, o.PrimaryErrors...)
	errs = append(errs, o.FallbackErrors...)
	return errors.Join(errs...)
}

// Dispatcher is stateless apart from its diagnostics hooks and may be shared.
type Dispatcher struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	writeTimeout time.Duration

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewDispatcher builds a dispatcher with no per-sink deadline.
func NewDispatcher(options ...types.Option[*Dispatcher]) *Dispatcher {
	d := &Dispatcher{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "DISPATCHER",
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Dispatch writes batch to every primary sink concurrently and waits for all
// of them. If none succeeded (including when primary is empty) the unmodified
// batch goes to the fallback sinks the same way. Dispatch never returns early
// and never panics because of a sink.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []*types.LogRecord, primary, fallback []types.Sink) Outcome {
	var out Outcome

	var delivered bool
	delivered, out.PrimaryErrors = d.writeAll(ctx, batch, primary, "primary")
	if delivered {
		out.Delivered = true
		return out
	}

	meta := d.GetComponentMetadata()
	if len(fallback) == 0 {
		d.reportFailure(meta, len(batch), out)
		return out
	}

	out.UsedFallback = true
	for _, s := range d.snapshotSensors() {
		s.InvokeOnFallback(meta, len(batch))
	}
	d.NotifyLoggers(types.WarnLevel, "All primary sinks failed; routing batch to fallback sinks",
		"component", meta,
		"event", "Fallback",
		"result", "FAILURE",
		"batch_size", len(batch),
		"primary_count", len(primary),
		"fallback_count", len(fallback),
	)

	delivered, out.FallbackErrors = d.writeAll(ctx, batch, fallback, "fallback")
	if delivered {
		out.Delivered = true
		return out
	}
	d.reportFailure(meta, len(batch), out)
	return out
}

func (d *Dispatcher) reportFailure(meta types.ComponentMetadata, size int, out Outcome) {
	err := out.Err()
	for _, s := range d.snapshotSensors() {
		s.InvokeOnDeliveryFailure(meta, size, err)
	}
	d.NotifyLoggers(types.ErrorLevel, "Batch delivery failed on every sink",
		"component", meta,
		"event", "Dispatch",
		"result", "FAILURE",
		"batch_size", size,
		"used_fallback", out.UsedFallback,
		"error", err,
	)
}

// writeAll runs one goroutine per sink. It reports whether any sink succeeded
// and returns the failures in sink order.
func (d *Dispatcher) writeAll(ctx context.Context, batch []*types.LogRecord, sinks []types.Sink, tier string) (bool, []error) {
	if len(sinks) == 0 {
		return false, nil
	}

	results := make([]error, len(sinks))
	var wg sync.WaitGroup
	wg.Add(len(sinks))
	for i, s := range sinks {
		go func(i int, s types.Sink) {
			defer wg.Done()
			results[i] = d.writeOne(ctx, s, batch, tier)
		}(i, s)
	}
	wg.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return len(errs) < len(sinks), errs
}

func (d *Dispatcher) writeOne(ctx context.Context, s types.Sink, batch []*types.LogRecord, tier string) (err error) {
	name := types.SinkName(s)
	meta := d.GetComponentMetadata()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSinkPanic, r)
		}
		if err != nil {
			err = &SinkError{Sink: name, Err: err}
			for _, sn := range d.snapshotSensors() {
				sn.InvokeOnSinkWriteError(meta, name, len(batch), err)
			}
			d.NotifyLoggers(types.ErrorLevel, "Sink write failed",
				"component", meta,
				"event", "WriteBatch",
				"result", "FAILURE",
				"sink", name,
				"tier", tier,
				"batch_size", len(batch),
				"error", err,
			)
			return
		}
		elapsed := time.Since(start)
		for _, sn := range d.snapshotSensors() {
			sn.InvokeOnSinkWriteSuccess(meta, name, len(batch), elapsed)
		}
		d.NotifyLoggers(types.DebugLevel, "Sink write succeeded",
			"component", meta,
			"event", "WriteBatch",
			"result", "SUCCESS",
			"sink", name,
			"tier", tier,
			"batch_size", len(batch),
			"elapsed", elapsed,
		)
	}()

	if s == nil {
		return errNilSink
	}
	if d.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.writeTimeout)
		defer cancel()
	}
	return s.WriteBatch(ctx, batch)
}
