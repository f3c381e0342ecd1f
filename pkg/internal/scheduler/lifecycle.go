package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/joeydtaylor/flexlog/pkg/internal/dispatcher"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// Start initializes every primary then every fallback sink in order and
// launches the scheduler goroutine. ctx bounds the Initialize hooks only; the
// loop keeps running until Shutdown. Initialize failures are returned joined
// but do not stop the loop.
func (p *Pipeline) Start(ctx context.Context) error {
	p.lifecycleLock.Lock()
	if p.started.Load() {
		p.lifecycleLock.Unlock()
		return ErrAlreadyStarted
	}
	// cancel exists before any sink hook runs so a Shutdown racing a slow
	// Initialize has something to cancel.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.started.Store(true)
	p.lifecycleLock.Unlock()

	meta := p.GetComponentMetadata()
	p.dispatcher = dispatcher.NewDispatcher(
		dispatcher.WithComponentMetadata(meta.Name, meta.ID),
		dispatcher.WithWriteTimeout(p.writeTimeout),
		dispatcher.WithLogger(p.snapshotLoggers()...),
		dispatcher.WithSensor(p.snapshotSensors()...),
	)

	primary, fallback := p.GetPrimarySinks(), p.GetFallbackSinks()
	initErr := p.runHooks(ctx, types.PhaseInitialize, primary, fallback)

	p.running.Store(true)

	for _, s := range p.snapshotSensors() {
		s.InvokeOnStart(meta)
	}
	p.NotifyLoggers(types.InfoLevel, "Pipeline started",
		"component", meta,
		"event", "Start",
		"result", "SUCCESS",
		"buffer_limit", p.bufferLimit,
		"flush_interval", p.flushInterval,
		"queue_strategy", string(p.queue.Strategy()),
		"primary_count", len(primary),
		"fallback_count", len(fallback),
	)

	go p.run(runCtx, primary, fallback)
	return initErr
}

// Shutdown stops accepting work into the loop, drains the queue, performs
// the final flush under ctx and disposes every sink. If ctx ends first it
// returns ctx.Err() while draining continues in the background. Later calls
// wait for the same drain and return the same result. Called while Start is
// still initializing sinks, it waits for the loop to launch and drain.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.lifecycleLock.Lock()
	cancel := p.cancel
	p.lifecycleLock.Unlock()
	if cancel == nil {
		return ErrNotStarted
	}

	p.shutdownOnce.Do(func() {
		p.drainLock.Lock()
		p.drainCtx = ctx
		p.drainLock.Unlock()
		cancel()
	})

	select {
	case <-p.done:
		return p.disposeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) drainContext() context.Context {
	p.drainLock.Lock()
	defer p.drainLock.Unlock()
	if p.drainCtx == nil {
		return context.Background()
	}
	return p.drainCtx
}

// runHooks calls the phase hook on primaries then fallbacks, in order, and
// never lets one failing sink skip another.
func (p *Pipeline) runHooks(ctx context.Context, phase string, tiers ...[]types.Sink) error {
	meta := p.GetComponentMetadata()
	var errs []error
	for _, sinks := range tiers {
		for _, s := range sinks {
			name := types.SinkName(s)
			err := callHook(ctx, s, phase)
			if err == nil {
				continue
			}
			err = &dispatcher.SinkError{Sink: name, Err: fmt.Errorf("%s: %w", phase, err)}
			errs = append(errs, err)
			for _, sn := range p.snapshotSensors() {
				sn.InvokeOnLifecycleError(meta, name, phase, err)
			}
			p.NotifyLoggers(types.ErrorLevel, "Sink lifecycle hook failed",
				"component", meta,
				"event", phase,
				"result", "FAILURE",
				"sink", name,
				"error", err,
			)
		}
	}
	return errors.Join(errs...)
}

func callHook(ctx context.Context, s types.Sink, phase string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", dispatcher.ErrSinkPanic, r)
		}
	}()
	if s == nil {
		return errors.New("scheduler: nil sink")
	}
	if phase == types.PhaseDispose {
		return s.Dispose(ctx)
	}
	return s.Initialize(ctx)
}
