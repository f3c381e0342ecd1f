package scheduler

import (
	"context"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/redactor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// run is the only goroutine touching the buffer.
func (p *Pipeline) run(ctx context.Context, primary, fallback []types.Sink) {
	defer close(p.done)

	flushCtx := context.WithoutCancel(ctx)
	buffer := make([]*types.LogRecord, 0, min(p.bufferLimit, 1024))

	timer := time.NewTimer(p.flushInterval)
	defer timer.Stop()

	for {
		timer.Reset(p.flushInterval)

		select {
		case <-ctx.Done():
			p.drain(buffer, primary, fallback)
			return

		case <-p.queue.Available():
			// Bounded by what was queued when woken so a steady producer
			// cannot keep the loop from seeing ctx.Done.
			for n := p.queue.Len(); n > 0; n-- {
				r, ok := p.queue.Dequeue()
				if !ok {
					break
				}
				buffer = append(buffer, r)
				if len(buffer) >= p.bufferLimit {
					buffer = p.flush(flushCtx, buffer, primary, fallback)
				}
			}

		case <-timer.C:
			if len(buffer) > 0 {
				buffer = p.flush(flushCtx, buffer, primary, fallback)
			}
		}
	}
}

// drain moves every record queued when draining began into a single final
// batch, flushes it under the Shutdown context and disposes the sinks.
// Records enqueued after that point stay in the queue.
func (p *Pipeline) drain(buffer []*types.LogRecord, primary, fallback []types.Sink) {
	ctx := p.drainContext()
	meta := p.GetComponentMetadata()

	for n := p.queue.Len(); n > 0; n-- {
		r, ok := p.queue.Dequeue()
		if !ok {
			break
		}
		buffer = append(buffer, r)
	}
	p.NotifyLoggers(types.InfoLevel, "Pipeline draining",
		"component", meta,
		"event", "Drain",
		"result", "SUCCESS",
		"batch_size", len(buffer),
	)
	if len(buffer) > 0 {
		p.flush(ctx, buffer, primary, fallback)
	}

	p.disposeErr = p.runHooks(ctx, types.PhaseDispose, primary, fallback)
	p.running.Store(false)

	for _, s := range p.snapshotSensors() {
		s.InvokeOnStop(meta)
	}
	p.NotifyLoggers(types.InfoLevel, "Pipeline stopped",
		"component", meta,
		"event", "Stop",
		"result", "SUCCESS",
		"queue_dropped", p.queue.Dropped(),
	)
}

// flush redacts, dispatches and clears the buffer whatever the outcome.
func (p *Pipeline) flush(ctx context.Context, buffer []*types.LogRecord, primary, fallback []types.Sink) []*types.LogRecord {
	meta := p.GetComponentMetadata()
	for _, r := range buffer {
		p.redactBody(meta, r.RequestBody, p.requestKeys)
		p.redactBody(meta, r.ResponseBody, p.responseKeys)
	}

	for _, s := range p.snapshotSensors() {
		s.InvokeOnFlush(meta, len(buffer))
	}
	p.NotifyLoggers(types.DebugLevel, "Flushing batch",
		"component", meta,
		"event", "Flush",
		"batch_size", len(buffer),
	)

	p.dispatcher.Dispatch(ctx, buffer, primary, fallback)

	clear(buffer)
	return buffer[:0]
}

func (p *Pipeline) redactBody(meta types.ComponentMetadata, body *types.BodyCapture, keys redactor.KeySet) {
	if !body.Redactable() {
		return
	}
	body.Rendered, body.ValidJSON = redactor.Redact(body.Raw, keys)
	for _, s := range p.snapshotSensors() {
		s.InvokeOnRedaction(meta, body.ValidJSON)
	}
}
