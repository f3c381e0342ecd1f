// Package scheduler implements types.Pipeline: a single goroutine drains the
// ingest queue into a buffer and flushes it when the buffer reaches its limit
// or when no record arrived for a full flush interval. A flush redacts the
// buffered bodies and hands the batch to the dispatcher.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/dispatcher"
	"github.com/joeydtaylor/flexlog/pkg/internal/ingestqueue"
	"github.com/joeydtaylor/flexlog/pkg/internal/redactor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

var (
	ErrAlreadyStarted = errors.New("scheduler: pipeline already started")
	ErrNotStarted     = errors.New("scheduler: pipeline not started")
)

// Pipeline owns the queue, the flush buffer and the sink lists.
type Pipeline struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	queue      types.IngestQueue
	ownsQueue  bool
	dispatcher *dispatcher.Dispatcher

	bufferLimit   int
	flushInterval time.Duration
	writeTimeout  time.Duration
	requestKeys   redactor.KeySet
	responseKeys  redactor.KeySet

	primary  []types.Sink
	fallback []types.Sink
	sinkLock sync.Mutex

	started atomic.Bool
	running atomic.Bool

	lifecycleLock sync.Mutex
	cancel        context.CancelFunc
	done          chan struct{}
	shutdownOnce  sync.Once
	drainCtx      context.Context
	drainLock     sync.Mutex
	disposeErr    error

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewPipeline builds a pipeline with the default buffer limit, flush interval
// and an unbounded queue unless options override them.
func NewPipeline(options ...types.Option[types.Pipeline]) types.Pipeline {
	p := &Pipeline{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "PIPELINE",
		},
		bufferLimit:   types.DefaultBufferLimit,
		flushInterval: types.DefaultFlushInterval,
		requestKeys:   redactor.NewKeySet(),
		responseKeys:  redactor.NewKeySet(),
		done:          make(chan struct{}),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}

	if p.queue == nil {
		p.queue = ingestqueue.NewIngestQueue(
			ingestqueue.WithLogger(p.snapshotLoggers()...),
			ingestqueue.WithSensor(p.snapshotSensors()...),
		)
		p.ownsQueue = true
	}
	return p
}

// Enqueue hands r to the ingest queue. It never blocks and never fails.
func (p *Pipeline) Enqueue(r *types.LogRecord) {
	p.queue.Enqueue(r)
}

func (p *Pipeline) IsRunning() bool { return p.running.Load() }
