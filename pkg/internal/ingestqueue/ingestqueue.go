// Package ingestqueue implements the multi-producer, single-consumer buffer
// between record producers and the batch scheduler.
package ingestqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// IngestQueue is a mutex-guarded FIFO with an edge signal for the consumer.
type IngestQueue struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	strategy types.QueueStrategy
	capacity int

	items     []*types.LogRecord
	head      int
	reserved  int
	queueLock sync.Mutex

	ready   chan struct{}
	dropped atomic.Uint64
	now     func() time.Time

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewIngestQueue builds an unbounded queue unless options select otherwise.
func NewIngestQueue(options ...types.Option[types.IngestQueue]) types.IngestQueue {
	q := &IngestQueue{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "INGEST_QUEUE",
		},
		strategy: types.QueueUnbounded,
		capacity: types.DefaultQueueCapacity,
		items:    make([]*types.LogRecord, 0, 64),
		ready:    make(chan struct{}, 1),
		now:      time.Now,
		loggers:  make([]types.Logger, 0),
		sensors:  make([]types.Sensor, 0),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(q)
	}

	return q
}

// Enqueue stamps the record's elapsed time and queues it. Under
// QueueBoundedDropWrite a full queue discards the record silently.
//
// A slot is reserved before sensors see the record and the record is
// published afterwards, so callbacks never share it with the consumer.
func (q *IngestQueue) Enqueue(r *types.LogRecord) {
	if r == nil {
		return
	}
	r.StampElapsed(q.now())

	q.queueLock.Lock()
	if q.strategy == types.QueueBoundedDropWrite && q.lenLocked()+q.reserved >= q.capacity {
		q.queueLock.Unlock()
		q.dropped.Add(1)
		q.notifyDrop(r)
		return
	}
	q.reserved++
	q.queueLock.Unlock()

	q.notifyEnqueue(r)

	q.queueLock.Lock()
	q.reserved--
	q.items = append(q.items, r)
	q.queueLock.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Dequeue removes the oldest record without blocking.
func (q *IngestQueue) Dequeue() (*types.LogRecord, bool) {
	q.queueLock.Lock()
	defer q.queueLock.Unlock()

	if q.lenLocked() == 0 {
		return nil, false
	}
	r := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 1024 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return r, true
}

// WaitForAvailable blocks until at least one record is queued or ctx ends.
func (q *IngestQueue) WaitForAvailable(ctx context.Context) bool {
	for {
		if q.Len() > 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return q.Len() > 0
		case <-q.ready:
		}
	}
}

// Available exposes the enqueue signal for use in a select.
func (q *IngestQueue) Available() <-chan struct{} { return q.ready }

func (q *IngestQueue) Len() int {
	q.queueLock.Lock()
	defer q.queueLock.Unlock()
	return q.lenLocked()
}

func (q *IngestQueue) lenLocked() int { return len(q.items) - q.head }

// Dropped counts records rejected by the bounded strategy.
func (q *IngestQueue) Dropped() uint64 { return q.dropped.Load() }

func (q *IngestQueue) Strategy() types.QueueStrategy { return q.strategy }

func (q *IngestQueue) Capacity() int {
	if q.strategy != types.QueueBoundedDropWrite {
		return -1
	}
	return q.capacity
}
