package ingestqueue

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (q *IngestQueue) snapshotLoggers() []types.Logger {
	q.loggersLock.Lock()
	defer q.loggersLock.Unlock()
	if len(q.loggers) == 0 {
		return nil
	}
	return append([]types.Logger(nil), q.loggers...)
}

func (q *IngestQueue) snapshotSensors() []types.Sensor {
	q.sensorLock.Lock()
	defer q.sensorLock.Unlock()
	if len(q.sensors) == 0 {
		return nil
	}
	return append([]types.Sensor(nil), q.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (q *IngestQueue) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range q.snapshotLoggers() {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

func (q *IngestQueue) notifyEnqueue(r *types.LogRecord) {
	meta := q.GetComponentMetadata()
	for _, s := range q.snapshotSensors() {
		s.InvokeOnEnqueue(meta, r)
	}
	q.NotifyLoggers(
		types.DebugLevel,
		"Record enqueued",
		"component", meta,
		"event", "Enqueue",
		"result", "SUCCESS",
		"record_id", r.ID,
	)
}

func (q *IngestQueue) notifyDrop(r *types.LogRecord) {
	meta := q.GetComponentMetadata()
	for _, s := range q.snapshotSensors() {
		s.InvokeOnQueueDrop(meta, r)
	}
	q.NotifyLoggers(
		types.DebugLevel,
		"Record dropped: queue at capacity",
		"component", meta,
		"event", "Drop",
		"result", "FAILURE",
		"record_id", r.ID,
		"capacity", q.capacity,
		"dropped_total", q.dropped.Load(),
	)
}
