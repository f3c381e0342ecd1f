package scheduler

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/redactor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// frozen reports (and logs) an attempt to reconfigure a started pipeline.
func (p *Pipeline) frozen(event string) bool {
	if !p.started.Load() {
		return false
	}
	p.NotifyLoggers(types.WarnLevel, "Configuration change ignored: pipeline already started",
		"component", p.GetComponentMetadata(),
		"event", event,
		"result", "FAILURE",
	)
	return true
}

// ConnectLogger registers loggers; a queue created by the pipeline receives them too.
func (p *Pipeline) ConnectLogger(loggers ...types.Logger) {
	n := 0
	for _, l := range loggers {
		if l != nil {
			loggers[n] = l
			n++
		}
	}
	if n == 0 {
		return
	}
	p.loggersLock.Lock()
	p.loggers = append(p.loggers, loggers[:n]...)
	p.loggersLock.Unlock()

	if p.ownsQueue {
		p.queue.ConnectLogger(loggers[:n]...)
	}
}

// ConnectSensor registers sensors; a queue created by the pipeline receives them too.
func (p *Pipeline) ConnectSensor(sensors ...types.Sensor) {
	n := 0
	for _, s := range sensors {
		if s != nil {
			sensors[n] = s
			n++
		}
	}
	if n == 0 {
		return
	}
	p.sensorLock.Lock()
	p.sensors = append(p.sensors, sensors[:n]...)
	p.sensorLock.Unlock()

	if p.ownsQueue {
		p.queue.ConnectSensor(sensors[:n]...)
	}
}

// ConnectPrimarySink appends primary sinks. Sink lists are immutable after Start.
func (p *Pipeline) ConnectPrimarySink(sinks ...types.Sink) {
	if p.frozen("ConnectPrimarySink") {
		return
	}
	p.sinkLock.Lock()
	for _, s := range sinks {
		if s != nil {
			p.primary = append(p.primary, s)
		}
	}
	p.sinkLock.Unlock()
}

func (p *Pipeline) ConnectFallbackSink(sinks ...types.Sink) {
	if p.frozen("ConnectFallbackSink") {
		return
	}
	p.sinkLock.Lock()
	for _, s := range sinks {
		if s != nil {
			p.fallback = append(p.fallback, s)
		}
	}
	p.sinkLock.Unlock()
}

// SetQueue replaces the default queue. Records already in the old queue are not moved.
func (p *Pipeline) SetQueue(q types.IngestQueue) {
	if q == nil || p.frozen("SetQueue") {
		return
	}
	p.queue = q
	p.ownsQueue = false
}

// SetBufferLimit ignores values <= 0.
func (p *Pipeline) SetBufferLimit(n int) {
	if n <= 0 || p.frozen("SetBufferLimit") {
		return
	}
	p.bufferLimit = n
}

// SetFlushInterval ignores values <= 0.
func (p *Pipeline) SetFlushInterval(d time.Duration) {
	if d <= 0 || p.frozen("SetFlushInterval") {
		return
	}
	p.flushInterval = d
}

func (p *Pipeline) SetRequestRedactedKeys(keys ...string) {
	if p.frozen("SetRequestRedactedKeys") {
		return
	}
	p.requestKeys = redactor.NewKeySet(keys...)
}

func (p *Pipeline) SetResponseRedactedKeys(keys ...string) {
	if p.frozen("SetResponseRedactedKeys") {
		return
	}
	p.responseKeys = redactor.NewKeySet(keys...)
}

// SetSinkWriteTimeout bounds each WriteBatch call; zero disables it.
func (p *Pipeline) SetSinkWriteTimeout(d time.Duration) {
	if d < 0 || p.frozen("SetSinkWriteTimeout") {
		return
	}
	p.writeTimeout = d
}

func (p *Pipeline) GetQueue() types.IngestQueue { return p.queue }

func (p *Pipeline) GetPrimarySinks() []types.Sink {
	p.sinkLock.Lock()
	defer p.sinkLock.Unlock()
	return append([]types.Sink(nil), p.primary...)
}

func (p *Pipeline) GetFallbackSinks() []types.Sink {
	p.sinkLock.Lock()
	defer p.sinkLock.Unlock()
	return append([]types.Sink(nil), p.fallback...)
}

func (p *Pipeline) GetComponentMetadata() types.ComponentMetadata {
	p.metadataLock.Lock()
	defer p.metadataLock.Unlock()
	return p.componentMetadata
}

func (p *Pipeline) SetComponentMetadata(name string, id string) {
	p.metadataLock.Lock()
	p.componentMetadata.Name = name
	p.componentMetadata.ID = id
	p.metadataLock.Unlock()
}
