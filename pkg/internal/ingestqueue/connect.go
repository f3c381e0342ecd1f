package ingestqueue

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

// ConnectLogger registers loggers for queue events.
func (q *IngestQueue) ConnectLogger(loggers ...types.Logger) {
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

	q.loggersLock.Lock()
	q.loggers = append(q.loggers, loggers[:n]...)
	q.loggersLock.Unlock()
}

// ConnectSensor registers sensors for queue events.
func (q *IngestQueue) ConnectSensor(sensors ...types.Sensor) {
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

	q.sensorLock.Lock()
	q.sensors = append(q.sensors, sensors[:n]...)
	q.sensorLock.Unlock()
}

func (q *IngestQueue) GetComponentMetadata() types.ComponentMetadata {
	q.metadataLock.Lock()
	defer q.metadataLock.Unlock()
	return q.componentMetadata
}

// SetComponentMetadata overrides name and id while preserving the type.
func (q *IngestQueue) SetComponentMetadata(name string, id string) {
	q.metadataLock.Lock()
	q.componentMetadata.Name = name
	q.componentMetadata.ID = id
	q.metadataLock.Unlock()
}
