package dispatcher

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (d *Dispatcher) ConnectLogger(loggers ...types.Logger) {
	d.loggersLock.Lock()
	defer d.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			d.loggers = append(d.loggers, l)
		}
	}
}

func (d *Dispatcher) ConnectSensor(sensors ...types.Sensor) {
	d.sensorLock.Lock()
	defer d.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			d.sensors = append(d.sensors, s)
		}
	}
}

// SetWriteTimeout must be called before the first Dispatch.
func (d *Dispatcher) SetWriteTimeout(timeout time.Duration) {
	if timeout < 0 {
		timeout = 0
	}
	d.writeTimeout = timeout
}

func (d *Dispatcher) GetComponentMetadata() types.ComponentMetadata {
	d.metadataLock.Lock()
	defer d.metadataLock.Unlock()
	return d.componentMetadata
}

func (d *Dispatcher) SetComponentMetadata(name string, id string) {
	d.metadataLock.Lock()
	d.componentMetadata.Name = name
	d.componentMetadata.ID = id
	d.metadataLock.Unlock()
}

func (d *Dispatcher) snapshotLoggers() []types.Logger {
	d.loggersLock.Lock()
	defer d.loggersLock.Unlock()
	return append([]types.Logger(nil), d.loggers...)
}

func (d *Dispatcher) snapshotSensors() []types.Sensor {
	d.sensorLock.Lock()
	defer d.sensorLock.Unlock()
	return append([]types.Sensor(nil), d.sensors...)
}

// NotifyLoggers forwards a structured message to every logger enabled for level.
func (d *Dispatcher) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range d.snapshotLoggers() {
		if logger.GetLevel() > level {
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
