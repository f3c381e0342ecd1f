package circuitbreaker

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

func (cb *CircuitBreaker) ConnectLogger(loggers ...types.Logger) {
	cb.loggersLock.Lock()
	defer cb.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			cb.loggers = append(cb.loggers, l)
		}
	}
}

func (cb *CircuitBreaker) ConnectSensor(sensors ...types.Sensor) {
	cb.sensorLock.Lock()
	defer cb.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			cb.sensors = append(cb.sensors, s)
		}
	}
}

func (cb *CircuitBreaker) GetComponentMetadata() types.ComponentMetadata {
	cb.metadataLock.Lock()
	defer cb.metadataLock.Unlock()
	return cb.componentMetadata
}

func (cb *CircuitBreaker) SetComponentMetadata(name string, id string) {
	cb.metadataLock.Lock()
	cb.componentMetadata.Name = name
	cb.componentMetadata.ID = id
	cb.metadataLock.Unlock()
}

func (cb *CircuitBreaker) snapshotSensors() []types.Sensor {
	cb.sensorLock.Lock()
	defer cb.sensorLock.Unlock()
	return append([]types.Sensor(nil), cb.sensors...)
}

func (cb *CircuitBreaker) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	cb.loggersLock.Lock()
	loggers := append([]types.Logger(nil), cb.loggers...)
	cb.loggersLock.Unlock()
	for _, logger := range loggers {
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
		default:
			logger.Error(msg, keysAndValues...)
		}
	}
}
