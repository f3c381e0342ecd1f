package scheduler

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

func (p *Pipeline) snapshotLoggers() []types.Logger {
	p.loggersLock.Lock()
	defer p.loggersLock.Unlock()
	return append([]types.Logger(nil), p.loggers...)
}

func (p *Pipeline) snapshotSensors() []types.Sensor {
	p.sensorLock.Lock()
	defer p.sensorLock.Unlock()
	return append([]types.Sensor(nil), p.sensors...)
}

func (p *Pipeline) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range p.snapshotLoggers() {
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
