package sensor

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

func (s *Sensor) snapshotLoggers() []types.Logger {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	if len(s.loggers) == 0 {
		return nil
	}
	return append([]types.Logger(nil), s.loggers...)
}

// NotifyLoggers sends a structured message to every attached logger enabled for level.
func (s *Sensor) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range s.snapshotLoggers() {
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
