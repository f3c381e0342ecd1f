package capture

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (m *Middleware) ConnectLogger(loggers ...types.Logger) {
	m.loggersLock.Lock()
	defer m.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
}

func (m *Middleware) GetComponentMetadata() types.ComponentMetadata {
	m.metadataLock.Lock()
	defer m.metadataLock.Unlock()
	return m.componentMetadata
}

func (m *Middleware) SetComponentMetadata(name string, id string) {
	m.metadataLock.Lock()
	m.componentMetadata.Name = name
	m.componentMetadata.ID = id
	m.metadataLock.Unlock()
}

// Config returns the effective configuration.
func (m *Middleware) Config() Config { return m.cfg }

func (m *Middleware) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	m.loggersLock.Lock()
	loggers := append([]types.Logger(nil), m.loggers...)
	m.loggersLock.Unlock()
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
