package websocketclient

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (c *WebSocketClientAdapter) SetConfig(cfg types.WebSocketSinkConfig) {
	c.configLock.Lock()
	c.cfg = cfg
	c.configLock.Unlock()
}

func (c *WebSocketClientAdapter) config() types.WebSocketSinkConfig {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return c.cfg
}

func (c *WebSocketClientAdapter) ConnectLogger(loggers ...types.Logger) {
	c.loggersLock.Lock()
	defer c.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			c.loggers = append(c.loggers, l)
		}
	}
}

func (c *WebSocketClientAdapter) ConnectSensor(sensors ...types.Sensor) {
	c.sensorLock.Lock()
	defer c.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			c.sensors = append(c.sensors, s)
		}
	}
}

func (c *WebSocketClientAdapter) GetComponentMetadata() types.ComponentMetadata {
	c.metadataLock.Lock()
	defer c.metadataLock.Unlock()
	return c.componentMetadata
}

func (c *WebSocketClientAdapter) SetComponentMetadata(name string, id string) {
	c.metadataLock.Lock()
	c.componentMetadata.Name = name
	c.componentMetadata.ID = id
	c.metadataLock.Unlock()
}

func (c *WebSocketClientAdapter) snapshotLoggers() []types.Logger {
	c.loggersLock.Lock()
	defer c.loggersLock.Unlock()
	return append([]types.Logger(nil), c.loggers...)
}

func (c *WebSocketClientAdapter) snapshotSensors() []types.Sensor {
	c.sensorLock.Lock()
	defer c.sensorLock.Unlock()
	return append([]types.Sensor(nil), c.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (c *WebSocketClientAdapter) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range c.snapshotLoggers() {
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

func (c *WebSocketClientAdapter) reportSuccess(records int, elapsed time.Duration) {
	meta := c.GetComponentMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnSinkWriteSuccess(meta, c.Name(), records, elapsed)
	}
	c.NotifyLoggers(types.DebugLevel, "WebSocket batch sent",
		"component", meta,
		"event", "Write",
		"result", "SUCCESS",
		"records", records,
		"elapsed", elapsed,
	)
}

func (c *WebSocketClientAdapter) reportError(records int, err error) {
	meta := c.GetComponentMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnSinkWriteError(meta, c.Name(), records, err)
	}
	c.NotifyLoggers(types.ErrorLevel, "WebSocket batch failed",
		"component", meta,
		"event", "Write",
		"result", "FAILURE",
		"records", records,
		"error", err,
	)
}
