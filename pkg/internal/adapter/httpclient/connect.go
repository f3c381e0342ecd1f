package httpclient

import (
	"net/http"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (hp *HTTPClientAdapter) SetConfig(cfg types.HTTPSinkConfig) {
	hp.configLock.Lock()
	hp.cfg = cfg
	hp.configLock.Unlock()
}

func (hp *HTTPClientAdapter) config() types.HTTPSinkConfig {
	hp.configLock.Lock()
	defer hp.configLock.Unlock()
	return hp.cfg
}

// SetHTTPClient injects a client. TLS settings in the config are then ignored.
func (hp *HTTPClientAdapter) SetHTTPClient(c *http.Client) {
	hp.configLock.Lock()
	hp.httpClient = c
	hp.ownsClient = false
	hp.configLock.Unlock()
}

func (hp *HTTPClientAdapter) ConnectLogger(loggers ...types.Logger) {
	hp.loggersLock.Lock()
	defer hp.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			hp.loggers = append(hp.loggers, l)
		}
	}
}

func (hp *HTTPClientAdapter) ConnectSensor(sensors ...types.Sensor) {
	hp.sensorLock.Lock()
	defer hp.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			hp.sensors = append(hp.sensors, s)
		}
	}
}

func (hp *HTTPClientAdapter) GetComponentMetadata() types.ComponentMetadata {
	hp.metadataLock.Lock()
	defer hp.metadataLock.Unlock()
	return hp.componentMetadata
}

func (hp *HTTPClientAdapter) SetComponentMetadata(name string, id string) {
	hp.metadataLock.Lock()
	hp.componentMetadata.Name = name
	hp.componentMetadata.ID = id
	hp.metadataLock.Unlock()
}

func (hp *HTTPClientAdapter) snapshotLoggers() []types.Logger {
	hp.loggersLock.Lock()
	defer hp.loggersLock.Unlock()
	return append([]types.Logger(nil), hp.loggers...)
}

func (hp *HTTPClientAdapter) snapshotSensors() []types.Sensor {
	hp.sensorLock.Lock()
	defer hp.sensorLock.Unlock()
	return append([]types.Sensor(nil), hp.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (hp *HTTPClientAdapter) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range hp.snapshotLoggers() {
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

func (hp *HTTPClientAdapter) reportSuccess(records, attempts int, elapsed time.Duration) {
	meta := hp.GetComponentMetadata()
	for _, s := range hp.snapshotSensors() {
		s.InvokeOnSinkWriteSuccess(meta, hp.Name(), records, elapsed)
	}
	hp.NotifyLoggers(types.DebugLevel, "Webhook delivered",
		"component", meta,
		"event", "Post",
		"result", "SUCCESS",
		"records", records,
		"attempts", attempts,
		"elapsed", elapsed,
	)
}

func (hp *HTTPClientAdapter) reportError(records, attempts int, err error) {
	meta := hp.GetComponentMetadata()
	for _, s := range hp.snapshotSensors() {
		s.InvokeOnSinkWriteError(meta, hp.Name(), records, err)
	}
	hp.NotifyLoggers(types.ErrorLevel, "Webhook delivery failed",
		"component", meta,
		"event", "Post",
		"result", "FAILURE",
		"records", records,
		"attempts", attempts,
		"error", err,
	)
}
