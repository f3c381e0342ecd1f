package s3client

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (a *S3Client) SetConfig(cfg types.S3SinkConfig) {
	a.configLock.Lock()
	a.cfg = cfg
	a.configLock.Unlock()
}

func (a *S3Client) config() types.S3SinkConfig {
	a.configLock.Lock()
	defer a.configLock.Unlock()
	return a.cfg
}

// SetClient injects the S3 API, typically an *s3.Client.
func (a *S3Client) SetClient(cli types.S3ObjectAPI) {
	a.configLock.Lock()
	a.cli = cli
	a.configLock.Unlock()
}

func (a *S3Client) client() types.S3ObjectAPI {
	a.configLock.Lock()
	defer a.configLock.Unlock()
	return a.cli
}

func (a *S3Client) ConnectLogger(loggers ...types.Logger) {
	a.loggersLock.Lock()
	defer a.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			a.loggers = append(a.loggers, l)
		}
	}
}

func (a *S3Client) ConnectSensor(sensors ...types.Sensor) {
	a.sensorLock.Lock()
	defer a.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			a.sensors = append(a.sensors, s)
		}
	}
}

func (a *S3Client) GetComponentMetadata() types.ComponentMetadata {
	a.metadataLock.Lock()
	defer a.metadataLock.Unlock()
	return a.componentMetadata
}

func (a *S3Client) SetComponentMetadata(name string, id string) {
	a.metadataLock.Lock()
	a.componentMetadata.Name = name
	a.componentMetadata.ID = id
	a.metadataLock.Unlock()
}

func (a *S3Client) snapshotLoggers() []types.Logger {
	a.loggersLock.Lock()
	defer a.loggersLock.Unlock()
	return append([]types.Logger(nil), a.loggers...)
}

func (a *S3Client) snapshotSensors() []types.Sensor {
	a.sensorLock.Lock()
	defer a.sensorLock.Unlock()
	return append([]types.Sensor(nil), a.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (a *S3Client) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range a.snapshotLoggers() {
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

func (a *S3Client) reportSuccess(records int, key string, size int, elapsed time.Duration) {
	meta := a.GetComponentMetadata()
	for _, s := range a.snapshotSensors() {
		s.InvokeOnSinkWriteSuccess(meta, a.Name(), records, elapsed)
	}
	a.NotifyLoggers(types.InfoLevel, "Object uploaded",
		"component", meta,
		"event", "PutObject",
		"result", "SUCCESS",
		"key", key,
		"records", records,
		"bytes", size,
		"elapsed", elapsed,
	)
}

func (a *S3Client) reportError(records int, key string, err error) {
	meta := a.GetComponentMetadata()
	for _, s := range a.snapshotSensors() {
		s.InvokeOnSinkWriteError(meta, a.Name(), records, err)
	}
	a.NotifyLoggers(types.ErrorLevel, "Object upload failed",
		"component", meta,
		"event", "PutObject",
		"result", "FAILURE",
		"key", key,
		"records", records,
		"error", err,
	)
}
