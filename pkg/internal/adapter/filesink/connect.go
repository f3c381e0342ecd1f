package filesink

import (
	"io"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (f *FileSink) SetConfig(cfg types.FileSinkConfig) {
	f.writer.Lock()
	f.cfg = cfg
	f.writer.Unlock()
}

// SetWriter directs output to w, e.g. os.Stdout. The sink never closes w.
func (f *FileSink) SetWriter(w io.Writer) {
	f.writer.Lock()
	f.out = w
	f.file = nil
	f.writer.Unlock()
}

func (f *FileSink) ConnectLogger(loggers ...types.Logger) {
	f.loggersLock.Lock()
	defer f.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			f.loggers = append(f.loggers, l)
		}
	}
}

func (f *FileSink) ConnectSensor(sensors ...types.Sensor) {
	f.sensorLock.Lock()
	defer f.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			f.sensors = append(f.sensors, s)
		}
	}
}

func (f *FileSink) GetComponentMetadata() types.ComponentMetadata {
	f.metadataLock.Lock()
	defer f.metadataLock.Unlock()
	return f.componentMetadata
}

func (f *FileSink) SetComponentMetadata(name string, id string) {
	f.metadataLock.Lock()
	f.componentMetadata.Name = name
	f.componentMetadata.ID = id
	f.metadataLock.Unlock()
}

func (f *FileSink) snapshotLoggers() []types.Logger {
	f.loggersLock.Lock()
	defer f.loggersLock.Unlock()
	return append([]types.Logger(nil), f.loggers...)
}

func (f *FileSink) snapshotSensors() []types.Sensor {
	f.sensorLock.Lock()
	defer f.sensorLock.Unlock()
	return append([]types.Sensor(nil), f.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (f *FileSink) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range f.snapshotLoggers() {
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

func (f *FileSink) reportSuccess(name string, records int, elapsed time.Duration) {
	meta := f.GetComponentMetadata()
	for _, s := range f.snapshotSensors() {
		s.InvokeOnSinkWriteSuccess(meta, name, records, elapsed)
	}
}

func (f *FileSink) reportError(name string, records int, err error) {
	meta := f.GetComponentMetadata()
	for _, s := range f.snapshotSensors() {
		s.InvokeOnSinkWriteError(meta, name, records, err)
	}
	f.NotifyLoggers(types.ErrorLevel, "File sink write failed",
		"component", meta,
		"event", "WriteBatch",
		"result", "FAILURE",
		"records", records,
		"error", err,
	)
}
