package kafkaclient

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// SetConfig replaces the sink configuration. An empty key template keeps "{id}".
func (k *KafkaClient) SetConfig(cfg types.KafkaSinkConfig) {
	if cfg.KeyTemplate == "" {
		cfg.KeyTemplate = defaultKeyTemplate
	}
	k.configLock.Lock()
	k.cfg = cfg
	k.configLock.Unlock()
}

func (k *KafkaClient) config() types.KafkaSinkConfig {
	k.configLock.Lock()
	defer k.configLock.Unlock()
	return k.cfg
}

// SetWriter injects a producer. The sink never closes an injected writer.
func (k *KafkaClient) SetWriter(w types.KafkaMessageWriter) {
	k.writerLock.Lock()
	k.writer = w
	k.ownsWriter = false
	k.writerLock.Unlock()
}

func (k *KafkaClient) ConnectLogger(loggers ...types.Logger) {
	k.loggersLock.Lock()
	defer k.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			k.loggers = append(k.loggers, l)
		}
	}
}

func (k *KafkaClient) ConnectSensor(sensors ...types.Sensor) {
	k.sensorLock.Lock()
	defer k.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			k.sensors = append(k.sensors, s)
		}
	}
}

func (k *KafkaClient) GetComponentMetadata() types.ComponentMetadata {
	k.metadataLock.Lock()
	defer k.metadataLock.Unlock()
	return k.componentMetadata
}

func (k *KafkaClient) SetComponentMetadata(name string, id string) {
	k.metadataLock.Lock()
	k.componentMetadata.Name = name
	k.componentMetadata.ID = id
	k.metadataLock.Unlock()
}

func (k *KafkaClient) snapshotLoggers() []types.Logger {
	k.loggersLock.Lock()
	defer k.loggersLock.Unlock()
	return append([]types.Logger(nil), k.loggers...)
}

func (k *KafkaClient) snapshotSensors() []types.Sensor {
	k.sensorLock.Lock()
	defer k.sensorLock.Unlock()
	return append([]types.Sensor(nil), k.sensors...)
}

// NotifyLoggers forwards a structured message to every logger at or below level.
func (k *KafkaClient) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range k.snapshotLoggers() {
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

func (k *KafkaClient) logLifecycle(event string, msg string, kv ...interface{}) {
	fields := append([]interface{}{
		"component", k.GetComponentMetadata(),
		"event", event,
		"result", "SUCCESS",
	}, kv...)
	k.NotifyLoggers(types.InfoLevel, "Kafka sink: "+msg, fields...)
}

func (k *KafkaClient) reportSuccess(n int, elapsed time.Duration) {
	meta := k.GetComponentMetadata()
	for _, s := range k.snapshotSensors() {
		s.InvokeOnSinkWriteSuccess(meta, k.Name(), n, elapsed)
	}
	k.NotifyLoggers(types.DebugLevel, "Kafka sink: messages produced",
		"component", meta,
		"event", "WriteBatch",
		"result", "SUCCESS",
		"messages", n,
		"elapsed", elapsed,
	)
}

func (k *KafkaClient) reportError(n int, err error) {
	meta := k.GetComponentMetadata()
	for _, s := range k.snapshotSensors() {
		s.InvokeOnSinkWriteError(meta, k.Name(), n, err)
	}
	k.NotifyLoggers(types.ErrorLevel, "Kafka sink: produce failed",
		"component", meta,
		"event", "WriteBatch",
		"result", "FAILURE",
		"messages", n,
		"error", err,
	)
}
