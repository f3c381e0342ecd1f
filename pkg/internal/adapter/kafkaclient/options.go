package kafkaclient

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

func WithConfig(cfg types.KafkaSinkConfig) types.Option[*KafkaClient] {
	return func(k *KafkaClient) { k.SetConfig(cfg) }
}

// WithWriter injects a pre-built producer, typically a shared *kafka.Writer.
func WithWriter(w types.KafkaMessageWriter) types.Option[*KafkaClient] {
	return func(k *KafkaClient) { k.SetWriter(w) }
}

func WithLogger(loggers ...types.Logger) types.Option[*KafkaClient] {
	return func(k *KafkaClient) { k.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[*KafkaClient] {
	return func(k *KafkaClient) { k.ConnectSensor(sensors...) }
}

func WithComponentMetadata(name string, id string) types.Option[*KafkaClient] {
	return func(k *KafkaClient) { k.SetComponentMetadata(name, id) }
}
