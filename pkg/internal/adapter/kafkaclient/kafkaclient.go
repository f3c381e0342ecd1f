// Package kafkaclient delivers log records to a Kafka topic, one message per
// record, through segmentio/kafka-go.
package kafkaclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
	"github.com/segmentio/kafka-go"
)

const defaultKeyTemplate = "{id}"

var (
	ErrNoBrokers = errors.New("kafkaclient: no brokers configured")
	ErrNoTopic   = errors.New("kafkaclient: no topic configured")
)

// KafkaClient is a Sink producing NDJSON-compatible record documents.
type KafkaClient struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	cfg        types.KafkaSinkConfig
	configLock sync.Mutex

	writer     types.KafkaMessageWriter
	ownsWriter bool
	writerLock sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewKafkaClientAdapter builds an unconfigured Kafka sink.
func NewKafkaClientAdapter(options ...types.Option[*KafkaClient]) *KafkaClient {
	k := &KafkaClient{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "KAFKA_SINK",
		},
		cfg: types.KafkaSinkConfig{
			KeyTemplate: defaultKeyTemplate,
		},
		loggers: make([]types.Logger, 0),
		sensors: make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

func (k *KafkaClient) Name() string {
	meta := k.GetComponentMetadata()
	if meta.Name != "" {
		return meta.Name
	}
	return "kafka:" + k.config().Topic
}

// Initialize builds a kafka-go writer unless one was injected.
func (k *KafkaClient) Initialize(ctx context.Context) error {
	k.writerLock.Lock()
	defer k.writerLock.Unlock()

	if k.writer != nil {
		k.logLifecycle("Initialize", "writer injected")
		return nil
	}
	cfg := k.config()
	if len(utils.CleanList(cfg.Brokers)) == 0 {
		return ErrNoBrokers
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return ErrNoTopic
	}
	w, err := buildWriter(cfg)
	if err != nil {
		return err
	}
	k.writer = w
	k.ownsWriter = true
	k.logLifecycle("Initialize", "writer built", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return nil
}

// WriteBatch produces one message per record in a single WriteMessages call.
func (k *KafkaClient) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	k.writerLock.Lock()
	w := k.writer
	k.writerLock.Unlock()
	if w == nil {
		return fmt.Errorf("kafkaclient: writer not initialized")
	}

	cfg := k.config()
	msgs, err := buildMessages(cfg, topicForMessages(w, cfg.Topic), batch)
	if err != nil {
		k.reportError(len(batch), err)
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	if cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.WriteTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := w.WriteMessages(ctx, msgs...); err != nil {
		err = fmt.Errorf("kafkaclient: write %d messages: %w", len(msgs), err)
		k.reportError(len(msgs), err)
		return err
	}
	k.reportSuccess(len(msgs), time.Since(start))
	return nil
}

// Dispose closes the writer when this sink built it.
func (k *KafkaClient) Dispose(ctx context.Context) error {
	k.writerLock.Lock()
	w, owned := k.writer, k.ownsWriter
	k.writer, k.ownsWriter = nil, false
	k.writerLock.Unlock()

	if w == nil || !owned {
		return nil
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("kafkaclient: close writer: %w", err)
	}
	k.logLifecycle("Dispose", "writer closed")
	return nil
}

func buildMessages(cfg types.KafkaSinkConfig, topic string, batch []*types.LogRecord) ([]kafka.Message, error) {
	keyTpl := cfg.KeyTemplate
	if strings.TrimSpace(keyTpl) == "" {
		keyTpl = defaultKeyTemplate
	}
	msgs := make([]kafka.Message, 0, len(batch))
	for _, r := range batch {
		if r == nil {
			continue
		}
		val, err := codec.MarshalRecord(r)
		if err != nil {
			return nil, fmt.Errorf("kafkaclient: marshal record %s: %w", r.ID, err)
		}
		msg := kafka.Message{
			Topic:   topic,
			Key:     renderKey(keyTpl, r),
			Value:   val,
			Headers: renderHeaders(cfg.HeaderTemplates, r),
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// topicForMessages returns the per-message topic. kafka-go rejects messages
// carrying a topic when the writer already has one.
func topicForMessages(w types.KafkaMessageWriter, topic string) string {
	if kw, ok := w.(*kafka.Writer); ok && strings.TrimSpace(kw.Topic) != "" {
		return ""
	}
	return strings.TrimSpace(topic)
}
