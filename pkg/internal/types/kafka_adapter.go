package types

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
)

// KafkaSecurity groups transport security for the kafka-go writer.
type KafkaSecurity struct {
	SASL      sasl.Mechanism // nil => no SASL
	TLS       *tls.Config    // nil => PLAINTEXT
	ClientID  string         // optional
	DialerTO  time.Duration  // optional (defaults 10s)
	DualStack bool           // optional (defaults true)
}

// KafkaMessageWriter is the producer surface the Kafka sink needs.
// *kafka.Writer satisfies it.
type KafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSinkConfig configures the Kafka sink. One message is produced per record.
type KafkaSinkConfig struct {
	Brokers []string
	Topic   string

	// KeyTemplate renders the message key: "{id}", "{traceId}", "{endpoint}"
	// or a literal. Default "{id}".
	KeyTemplate string
	// HeaderTemplates render per-message headers with the same placeholders.
	HeaderTemplates map[string]string

	Compression  string // "" | "gzip" | "snappy" | "lz4" | "zstd"
	RequiredAcks string // "all" (default) | "leader" | "none"
	Balancer     string // "hash" (default) | "roundrobin" | "leastbytes"
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration

	Security *KafkaSecurity
}
