package builder

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/kafkaclient"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

type (
	KafkaSink          = kafkaclient.KafkaClient
	KafkaSinkConfig    = types.KafkaSinkConfig
	KafkaSecurity      = types.KafkaSecurity
	KafkaMessageWriter = types.KafkaMessageWriter
)

// NewKafkaSink creates a sink producing one message per record.
func NewKafkaSink(options ...types.Option[*KafkaSink]) *KafkaSink {
	return kafkaclient.NewKafkaClientAdapter(options...)
}

func KafkaSinkWithConfig(cfg KafkaSinkConfig) types.Option[*KafkaSink] {
	return kafkaclient.WithConfig(cfg)
}

// KafkaSinkWithWriter injects a producer. The sink never closes it.
func KafkaSinkWithWriter(w KafkaMessageWriter) types.Option[*KafkaSink] {
	return kafkaclient.WithWriter(w)
}

func KafkaSinkWithLogger(l ...types.Logger) types.Option[*KafkaSink] {
	return kafkaclient.WithLogger(l...)
}

func KafkaSinkWithSensor(s ...types.Sensor) types.Option[*KafkaSink] {
	return kafkaclient.WithSensor(s...)
}

func KafkaSinkWithComponentMetadata(name string, id string) types.Option[*KafkaSink] {
	return kafkaclient.WithComponentMetadata(name, id)
}

// ---- kafka-go Writer convenience ----

type KafkaGoWriterOption func(*kafka.Writer)

// NewKafkaGoWriter builds a kafka-go Writer for hosts that inject their own producer.
func NewKafkaGoWriter(brokers []string, topic string, opts ...KafkaGoWriterOption) *kafka.Writer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           200 * time.Millisecond,
		BatchBytes:             int64(1 << 20),
		BatchSize:              1000,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func KafkaGoWriterWithRoundRobin() KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.Balancer = &kafka.RoundRobin{} }
}
func KafkaGoWriterWithLeastBytes() KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.Balancer = &kafka.LeastBytes{} }
}
func KafkaGoWriterWithBatchTimeout(d time.Duration) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.BatchTimeout = d }
}
func KafkaGoWriterWithBatchSize(n int) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.BatchSize = n }
}
func KafkaGoWriterWithTransport(t *kafka.Transport) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.Transport = t }
}

// -------------------------------------------------
// Security helpers (TLS + SASL)
// -------------------------------------------------

// TLSFromCAFilesStrict loads a strict TLS config (Min TLS1.2) using the first
// existing file path from candidates. If serverName != "", it is set for SNI
// and hostname verification.
func TLSFromCAFilesStrict(candidates []string, serverName string) (*tls.Config, error) {
	var picked string
	for _, p := range candidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			picked = p
			break
		}
	}
	if picked == "" {
		return nil, fmt.Errorf("no CA file found in candidates: %v", candidates)
	}
	pem, err := os.ReadFile(filepath.Clean(picked))
	if err != nil {
		return nil, fmt.Errorf("read CA: %w", err)
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("invalid CA PEM at %s", picked)
	}
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    cp,
	}
	if serverName != "" {
		cfg.ServerName = serverName
	}
	return cfg, nil
}

// TLSFromCAPathCSV convenience wrapper around TLSFromCAFilesStrict.
func TLSFromCAPathCSV(csv, serverName string) (*tls.Config, error) {
	return TLSFromCAFilesStrict(utils.SplitCSV(csv), serverName)
}

// SASLMechanism returns a kafka-go sasl.Mechanism from a common name.
// Supported: "PLAIN", "SCRAM-SHA-256" (default), "SCRAM-SHA-512".
func SASLMechanism(user, pass, mech string) (sasl.Mechanism, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(mech), "_", "-")) {
	case "PLAIN":
		return plain.Mechanism{Username: user, Password: pass}, nil
	case "", "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, user, pass)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, user, pass)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", mech)
	}
}

// KafkaSecurityOption mutates a types.KafkaSecurity.
type KafkaSecurityOption func(*KafkaSecurity)

// NewKafkaSecurity creates a KafkaSecurity with DialerTO=10s and DualStack=true.
func NewKafkaSecurity(opts ...KafkaSecurityOption) *KafkaSecurity {
	sec := &KafkaSecurity{
		DialerTO:  10 * time.Second,
		DualStack: true,
	}
	for _, o := range opts {
		o(sec)
	}
	return sec
}

func WithTLS(cfg *tls.Config) KafkaSecurityOption {
	return func(s *KafkaSecurity) { s.TLS = cfg }
}
func WithSASL(mech sasl.Mechanism) KafkaSecurityOption {
	return func(s *KafkaSecurity) { s.SASL = mech }
}
func WithClientID(id string) KafkaSecurityOption {
	return func(s *KafkaSecurity) { s.ClientID = id }
}
func WithDialer(timeout time.Duration, dualStack bool) KafkaSecurityOption {
	return func(s *KafkaSecurity) {
		if timeout > 0 {
			s.DialerTO = timeout
		}
		s.DualStack = dualStack
	}
}

// NewKafkaGoTransportFromSecurity maps KafkaSecurity to a kafka.Transport.
func NewKafkaGoTransportFromSecurity(sec *KafkaSecurity) *kafka.Transport {
	if sec == nil {
		return nil
	}
	timeout := sec.DialerTO
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &kafka.Transport{
		TLS:         sec.TLS,
		SASL:        sec.SASL,
		ClientID:    sec.ClientID,
		DialTimeout: timeout,
	}
}
