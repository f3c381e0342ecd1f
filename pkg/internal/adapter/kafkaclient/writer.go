package kafkaclient

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
	"github.com/segmentio/kafka-go"
)

const (
	defaultBatchSize    = 1000
	defaultBatchBytes   = 1 << 20
	defaultBatchTimeout = 200 * time.Millisecond
	defaultDialTimeout  = 10 * time.Second
)

// buildWriter maps the sink configuration onto a synchronous kafka-go writer.
func buildWriter(cfg types.KafkaSinkConfig) (*kafka.Writer, error) {
	compression, err := parseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	acks, err := parseAcks(cfg.RequiredAcks)
	if err != nil {
		return nil, err
	}
	balancer, err := parseBalancer(cfg.Balancer)
	if err != nil {
		return nil, err
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(utils.CleanList(cfg.Brokers)...),
		Topic:                  strings.TrimSpace(cfg.Topic),
		Balancer:               balancer,
		BatchSize:              defaultBatchSize,
		BatchBytes:             defaultBatchBytes,
		BatchTimeout:           defaultBatchTimeout,
		RequiredAcks:           acks,
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}
	if cfg.BatchSize > 0 {
		w.BatchSize = cfg.BatchSize
	}
	if cfg.BatchTimeout > 0 {
		w.BatchTimeout = cfg.BatchTimeout
	}
	if cfg.WriteTimeout > 0 {
		w.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.Security != nil {
		w.Transport = transportFromSecurity(cfg.Security)
	}
	return w, nil
}

func transportFromSecurity(sec *types.KafkaSecurity) *kafka.Transport {
	timeout := sec.DialerTO
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialer := &net.Dialer{Timeout: timeout}
	if !sec.DualStack {
		dialer.FallbackDelay = -1
	}
	return &kafka.Transport{
		Dial:        dialer.DialContext,
		DialTimeout: timeout,
		ClientID:    sec.ClientID,
		TLS:         sec.TLS,
		SASL:        sec.SASL,
	}
}

func parseCompression(s string) (kafka.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("kafkaclient: unsupported compression %q", s)
	}
}

func parseAcks(s string) (kafka.RequiredAcks, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "-1":
		return kafka.RequireAll, nil
	case "leader", "one", "1":
		return kafka.RequireOne, nil
	case "none", "0":
		return kafka.RequireNone, nil
	default:
		return kafka.RequireAll, fmt.Errorf("kafkaclient: unsupported required acks %q", s)
	}
}

func parseBalancer(s string) (kafka.Balancer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash":
		return &kafka.Hash{}, nil
	case "roundrobin", "round_robin":
		return &kafka.RoundRobin{}, nil
	case "leastbytes", "least_bytes":
		return &kafka.LeastBytes{}, nil
	default:
		return nil, fmt.Errorf("kafkaclient: unsupported balancer %q", s)
	}
}
