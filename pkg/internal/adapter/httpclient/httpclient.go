// Package httpclient delivers batches to an HTTP webhook.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultBaseBackoff = 200 * time.Millisecond
	defaultMaxBackoff  = 5 * time.Second
)

var ErrInvalidURL = errors.New("httpclient: webhook URL must be absolute http(s)")

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpclient: webhook returned %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: webhook returned %d: %s", e.StatusCode, e.Body)
}

// HTTPClientAdapter posts each batch as one request.
type HTTPClientAdapter struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	cfg         types.HTTPSinkConfig
	httpClient  *http.Client
	ownsClient  bool
	baseBackoff time.Duration
	configLock  sync.Mutex

	encoder     codec.BatchEncoder
	compression codec.Compression
	ready       bool
	stateLock   sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewHTTPClientAdapter builds a webhook sink.
func NewHTTPClientAdapter(options ...types.Option[*HTTPClientAdapter]) *HTTPClientAdapter {
	hp := &HTTPClientAdapter{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "HTTP_SINK",
		},
		baseBackoff: defaultBaseBackoff,
		loggers:     make([]types.Logger, 0),
		sensors:     make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(hp)
		}
	}
	return hp
}

func (hp *HTTPClientAdapter) Name() string {
	if meta := hp.GetComponentMetadata(); meta.Name != "" {
		return meta.Name
	}
	if u, err := url.Parse(hp.config().URL); err == nil && u.Host != "" {
		return "http:" + u.Host
	}
	return "http"
}

// Initialize validates the endpoint and builds a client unless one was injected.
func (hp *HTTPClientAdapter) Initialize(ctx context.Context) error {
	cfg := hp.config()
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}

	var enc codec.BatchEncoder
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", codec.FormatJSON:
		enc = codec.JSONArrayEncoder{}
	case codec.FormatNDJSON:
		enc = codec.NDJSONEncoder{}
	default:
		return fmt.Errorf("httpclient: unsupported format %q", cfg.Format)
	}
	comp, err := codec.ParseCompression(cfg.Compression)
	if err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}

	hp.configLock.Lock()
	if hp.httpClient == nil {
		tlsConf, err := utils.BuildTLSClientConfig(cfg.TLS)
		if err != nil {
			hp.configLock.Unlock()
			return fmt.Errorf("httpclient: tls: %w", err)
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if tlsConf != nil {
			transport.TLSClientConfig = tlsConf
		}
		hp.httpClient = &http.Client{Transport: transport}
		hp.ownsClient = true
	}
	hp.configLock.Unlock()

	hp.stateLock.Lock()
	hp.encoder, hp.compression, hp.ready = enc, comp, true
	hp.stateLock.Unlock()

	hp.NotifyLoggers(types.InfoLevel, "Webhook sink initialized",
		"component", hp.GetComponentMetadata(),
		"event", "Initialize",
		"result", "SUCCESS",
		"url", u.Redacted(),
		"format", enc.ContentType(),
		"compression", string(comp),
	)
	return nil
}

// WriteBatch posts the encoded batch, retrying transport errors, 429 and 5xx.
func (hp *HTTPClientAdapter) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	hp.stateLock.Lock()
	enc, comp, ready := hp.encoder, hp.compression, hp.ready
	hp.stateLock.Unlock()
	if !ready {
		return fmt.Errorf("httpclient: sink not initialized")
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, batch); err != nil {
		err = fmt.Errorf("httpclient: encode batch: %w", err)
		hp.reportError(len(batch), 0, err)
		return err
	}
	payload := buf.Bytes()
	if comp != codec.CompressNone {
		compressed, err := codec.Compress(payload, comp)
		if err != nil {
			err = fmt.Errorf("httpclient: compress: %w", err)
			hp.reportError(len(batch), 0, err)
			return err
		}
		payload = compressed
	}

	start := time.Now()
	attempts, err := hp.postWithRetry(ctx, payload, enc.ContentType(), comp.ContentEncoding())
	if err != nil {
		hp.reportError(len(batch), attempts, err)
		return err
	}
	hp.reportSuccess(len(batch), attempts, time.Since(start))
	return nil
}

// Dispose releases idle connections of a client this sink created.
func (hp *HTTPClientAdapter) Dispose(ctx context.Context) error {
	hp.stateLock.Lock()
	hp.ready = false
	hp.stateLock.Unlock()

	hp.configLock.Lock()
	defer hp.configLock.Unlock()
	if hp.ownsClient && hp.httpClient != nil {
		hp.httpClient.CloseIdleConnections()
		hp.httpClient = nil
		hp.ownsClient = false
	}
	return nil
}
