// Package websocketclient streams batches over a single WebSocket connection.
package websocketclient

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
	"nhooyr.io/websocket"
)

const defaultWriteTimeout = 10 * time.Second

var ErrNotConnected = errors.New("websocketclient: not connected")

// WebSocketClientAdapter writes one message per batch. The connection is
// guarded by connLock so writes are serialised.
type WebSocketClientAdapter struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	cfg        types.WebSocketSinkConfig
	configLock sync.Mutex

	conn        *websocket.Conn
	readDone    context.Context
	encoder     codec.BatchEncoder
	msgType     websocket.MessageType
	compression codec.Compression
	connLock    sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

func NewWebSocketClientAdapter(options ...types.Option[*WebSocketClientAdapter]) *WebSocketClientAdapter {
	c := &WebSocketClientAdapter{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "WEBSOCKET_SINK",
		},
		loggers: make([]types.Logger, 0),
		sensors: make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *WebSocketClientAdapter) Name() string {
	if meta := c.GetComponentMetadata(); meta.Name != "" {
		return meta.Name
	}
	if u, err := url.Parse(c.config().URL); err == nil && u.Host != "" {
		return "ws:" + u.Host
	}
	return "ws"
}

// Initialize resolves the framing and dials the endpoint.
func (c *WebSocketClientAdapter) Initialize(ctx context.Context) error {
	cfg := c.config()
	enc, msgType, comp, err := resolveFraming(cfg)
	if err != nil {
		return err
	}

	c.connLock.Lock()
	defer c.connLock.Unlock()
	c.encoder, c.msgType, c.compression = enc, msgType, comp

	conn, err := dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("websocketclient: dial: %w", err)
	}
	c.attachLocked(conn)
	c.NotifyLoggers(types.InfoLevel, "WebSocket sink connected",
		"component", c.GetComponentMetadata(),
		"event", "Initialize",
		"result", "SUCCESS",
		"url", cfg.URL,
	)
	return nil
}

// WriteBatch sends the batch as one message, redialing once if the write fails.
func (c *WebSocketClientAdapter) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	cfg := c.config()

	c.connLock.Lock()
	defer c.connLock.Unlock()
	if c.encoder == nil {
		return ErrNotConnected
	}

	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, batch); err != nil {
		err = fmt.Errorf("websocketclient: encode batch: %w", err)
		c.reportError(len(batch), err)
		return err
	}
	payload := buf.Bytes()
	if c.compression != codec.CompressNone {
		compressed, err := codec.Compress(payload, c.compression)
		if err != nil {
			err = fmt.Errorf("websocketclient: compress: %w", err)
			c.reportError(len(batch), err)
			return err
		}
		payload = compressed
	}

	start := time.Now()
	err := c.writeLocked(ctx, cfg, payload)
	if err != nil && ctx.Err() == nil {
		c.NotifyLoggers(types.WarnLevel, "WebSocket write failed; redialing",
			"component", c.GetComponentMetadata(),
			"event", "Redial",
			"error", err,
		)
		if c.conn != nil {
			_ = c.conn.Close(websocket.StatusGoingAway, "redial")
			c.conn, c.readDone = nil, nil
		}
		conn, dialErr := dial(ctx, cfg)
		if dialErr != nil {
			err = errors.Join(err, fmt.Errorf("websocketclient: redial: %w", dialErr))
		} else {
			c.attachLocked(conn)
			err = c.writeLocked(ctx, cfg, payload)
		}
	}
	if err != nil {
		c.reportError(len(batch), err)
		return err
	}
	c.reportSuccess(len(batch), time.Since(start))
	return nil
}

// attachLocked installs conn and discards inbound frames so the peer's close
// frame is observed. readDone ends once the connection is gone.
func (c *WebSocketClientAdapter) attachLocked(conn *websocket.Conn) {
	c.conn = conn
	c.readDone = conn.CloseRead(context.Background())
}

func (c *WebSocketClientAdapter) writeLocked(ctx context.Context, cfg types.WebSocketSinkConfig, payload []byte) error {
	if c.conn == nil || c.readDone.Err() != nil {
		return ErrNotConnected
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.conn.Write(wctx, c.msgType, payload)
}

// Dispose closes the connection with a normal closure.
func (c *WebSocketClientAdapter) Dispose(ctx context.Context) error {
	c.connLock.Lock()
	conn := c.conn
	c.conn, c.readDone = nil, nil
	c.connLock.Unlock()
	if conn == nil {
		return nil
	}
	if err := conn.Close(websocket.StatusNormalClosure, "pipeline stopped"); err != nil {
		return fmt.Errorf("websocketclient: close: %w", err)
	}
	return nil
}

// resolveFraming maps the configured format to an encoder and frame type.
// Compression is only applied to binary NDJSON frames.
func resolveFraming(cfg types.WebSocketSinkConfig) (codec.BatchEncoder, websocket.MessageType, codec.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", codec.FormatJSON:
		return codec.JSONArrayEncoder{}, websocket.MessageText, codec.CompressNone, nil
	case codec.FormatNDJSON:
		comp, err := codec.ParseCompression(cfg.Compression)
		if err != nil {
			return nil, 0, codec.CompressNone, fmt.Errorf("websocketclient: %w", err)
		}
		return codec.NDJSONEncoder{}, websocket.MessageBinary, comp, nil
	default:
		return nil, 0, codec.CompressNone, fmt.Errorf("websocketclient: unsupported format %q", cfg.Format)
	}
}

func dial(ctx context.Context, cfg types.WebSocketSinkConfig) (*websocket.Conn, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("url not configured")
	}
	tlsConf, err := utils.BuildTLSClientConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	hdr := http.Header{}
	for k, v := range cfg.Headers {
		hdr.Add(k, v)
	}
	opts := &websocket.DialOptions{HTTPHeader: hdr}
	if tlsConf != nil {
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConf},
		}
	}

	conn, resp, err := websocket.Dial(ctx, cfg.URL, opts)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
