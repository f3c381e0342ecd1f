package types

import "time"

// WebSocketSinkConfig configures the streaming sink.
type WebSocketSinkConfig struct {
	URL     string
	Headers map[string]string

	// Format is "json" (one text frame holding a JSON array, default) or
	// "ndjson" (one binary frame of newline-delimited records).
	Format string
	// Compression applies to ndjson frames only.
	Compression string

	WriteTimeout time.Duration // default 10s
	TLS          *TLSConfig
}
