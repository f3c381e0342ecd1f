package types

import "time"

// HTTPSinkConfig configures the webhook sink.
type HTTPSinkConfig struct {
	URL    string
	Method string // default POST

	// Format is "json" (array body, default) or "ndjson".
	Format string
	// Compression sets Content-Encoding: "" | "gzip" | "zstd" | "snappy" | "brotli" | "lz4".
	Compression string

	Headers     map[string]string
	BearerToken string

	Timeout     time.Duration // per attempt, default 10s
	MaxAttempts int           // default 3
	TLS         *TLSConfig
}
