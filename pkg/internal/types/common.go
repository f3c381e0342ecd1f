package types

// ComponentMetadata identifies a pipeline component in logs and telemetry.
type ComponentMetadata struct {
	ID   string // Unique identifier for the component.
	Type string // Component class, e.g. "PIPELINE", "KAFKA_SINK".
	Name string // Human-readable name for the component.
}

// TLSConfig holds file-based TLS settings for sinks that dial remote endpoints.
type TLSConfig struct {
	UseTLS                 bool
	CertFile               string
	KeyFile                string
	CAFile                 string
	SubjectAlternativeName string
	MinTLSVersion          uint16 // e.g., tls.VersionTLS12
	MaxTLSVersion          uint16 // e.g., tls.VersionTLS13
	InsecureSkipVerify     bool
}

// Option defines a configuration option function applicable to any component T.
type Option[T any] func(T)
