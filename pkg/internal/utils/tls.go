package utils

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// BuildTLSClientConfig loads file-based TLS settings. It returns nil, nil
// when cfg is nil or TLS is disabled.
func BuildTLSClientConfig(cfg *types.TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.UseTLS {
		return nil, nil
	}

	minVersion := cfg.MinTLSVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	maxVersion := cfg.MaxTLSVersion
	if maxVersion == 0 {
		maxVersion = tls.VersionTLS13
	}

	out := &tls.Config{
		MinVersion:         minVersion,
		MaxVersion:         maxVersion,
		ServerName:         cfg.SubjectAlternativeName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CertFile != "" || cfg.KeyFile != "" {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return nil, fmt.Errorf("both CertFile and KeyFile are required for client certs")
		}
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate/key: %w", err)
		}
		out.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile != "" {
		caData, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caData) {
			return nil, fmt.Errorf("failed to parse CA certificate(s) in %s", cfg.CAFile)
		}
		out.RootCAs = pool
	}

	return out, nil
}
