package builder

import (
	"context"
	"net/http"

	"github.com/joeydtaylor/flexlog/pkg/internal/capture"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	CaptureMiddleware   = capture.Middleware
	CaptureConfig       = capture.Config
	Claim               = capture.Claim
	ClaimsFunc          = capture.ClaimsFunc
	EntryLogger         = capture.EntryLogger
	HeaderLimitStrategy = capture.LimitStrategy
)

const (
	HeaderLimitSlice = capture.LimitSlice
	HeaderLimitDrop  = capture.LimitDrop
)

// ClaimAliases resolves well-known claim names to their URIs and back.
var ClaimAliases = capture.ClaimAliases

// DefaultCaptureConfig enables every capture area with the default limits.
func DefaultCaptureConfig() CaptureConfig { return capture.DefaultConfig() }

// NewCaptureMiddleware returns net/http middleware that enqueues one record per request.
func NewCaptureMiddleware(p capture.Enqueuer, options ...types.Option[*CaptureMiddleware]) func(http.Handler) http.Handler {
	return capture.NewMiddleware(p, options...)
}

// LoggerFromContext returns the entry logger of the request bound to ctx.
func LoggerFromContext(ctx context.Context, category string) *EntryLogger {
	return capture.LoggerFromContext(ctx, category)
}

// RecordFromContext returns the in-flight record of the request bound to ctx.
func RecordFromContext(ctx context.Context) (*LogRecord, bool) {
	return capture.RecordFromContext(ctx)
}

func CaptureWithConfig(cfg CaptureConfig) types.Option[*CaptureMiddleware] {
	return capture.WithConfig(cfg)
}

func CaptureWithIgnoredRoutes(routes ...string) types.Option[*CaptureMiddleware] {
	return capture.WithIgnoredRoutes(routes...)
}

func CaptureWithClaimsSource(fn ClaimsFunc) types.Option[*CaptureMiddleware] {
	return capture.WithClaimsSource(fn)
}

func CaptureWithIncludedClaimTypes(claimTypes ...string) types.Option[*CaptureMiddleware] {
	return capture.WithIncludedClaimTypes(claimTypes...)
}

func CaptureWithIgnoredClaimTypes(claimTypes ...string) types.Option[*CaptureMiddleware] {
	return capture.WithIgnoredClaimTypes(claimTypes...)
}

func CaptureWithCorrelationIDHeader(key string) types.Option[*CaptureMiddleware] {
	return capture.WithCorrelationIDHeader(key)
}

func CaptureWithIncludedHeaders(keys ...string) types.Option[*CaptureMiddleware] {
	return capture.WithIncludedHeaders(keys...)
}

func CaptureWithIgnoredHeaders(keys ...string) types.Option[*CaptureMiddleware] {
	return capture.WithIgnoredHeaders(keys...)
}

func CaptureWithHeaderLimit(length int, strategy HeaderLimitStrategy) types.Option[*CaptureMiddleware] {
	return capture.WithHeaderLimit(length, strategy)
}

func CaptureWithQueryStringLimit(length int) types.Option[*CaptureMiddleware] {
	return capture.WithQueryStringLimit(length)
}

func CaptureWithRequestBodyLimit(limit int64) types.Option[*CaptureMiddleware] {
	return capture.WithRequestBodyLimit(limit)
}

func CaptureWithLogger(l ...types.Logger) types.Option[*CaptureMiddleware] {
	return capture.WithLogger(l...)
}
