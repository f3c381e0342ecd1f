package capture

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

const (
	DefaultRequestBodyLimit int64 = 30 * 1024
	DefaultHeaderValueLimit       = 1024
	DefaultQueryStringLimit       = 2048
)

// LimitStrategy decides what happens to a header value longer than the limit.
type LimitStrategy string

const (
	// LimitSlice keeps the first Length bytes.
	LimitSlice LimitStrategy = "slice"
	// LimitDrop replaces the value with types.TooLargeText.
	LimitDrop LimitStrategy = "drop"
)

// ClaimConfig controls claim capture. Included takes precedence over Ignored.
type ClaimConfig struct {
	Enabled       bool
	Source        ClaimsFunc
	Included      []string
	Ignored       []string
	IgnoredRoutes []string
}

// HeaderConfig controls header capture. Included takes precedence over Ignored.
// A LimitLength of zero or less disables the value limit.
type HeaderConfig struct {
	Enabled          bool
	CorrelationIDKey string
	Included         []string
	Ignored          []string
	LimitLength      int
	LimitStrategy    LimitStrategy
	IgnoredRoutes    []string
}

// QueryStringConfig controls query string capture. A MaxLength of zero or
// less disables the limit.
type QueryStringConfig struct {
	Enabled       bool
	MaxLength     int
	IgnoredRoutes []string
}

// BodyConfig controls JSON body capture. SizeLimit only applies to request
// bodies.
type BodyConfig struct {
	Enabled       bool
	SizeLimit     int64
	IgnoredRoutes []string
}

// Config is the full capture configuration.
type Config struct {
	IgnoredRoutes []string
	Claims        ClaimConfig
	Headers       HeaderConfig
	QueryString   QueryStringConfig
	RequestBody   BodyConfig
	ResponseBody  BodyConfig
}

// DefaultConfig enables every capture area with the default limits.
func DefaultConfig() Config {
	return Config{
		Claims: ClaimConfig{Enabled: true},
		Headers: HeaderConfig{
			Enabled:       true,
			LimitLength:   DefaultHeaderValueLimit,
			LimitStrategy: LimitSlice,
		},
		QueryString:  QueryStringConfig{Enabled: true, MaxLength: DefaultQueryStringLimit},
		RequestBody:  BodyConfig{Enabled: true, SizeLimit: DefaultRequestBodyLimit},
		ResponseBody: BodyConfig{Enabled: true},
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg = cfg }
}

// WithIgnoredRoutes skips capture entirely for the given path prefixes.
func WithIgnoredRoutes(routes ...string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.IgnoredRoutes = append(m.cfg.IgnoredRoutes, routes...) }
}

// WithClaimsSource sets the function that extracts claims from a request.
func WithClaimsSource(fn ClaimsFunc) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Claims.Source = fn }
}

// WithIncludedClaimTypes restricts claim capture to the given types or aliases.
func WithIncludedClaimTypes(claimTypes ...string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Claims.Included = append(m.cfg.Claims.Included, claimTypes...) }
}

// WithIgnoredClaimTypes drops the given claim types or aliases.
func WithIgnoredClaimTypes(claimTypes ...string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Claims.Ignored = append(m.cfg.Claims.Ignored, claimTypes...) }
}

// WithCorrelationIDHeader copies the named request header into the record id.
func WithCorrelationIDHeader(key string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Headers.CorrelationIDKey = key }
}

// WithIncludedHeaders restricts header capture to the given keys.
func WithIncludedHeaders(keys ...string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Headers.Included = append(m.cfg.Headers.Included, keys...) }
}

// WithIgnoredHeaders drops the given header keys.
func WithIgnoredHeaders(keys ...string) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Headers.Ignored = append(m.cfg.Headers.Ignored, keys...) }
}

// WithHeaderLimit sets the header value limit. Lengths below one disable it.
func WithHeaderLimit(length int, strategy LimitStrategy) types.Option[*Middleware] {
	return func(m *Middleware) {
		m.cfg.Headers.LimitLength = length
		m.cfg.Headers.LimitStrategy = strategy
	}
}

// WithQueryStringLimit sets the query string limit. Lengths below one disable it.
func WithQueryStringLimit(length int) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.QueryString.MaxLength = length }
}

// WithRequestBodyLimit sets the request body size limit.
func WithRequestBodyLimit(limit int64) types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.RequestBody.SizeLimit = limit }
}

// WithoutClaims disables claim capture.
func WithoutClaims() types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Claims.Enabled = false }
}

// WithoutHeaders disables header capture. The correlation header still applies.
func WithoutHeaders() types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.Headers.Enabled = false }
}

// WithoutQueryString disables query string capture.
func WithoutQueryString() types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.QueryString.Enabled = false }
}

// WithoutRequestBody disables request body capture.
func WithoutRequestBody() types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.RequestBody.Enabled = false }
}

// WithoutResponseBody disables response body capture.
func WithoutResponseBody() types.Option[*Middleware] {
	return func(m *Middleware) { m.cfg.ResponseBody.Enabled = false }
}

// WithLogger attaches diagnostic loggers.
func WithLogger(loggers ...types.Logger) types.Option[*Middleware] {
	return func(m *Middleware) { m.ConnectLogger(loggers...) }
}

// WithComponentMetadata sets the name and id reported in diagnostics.
func WithComponentMetadata(name string, id string) types.Option[*Middleware] {
	return func(m *Middleware) { m.SetComponentMetadata(name, id) }
}
