// Package capture turns net/http requests into LogRecords. The middleware
// fills the request side before calling the next handler, exposes the record
// through the request context for EntryLogger, then fills the response side
// and enqueues the record. Bodies are captured raw; redaction happens when the
// pipeline flushes.
package capture

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/joeydtaylor/flexlog/pkg/internal/redactor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// Enqueuer receives finished records. types.Pipeline satisfies it.
type Enqueuer interface {
	Enqueue(*types.LogRecord)
}

const panicCategory = "flexlog.capture"

// Middleware captures one LogRecord per request.
type Middleware struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	pipeline Enqueuer
	cfg      Config

	ignored        routeSet
	claimRoutes    routeSet
	headerRoutes   routeSet
	queryRoutes    routeSet
	requestRoutes  routeSet
	responseRoutes routeSet
	ignoredClaims  redactor.KeySet
	ignoredHeaders redactor.KeySet
	includedClaims []string
	includedHdrs   []string

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New builds a Middleware with DefaultConfig adjusted by options.
func New(pipeline Enqueuer, options ...types.Option[*Middleware]) *Middleware {
	m := &Middleware{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "CAPTURE",
		},
		pipeline: pipeline,
		cfg:      DefaultConfig(),
		loggers:  make([]types.Logger, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}

	cfg := m.cfg
	m.ignored = newRouteSet(cfg.IgnoredRoutes)
	m.claimRoutes = newRouteSet(cfg.Claims.IgnoredRoutes)
	m.headerRoutes = newRouteSet(cfg.Headers.IgnoredRoutes)
	m.queryRoutes = newRouteSet(cfg.QueryString.IgnoredRoutes)
	m.requestRoutes = newRouteSet(cfg.RequestBody.IgnoredRoutes)
	m.responseRoutes = newRouteSet(cfg.ResponseBody.IgnoredRoutes)
	m.ignoredClaims = redactor.NewKeySet(cfg.Claims.Ignored...)
	m.ignoredHeaders = redactor.NewKeySet(cfg.Headers.Ignored...)
	m.includedClaims = utils.CleanList(cfg.Claims.Included)
	m.includedHdrs = utils.CleanList(cfg.Headers.Included)
	if m.cfg.RequestBody.SizeLimit <= 0 {
		m.cfg.RequestBody.SizeLimit = DefaultRequestBodyLimit
	}
	if m.cfg.Headers.LimitStrategy == "" {
		m.cfg.Headers.LimitStrategy = LimitSlice
	}
	return m
}

// NewMiddleware returns the capture middleware as a handler decorator.
func NewMiddleware(pipeline Enqueuer, options ...types.Option[*Middleware]) func(http.Handler) http.Handler {
	return New(pipeline, options...).Handler
}

// Handler wraps next. Ignored routes pass straight through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if m.ignored.matches(path) {
			next.ServeHTTP(w, r)
			return
		}

		rec := types.NewLogRecord()
		rec.TraceID = traceID(r)
		rec.Protocol = r.Proto
		rec.Endpoint = r.Method + " " + path
		if key := m.cfg.Headers.CorrelationIDKey; key != "" {
			if v := r.Header.Get(key); v != "" {
				rec.ID = v
			}
		}

		m.captureClaims(r, rec, path)
		m.captureHeaders(r, rec, path)
		m.captureQueryString(r, rec, path)
		m.captureRequestBody(r, rec, path)

		rw := &responseRecorder{
			ResponseWriter: w,
			captureBody:    m.cfg.ResponseBody.Enabled && !m.responseRoutes.matches(path),
		}
		r = r.WithContext(ContextWithRecord(r.Context(), rec))

		defer func() {
			p := recover()
			if p == nil {
				return
			}
			status := rw.statusCode()
			if status >= 200 && status < 300 {
				status = http.StatusInternalServerError
			}
			rec.ResponseStatusCode = status
			rec.AddEntry(types.LogEntry{
				Level:    types.EntryError,
				Category: panicCategory,
				Message:  "Unhandled panic while serving request",
				Err:      panicError(p),
			})
			m.finishResponse(rec, rw)
			m.enqueue(rec)
			panic(p)
		}()

		next.ServeHTTP(rw, r)
		rec.ResponseStatusCode = rw.statusCode()
		m.finishResponse(rec, rw)
		m.enqueue(rec)
	})
}

func (m *Middleware) enqueue(rec *types.LogRecord) {
	if m.pipeline == nil {
		return
	}
	m.pipeline.Enqueue(rec)
	m.NotifyLoggers(types.DebugLevel, "Record captured",
		"component", m.GetComponentMetadata(),
		"event", "Capture",
		"result", "SUCCESS",
		"record_id", rec.ID,
		"endpoint", rec.Endpoint,
		"status", rec.ResponseStatusCode,
	)
}

// traceID prefers the W3C traceparent trace id, then X-Request-Id.
func traceID(r *http.Request) string {
	if tp := r.Header.Get("Traceparent"); tp != "" {
		parts := strings.Split(tp, "-")
		if len(parts) == 4 && len(parts[1]) == 32 {
			return parts[1]
		}
	}
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (m *Middleware) captureClaims(r *http.Request, rec *types.LogRecord, path string) {
	cfg := m.cfg.Claims
	if !cfg.Enabled || cfg.Source == nil || m.claimRoutes.matches(path) {
		return
	}
	claims := cfg.Source(r)
	if len(claims) == 0 {
		return
	}

	if len(m.includedClaims) > 0 {
		for _, want := range m.includedClaims {
			name := want
			value, ok := findClaim(claims, want)
			if !ok {
				alias, found := ClaimAliases.Lookup(want)
				if !found {
					continue
				}
				if value, ok = findClaim(claims, alias); !ok {
					continue
				}
				name = alias
			}
			if _, exists := rec.Claims.Get(name); !exists {
				rec.Claims.Set(name, value)
			}
		}
		return
	}

	for _, c := range claims {
		if m.claimIgnored(c.Type) {
			continue
		}
		rec.Claims.Join(c.Type, c.Value)
	}
}

func (m *Middleware) claimIgnored(claimType string) bool {
	if m.ignoredClaims.Len() == 0 {
		return false
	}
	if m.ignoredClaims.Contains(claimType) {
		return true
	}
	alias, ok := ClaimAliases.Lookup(claimType)
	return ok && m.ignoredClaims.Contains(alias)
}

func findClaim(claims []Claim, claimType string) (string, bool) {
	for _, c := range claims {
		if strings.EqualFold(c.Type, claimType) {
			return c.Value, true
		}
	}
	return "", false
}

func (m *Middleware) captureHeaders(r *http.Request, rec *types.LogRecord, path string) {
	if !m.cfg.Headers.Enabled || m.headerRoutes.matches(path) {
		return
	}

	if len(m.includedHdrs) > 0 {
		for _, key := range m.includedHdrs {
			if value, ok := headerValue(r, key); ok {
				rec.Headers.Set(key, m.limitHeader(value))
			}
		}
		return
	}

	if r.Host != "" && !m.ignoredHeaders.Contains("Host") {
		rec.Headers.Set("Host", m.limitHeader(r.Host))
	}
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m.ignoredHeaders.Contains(k) {
			continue
		}
		rec.Headers.Set(k, m.limitHeader(strings.Join(r.Header[k], ",")))
	}
}

func headerValue(r *http.Request, key string) (string, bool) {
	if strings.EqualFold(key, "Host") {
		return r.Host, r.Host != ""
	}
	values := r.Header.Values(key)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ","), true
}

func (m *Middleware) limitHeader(value string) string {
	limit := m.cfg.Headers.LimitLength
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if m.cfg.Headers.LimitStrategy == LimitDrop {
		return types.TooLargeText
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

func (m *Middleware) captureQueryString(r *http.Request, rec *types.LogRecord, path string) {
	cfg := m.cfg.QueryString
	if !cfg.Enabled || r.URL.RawQuery == "" || m.queryRoutes.matches(path) {
		return
	}
	qs := "?" + r.URL.RawQuery
	if cfg.MaxLength > 0 && len(qs) > cfg.MaxLength {
		qs = types.TooLargeText
	}
	rec.QueryString = qs
}

// captureRequestBody reads at most SizeLimit bytes and puts them back in front
// of the unread remainder so the handler sees the full body.
func (m *Middleware) captureRequestBody(r *http.Request, rec *types.LogRecord, path string) {
	cfg := m.cfg.RequestBody
	if !cfg.Enabled || r.Body == nil || r.Body == http.NoBody || m.requestRoutes.matches(path) {
		return
	}
	contentType := r.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return
	}
	limit := cfg.SizeLimit
	if r.ContentLength >= limit {
		rec.RequestBody = types.NewBodyCapture(contentType, nil, r.ContentLength, true)
		return
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, limit))
	r.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	if err != nil {
		m.NotifyLoggers(types.WarnLevel, "Request body capture failed",
			"component", m.GetComponentMetadata(),
			"event", "CaptureRequestBody",
			"result", "FAILURE",
			"record_id", rec.ID,
			"error", err,
		)
		return
	}

	size := int64(len(head))
	tooLarge := size >= limit
	if tooLarge && r.ContentLength > size {
		size = r.ContentLength
	}
	rec.RequestBody = types.NewBodyCapture(contentType, head, size, tooLarge)
}

type replayBody struct {
	io.Reader
	io.Closer
}

func (m *Middleware) finishResponse(rec *types.LogRecord, rw *responseRecorder) {
	if !rw.capturing || rw.body.Len() == 0 {
		return
	}
	raw := append([]byte(nil), rw.body.Bytes()...)
	rec.ResponseBody = types.NewBodyCapture(rw.contentType, raw, int64(len(raw)), false)
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", p)
}

// responseRecorder tracks the status code and tees JSON bodies into a buffer.
type responseRecorder struct {
	http.ResponseWriter

	captureBody bool
	capturing   bool
	wroteHeader bool
	status      int
	contentType string
	body        bytes.Buffer
}

func (w *responseRecorder) WriteHeader(code int) {
	if !w.wroteHeader && code >= 200 {
		w.wroteHeader = true
		w.status = code
		w.contentType = w.Header().Get("Content-Type")
		w.capturing = w.captureBody && isJSONContentType(w.contentType)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	if w.capturing && n > 0 {
		w.body.Write(b[:n])
	}
	return n, err
}

func (w *responseRecorder) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
