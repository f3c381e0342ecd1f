package capture

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type collector struct {
	mu      sync.Mutex
	records []*types.LogRecord
}

func (c *collector) Enqueue(r *types.LogRecord) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
}

func (c *collector) only(t *testing.T) *types.LogRecord {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(c.records))
	}
	return c.records[0]
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCapturesRequestAndResponse(t *testing.T) {
	var seenBody string
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seenBody = string(b)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	c := &collector{}
	h := NewMiddleware(c)(app)

	req := httptest.NewRequest(http.MethodPost, "/orders?limit=5", strings.NewReader(`{"item":"book"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant", "acme")
	rr := serve(h, req)

	if seenBody != `{"item":"book"}` {
		t.Fatalf("handler saw body %q", seenBody)
	}
	if rr.Body.String() != `{"ok":true}` || rr.Code != http.StatusCreated {
		t.Fatalf("client saw %d %q", rr.Code, rr.Body.String())
	}

	rec := c.only(t)
	if rec.Endpoint != "POST /orders" || rec.Protocol != "HTTP/1.1" {
		t.Fatalf("endpoint %q protocol %q", rec.Endpoint, rec.Protocol)
	}
	if rec.QueryString != "?limit=5" {
		t.Fatalf("query %q", rec.QueryString)
	}
	if v, _ := rec.Headers.Get("X-Tenant"); v != "acme" {
		t.Fatalf("headers %v", rec.Headers)
	}
	if v, _ := rec.Headers.Get("Host"); v != "example.com" {
		t.Fatalf("host header missing: %v", rec.Headers)
	}
	if rec.RequestBody == nil || string(rec.RequestBody.Raw) != `{"item":"book"}` || rec.RequestBody.SizeInBytes != 15 {
		t.Fatalf("request body %+v", rec.RequestBody)
	}
	if rec.ResponseBody == nil || string(rec.ResponseBody.Raw) != `{"ok":true}` {
		t.Fatalf("response body %+v", rec.ResponseBody)
	}
	if rec.ResponseStatusCode != http.StatusCreated {
		t.Fatalf("status %d", rec.ResponseStatusCode)
	}
}

func TestIgnoredRoutesMatchWholeSegments(t *testing.T) {
	set := newRouteSet([]string{"/Health", "metrics/"})
	cases := map[string]bool{
		"/health":        true,
		"/HEALTH/live":   true,
		"/healthz":       false,
		"/metrics":       true,
		"/metrics/cpu":   true,
		"/api/health":    false,
		"/":              false,
		"/metricsserver": false,
	}
	for path, want := range cases {
		if got := set.matches(path); got != want {
			t.Fatalf("matches(%q) = %v, want %v", path, got, want)
		}
	}

	c := &collector{}
	h := NewMiddleware(c, WithIgnoredRoutes("/health"))(http.NotFoundHandler())
	serve(h, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if len(c.records) != 0 {
		t.Fatalf("ignored route produced a record")
	}
}

func TestCorrelationAndTraceIDs(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c, WithCorrelationIDHeader("X-Correlation-Id"))(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-Id", "corr-1")
	req.Header.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	serve(h, req)

	rec := c.only(t)
	if rec.ID != "corr-1" {
		t.Fatalf("id %q", rec.ID)
	}
	if rec.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("trace id %q", rec.TraceID)
	}
}

func userClaims(*http.Request) []Claim {
	return []Claim{
		{Type: ClaimAliases.forward["email"], Value: "a@example.com"},
		{Type: "role", Value: "admin"},
		{Type: "role", Value: "ops"},
		{Type: "sub", Value: "42"},
	}
}

func TestIncludedClaimsResolveAliases(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c,
		WithClaimsSource(userClaims),
		WithIncludedClaimTypes("Email", "role", "missing"),
	)(http.NotFoundHandler())
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	rec := c.only(t)
	if len(rec.Claims) != 2 {
		t.Fatalf("claims %v", rec.Claims)
	}
	emailURI, _ := ClaimAliases.Lookup("email")
	if v, _ := rec.Claims.Get(emailURI); v != "a@example.com" {
		t.Fatalf("email claim missing: %v", rec.Claims)
	}
	if v, _ := rec.Claims.Get("role"); v != "admin" {
		t.Fatalf("included claim keeps the first value, got %q", v)
	}
}

func TestAllClaimsMinusIgnoredJoinRepeats(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c,
		WithClaimsSource(userClaims),
		WithIgnoredClaimTypes("Email", "SUB"),
	)(http.NotFoundHandler())
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	rec := c.only(t)
	if len(rec.Claims) != 1 {
		t.Fatalf("claims %v", rec.Claims)
	}
	if v, _ := rec.Claims.Get("role"); v != "admin,ops" {
		t.Fatalf("role %q", v)
	}
}

func TestHeaderLimitsAndQueryLimit(t *testing.T) {
	long := strings.Repeat("x", 20)
	for _, tc := range []struct {
		strategy LimitStrategy
		want     string
	}{
		{LimitSlice, strings.Repeat("x", 8)},
		{LimitDrop, types.TooLargeText},
	} {
		c := &collector{}
		h := NewMiddleware(c,
			WithIncludedHeaders("X-Long", "X-Absent"),
			WithHeaderLimit(8, tc.strategy),
			WithQueryStringLimit(6),
		)(http.NotFoundHandler())
		req := httptest.NewRequest(http.MethodGet, "/?q=abcdef", nil)
		req.Header.Set("X-Long", long)
		serve(h, req)

		rec := c.only(t)
		if len(rec.Headers) != 1 {
			t.Fatalf("headers %v", rec.Headers)
		}
		if v, _ := rec.Headers.Get("X-Long"); v != tc.want {
			t.Fatalf("%s: header %q", tc.strategy, v)
		}
		if rec.QueryString != types.TooLargeText {
			t.Fatalf("query %q", rec.QueryString)
		}
	}
}

func TestIgnoredHeaders(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c, WithIgnoredHeaders("authorization", "host"))(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Accept", "application/json")
	serve(h, req)

	rec := c.only(t)
	if _, ok := rec.Headers.Get("Authorization"); ok {
		t.Fatalf("authorization leaked: %v", rec.Headers)
	}
	if _, ok := rec.Headers.Get("Host"); ok {
		t.Fatalf("host not ignored: %v", rec.Headers)
	}
	if v, _ := rec.Headers.Get("Accept"); v != "application/json" {
		t.Fatalf("accept %q", v)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	var seen int
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = len(b)
	})
	payload := `{"data":"` + strings.Repeat("a", 40) + `"}`

	for _, knownLength := range []bool{true, false} {
		c := &collector{}
		h := NewMiddleware(c, WithRequestBodyLimit(16))(app)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/problem+json")
		if !knownLength {
			req.ContentLength = -1
		}
		serve(h, req)

		rec := c.only(t)
		if seen != len(payload) {
			t.Fatalf("handler read %d bytes, want %d", seen, len(payload))
		}
		if rec.RequestBody == nil || !rec.RequestBody.TooLarge || rec.RequestBody.Raw != nil {
			t.Fatalf("expected too large capture, got %+v", rec.RequestBody)
		}
	}

	c := &collector{}
	h := NewMiddleware(c, WithRequestBodyLimit(int64(len(payload)+1)))(app)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	serve(h, req)
	if rb := c.only(t).RequestBody; rb == nil || rb.TooLarge {
		t.Fatalf("body under the limit must be kept: %+v", rb)
	}
}

func TestNonJSONBodiesAreSkipped(t *testing.T) {
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	})
	c := &collector{}
	h := NewMiddleware(c)(app)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := serve(h, req)

	rec := c.only(t)
	if rec.RequestBody != nil || rec.ResponseBody != nil {
		t.Fatalf("non-JSON bodies captured: %+v %+v", rec.RequestBody, rec.ResponseBody)
	}
	if rr.Body.String() != "hello" || rec.ResponseStatusCode != http.StatusOK {
		t.Fatalf("unexpected response %d %q", rec.ResponseStatusCode, rr.Body.String())
	}
}

func TestPerAreaIgnoredRoutes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Headers.IgnoredRoutes = []string{"/auth"}
	cfg.QueryString.IgnoredRoutes = []string{"/auth"}
	cfg.RequestBody.IgnoredRoutes = []string{"/auth/login"}
	c := &collector{}
	h := NewMiddleware(c, WithConfig(cfg))(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodPost, "/auth/login?next=/", strings.NewReader(`{"password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	serve(h, req)

	rec := c.only(t)
	if len(rec.Headers) != 0 || rec.QueryString != "" || rec.RequestBody != nil {
		t.Fatalf("ignored areas captured: %+v", rec)
	}
}

func TestPanicIsRecordedAndRethrown(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFromContext(r.Context(), "orders").Information("about to fail", nil)
		panic("boom")
	}))

	func() {
		defer func() {
			if p := recover(); p != "boom" {
				t.Fatalf("expected re-panic with boom, got %v", p)
			}
		}()
		serve(h, httptest.NewRequest(http.MethodGet, "/orders", nil))
	}()

	rec := c.only(t)
	if rec.ResponseStatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.ResponseStatusCode)
	}
	if len(rec.Entries) != 2 {
		t.Fatalf("entries %+v", rec.Entries)
	}
	last := rec.Entries[1]
	if last.Level != types.EntryError || last.Err == nil || !strings.Contains(last.Err.Error(), "boom") {
		t.Fatalf("panic entry %+v", last)
	}
}

func TestPanicKeepsNonSuccessStatus(t *testing.T) {
	c := &collector{}
	h := NewMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		panic("late")
	}))
	func() {
		defer func() { _ = recover() }()
		serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	}()
	if got := c.only(t).ResponseStatusCode; got != http.StatusConflict {
		t.Fatalf("status %d", got)
	}
}

func TestEntryLogger(t *testing.T) {
	rec := types.NewLogRecord()
	ctx := ContextWithRecord(context.Background(), rec)
	l := LoggerFromContext(ctx, "billing")
	l.Trace("t", nil)
	l.Debug("d", nil)
	l.Information("i", map[string]int{"n": 1})
	l.Warning("w", nil)
	l.Error("e", io.EOF, nil)
	l.Critical("c", nil, nil)
	l.Log(types.EntryWarning, "raw", nil, nil)

	if rec.EntryCount() != 7 {
		t.Fatalf("expected 7 entries, got %d", rec.EntryCount())
	}
	if rec.Entries[4].Err != io.EOF || rec.Entries[0].Category != "billing" {
		t.Fatalf("unexpected entries %+v", rec.Entries)
	}

	detached := LoggerFromContext(context.Background(), "x")
	if detached.Enabled() {
		t.Fatalf("logger without record must be disabled")
	}
	detached.Error("dropped", io.EOF, nil)
}

func TestClaimAliasLookup(t *testing.T) {
	uri, ok := ClaimAliases.Lookup("EMAIL")
	if !ok || uri != "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress" {
		t.Fatalf("forward lookup %q %v", uri, ok)
	}
	name, ok := ClaimAliases.Lookup(strings.ToUpper(uri))
	if !ok || name != "Email" {
		t.Fatalf("backward lookup %q %v", name, ok)
	}
	if _, ok := ClaimAliases.Lookup("nope"); ok {
		t.Fatalf("unknown alias resolved")
	}
}
