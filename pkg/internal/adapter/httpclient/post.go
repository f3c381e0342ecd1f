package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// postWithRetry returns the number of attempts made.
func (hp *HTTPClientAdapter) postWithRetry(ctx context.Context, payload []byte, contentType, contentEncoding string) (int, error) {
	cfg := hp.config()
	hp.configLock.Lock()
	client, base := hp.httpClient, hp.baseBackoff
	hp.configLock.Unlock()
	if client == nil {
		return 0, fmt.Errorf("httpclient: no HTTP client")
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodPost
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryAfter, err := hp.postOnce(ctx, client, method, cfg, timeout, payload, contentType, contentEncoding)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		if !retryable(err) || attempt == maxAttempts || ctx.Err() != nil {
			return attempt, err
		}

		wait := backoff(base, attempt)
		if retryAfter > 0 {
			wait = min(retryAfter, defaultMaxBackoff)
		}
		hp.NotifyLoggers(types.WarnLevel, "Webhook retry",
			"component", hp.GetComponentMetadata(),
			"event", "Post",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"wait", wait,
			"error", err,
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}
	return maxAttempts, lastErr
}

func (hp *HTTPClientAdapter) postOnce(
	ctx context.Context,
	client *http.Client,
	method string,
	cfg types.HTTPSinkConfig,
	timeout time.Duration,
	payload []byte,
	contentType string,
	contentEncoding string,
) (time.Duration, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", contentType)
	if contentEncoding != "" {
		req.Header.Set("Content-Encoding", contentEncoding)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return 0, nil
	}
	return parseRetryAfter(resp.Header.Get("Retry-After")), &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	// transport errors, including a per-attempt timeout
	return true
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > defaultMaxBackoff || d <= 0 {
		d = defaultMaxBackoff
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// parseRetryAfter understands the delay-seconds form only.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
