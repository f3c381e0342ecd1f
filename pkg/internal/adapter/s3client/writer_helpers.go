package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	s3api "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

const (
	defaultMaxAttempts = 5
	defaultBaseBackoff = 100 * time.Millisecond
	defaultMaxBackoff  = 3 * time.Second

	cseModeAESGCM          = "aes-gcm"
	cseMetaKey             = "x-flexlog-cse"
	cseMetaContentType     = "x-flexlog-content-type"
	cseMetaContentEncoding = "x-flexlog-content-encoding"
)

var (
	rngLock sync.Mutex
	rng     = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// backoffDuration is full-jitter exponential backoff capped at defaultMaxBackoff.
func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := defaultBaseBackoff << (attempt - 1)
	if d > defaultMaxBackoff || d <= 0 {
		d = defaultMaxBackoff
	}
	rngLock.Lock()
	defer rngLock.Unlock()
	return time.Duration(rng.Int63n(int64(d) + 1))
}

var retryableCodes = map[string]bool{
	"SlowDown":             true,
	"Throttling":           true,
	"ThrottlingException":  true,
	"RequestTimeout":       true,
	"InternalError":        true,
	"ServiceUnavailable":   true,
	"RequestTimeTooSkewed": true,
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if retryableCodes[apiErr.ErrorCode()] {
			return true
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "throttl"),
		strings.Contains(msg, "slowdown"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "tempor"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "eof"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "500"):
		return true
	default:
		return false
	}
}

func (a *S3Client) putWithRetry(ctx context.Context, put *s3api.PutObjectInput, key string, maxAttempts int) (time.Duration, error) {
	rs, ok := put.Body.(io.ReadSeeker)
	if !ok {
		return 0, fmt.Errorf("putWithRetry requires io.ReadSeeker body")
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	cli := a.client()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}

		start := time.Now()
		_, err := cli.PutObject(ctx, put)
		if err == nil {
			return time.Since(start), nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts || ctx.Err() != nil {
			return 0, err
		}
		a.NotifyLoggers(types.WarnLevel, "PutObject retry",
			"component", a.GetComponentMetadata(),
			"event", "PutObject",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"key", key,
			"error", err,
		)

		select {
		case <-time.After(backoffDuration(attempt)):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return 0, lastErr
}

// renderKey expands {yyyy} {MM} {dd} {HH} {mm} {ts} {id} in UTC.
func renderKey(prefixTmpl, nameTmpl string, now time.Time) string {
	ts := now.UTC()
	r := strings.NewReplacer(
		"{yyyy}", ts.Format("2006"),
		"{MM}", ts.Format("01"),
		"{dd}", ts.Format("02"),
		"{HH}", ts.Format("15"),
		"{mm}", ts.Format("04"),
		"{ts}", fmt.Sprintf("%d", ts.UnixMilli()),
		"{id}", utils.GenerateUniqueHash()[:16],
	)
	if prefixTmpl == "" {
		prefixTmpl = defaultPrefixTemplate
	}
	if nameTmpl == "" {
		nameTmpl = defaultFileNameTemplate
	}
	prefix := r.Replace(prefixTmpl)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return path.Join(prefix, r.Replace(nameTmpl))
}

// applyCSE seals the payload and records the original content headers in
// object metadata, since the stored bytes are opaque.
func applyCSE(key, payload []byte, contentType, contentEncoding string) ([]byte, string, string, map[string]string, error) {
	if len(key) == 0 {
		return payload, contentType, contentEncoding, nil, nil
	}
	sealed, err := codec.SealAESGCM(payload, key)
	if err != nil {
		return nil, "", "", nil, err
	}
	meta := map[string]string{cseMetaKey: cseModeAESGCM}
	if contentType != "" {
		meta[cseMetaContentType] = contentType
	}
	if contentEncoding != "" {
		meta[cseMetaContentEncoding] = contentEncoding
	}
	return sealed, "application/octet-stream", "", meta, nil
}
