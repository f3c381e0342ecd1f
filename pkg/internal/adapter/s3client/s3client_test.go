package s3client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3api "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	parquet "github.com/parquet-go/parquet-go"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type putCall struct {
	in   *s3api.PutObjectInput
	body []byte
}

type fakeS3 struct {
	mu        sync.Mutex
	puts      []putCall
	attempts  int
	failures  []error
	headErr   error
	headCalls int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3api.PutObjectInput, _ ...func(*s3api.Options)) (*s3api.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return nil, err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, putCall{in: in, body: body})
	return &s3api.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3api.HeadBucketInput, ...func(*s3api.Options)) (*s3api.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headCalls++
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3api.HeadBucketOutput{}, nil
}

var fixedNow = time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC)

func batchOf(n int) []*types.LogRecord {
	out := make([]*types.LogRecord, n)
	for i := range out {
		r := types.NewLogRecord()
		r.Endpoint = "/items"
		r.ResponseStatusCode = 200
		out[i] = r
	}
	return out
}

func newSink(t *testing.T, cli types.S3ObjectAPI, cfg types.S3SinkConfig) *S3Client {
	t.Helper()
	a := NewS3ClientAdapter(WithClient(cli), WithConfig(cfg), withClock(func() time.Time { return fixedNow }))
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return a
}

func TestNDJSONGzipObject(t *testing.T) {
	f := &fakeS3{}
	a := newSink(t, f, types.S3SinkConfig{Bucket: "logs", SSEMode: "aws:kms", KMSKeyID: "kms-1"})

	if err := a.WriteBatch(context.Background(), batchOf(3)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(f.puts) != 1 {
		t.Fatalf("expected 1 object, got %d", len(f.puts))
	}
	put := f.puts[0]
	key := aws.ToString(put.in.Key)
	if !strings.HasPrefix(key, "flexlog/2024/03/09/07/1709967900000-") || !strings.HasSuffix(key, ".ndjson.gz") {
		t.Fatalf("unexpected key %q", key)
	}
	if aws.ToString(put.in.ContentEncoding) != "gzip" || aws.ToString(put.in.ContentType) != "application/x-ndjson" {
		t.Fatalf("unexpected content headers %q %q", aws.ToString(put.in.ContentEncoding), aws.ToString(put.in.ContentType))
	}
	if put.in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(put.in.SSEKMSKeyId) != "kms-1" {
		t.Fatalf("SSE not applied: %v", put.in.ServerSideEncryption)
	}

	plain, err := codec.Decompress(put.body, codec.CompressGzip)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	lines := 0
	sc := bufio.NewScanner(bytes.NewReader(plain))
	for sc.Scan() {
		lines++
	}
	if lines != 3 {
		t.Fatalf("expected 3 NDJSON lines, got %d", lines)
	}
}

func TestCustomKeyTemplateAndNoCompression(t *testing.T) {
	f := &fakeS3{}
	a := newSink(t, f, types.S3SinkConfig{
		Bucket:           "logs",
		PrefixTemplate:   "app/{yyyy}-{MM}-{dd}",
		FileNameTemplate: "batch-{HH}{mm}",
		Compression:      "none",
	})
	if err := a.WriteBatch(context.Background(), batchOf(1)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if key := aws.ToString(f.puts[0].in.Key); key != "app/2024-03-09/batch-0705.ndjson" {
		t.Fatalf("unexpected key %q", key)
	}
	if f.puts[0].in.ContentEncoding != nil {
		t.Fatalf("expected no content encoding")
	}
}

func TestParquetObject(t *testing.T) {
	f := &fakeS3{}
	a := newSink(t, f, types.S3SinkConfig{Bucket: "logs", Format: "parquet", Compression: "zstd"})
	if err := a.WriteBatch(context.Background(), batchOf(4)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	put := f.puts[0]
	if !strings.HasSuffix(aws.ToString(put.in.Key), ".parquet") {
		t.Fatalf("unexpected key %q", aws.ToString(put.in.Key))
	}
	rows, err := parquet.Read[codec.RecordRow](bytes.NewReader(put.body), int64(len(put.body)))
	if err != nil {
		t.Fatalf("parquet.Read: %v", err)
	}
	if len(rows) != 4 || rows[0].Endpoint != "/items" || rows[0].ResponseStatusCode != 200 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestClientSideEncryption(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	f := &fakeS3{}
	a := newSink(t, f, types.S3SinkConfig{Bucket: "logs", Compression: "zstd", ClientSideKey: key})
	if err := a.WriteBatch(context.Background(), batchOf(2)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	put := f.puts[0]
	if aws.ToString(put.in.ContentType) != "application/octet-stream" || put.in.ContentEncoding != nil {
		t.Fatalf("sealed object must be opaque")
	}
	if put.in.Metadata[cseMetaKey] != cseModeAESGCM || put.in.Metadata[cseMetaContentEncoding] != "zstd" {
		t.Fatalf("unexpected metadata %v", put.in.Metadata)
	}
	opened, err := codec.OpenAESGCM(put.body, key)
	if err != nil {
		t.Fatalf("OpenAESGCM: %v", err)
	}
	plain, err := codec.Decompress(opened, codec.CompressZstd)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if strings.Count(string(plain), "\n") != 2 {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestRetryOnThrottling(t *testing.T) {
	slow := &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce rate"}
	f := &fakeS3{failures: []error{slow, slow}}
	a := newSink(t, f, types.S3SinkConfig{Bucket: "logs", MaxAttempts: 3})
	if err := a.WriteBatch(context.Background(), batchOf(1)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if f.attempts != 3 || len(f.puts) != 1 {
		t.Fatalf("expected 3 attempts and 1 object, got %d/%d", f.attempts, len(f.puts))
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope", Fault: smithy.FaultClient}
	f := &fakeS3{failures: []error{denied}}
	a := newSink(t, f, types.S3SinkConfig{Bucket: "logs"})
	err := a.WriteBatch(context.Background(), batchOf(1))
	if !errors.Is(err, denied) {
		t.Fatalf("expected AccessDenied, got %v", err)
	}
	if f.attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", f.attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":       {nil, false},
		"canceled":  {context.Canceled, false},
		"server":    {&smithy.GenericAPIError{Code: "X", Fault: smithy.FaultServer}, true},
		"throttled": {&smithy.GenericAPIError{Code: "ThrottlingException"}, true},
		"reset":     {errors.New("read: connection reset by peer"), true},
		"denied":    {&smithy.GenericAPIError{Code: "AccessDenied", Fault: smithy.FaultClient}, false},
	}
	for name, tc := range cases {
		if got := isRetryable(tc.err); got != tc.want {
			t.Fatalf("%s: isRetryable = %v, want %v", name, got, tc.want)
		}
	}
}

func TestBackoffIsCapped(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		if d := backoffDuration(attempt); d < 0 || d > defaultMaxBackoff {
			t.Fatalf("attempt %d backoff %v out of range", attempt, d)
		}
	}
}

func TestInitializeErrors(t *testing.T) {
	if err := NewS3ClientAdapter().Initialize(context.Background()); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if err := NewS3ClientAdapter(WithClient(&fakeS3{})).Initialize(context.Background()); !errors.Is(err, ErrNoBucket) {
		t.Fatalf("expected ErrNoBucket, got %v", err)
	}
	bad := NewS3ClientAdapter(WithClient(&fakeS3{}), WithConfig(types.S3SinkConfig{Bucket: "b", Format: "csv"}))
	if err := bad.Initialize(context.Background()); err == nil {
		t.Fatalf("expected format error")
	}
	shortKey := NewS3ClientAdapter(WithClient(&fakeS3{}), WithConfig(types.S3SinkConfig{Bucket: "b", ClientSideKey: []byte("short")}))
	if err := shortKey.Initialize(context.Background()); err == nil {
		t.Fatalf("expected key length error")
	}

	missing := errors.New("NotFound")
	f := &fakeS3{headErr: missing}
	verify := NewS3ClientAdapter(WithClient(f), WithConfig(types.S3SinkConfig{Bucket: "b", VerifyBucket: true}))
	if err := verify.Initialize(context.Background()); !errors.Is(err, missing) || f.headCalls != 1 {
		t.Fatalf("expected HeadBucket failure, got %v (%d calls)", err, f.headCalls)
	}
}

func TestWriteBeforeInitialize(t *testing.T) {
	a := NewS3ClientAdapter(WithClient(&fakeS3{}), WithConfig(types.S3SinkConfig{Bucket: "b"}))
	if err := a.WriteBatch(context.Background(), batchOf(1)); err == nil {
		t.Fatalf("expected error before Initialize")
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRealClientRequests(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Body != nil {
			_, _ = io.Copy(io.Discard, r.Body)
		}
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Request:    r,
		}, nil
	})
	cli := s3api.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: rt},
	}, func(o *s3api.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://s3.test")
	})

	a := newSink(t, cli, types.S3SinkConfig{Bucket: "logs", VerifyBucket: true, Compression: "snappy"})
	if err := a.WriteBatch(context.Background(), batchOf(2)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "HEAD /logs" || !strings.HasPrefix(seen[1], "PUT /logs/flexlog/2024/03/09/07/") {
		t.Fatalf("unexpected requests %v", seen)
	}
}
