// Package s3client writes each flushed batch as one S3 object, either as
// compressed NDJSON or as a Parquet file.
package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3api "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

const (
	defaultPrefixTemplate   = "flexlog/{yyyy}/{MM}/{dd}/{HH}/"
	defaultFileNameTemplate = "{ts}-{id}"
)

var (
	ErrNoClient = errors.New("s3client: no S3 client configured")
	ErrNoBucket = errors.New("s3client: no bucket configured")
)

// S3Client is a Sink that uploads one object per batch.
type S3Client struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	cfg        types.S3SinkConfig
	configLock sync.Mutex
	cli        types.S3ObjectAPI

	// resolved in Initialize
	encoder     codec.BatchEncoder
	compression codec.Compression
	ready       bool
	stateLock   sync.Mutex

	now func() time.Time

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewS3ClientAdapter builds an S3 sink. A client and bucket are required
// before Initialize.
func NewS3ClientAdapter(options ...types.Option[*S3Client]) *S3Client {
	a := &S3Client{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "S3_SINK",
		},
		now:     time.Now,
		loggers: make([]types.Logger, 0),
		sensors: make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *S3Client) Name() string {
	if meta := a.GetComponentMetadata(); meta.Name != "" {
		return meta.Name
	}
	return "s3:" + a.config().Bucket
}

// Initialize resolves the object format and optionally checks the bucket.
func (a *S3Client) Initialize(ctx context.Context) error {
	cfg := a.config()
	cli := a.client()
	if cli == nil {
		return ErrNoClient
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return ErrNoBucket
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	var (
		enc  codec.BatchEncoder
		comp codec.Compression
		err  error
	)
	switch format {
	case "", codec.FormatNDJSON:
		enc = codec.NDJSONEncoder{}
		name := cfg.Compression
		if strings.TrimSpace(name) == "" {
			name = string(codec.CompressGzip)
		}
		if comp, err = codec.ParseCompression(name); err != nil {
			return fmt.Errorf("s3client: %w", err)
		}
	case codec.FormatParquet:
		enc = codec.NewParquetEncoder(cfg.Compression)
	default:
		return fmt.Errorf("s3client: unsupported format %q", cfg.Format)
	}

	if len(cfg.ClientSideKey) > 0 {
		switch len(cfg.ClientSideKey) {
		case 16, 24, 32:
		default:
			return fmt.Errorf("s3client: client-side key must be 16, 24 or 32 bytes, got %d", len(cfg.ClientSideKey))
		}
	}

	if cfg.VerifyBucket {
		if _, err := cli.HeadBucket(ctx, &s3api.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
			return fmt.Errorf("s3client: verify bucket %q: %w", cfg.Bucket, err)
		}
	}

	a.stateLock.Lock()
	a.encoder, a.compression, a.ready = enc, comp, true
	a.stateLock.Unlock()

	a.NotifyLoggers(types.InfoLevel, "S3 sink initialized",
		"component", a.GetComponentMetadata(),
		"event", "Initialize",
		"result", "SUCCESS",
		"bucket", cfg.Bucket,
		"format", enc.Extension(),
		"compression", string(comp),
	)
	return nil
}

// WriteBatch encodes the batch and uploads it under a freshly rendered key.
func (a *S3Client) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	a.stateLock.Lock()
	enc, comp, ready := a.encoder, a.compression, a.ready
	a.stateLock.Unlock()
	if !ready {
		return fmt.Errorf("s3client: sink not initialized")
	}
	cfg := a.config()

	var buf bytes.Buffer
	if err := enc.Encode(&buf, batch); err != nil {
		err = fmt.Errorf("s3client: encode batch: %w", err)
		a.reportError(len(batch), "", err)
		return err
	}
	payload := buf.Bytes()
	contentType := enc.ContentType()
	contentEncoding := ""
	ext := enc.Extension()

	if comp != codec.CompressNone {
		compressed, err := codec.Compress(payload, comp)
		if err != nil {
			err = fmt.Errorf("s3client: compress: %w", err)
			a.reportError(len(batch), "", err)
			return err
		}
		payload = compressed
		contentEncoding = comp.ContentEncoding()
		ext += comp.Extension()
	}

	payload, contentType, contentEncoding, meta, err := applyCSE(cfg.ClientSideKey, payload, contentType, contentEncoding)
	if err != nil {
		err = fmt.Errorf("s3client: client-side encryption: %w", err)
		a.reportError(len(batch), "", err)
		return err
	}

	key := renderKey(cfg.PrefixTemplate, cfg.FileNameTemplate, a.now()) + ext
	put := &s3api.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	}
	if contentEncoding != "" {
		put.ContentEncoding = aws.String(contentEncoding)
	}
	if len(meta) > 0 {
		put.Metadata = meta
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SSEMode)) {
	case "aes256":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	case "aws:kms":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		if cfg.KMSKeyID != "" {
			put.SSEKMSKeyId = aws.String(cfg.KMSKeyID)
		}
	}

	dur, err := a.putWithRetry(ctx, put, key, cfg.MaxAttempts)
	if err != nil {
		err = fmt.Errorf("s3client: put %s: %w", key, err)
		a.reportError(len(batch), key, err)
		return err
	}
	a.reportSuccess(len(batch), key, len(payload), dur)
	return nil
}

// Dispose has nothing to release; the S3 client is owned by the caller.
func (a *S3Client) Dispose(ctx context.Context) error {
	a.stateLock.Lock()
	a.ready = false
	a.stateLock.Unlock()
	return nil
}
