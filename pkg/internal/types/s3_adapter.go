package types

import (
	"context"

	s3api "github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ObjectAPI is the subset of *s3.Client used by the S3 sink.
type S3ObjectAPI interface {
	PutObject(ctx context.Context, in *s3api.PutObjectInput, optFns ...func(*s3api.Options)) (*s3api.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3api.HeadBucketInput, optFns ...func(*s3api.Options)) (*s3api.HeadBucketOutput, error)
}

// S3SinkConfig configures the S3 sink. Each batch becomes one object.
type S3SinkConfig struct {
	Bucket string

	// PrefixTemplate supports {yyyy} {MM} {dd} {HH} {mm} {ts} {id}.
	// Default "flexlog/{yyyy}/{MM}/{dd}/{HH}/".
	PrefixTemplate string
	// FileNameTemplate uses the same placeholders. Default "{ts}-{id}".
	FileNameTemplate string

	// Format is "ndjson" (default) or "parquet".
	Format string
	// Compression for ndjson: "gzip" (default) | "zstd" | "snappy" | "brotli" | "lz4" | "none".
	// For parquet: "snappy" (default) | "zstd" | "gzip" | "none".
	Compression string

	SSEMode  string // "" | "AES256" | "aws:kms"
	KMSKeyID string // used when SSEMode == "aws:kms"

	// ClientSideKey enables AES-GCM client-side encryption of each object
	// (16, 24 or 32 bytes). The sealed object is nonce || ciphertext.
	ClientSideKey []byte

	// VerifyBucket issues HeadBucket during Initialize.
	VerifyBucket bool
	// MaxAttempts bounds PutObject retries on retryable errors. Default 5.
	MaxAttempts int
}
