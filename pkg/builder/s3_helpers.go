package builder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

/////////////////////////////////////////////
// S3 client constructors (no env)
/////////////////////////////////////////////

func loadAWSConfig(ctx context.Context, region string, creds aws.CredentialsProvider) (aws.Config, error) {
	var loaders []func(*config.LoadOptions) error
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if creds != nil {
		loaders = append(loaders, config.WithCredentialsProvider(creds))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

func newS3FromConfig(cfg aws.Config, endpoint string, forcePathStyle bool) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = forcePathStyle
	})
}

// NewS3ClientStatic creates an S3 client using static credentials.
// If endpoint != "", it's used (LocalStack/MinIO). forcePathStyle=true for emulators.
func NewS3ClientStatic(
	ctx context.Context,
	region string,
	accessKey string,
	secretKey string,
	sessionToken string, // "" if none
	endpoint string, // "" for AWS
	forcePathStyle bool,
) (*s3.Client, error) {
	cfg, err := loadAWSConfig(ctx, region, credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken))
	if err != nil {
		return nil, err
	}
	return newS3FromConfig(cfg, endpoint, forcePathStyle), nil
}

// NewS3ClientDefault creates an S3 client from the default credential chain.
func NewS3ClientDefault(ctx context.Context, region, endpoint string, forcePathStyle bool) (*s3.Client, error) {
	cfg, err := loadAWSConfig(ctx, region, nil)
	if err != nil {
		return nil, err
	}
	return newS3FromConfig(cfg, endpoint, forcePathStyle), nil
}

// NewS3ClientAssumeRole creates an S3 client by assuming an IAM role via STS.
// sourceCreds: underlying creds to call STS. If nil, default chain.
// externalID optional. duration capped by role MaxSessionDuration.
func NewS3ClientAssumeRole(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	duration time.Duration,
	externalID string,
	sourceCreds aws.CredentialsProvider, // nil => default provider chain
	endpoint string, // optional S3/STS endpoint override
	forcePathStyle bool,
) (*s3.Client, error) {
	if roleARN == "" {
		return nil, fmt.Errorf("role ARN is required")
	}
	baseCfg, err := loadAWSConfig(ctx, region, sourceCreds)
	if err != nil {
		return nil, err
	}

	// STS goes to the same endpoint so emulators never reach real AWS.
	stsClient := sts.NewFromConfig(baseCfg, func(o *sts.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		if sessionName != "" {
			o.RoleSessionName = sessionName
		}
		if duration > 0 {
			o.Duration = duration
		}
		if externalID != "" {
			o.ExternalID = aws.String(externalID)
		}
	})

	assumed := baseCfg
	assumed.Credentials = aws.NewCredentialsCache(provider)
	return newS3FromConfig(assumed, endpoint, forcePathStyle), nil
}

// LocalstackS3AssumeRoleConfig sets up defaults for LocalStack assume-role clients.
type LocalstackS3AssumeRoleConfig struct {
	RoleARN      string
	SessionName  string
	Region       string
	Duration     time.Duration
	ExternalID   string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
}

func (c *LocalstackS3AssumeRoleConfig) applyDefaults() {
	if c.SessionName == "" {
		c.SessionName = "flexlog"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.Duration == 0 {
		c.Duration = 15 * time.Minute
	}
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:4566"
	}
	if c.AccessKey == "" {
		c.AccessKey = "test"
	}
	if c.SecretKey == "" {
		c.SecretKey = "test"
	}
}

// NewS3ClientAssumeRoleLocalstack builds an assume-role S3 client with LocalStack defaults.
func NewS3ClientAssumeRoleLocalstack(ctx context.Context, cfg LocalstackS3AssumeRoleConfig) (*s3.Client, error) {
	if cfg.RoleARN == "" {
		return nil, fmt.Errorf("role ARN is required")
	}
	cfg.applyDefaults()

	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
	return NewS3ClientAssumeRole(
		ctx,
		cfg.Region,
		cfg.RoleARN,
		cfg.SessionName,
		cfg.Duration,
		cfg.ExternalID,
		creds,
		cfg.Endpoint,
		true,
	)
}

// S3ListKeys returns object keys for a bucket/prefix, optionally filtered by suffix.
func S3ListKeys(ctx context.Context, cli *s3.Client, bucket, prefix string, suffixes ...string) ([]string, error) {
	if cli == nil {
		return nil, fmt.Errorf("s3 client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var keys []string
	pager := s3.NewListObjectsV2Paginator(cli, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1000),
	})
	for pager.HasMorePages() {
		out, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, o := range out.Contents {
			k := aws.ToString(o.Key)
			if len(suffixes) == 0 || hasSuffixFold(k, suffixes) {
				keys = append(keys, k)
			}
		}
	}
	return keys, nil
}

func hasSuffixFold(key string, suffixes []string) bool {
	lower := strings.ToLower(key)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
