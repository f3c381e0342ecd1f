package builder

import (
	"testing"
	"time"
)

func TestHasSuffixFold(t *testing.T) {
	if !hasSuffixFold("flexlog/2024/03/09/07/batch.NDJSON.GZ", []string{".ndjson.gz"}) {
		t.Fatalf("expected suffix match")
	}
	if hasSuffixFold("flexlog/batch.parquet", []string{".ndjson.gz", ".json"}) {
		t.Fatalf("unexpected suffix match")
	}
}

func TestLocalstackDefaults(t *testing.T) {
	cfg := LocalstackS3AssumeRoleConfig{RoleARN: "arn:aws:iam::000000000000:role/flexlog"}
	cfg.applyDefaults()
	if cfg.Region != "us-east-1" || cfg.Endpoint != "http://localhost:4566" || cfg.SessionName != "flexlog" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Duration != 15*time.Minute || cfg.AccessKey != "test" || cfg.SecretKey != "test" {
		t.Fatalf("unexpected credential defaults %+v", cfg)
	}
}
