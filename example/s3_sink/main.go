package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeydtaylor/flexlog/pkg/builder"
)

// Writes parquet and gzip ndjson objects to a LocalStack bucket, then lists
// what landed.
//
//	awslocal s3 mb s3://flexlog-demo
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const bucket = "flexlog-demo"
	endpoint := builder.EnvOr("FLEXLOG_S3_ENDPOINT", "http://localhost:4566")

	var (
		cli *s3.Client
		err error
	)
	if role := builder.EnvOr("FLEXLOG_S3_ROLE_ARN", ""); role != "" {
		cli, err = builder.NewS3ClientAssumeRoleLocalstack(ctx, builder.LocalstackS3AssumeRoleConfig{
			RoleARN:  role,
			Endpoint: endpoint,
		})
	} else {
		cli, err = builder.NewS3ClientStatic(ctx, "us-east-1", "test", "test", "", endpoint, true)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3 client: %v\n", err)
		return
	}

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))
	meter := builder.NewMeter(builder.MeterWithLogger(logger), builder.MeterWithoutHostSampling())
	sensor := builder.NewSensor(builder.SensorWithMeter(meter))

	ndjson := builder.NewS3Sink(
		builder.S3SinkWithClient(cli),
		builder.S3SinkWithConfig(builder.S3SinkConfig{
			Bucket:         bucket,
			PrefixTemplate: "ndjson/{yyyy}/{MM}/{dd}/",
			Format:         "ndjson",
			Compression:    "gzip",
			VerifyBucket:   true,
		}),
		builder.S3SinkWithLogger(logger),
		builder.S3SinkWithSensor(sensor),
		builder.S3SinkWithComponentMetadata("s3-ndjson", "s3-1"),
	)
	parquet := builder.NewS3Sink(
		builder.S3SinkWithClient(cli),
		builder.S3SinkWithConfig(builder.S3SinkConfig{
			Bucket:         bucket,
			PrefixTemplate: "parquet/{yyyy}/{MM}/{dd}/",
			Format:         "parquet",
			Compression:    "zstd",
			SSEMode:        "AES256",
		}),
		builder.S3SinkWithLogger(logger),
		builder.S3SinkWithSensor(sensor),
		builder.S3SinkWithComponentMetadata("s3-parquet", "s3-2"),
	)

	pipeline := builder.NewPipeline(
		builder.PipelineWithLogger(logger),
		builder.PipelineWithSensor(sensor),
		builder.PipelineWithPrimarySink(ndjson, parquet),
		builder.PipelineWithBufferLimit(500),
		builder.PipelineWithFlushInterval(2*time.Second),
		builder.PipelineWithResponseRedactedKeys("ssn"),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
	}

	for i := 0; i < 1200; i++ {
		rec := builder.NewLogRecord()
		rec.Endpoint = "GET /patients"
		rec.ResponseStatusCode = 200
		body := fmt.Sprintf(`{"patient":%d,"ssn":"000-00-%04d"}`, i, i)
		rec.ResponseBody = builder.NewBodyCapture("application/json", []byte(body), int64(len(body)), false)
		pipeline.Enqueue(rec)
	}

	if err := pipeline.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}

	keys, err := builder.S3ListKeys(ctx, cli, bucket, "", ".ndjson.gz", ".parquet")
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	meter.ReportData()
}
