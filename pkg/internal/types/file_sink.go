package types

// FileSinkConfig configures the NDJSON file sink.
type FileSinkConfig struct {
	Path string
	// SyncEveryBatch fsyncs after each batch.
	SyncEveryBatch bool
}
