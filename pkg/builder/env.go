package builder

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// EnvOr returns the trimmed env value or def when empty.
func EnvOr(key, def string) string {
	v := strings.TrimSpace(strings.Trim(os.Getenv(key), `"`))
	if v == "" {
		return def
	}
	return v
}

// EnvIntOr returns the parsed int env value or def on empty/parse failure.
func EnvIntOr(key string, def int) int {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvBoolOr accepts the strconv.ParseBool spellings.
func EnvBoolOr(key string, def bool) bool {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationOr parses a Go duration ("250ms", "5s"). A bare integer is
// read as seconds.
func EnvDurationOr(key string, def time.Duration) time.Duration {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// EnvListOr splits a comma separated value, dropping empty items.
func EnvListOr(key string, def []string) []string {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	if items := utils.SplitCSV(v); len(items) > 0 {
		return items
	}
	return def
}

// PipelineConfigFromEnv reads the pipeline tunables from prefix-named
// variables, e.g. with prefix "FLEXLOG":
//
//	FLEXLOG_QUEUE_STRATEGY         Unbounded | DropWrite
//	FLEXLOG_QUEUE_CAPACITY         bounded queue capacity
//	FLEXLOG_BUFFER_LIMIT           records per flush
//	FLEXLOG_FLUSH_INTERVAL         idle time before a flush ("5s" or 5)
//	FLEXLOG_REQUEST_REDACTED_KEYS  comma separated
//	FLEXLOG_RESPONSE_REDACTED_KEYS comma separated
//	FLEXLOG_SINK_WRITE_TIMEOUT     per-sink deadline, 0 disables
//
// Unset variables keep the defaults.
func PipelineConfigFromEnv(prefix string) PipelineConfig {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return strings.TrimSuffix(prefix, "_") + "_" + name
	}

	cfg := PipelineConfig{
		QueueStrategy:        types.QueueUnbounded,
		QueueCapacity:        EnvIntOr(key("QUEUE_CAPACITY"), types.DefaultQueueCapacity),
		BufferLimit:          EnvIntOr(key("BUFFER_LIMIT"), types.DefaultBufferLimit),
		FlushInterval:        EnvDurationOr(key("FLUSH_INTERVAL"), types.DefaultFlushInterval),
		RequestRedactedKeys:  EnvListOr(key("REQUEST_REDACTED_KEYS"), nil),
		ResponseRedactedKeys: EnvListOr(key("RESPONSE_REDACTED_KEYS"), nil),
		SinkWriteTimeout:     EnvDurationOr(key("SINK_WRITE_TIMEOUT"), 0),
	}
	if s := EnvOr(key("QUEUE_STRATEGY"), ""); s != "" {
		cfg.QueueStrategy = types.ParseQueueStrategy(s)
	}
	return cfg
}
