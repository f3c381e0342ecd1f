package builder

import (
	"io"

	internalLogger "github.com/joeydtaylor/flexlog/pkg/internal/internallogger"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/logschema"
	"go.uber.org/zap/zapcore"
)

type LoggerOption = internalLogger.LoggerOption

type SinkConfig = types.SinkConfig

type SinkType = types.SinkType

const (
	FileSink   SinkType = types.FileSink
	StdoutSink SinkType = types.StdoutSink
)

func NewLogger(options ...internalLogger.LoggerOption) types.Logger {
	return internalLogger.NewLogger(options...)
}

// LoggerWithLevel configures the logger to use the specified log level.
func LoggerWithLevel(levelStr string) LoggerOption {
	return internalLogger.LoggerWithLevel(levelStr)
}

// LoggerWithDevelopment enables or disables development mode.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return internalLogger.LoggerWithDevelopment(dev)
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return internalLogger.LoggerWithFields(fields)
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return internalLogger.LoggerWithSchema(schema)
}

// LoggerWithOutput sends the JSON lines to w instead of stdout.
func LoggerWithOutput(w io.Writer) LoggerOption {
	return internalLogger.LoggerWithOutput(w)
}

func LoggerWithoutCaller() LoggerOption {
	return internalLogger.LoggerWithoutCaller()
}

// LoggerWithCore hands the logger a host-owned zap core.
func LoggerWithCore(core zapcore.Core) LoggerOption {
	return internalLogger.LoggerWithCore(core)
}

// Log schema constants for the standard flexlog diagnostic format.
const (
	LogSchemaID    = logschema.SchemaID
	LogSchemaField = logschema.FieldSchema
)

// LogLevel is exported from the internal types package.
type LogLevel = types.LogLevel

// Export log levels to be accessible under the builder package
const (
	DebugLevel  = types.DebugLevel
	InfoLevel   = types.InfoLevel
	WarnLevel   = types.WarnLevel
	ErrorLevel  = types.ErrorLevel
	DPanicLevel = types.DPanicLevel
	PanicLevel  = types.PanicLevel
	FatalLevel  = types.FatalLevel
)
