package internallogger

import (
	"io"
	"strings"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/logschema"
	"go.uber.org/zap/zapcore"
)

// zapLevels is indexed by types.LogLevel.
var zapLevels = [...]zapcore.Level{
	types.DebugLevel:  zapcore.DebugLevel,
	types.InfoLevel:   zapcore.InfoLevel,
	types.WarnLevel:   zapcore.WarnLevel,
	types.ErrorLevel:  zapcore.ErrorLevel,
	types.DPanicLevel: zapcore.DPanicLevel,
	types.PanicLevel:  zapcore.PanicLevel,
	types.FatalLevel:  zapcore.FatalLevel,
}

// ConvertLevel maps a library level onto zap; out of range means info.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	if level < 0 || int(level) >= len(zapLevels) {
		return zapcore.InfoLevel
	}
	return zapLevels[level]
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for l, z := range zapLevels {
		if z == level {
			return types.LogLevel(l)
		}
	}
	return types.InfoLevel
}

// parseLogLevel accepts zap's level names in any case plus "warning".
func parseLogLevel(levelStr string) types.LogLevel {
	name := strings.ToLower(strings.TrimSpace(levelStr))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return types.InfoLevel
	}
	return convertZapLevel(lvl)
}

// LoggerWithLevel sets the minimum level ("debug", "info", "warn", "error", ...).
// Unknown names fall back to info.
func LoggerWithLevel(levelStr string) LoggerOption {
	return func(s *loggerSettings) {
		s.level = ConvertLevel(parseLogLevel(levelStr))
	}
}

// LoggerWithDevelopment makes DPanic entries panic.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(s *loggerSettings) {
		s.development = dev
	}
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return func(s *loggerSettings) {
		for key, value := range fields {
			if key == "" {
				continue
			}
			s.fields[key] = value
		}
	}
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return func(s *loggerSettings) {
		s.fields[logschema.FieldSchema] = schema
	}
}

// LoggerWithOutput replaces stdout as the base output.
func LoggerWithOutput(w io.Writer) LoggerOption {
	return func(s *loggerSettings) {
		if w != nil {
			s.output = w
		}
	}
}

// LoggerWithoutCaller drops the caller field.
func LoggerWithoutCaller() LoggerOption {
	return func(s *loggerSettings) {
		s.callerOn = false
	}
}

// ZapAdapterWithCallerSkip adds frames to skip when resolving the caller.
func ZapAdapterWithCallerSkip(skip int) LoggerOption {
	return func(s *loggerSettings) {
		s.callerDepth += skip
	}
}

// LoggerWithCore replaces the JSON stdout core, e.g. with an observer core in
// tests or a host-owned core. The adapter level still gates NotifyLoggers.
func LoggerWithCore(core zapcore.Core) LoggerOption {
	return func(s *loggerSettings) {
		s.core = core
	}
}
