package internallogger

import (
	"io"
	"os"
	"sync"

	"github.com/joeydtaylor/flexlog/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption adjusts logger construction.
type LoggerOption func(*loggerSettings)

type loggerSettings struct {
	level       zapcore.Level
	development bool
	callerDepth int
	callerOn    bool
	fields      map[string]interface{}
	output      io.Writer
	core        zapcore.Core
}

// ZapLoggerAdapter implements types.Logger on top of zap.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	encConfig   zapcore.EncoderConfig
	baseCore    zapcore.Core
	baseFields  []zap.Field
	callerDepth int
	callerOn    bool
	development bool
	sinks       map[string]sinkEntry
}

// NewLogger builds a JSON logger writing to stdout unless another output is given.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	settings := &loggerSettings{
		level:       zapcore.InfoLevel,
		callerDepth: 2,
		callerOn:    true,
		fields:      map[string]interface{}{logschema.FieldSchema: logschema.SchemaID},
		output:      os.Stdout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(settings)
	}

	z := &ZapLoggerAdapter{
		atomicLevel: zap.NewAtomicLevelAt(settings.level),
		encConfig:   standardEncoderConfig(),
		callerDepth: settings.callerDepth,
		callerOn:    settings.callerOn,
		development: settings.development,
		baseFields:  fieldsFromMap(settings.fields),
		sinks:       make(map[string]sinkEntry),
	}
	if settings.core != nil {
		z.baseCore = settings.core
	} else {
		z.baseCore = zapcore.NewCore(
			zapcore.NewJSONEncoder(z.encConfig),
			zapcore.Lock(zapcore.AddSync(settings.output)),
			z.atomicLevel,
		)
	}

	z.mu.Lock()
	z.rebuildLoggerLocked()
	z.mu.Unlock()
	return z
}

func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		if key == "" {
			continue
		}
		out = append(out, zap.Any(key, value))
	}
	return out
}
