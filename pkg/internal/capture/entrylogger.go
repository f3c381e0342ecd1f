package capture

import (
	"context"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type recordKey struct{}

// ContextWithRecord returns a child context carrying rec.
func ContextWithRecord(ctx context.Context, rec *types.LogRecord) context.Context {
	return context.WithValue(ctx, recordKey{}, rec)
}

// RecordFromContext returns the record the middleware attached to ctx.
func RecordFromContext(ctx context.Context) (*types.LogRecord, bool) {
	rec, ok := ctx.Value(recordKey{}).(*types.LogRecord)
	return rec, ok && rec != nil
}

// EntryLogger appends entries to the in-flight record of a request. A logger
// obtained outside a captured request discards everything.
type EntryLogger struct {
	rec      *types.LogRecord
	category string
}

// LoggerFromContext returns an EntryLogger for the request bound to ctx.
func LoggerFromContext(ctx context.Context, category string) *EntryLogger {
	rec, _ := RecordFromContext(ctx)
	return &EntryLogger{rec: rec, category: category}
}

// Enabled reports whether entries reach a record.
func (l *EntryLogger) Enabled() bool { return l != nil && l.rec != nil }

// Log appends an entry at level. err and metadata may be nil.
func (l *EntryLogger) Log(level types.EntryLevel, msg string, err error, metadata any) {
	if !l.Enabled() {
		return
	}
	l.rec.AddEntry(types.LogEntry{
		Level:    level,
		Category: l.category,
		Message:  msg,
		Err:      err,
		Metadata: metadata,
	})
}

func (l *EntryLogger) Trace(msg string, metadata any) {
	l.Log(types.EntryTrace, msg, nil, metadata)
}

func (l *EntryLogger) Debug(msg string, metadata any) {
	l.Log(types.EntryDebug, msg, nil, metadata)
}

func (l *EntryLogger) Information(msg string, metadata any) {
	l.Log(types.EntryInformation, msg, nil, metadata)
}

func (l *EntryLogger) Warning(msg string, metadata any) {
	l.Log(types.EntryWarning, msg, nil, metadata)
}

func (l *EntryLogger) Error(msg string, err error, metadata any) {
	l.Log(types.EntryError, msg, err, metadata)
}

func (l *EntryLogger) Critical(msg string, err error, metadata any) {
	l.Log(types.EntryCritical, msg, err, metadata)
}
