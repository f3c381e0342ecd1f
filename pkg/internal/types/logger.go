package types

// LogLevel is the severity used for the library's own diagnostics.
// It is unrelated to EntryLevel, which classifies entries carried inside a LogRecord.
type LogLevel int

// SinkType names an output for the diagnostic logger.
type SinkType string

const (
	FileSink   SinkType = "file"
	StdoutSink SinkType = "stdout"
)

const (
	DebugLevel  LogLevel = iota // DebugLevel indicates debug messages.
	InfoLevel                   // InfoLevel indicates informational messages.
	WarnLevel                   // WarnLevel indicates warning messages.
	ErrorLevel                  // ErrorLevel indicates error messages.
	DPanicLevel                 // DPanicLevel panics in development, logs as error in production.
	PanicLevel                  // PanicLevel indicates panic messages.
	FatalLevel                  // FatalLevel indicates fatal error messages.
)

// SinkConfig defines an additional output for the diagnostic logger.
type SinkConfig struct {
	Type   string                 // "file" or "stdout"
	Config map[string]interface{} // e.g. {"path": "/var/log/flexlog.log"} for file
}

// Logger is the structured diagnostics interface every component logs through.
// keysAndValues are alternating string keys and values.
type Logger interface {
	GetLevel() LogLevel
	SetLevel(LogLevel)
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	DPanic(msg string, keysAndValues ...interface{})
	Panic(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	Flush() error
	AddSink(identifier string, config SinkConfig) error
	RemoveSink(identifier string) error
	ListSinks() ([]string, error)
}
