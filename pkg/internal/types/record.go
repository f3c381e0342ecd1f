package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EntryLevel classifies a LogEntry attached to a record.
type EntryLevel int

const (
	EntryTrace EntryLevel = iota
	EntryDebug
	EntryInformation
	EntryWarning
	EntryError
	EntryCritical
)

var entryLevelNames = [...]string{"Trace", "Debug", "Information", "Warning", "Error", "Critical"}

func (l EntryLevel) String() string {
	if l < EntryTrace || l > EntryCritical {
		return fmt.Sprintf("EntryLevel(%d)", int(l))
	}
	return entryLevelNames[l]
}

// MarshalText encodes the level by name.
func (l EntryLevel) MarshalText() ([]byte, error) {
	if l < EntryTrace || l > EntryCritical {
		return nil, fmt.Errorf("types: invalid entry level %d", int(l))
	}
	return []byte(entryLevelNames[l]), nil
}

// UnmarshalText accepts a level name, case-insensitively.
func (l *EntryLevel) UnmarshalText(b []byte) error {
	lvl, ok := ParseEntryLevel(string(b))
	if !ok {
		return fmt.Errorf("types: unknown entry level %q", string(b))
	}
	*l = lvl
	return nil
}

// ParseEntryLevel resolves a level name.
func ParseEntryLevel(s string) (EntryLevel, bool) {
	s = strings.TrimSpace(s)
	for i, name := range entryLevelNames {
		if strings.EqualFold(name, s) {
			return EntryLevel(i), true
		}
	}
	return EntryInformation, false
}

// LogEntry is an application-level message attached to a record while the
// unit of work is in flight.
type LogEntry struct {
	Level    EntryLevel
	Category string
	Message  string
	Err      error
	Metadata any
}

type logEntryJSON struct {
	Level    EntryLevel `json:"level"`
	Category string     `json:"category,omitempty"`
	Message  string     `json:"message"`
	Error    string     `json:"error,omitempty"`
	Metadata any        `json:"metadata,omitempty"`
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	out := logEntryJSON{
		Level:    e.Level,
		Category: e.Category,
		Message:  e.Message,
		Metadata: e.Metadata,
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}

// Field is one captured key/value pair.
type Field struct {
	Key   string
	Value string
}

// Fields is an insertion-ordered string mapping. It encodes as a JSON object
// with keys in insertion order.
type Fields []Field

// Get returns the value stored under key (exact match).
func (f Fields) Get(key string) (string, bool) {
	for _, kv := range f {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value under key or appends a new pair.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

// Join appends value to an existing key with a comma separator, or adds the key.
func (f *Fields) Join(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value += "," + value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BodyCapture holds a captured request or response payload. Raw is never
// serialised; Rendered is filled by the scheduler at flush time.
type BodyCapture struct {
	ContentType string `json:"contentType,omitempty"`
	Raw         []byte `json:"-"`
	SizeInBytes int64  `json:"sizeInBytes"`
	TooLarge    bool   `json:"tooLarge"`
	Rendered    string `json:"body,omitempty"`
	ValidJSON   bool   `json:"validJson"`
}

// TooLargeText replaces payloads and values that exceed a configured limit.
const TooLargeText = "TOO LARGE"

// NewBodyCapture builds a capture. A too-large body never keeps its raw bytes.
func NewBodyCapture(contentType string, raw []byte, size int64, tooLarge bool) *BodyCapture {
	b := &BodyCapture{
		ContentType: contentType,
		SizeInBytes: size,
		TooLarge:    tooLarge,
	}
	if tooLarge {
		b.Rendered = TooLargeText
		return b
	}
	b.Raw = raw
	return b
}

// Redactable reports whether the scheduler should render this body.
func (b *BodyCapture) Redactable() bool {
	return b != nil && !b.TooLarge && b.Raw != nil
}

// LogRecord describes one unit of work (typically one HTTP request).
type LogRecord struct {
	ID                  string       `json:"id"`
	TraceID             string       `json:"traceId,omitempty"`
	Timestamp           time.Time    `json:"timestamp"`
	ElapsedMilliseconds float64      `json:"elapsedMilliseconds"`
	Protocol            string       `json:"protocol,omitempty"`
	Endpoint            string       `json:"endpoint,omitempty"`
	QueryString         string       `json:"queryString,omitempty"`
	Claims              Fields       `json:"claims,omitempty"`
	Headers             Fields       `json:"headers,omitempty"`
	RequestBody         *BodyCapture `json:"requestBody,omitempty"`
	ResponseBody        *BodyCapture `json:"responseBody,omitempty"`
	ResponseStatusCode  int          `json:"responseStatusCode,omitempty"`
	Entries             []LogEntry   `json:"entries"`

	entriesLock sync.Mutex
	stamped     atomic.Bool
}

// NewLogRecord returns a record with a fresh correlation id and a UTC timestamp.
func NewLogRecord() *LogRecord {
	return &LogRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Entries:   make([]LogEntry, 0),
	}
}

// AddEntry appends an entry. Safe for concurrent producers until the record
// is handed to the pipeline.
func (r *LogRecord) AddEntry(e LogEntry) {
	r.entriesLock.Lock()
	r.Entries = append(r.Entries, e)
	r.entriesLock.Unlock()
}

// EntryCount returns the number of attached entries.
func (r *LogRecord) EntryCount() int {
	r.entriesLock.Lock()
	defer r.entriesLock.Unlock()
	return len(r.Entries)
}

// StampElapsed records the time between Timestamp and now, once. It reports
// whether this call set the value.
func (r *LogRecord) StampElapsed(now time.Time) bool {
	if !r.stamped.CompareAndSwap(false, true) {
		return false
	}
	elapsed := float64(now.Sub(r.Timestamp)) / float64(time.Millisecond)
	if elapsed < 0 {
		elapsed = 0
	}
	r.ElapsedMilliseconds = elapsed
	return true
}

// Stamped reports whether StampElapsed has run.
func (r *LogRecord) Stamped() bool { return r.stamped.Load() }
