// Package filesink appends records as NDJSON to a local file or any io.Writer.
package filesink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

var ErrNoDestination = errors.New("filesink: neither a path nor a writer is configured")

// FileSink writes one NDJSON line per record. Writes are serialised.
type FileSink struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	cfg    types.FileSinkConfig
	out    io.Writer
	file   *os.File
	writer sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

func NewFileSink(options ...types.Option[*FileSink]) *FileSink {
	f := &FileSink{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "FILE_SINK",
		},
		loggers: make([]types.Logger, 0),
		sensors: make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *FileSink) Name() string {
	f.writer.Lock()
	defer f.writer.Unlock()
	return f.nameLocked()
}

func (f *FileSink) nameLocked() string {
	if meta := f.GetComponentMetadata(); meta.Name != "" {
		return meta.Name
	}
	if f.cfg.Path != "" {
		return "file:" + f.cfg.Path
	}
	return "file:writer"
}

// Initialize opens the configured path for append, creating parent
// directories. An injected writer takes precedence over the path.
func (f *FileSink) Initialize(ctx context.Context) error {
	f.writer.Lock()
	defer f.writer.Unlock()

	if f.out != nil {
		return nil
	}
	if f.cfg.Path == "" {
		return ErrNoDestination
	}
	if err := os.MkdirAll(filepath.Dir(f.cfg.Path), 0o755); err != nil {
		return fmt.Errorf("filesink: create directory: %w", err)
	}
	file, err := os.OpenFile(f.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("filesink: open %s: %w", f.cfg.Path, err)
	}
	f.file, f.out = file, file

	f.NotifyLoggers(types.InfoLevel, "File sink opened",
		"component", f.GetComponentMetadata(),
		"event", "Initialize",
		"result", "SUCCESS",
		"path", f.cfg.Path,
	)
	return nil
}

// WriteBatch writes the whole batch through one buffered flush.
func (f *FileSink) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	f.writer.Lock()
	defer f.writer.Unlock()
	if f.out == nil {
		return ErrNoDestination
	}

	start := time.Now()
	bw := bufio.NewWriter(f.out)
	if err := (codec.NDJSONEncoder{}).Encode(bw, batch); err != nil {
		err = fmt.Errorf("filesink: write: %w", err)
		f.reportError(f.nameLocked(), len(batch), err)
		return err
	}
	if err := bw.Flush(); err != nil {
		err = fmt.Errorf("filesink: flush: %w", err)
		f.reportError(f.nameLocked(), len(batch), err)
		return err
	}
	if f.cfg.SyncEveryBatch && f.file != nil {
		if err := f.file.Sync(); err != nil {
			err = fmt.Errorf("filesink: sync: %w", err)
			f.reportError(f.nameLocked(), len(batch), err)
			return err
		}
	}
	f.reportSuccess(f.nameLocked(), len(batch), time.Since(start))
	return nil
}

// Dispose syncs and closes a file this sink opened. Injected writers are left alone.
func (f *FileSink) Dispose(ctx context.Context) error {
	f.writer.Lock()
	defer f.writer.Unlock()

	file := f.file
	if file == nil {
		return nil
	}
	f.file, f.out = nil, nil
	syncErr := file.Sync()
	closeErr := file.Close()
	if err := errors.Join(syncErr, closeErr); err != nil {
		return fmt.Errorf("filesink: close: %w", err)
	}
	return nil
}
