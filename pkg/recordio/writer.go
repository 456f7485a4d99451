package recordio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/metrics"
	"github.com/ssargent/hybridrow/pkg/row"
)

const (
	frameSegment = "segment"
	frameRecord  = "record"
)

// Writer appends frames to a RecordIO file: a segment, then any number of
// records, each an envelope followed by its body.
type Writer struct {
	file       *os.File
	writer     *bufio.Writer
	fsyncTimer *time.Timer
	config     WriterConfig
	logger     *zap.Logger
	metrics    *metrics.Metrics
	resizer    row.Resizer
	mutex      sync.Mutex
	offset     int64 // Current write offset
	segmented  bool  // A segment precedes the write offset
	closed     bool
}

// NewWriter opens or creates the stream file for appending. A non-empty
// file is assumed to already start with a segment.
func NewWriter(config WriterConfig) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Writer{
		file:      file,
		writer:    bufio.NewWriterSize(file, bufferSize),
		config:    config,
		logger:    logger.With(zap.String("path", config.FilePath)),
		metrics:   config.Metrics,
		resizer:   &row.MemoryResizer{},
		offset:    stat.Size(),
		segmented: stat.Size() > 0,
	}

	if config.FsyncInterval > 0 {
		w.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			w.mutex.Lock()
			defer w.mutex.Unlock()
			if w.closed {
				return
			}
			if err := w.sync(); err != nil {
				w.logger.Warn("background fsync failed", zap.Error(err))
			}
		})
	}

	return w, nil
}

// WriteSegment appends a segment frame and returns its offset. Records
// written after it are described by its SDL.
func (w *Writer) WriteSegment(seg Segment) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return 0, ErrClosed
	}

	b, err := FormatSegment(seg, w.resizer)
	w.metrics.RecordFrame(frameSegment, b.Length(), err)
	if err != nil {
		return 0, err
	}

	offset, err := w.write(b.Bytes())
	if err != nil {
		return 0, err
	}
	w.segmented = true
	w.logger.Debug("wrote segment", zap.Int64("offset", offset), zap.Int("size", b.Length()))
	return offset, nil
}

// WriteRecord appends a record envelope followed by body and returns the
// envelope's offset.
func (w *Writer) WriteRecord(body []byte) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return 0, ErrClosed
	}
	if !w.segmented {
		return 0, ErrNoSegment
	}
	if w.config.MaxRecordSize > 0 && len(body) > w.config.MaxRecordSize {
		w.metrics.RecordFrame(frameRecord, 0, ErrRecordTooLarge)
		return 0, ErrRecordTooLarge
	}

	b, err := FormatRecord(body, w.resizer)
	w.metrics.RecordFrame(frameRecord, b.Length()+len(body), err)
	if err != nil {
		return 0, err
	}

	offset, err := w.write(b.Bytes(), body)
	if err != nil {
		return 0, err
	}
	return offset, nil
}

func (w *Writer) write(parts ...[]byte) (int64, error) {
	frameOffset := w.offset
	for _, p := range parts {
		n, err := w.writer.Write(p)
		w.offset += int64(n)
		if err != nil {
			return 0, err
		}
	}

	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	} else if w.fsyncTimer != nil {
		w.fsyncTimer.Reset(w.config.FsyncInterval)
	}

	return frameOffset, nil
}

// Sync forces a fsync to disk
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.sync()
}

func (w *Writer) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes, syncs and closes the file.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	if err := w.sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Size returns the current size of the stream
func (w *Writer) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.FilePath
}
