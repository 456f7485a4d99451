package recordio

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/metrics"
)

// WriterConfig holds configuration for a stream writer
type WriterConfig struct {
	FilePath      string
	BufferSize    int           // Write buffer size
	FsyncInterval time.Duration // How often to fsync, 0 syncs every frame
	MaxRecordSize int           // Largest accepted body, 0 means no limit
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// ReaderConfig holds configuration for a stream reader
type ReaderConfig struct {
	FilePath      string
	StartOffset   int64
	MaxRecordSize int // Largest accepted body, 0 means no limit
	Logger        *zap.Logger

	// Cache compiles the layouts of segment namespaces. Nil gives each
	// segment a private cache.
	Cache *compiler.Cache
}

var (
	ErrCorruption     = errors.New("recordio: data corruption detected")
	ErrNoSegment      = errors.New("recordio: record before any segment")
	ErrRecordTooLarge = errors.New("recordio: record exceeds maximum size")
	ErrClosed         = errors.New("recordio: stream closed")
)

// StreamError reports a failure at a byte offset of a stream.
type StreamError struct {
	Offset int64
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("recordio: offset %d: %v", e.Offset, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
