package recordio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/row"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// maxSegmentSize bounds the allocation made for a segment frame.
const maxSegmentSize = 64 << 20

// bodyChunk is the largest record body allocated up front. Longer bodies
// grow as their bytes arrive, so a damaged length cannot force a large
// allocation.
const bodyChunk = 1 << 20

// Reader provides sequential access to the records of a RecordIO file.
// Segments are consumed as they are met; Segment returns the one in effect.
type Reader struct {
	file     *os.File
	reader   *bufio.Reader
	offset   int64
	config   ReaderConfig
	logger   *zap.Logger
	segment  *Segment
	resolver layout.Resolver
}

// NewReader opens the stream file for reading.
func NewReader(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reader{
		file:   file,
		reader: bufio.NewReader(file),
		offset: config.StartOffset,
		config: config,
		logger: logger.With(zap.String("path", config.FilePath)),
	}, nil
}

// Next returns the body of the next record, verifying its checksum. It
// returns io.EOF at a clean end of stream and a *StreamError wrapping
// ErrCorruption for torn or damaged frames.
func (r *Reader) Next() ([]byte, error) {
	for {
		start := r.offset
		header, err := r.readFull(row.HeaderSize)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, r.fail(start, err)
		}
		if row.Version(header[0]) != row.V1 {
			return nil, r.fail(start, fmt.Errorf("unknown version 0x%02x: %w", header[0], ErrCorruption))
		}

		switch id := schema.SchemaID(binary.LittleEndian.Uint32(header[1:])); id {
		case SegmentSchemaID:
			if err := r.readSegment(header); err != nil {
				return nil, r.fail(start, err)
			}
		case RecordSchemaID:
			body, err := r.readRecord(header)
			if err != nil {
				return nil, r.fail(start, err)
			}
			return body, nil
		default:
			return nil, r.fail(start, fmt.Errorf("unexpected frame schema %d: %w", id, ErrCorruption))
		}
	}
}

func (r *Reader) readSegment(header []byte) error {
	fixed, err := r.readFull(segmentLayout.Size())
	if err != nil {
		return torn(err)
	}
	frame := append(header, fixed...)

	length, _ := segmentLayout.TryFind("length")
	size := int(int32(binary.LittleEndian.Uint32(frame[row.HeaderSize+length.Offset():])))
	if size < len(frame) || size > maxSegmentSize {
		return fmt.Errorf("segment length %d: %w", size, ErrCorruption)
	}
	rest, err := r.readFull(size - len(frame))
	if err != nil {
		return torn(err)
	}
	frame = append(frame, rest...)

	seg, err := ReadSegment(frame)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrCorruption)
	}
	if seg.Namespace != nil {
		if err := schema.Validate(seg.Namespace); err != nil {
			return fmt.Errorf("segment namespace: %v: %w", err, ErrCorruption)
		}
	}
	r.segment = &seg
	r.resolver = nil
	r.logger.Debug("read segment", zap.String("comment", seg.Comment), zap.Int32("length", seg.Length))
	return nil
}

func (r *Reader) readRecord(header []byte) ([]byte, error) {
	if r.segment == nil {
		return nil, ErrNoSegment
	}
	fixed, err := r.readFull(recordLayout.Size())
	if err != nil {
		return nil, torn(err)
	}
	rec, err := ReadRecord(append(header, fixed...))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruption)
	}
	if rec.Length < 0 {
		return nil, fmt.Errorf("record length %d: %w", rec.Length, ErrCorruption)
	}
	if r.config.MaxRecordSize > 0 && int(rec.Length) > r.config.MaxRecordSize {
		return nil, ErrRecordTooLarge
	}

	body, err := r.readBody(int(rec.Length))
	if err != nil {
		return nil, torn(err)
	}
	if crc := Crc32(0, body); crc != rec.CRC32 {
		return nil, fmt.Errorf("crc32 mismatch: %08x != %08x: %w", crc, rec.CRC32, ErrCorruption)
	}
	return body, nil
}

// readFull reads exactly n bytes. It returns io.EOF only when nothing was
// read.
func (r *Reader) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	m, err := io.ReadFull(r.reader, buf)
	r.offset += int64(m)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) readBody(n int) ([]byte, error) {
	if n <= bodyChunk {
		return r.readFull(n)
	}
	var buf bytes.Buffer
	buf.Grow(bodyChunk)
	m, err := io.CopyN(&buf, r.reader, int64(n))
	r.offset += m
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func torn(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("truncated frame: %w", ErrCorruption)
	}
	return err
}

func (r *Reader) fail(offset int64, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = torn(err)
	}
	r.logger.Debug("stream read failed", zap.Int64("offset", offset), zap.Error(err))
	return &StreamError{Offset: offset, Err: err}
}

// Segment returns the segment in effect, or nil before the first one.
func (r *Reader) Segment() *Segment {
	return r.segment
}

// Resolver returns a layout resolver over the current segment's namespace.
func (r *Reader) Resolver() (layout.Resolver, error) {
	if r.segment == nil {
		return nil, ErrNoSegment
	}
	if r.segment.Namespace == nil {
		return nil, errors.New("recordio: segment has no schema document")
	}
	if r.resolver == nil {
		r.resolver = compiler.NewNamespaceResolver(r.segment.Namespace, r.config.Cache)
	}
	return r.resolver, nil
}

// Offset returns the current read offset
func (r *Reader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator over record bodies
func (r *Reader) Iterator() *Iterator {
	return &Iterator{reader: r}
}

// Close closes the reader
func (r *Reader) Close() error {
	return r.file.Close()
}

// Iterator walks record bodies until the end of the stream or the first
// error.
type Iterator struct {
	reader *Reader
	body   []byte
	err    error
}

func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.body, it.err = it.reader.Next()
	return it.err == nil
}

func (it *Iterator) Body() []byte { return it.body }

// Err returns the error that stopped iteration, or nil at a clean end.
func (it *Iterator) Err() error {
	if errors.Is(it.err, io.EOF) {
		return nil
	}
	return it.err
}
