package recordio

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/row"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// segmentSlack is added to a segment's capacity estimate to cover the
// length prefixes and path bytes of its sparse fields.
const segmentSlack = 20

// Segment is the header frame of a stream. SDL describes the records that
// follow it.
type Segment struct {
	Length  int32
	Comment string
	SDL     string

	// Namespace is SDL parsed. When formatting, it is used to produce SDL
	// if SDL is empty.
	Namespace *schema.Namespace
}

// Record is the envelope written ahead of each record body.
type Record struct {
	Length int32
	CRC32  uint32
}

// Crc32 continues an IEEE CRC-32 over data. Use seed 0 for a fresh
// checksum.
func Crc32(seed uint32, data []byte) uint32 {
	return crc32.Update(seed, crc32.IEEETable, data)
}

// FormatSegment serializes seg as a Segment row. Its length field holds the
// final row length. On failure the returned buffer is empty.
func FormatSegment(seg Segment, resizer row.Resizer) (*row.Buffer, error) {
	if seg.SDL == "" && seg.Namespace != nil {
		sdl, err := seg.Namespace.MarshalSDL()
		if err != nil {
			return row.New(0, resizer), fmt.Errorf("recordio: failed to encode segment namespace: %w", err)
		}
		seg.SDL = string(sdl)
	}
	capacity := row.HeaderSize + segmentLayout.Size() + len(seg.Comment) + len(seg.SDL) + segmentSlack
	return format(seg, capacity, segmentLayout, segmentSerializer{}, resizer)
}

// FormatRecord serializes the envelope of body: its length and CRC-32. The
// body itself is not part of the returned row. On failure the returned
// buffer is empty.
func FormatRecord(body []byte, resizer row.Resizer) (*row.Buffer, error) {
	if len(body) > maxInt32 {
		return row.New(0, resizer), row.TooBig
	}
	rec := Record{Length: int32(len(body)), CRC32: Crc32(0, body)}
	capacity := row.HeaderSize + recordLayout.Size() + len(body)
	return format(rec, capacity, recordLayout, recordSerializer{}, resizer)
}

const maxInt32 = 1<<31 - 1

func format[T any](v T, capacity int, l *layout.Layout, s row.Serializer[T], resizer row.Resizer) (*row.Buffer, error) {
	b := row.New(capacity, resizer)
	if err := b.InitLayout(row.V1, l, systemResolver); err != nil {
		b.Reset()
		return b, err
	}
	if err := s.Write(b, b.RootCursor(), true, layout.TypeArgumentList{}, v); err != nil {
		b.Reset()
		return b, err
	}
	return b, nil
}

// ReadSegment decodes a Segment row and parses its SDL.
func ReadSegment(data []byte) (Segment, error) {
	seg, err := read(data, SegmentSchemaID, segmentSerializer{})
	if err != nil {
		return Segment{}, err
	}
	if seg.SDL != "" {
		ns, err := schema.ParseNamespace([]byte(seg.SDL))
		if err != nil {
			return Segment{}, fmt.Errorf("recordio: segment sdl: %w", err)
		}
		seg.Namespace = ns
	}
	return seg, nil
}

// ReadRecord decodes a Record envelope row.
func ReadRecord(data []byte) (Record, error) {
	return read(data, RecordSchemaID, recordSerializer{})
}

func read[T any](data []byte, id schema.SchemaID, s row.Serializer[T]) (T, error) {
	var zero T
	b := row.New(0, nil)
	if err := b.ReadFrom(data, row.V1, systemResolver); err != nil {
		return zero, err
	}
	if got := b.Header().SchemaID; got != id {
		return zero, fmt.Errorf("recordio: expected schema %d, found %d: %w", id, got, row.TypeMismatch)
	}
	return s.Read(b, b.RootCursor(), true)
}

type segmentSerializer struct{}

func (segmentSerializer) Write(b *row.Buffer, c *row.Cursor, isRoot bool, _ layout.TypeArgumentList, seg Segment) error {
	length, ok := c.Find("length")
	if !ok {
		return row.NotFound
	}
	if err := b.WriteFixed(length, seg.Length); err != nil {
		return err
	}
	if seg.Comment != "" {
		if err := b.WriteSparse(c, "comment", layout.Utf8, seg.Comment); err != nil {
			return err
		}
	}
	if seg.SDL != "" {
		if err := b.WriteSparse(c, "sdl", layout.Utf8, seg.SDL); err != nil {
			return err
		}
	}
	if isRoot {
		if b.Length() > maxInt32 {
			return row.TooBig
		}
		return b.WriteFixed(length, int32(b.Length()))
	}
	return nil
}

func (segmentSerializer) Read(b *row.Buffer, c *row.Cursor, _ bool) (Segment, error) {
	var seg Segment
	length, ok := c.Find("length")
	if !ok {
		return seg, row.NotFound
	}
	v, err := b.ReadFixed(length)
	if err != nil {
		return seg, err
	}
	seg.Length = v.(int32)
	if seg.Comment, err = readString(b, c, "comment"); err != nil {
		return seg, err
	}
	if seg.SDL, err = readString(b, c, "sdl"); err != nil {
		return seg, err
	}
	return seg, nil
}

func readString(b *row.Buffer, c *row.Cursor, path string) (string, error) {
	f, err := b.ReadSparse(c, path)
	if errors.Is(err, row.NotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s, ok := f.Value.(string)
	if !ok {
		return "", row.TypeMismatch
	}
	return s, nil
}

type recordSerializer struct{}

func (recordSerializer) Write(b *row.Buffer, c *row.Cursor, _ bool, _ layout.TypeArgumentList, rec Record) error {
	length, ok := c.Find("length")
	if !ok {
		return row.NotFound
	}
	crc, ok := c.Find("crc32")
	if !ok {
		return row.NotFound
	}
	if err := b.WriteFixed(length, rec.Length); err != nil {
		return err
	}
	return b.WriteFixed(crc, rec.CRC32)
}

func (recordSerializer) Read(b *row.Buffer, c *row.Cursor, _ bool) (Record, error) {
	var rec Record
	length, ok := c.Find("length")
	if !ok {
		return rec, row.NotFound
	}
	crc, ok := c.Find("crc32")
	if !ok {
		return rec, row.NotFound
	}
	v, err := b.ReadFixed(length)
	if err != nil {
		return rec, err
	}
	rec.Length = v.(int32)
	if v, err = b.ReadFixed(crc); err != nil {
		return rec, err
	}
	rec.CRC32 = v.(uint32)
	return rec, nil
}

var (
	_ row.Serializer[Segment] = segmentSerializer{}
	_ row.Serializer[Record]  = recordSerializer{}
)
