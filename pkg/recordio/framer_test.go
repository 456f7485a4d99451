package recordio

import (
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/row"
	"github.com/ssargent/hybridrow/pkg/schema"
)

func TestSystemLayouts(t *testing.T) {
	ns := SystemNamespace()
	require.NotNil(t, ns)
	assert.Len(t, ns.Schemas, 3)

	empty, err := SystemResolver().Resolve(EmptySchemaSchemaID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Size())
	assert.Empty(t, empty.Columns())

	assert.Equal(t, "Segment", segmentLayout.Name())
	assert.Equal(t, 1, segmentLayout.NumFixed())
	assert.Equal(t, 2, segmentLayout.NumSparse())
	assert.Equal(t, 4, segmentLayout.Size())

	assert.Equal(t, "Record", recordLayout.Name())
	assert.Equal(t, 0, recordLayout.NumBitmaskBytes())
	assert.Equal(t, 8, recordLayout.Size())
}

func TestFormatRecord(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"empty body", []byte{}},
		{"nil body", nil},
		{"short body", []byte("hello")},
		{"binary body", []byte{0x00, 0xff, 0x81, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := FormatRecord(tt.body, &row.MemoryResizer{})
			require.NoError(t, err)
			assert.Equal(t, row.HeaderSize+8, b.Length())
			assert.Equal(t, RecordSchemaID, b.Header().SchemaID)
			assert.Equal(t, row.V1, b.Header().Version)

			rec, err := ReadRecord(b.Bytes())
			require.NoError(t, err)
			assert.Equal(t, int32(len(tt.body)), rec.Length)
			assert.Equal(t, crc32.ChecksumIEEE(tt.body), rec.CRC32)
		})
	}
}

func TestFormatRecordEmptyCRC(t *testing.T) {
	b, err := FormatRecord(nil, nil)
	require.NoError(t, err)

	rec, err := ReadRecord(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int32(0), rec.Length)
	assert.Equal(t, uint32(0), rec.CRC32)
	assert.Equal(t, Crc32(0, []byte{}), rec.CRC32)
}

func TestCrc32Seeded(t *testing.T) {
	a, b := []byte("hybrid"), []byte("row")
	assert.Equal(t, crc32.ChecksumIEEE([]byte("hybridrow")), Crc32(Crc32(0, a), b))
}

func TestFormatSegment(t *testing.T) {
	sdl := `{"name":"people","schemas":[{"name":"Person","id":1}]}`

	tests := []struct {
		name    string
		segment Segment
	}{
		{"empty", Segment{}},
		{"comment only", Segment{Comment: "nightly export"}},
		{"comment and sdl", Segment{Comment: "c", SDL: sdl}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := FormatSegment(tt.segment, nil)
			require.NoError(t, err)
			assert.Equal(t, SegmentSchemaID, b.Header().SchemaID)

			seg, err := ReadSegment(b.Bytes())
			require.NoError(t, err)
			assert.Equal(t, int32(b.Length()), seg.Length)
			assert.Equal(t, tt.segment.Comment, seg.Comment)
			assert.Equal(t, tt.segment.SDL, seg.SDL)
			if tt.segment.SDL != "" {
				require.NotNil(t, seg.Namespace)
				assert.Equal(t, "people", seg.Namespace.Name)
			} else {
				assert.Nil(t, seg.Namespace)
			}
		})
	}
}

func TestFormatSegmentFromNamespace(t *testing.T) {
	ns := &schema.Namespace{
		Name: "inline",
		Schemas: []*schema.Schema{
			{Name: "Thing", SchemaID: 5, Type: schema.TypeKindSchema},
		},
	}

	b, err := FormatSegment(Segment{Namespace: ns}, nil)
	require.NoError(t, err)

	seg, err := ReadSegment(b.Bytes())
	require.NoError(t, err)
	require.NotNil(t, seg.Namespace)
	s, ok := seg.Namespace.Index().SchemaByID(5)
	require.True(t, ok)
	assert.Equal(t, "Thing", s.Name)
}

type cancelingSerializer struct{}

func (cancelingSerializer) Write(b *row.Buffer, c *row.Cursor, _ bool, _ layout.TypeArgumentList, comment string) error {
	if err := b.WriteSparse(c, "comment", layout.Utf8, comment); err != nil {
		return err
	}
	return row.Canceled
}

func (cancelingSerializer) Read(*row.Buffer, *row.Cursor, bool) (string, error) {
	return "", row.Canceled
}

func TestFormatFailureResetsBuffer(t *testing.T) {
	b, err := format("partial", 0, segmentLayout, cancelingSerializer{}, nil)
	assert.ErrorIs(t, err, row.Canceled)
	require.NotNil(t, b)
	assert.Zero(t, b.Length())
	assert.Empty(t, b.Bytes())
	assert.Nil(t, b.Layout())
}

func TestReadWrongFrame(t *testing.T) {
	seg, err := FormatSegment(Segment{}, nil)
	require.NoError(t, err)
	rec, err := FormatRecord([]byte("x"), nil)
	require.NoError(t, err)

	_, err = ReadRecord(seg.Bytes())
	assert.ErrorIs(t, err, row.TypeMismatch)
	_, err = ReadSegment(rec.Bytes())
	assert.ErrorIs(t, err, row.TypeMismatch)
	_, err = ReadRecord(rec.Bytes()[:7])
	assert.ErrorIs(t, err, row.InvalidRow)
}

func TestReadSegmentBadSDL(t *testing.T) {
	b, err := FormatSegment(Segment{SDL: "name: [unclosed"}, nil)
	require.NoError(t, err)

	_, err = ReadSegment(b.Bytes())
	assert.Error(t, err)
}

func ExampleFormatRecord() {
	body := []byte("hello")
	env, err := FormatRecord(body, &row.MemoryResizer{})
	if err != nil {
		panic(err)
	}
	rec, err := ReadRecord(env.Bytes())
	if err != nil {
		panic(err)
	}
	fmt.Println(env.Length(), rec.Length, rec.CRC32 == crc32.ChecksumIEEE(body))
	// Output: 13 5 true
}
