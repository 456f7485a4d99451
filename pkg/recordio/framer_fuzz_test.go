//go:build fuzz
// +build fuzz

package recordio

import (
	"testing"
)

// FuzzFormatRecord checks that every body round-trips through its envelope
func FuzzFormatRecord(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("hello"))
	f.Add([]byte{0x81, 0x00, 0x00, 0x00, 0x00})

	f.Fuzz(func(t *testing.T, body []byte) {
		if len(body) > 1<<20 {
			t.Skip("Input too large for fuzz test")
		}

		buf, err := FormatRecord(body, nil)
		if err != nil {
			t.Fatalf("FormatRecord failed for len=%d: %v", len(body), err)
		}

		rec, err := ReadRecord(buf.Bytes())
		if err != nil {
			t.Fatalf("ReadRecord failed: %v", err)
		}
		if rec.Length != int32(len(body)) {
			t.Errorf("Length mismatch: got %d, want %d", rec.Length, len(body))
		}
		if rec.CRC32 != Crc32(0, body) {
			t.Errorf("CRC mismatch: got %08x, want %08x", rec.CRC32, Crc32(0, body))
		}
	})
}

// FuzzReadFrames feeds arbitrary bytes to the frame decoders, which must
// fail cleanly rather than panic
func FuzzReadFrames(f *testing.F) {
	seg, err := FormatSegment(Segment{Comment: "seed", SDL: `{"name":"seed"}`}, nil)
	if err != nil {
		f.Fatal(err)
	}
	rec, err := FormatRecord([]byte("seed"), nil)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seg.Bytes())
	f.Add(rec.Bytes())
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = ReadSegment(data)
		_, _ = ReadRecord(data)
	})
}
