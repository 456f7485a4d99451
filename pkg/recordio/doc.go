// Package recordio frames HybridRow rows into an append-only stream.
//
// # Stream Format
//
// A stream is a sequence of frames. Each frame is itself a HybridRow row
// written against one of the system schemas:
//
//	[Segment][Record][body][Record][body]...[Segment][Record][body]...
//
// A Segment row carries its own total length, an optional comment and the
// SDL of the namespace that describes the bodies which follow it. A Record
// row is an envelope of fixed size:
//
//	[header(5)][length int32][crc32 uint32]
//
// followed immediately by length bytes of body. The checksum is CRC-32
// (IEEE) over the body only.
//
// # Framing
//
// FormatSegment and FormatRecord produce complete rows in a fresh buffer
// grown through the caller's row.Resizer. They never return partial output:
// on failure the buffer is reset to empty.
//
//	env, err := recordio.FormatRecord(body, &row.MemoryResizer{})
//	if err != nil {
//	    return err
//	}
//	out.Write(env.Bytes())
//	out.Write(body)
//
// Writer and Reader do this over a file. Reader verifies every checksum and
// reports damaged or truncated frames as a *StreamError wrapping
// ErrCorruption.
//
// # System Namespace
//
// Segment (2147473648), Record (2147473649) and EmptySchema (2147473650) are
// compiled once at package initialization from an embedded schema document.
package recordio
