package row

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ssargent/hybridrow/pkg/layout"
)

// ObjectID is the 12-byte value of a mongodbobjectid column.
type ObjectID [12]byte

// Decimal and Float128 are carried as raw 16-byte little-endian images.
type (
	Decimal  [16]byte
	Float128 [16]byte
)

// ticksAtUnixEpoch is the number of 100ns ticks between 0001-01-01 and
// 1970-01-01, the epoch of datetime values.
const ticksAtUnixEpoch = 621355968000000000

func toTicks(t time.Time) int64 {
	return t.Unix()*10_000_000 + int64(t.Nanosecond())/100 + ticksAtUnixEpoch
}

func fromTicks(ticks int64) time.Time {
	ticks -= ticksAtUnixEpoch
	return time.Unix(ticks/10_000_000, (ticks%10_000_000)*100).UTC()
}

// putFixed encodes a fixed-size primitive into dst, which must hold at least
// t.Size() bytes.
func putFixed(dst []byte, t *layout.Type, v any) error {
	switch t.Code() {
	case layout.CodeInt8:
		x, ok := v.(int8)
		if !ok {
			return TypeMismatch
		}
		dst[0] = byte(x)
	case layout.CodeInt16:
		x, ok := v.(int16)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint16(dst, uint16(x))
	case layout.CodeInt32:
		x, ok := v.(int32)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint32(dst, uint32(x))
	case layout.CodeInt64:
		x, ok := v.(int64)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint64(dst, uint64(x))
	case layout.CodeUInt8:
		x, ok := v.(uint8)
		if !ok {
			return TypeMismatch
		}
		dst[0] = x
	case layout.CodeUInt16:
		x, ok := v.(uint16)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint16(dst, x)
	case layout.CodeUInt32:
		x, ok := v.(uint32)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint32(dst, x)
	case layout.CodeUInt64:
		x, ok := v.(uint64)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint64(dst, x)
	case layout.CodeFloat32:
		x, ok := v.(float32)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
	case layout.CodeFloat64:
		x, ok := v.(float64)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint64(dst, math.Float64bits(x))
	case layout.CodeDateTime:
		x, ok := v.(time.Time)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint64(dst, uint64(toTicks(x)))
	case layout.CodeUnixDateTime:
		x, ok := v.(time.Time)
		if !ok {
			return TypeMismatch
		}
		binary.LittleEndian.PutUint64(dst, uint64(x.UnixMilli()))
	case layout.CodeGuid:
		x, ok := v.(uuid.UUID)
		if !ok {
			return TypeMismatch
		}
		copy(dst, x[:])
	case layout.CodeMongoDbObjectID:
		x, ok := v.(ObjectID)
		if !ok {
			return TypeMismatch
		}
		copy(dst, x[:])
	case layout.CodeDecimal:
		x, ok := v.(Decimal)
		if !ok {
			return TypeMismatch
		}
		copy(dst, x[:])
	case layout.CodeFloat128:
		x, ok := v.(Float128)
		if !ok {
			return TypeMismatch
		}
		copy(dst, x[:])
	default:
		return TypeConstraint
	}
	return nil
}

// getFixed decodes a fixed-size primitive from the front of src.
func getFixed(src []byte, t *layout.Type) (any, error) {
	if len(src) < t.Size() {
		return nil, InvalidRow
	}
	switch t.Code() {
	case layout.CodeInt8:
		return int8(src[0]), nil
	case layout.CodeInt16:
		return int16(binary.LittleEndian.Uint16(src)), nil
	case layout.CodeInt32:
		return int32(binary.LittleEndian.Uint32(src)), nil
	case layout.CodeInt64:
		return int64(binary.LittleEndian.Uint64(src)), nil
	case layout.CodeUInt8:
		return src[0], nil
	case layout.CodeUInt16:
		return binary.LittleEndian.Uint16(src), nil
	case layout.CodeUInt32:
		return binary.LittleEndian.Uint32(src), nil
	case layout.CodeUInt64:
		return binary.LittleEndian.Uint64(src), nil
	case layout.CodeFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(src)), nil
	case layout.CodeFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src)), nil
	case layout.CodeDateTime:
		return fromTicks(int64(binary.LittleEndian.Uint64(src))), nil
	case layout.CodeUnixDateTime:
		return time.UnixMilli(int64(binary.LittleEndian.Uint64(src))).UTC(), nil
	case layout.CodeGuid:
		var x uuid.UUID
		copy(x[:], src)
		return x, nil
	case layout.CodeMongoDbObjectID:
		var x ObjectID
		copy(x[:], src)
		return x, nil
	case layout.CodeDecimal:
		var x Decimal
		copy(x[:], src)
		return x, nil
	case layout.CodeFloat128:
		var x Float128
		copy(x[:], src)
		return x, nil
	default:
		return nil, TypeConstraint
	}
}

// appendValue appends the self-delimiting encoding of v used by variable
// and sparse fields. Bool and null carry no payload.
func appendValue(dst []byte, t *layout.Type, v any) ([]byte, error) {
	switch t.Code() {
	case layout.CodeNull:
		if v != nil {
			return dst, TypeMismatch
		}
		return dst, nil
	case layout.CodeBoolean:
		if _, ok := v.(bool); !ok {
			return dst, TypeMismatch
		}
		return dst, nil
	case layout.CodeVarInt:
		x, ok := v.(int64)
		if !ok {
			return dst, TypeMismatch
		}
		return binary.AppendVarint(dst, x), nil
	case layout.CodeVarUInt:
		x, ok := v.(uint64)
		if !ok {
			return dst, TypeMismatch
		}
		return binary.AppendUvarint(dst, x), nil
	case layout.CodeUtf8:
		x, ok := v.(string)
		if !ok {
			return dst, TypeMismatch
		}
		dst = binary.AppendUvarint(dst, uint64(len(x)))
		return append(dst, x...), nil
	case layout.CodeBinary:
		x, ok := v.([]byte)
		if !ok {
			return dst, TypeMismatch
		}
		dst = binary.AppendUvarint(dst, uint64(len(x)))
		return append(dst, x...), nil
	}

	if !t.IsFixed() {
		return dst, TypeConstraint
	}
	n := len(dst)
	dst = append(dst, make([]byte, t.Size())...)
	if err := putFixed(dst[n:], t, v); err != nil {
		return dst[:n], err
	}
	return dst, nil
}

// readValue is the inverse of appendValue. It returns the value and the
// number of bytes consumed.
func readValue(src []byte, t *layout.Type) (any, int, error) {
	switch t.Code() {
	case layout.CodeNull:
		return nil, 0, nil
	case layout.CodeVarInt:
		x, n := binary.Varint(src)
		if n <= 0 {
			return nil, 0, InvalidRow
		}
		return x, n, nil
	case layout.CodeVarUInt:
		x, n := binary.Uvarint(src)
		if n <= 0 {
			return nil, 0, InvalidRow
		}
		return x, n, nil
	case layout.CodeUtf8, layout.CodeBinary:
		l, n := binary.Uvarint(src)
		if n <= 0 || l > uint64(len(src)-n) {
			return nil, 0, InvalidRow
		}
		data := src[n : n+int(l)]
		if t.Code() == layout.CodeUtf8 {
			return string(data), n + int(l), nil
		}
		return append([]byte(nil), data...), n + int(l), nil
	}

	if !t.IsFixed() {
		return nil, 0, TypeConstraint
	}
	v, err := getFixed(src, t)
	if err != nil {
		return nil, 0, err
	}
	return v, t.Size(), nil
}
