package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/row"
)

// parseValue converts a decoded JSON value into the Go value a column of
// type t stores. Numbers must be decoded with json.Decoder.UseNumber.
func parseValue(t *layout.Type, raw any) (any, error) {
	switch t.Code() {
	case layout.CodeNull:
		if raw != nil {
			return nil, fmt.Errorf("expected null, got %v", raw)
		}
		return nil, nil
	case layout.CodeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return b, nil
	case layout.CodeInt8, layout.CodeInt16, layout.CodeInt32, layout.CodeInt64, layout.CodeVarInt:
		n, err := parseInt(raw, intBits(t))
		if err != nil {
			return nil, err
		}
		switch t.Code() {
		case layout.CodeInt8:
			return int8(n), nil
		case layout.CodeInt16:
			return int16(n), nil
		case layout.CodeInt32:
			return int32(n), nil
		default:
			return n, nil
		}
	case layout.CodeUInt8, layout.CodeUInt16, layout.CodeUInt32, layout.CodeUInt64, layout.CodeVarUInt:
		n, err := parseUint(raw, intBits(t))
		if err != nil {
			return nil, err
		}
		switch t.Code() {
		case layout.CodeUInt8:
			return uint8(n), nil
		case layout.CodeUInt16:
			return uint16(n), nil
		case layout.CodeUInt32:
			return uint32(n), nil
		default:
			return n, nil
		}
	case layout.CodeFloat32, layout.CodeFloat64:
		num, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		bits := 64
		if t.Code() == layout.CodeFloat32 {
			bits = 32
		}
		f, err := strconv.ParseFloat(num.String(), bits)
		if err != nil {
			return nil, err
		}
		if bits == 32 {
			return float32(f), nil
		}
		return f, nil
	}

	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected string for %s, got %T", t, raw)
	}
	switch t.Code() {
	case layout.CodeUtf8:
		return s, nil
	case layout.CodeBinary:
		return base64.StdEncoding.DecodeString(s)
	case layout.CodeDateTime, layout.CodeUnixDateTime:
		return time.Parse(time.RFC3339Nano, s)
	case layout.CodeGuid:
		return uuid.Parse(s)
	case layout.CodeMongoDbObjectID:
		var id row.ObjectID
		if err := decodeHex(id[:], s); err != nil {
			return nil, err
		}
		return id, nil
	case layout.CodeDecimal:
		var d row.Decimal
		if err := decodeHex(d[:], s); err != nil {
			return nil, err
		}
		return d, nil
	case layout.CodeFloat128:
		var f row.Float128
		if err := decodeHex(f[:], s); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", t)
	}
}

// formatValue is the inverse of parseValue for JSON output.
func formatValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case uuid.UUID:
		return x.String()
	case row.ObjectID:
		return hex.EncodeToString(x[:])
	case row.Decimal:
		return hex.EncodeToString(x[:])
	case row.Float128:
		return hex.EncodeToString(x[:])
	default:
		return v
	}
}

func intBits(t *layout.Type) int {
	if t.IsVarint() {
		return 64
	}
	return t.Size() * 8
}

func parseInt(raw any, bits int) (int64, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
	return strconv.ParseInt(num.String(), 10, bits)
}

func parseUint(raw any, bits int) (uint64, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected unsigned integer, got %T", raw)
	}
	return strconv.ParseUint(num.String(), 10, bits)
}

func decodeHex(dst []byte, s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("expected %d hex bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}
