package cmd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/row"
)

func TestParseValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	born := time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		typ     *layout.Type
		raw     any
		want    any
		wantErr bool
	}{
		{"null", layout.Null, nil, nil, false},
		{"bool", layout.Boolean, true, true, false},
		{"int8", layout.Int8, json.Number("-5"), int8(-5), false},
		{"int8 overflow", layout.Int8, json.Number("300"), nil, true},
		{"int16", layout.Int16, json.Number("1000"), int16(1000), false},
		{"int32", layout.Int32, json.Number("70000"), int32(70000), false},
		{"int64", layout.Int64, json.Number("9007199254740993"), int64(9007199254740993), false},
		{"varint", layout.VarInt, json.Number("-1"), int64(-1), false},
		{"uint8", layout.UInt8, json.Number("255"), uint8(255), false},
		{"uint8 negative", layout.UInt8, json.Number("-1"), nil, true},
		{"uint32", layout.UInt32, json.Number("4000000000"), uint32(4000000000), false},
		{"varuint", layout.VarUInt, json.Number("18446744073709551615"), uint64(18446744073709551615), false},
		{"float32", layout.Float32, json.Number("1.5"), float32(1.5), false},
		{"float64", layout.Float64, json.Number("2.25"), 2.25, false},
		{"utf8", layout.Utf8, "hello", "hello", false},
		{"binary", layout.Binary, "AQID", []byte{1, 2, 3}, false},
		{"datetime", layout.DateTime, "1815-12-10T00:00:00Z", born, false},
		{"guid", layout.Guid, id.String(), id, false},
		{"objectid", layout.MongoDbObjectID, "0102030405060708090a0b0c", row.ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, false},
		{"objectid short", layout.MongoDbObjectID, "0102", nil, true},
		{"bool from string", layout.Boolean, "true", nil, true},
		{"int from string", layout.Int32, "1", nil, true},
		{"utf8 from number", layout.Utf8, json.Number("1"), nil, true},
		{"scope", layout.Object, "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.typ, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	assert.Equal(t, "AQID", formatValue([]byte{1, 2, 3}))
	assert.Equal(t, "1815-12-10T00:00:00Z", formatValue(time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, id.String(), formatValue(id))
	assert.Equal(t, "0102030405060708090a0b0c", formatValue(row.ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
	assert.Equal(t, int32(7), formatValue(int32(7)))
}
