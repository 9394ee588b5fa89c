package codec

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetyard/fleetdash/internal/value"
)

func TestEncodeTagsDates(t *testing.T) {
	at := time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)

	got := EncodeValue(value.Object{"from": value.NewDate(at)})

	assert.Equal(t, map[string]any{
		"from": map[string]any{"_type": "date", "value": "2024-02-29T13:45:00Z"},
	}, got)
}

func TestEncodePassesThrough(t *testing.T) {
	assert.Nil(t, EncodeValue(nil))
	assert.Nil(t, EncodeValue(value.Null{}))
	assert.Equal(t, 7.0, EncodeValue(value.Number(7)))
	assert.Equal(t, "AK", EncodeValue(value.String("AK")))
	assert.Equal(t, false, EncodeValue(value.Bool(false)))
	assert.Equal(t, map[string]any{"a": 1.0}, EncodeValue(value.Object{"a": value.Number(1), "gone": nil}))
}

func TestDecodeLeavesLookalikes(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"extra key", map[string]any{"_type": "date", "value": "2024-01-01T00:00:00Z", "x": 1.0}},
		{"other tag", map[string]any{"_type": "money", "value": "2024-01-01T00:00:00Z"}},
		{"value not a string", map[string]any{"_type": "date", "value": 12.0}},
		{"unparsable", map[string]any{"_type": "date", "value": "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeValue(tt.raw)
			assert.Equal(t, value.KindObject, value.KindOf(got))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	from := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.FixedZone("AKST", -9*3600))
	to := from.AddDate(0, 0, 30)

	sets := []value.Value{
		value.Number(28),
		value.Strings("LOADED", "EMPTY"),
		value.Object{
			"asset":       value.Object{"ids": value.IDs(7, 8), "types": value.Array{}},
			"location":    value.Object{"zipCode": value.String("99501"), "geofence": value.Null{}},
			"operational": value.Object{"lastReported": value.Number(7), "range": value.Range(from, to)},
			"nested":      value.Array{value.Array{value.NewDate(from)}, value.Object{"inner": value.Range(to, to)}},
			"flags":       value.Object{"inMotion": value.Bool(false)},
		},
	}

	var c Codec = JSON{}
	for _, v := range sets {
		assert.True(t, value.Equal(v, DecodeValue(EncodeValue(v))), "tree round trip of %v", v)

		data, err := c.Encode(v)
		require.NoError(t, err)
		back, err := c.Decode(data)
		require.NoError(t, err)
		assert.True(t, value.Equal(v, back), "byte round trip of %s", data)
	}
}

func TestJSONDecodeRejectsGarbage(t *testing.T) {
	_, err := JSON{}.Decode([]byte("{not json"))
	assert.Error(t, err)
	assert.Equal(t, "json", JSON{}.Name())
}

func TestDecodeJSONNumber(t *testing.T) {
	var raw any
	dec := json.NewDecoder(strings.NewReader(`{"n": 12.5}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	assert.Equal(t, value.Object{"n": value.Number(12.5)}, DecodeValue(raw))
}
