// Package codec converts filter values to and from a JSON-safe tree.
//
// JSON has no date type, so dates are tagged as {"_type":"date","value":<ISO-8601>}
// on the way out and rehydrated on the way in.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	typeKey  = "_type"
	valueKey = "value"
	dateTag  = "date"
)

// Codec turns values into bytes and back.
type Codec interface {
	Encode(v value.Value) ([]byte, error)
	Decode(data []byte) (value.Value, error)
	Name() string
}

// EncodeValue returns a tree of maps, slices and scalars that encoding/json can
// marshal without losing dates. Undefined object members are dropped, as JSON
// would drop them.
func EncodeValue(v value.Value) any {
	switch v := v.(type) {
	case nil, value.Null:
		return nil
	case value.Bool:
		return bool(v)
	case value.Number:
		return float64(v)
	case value.String:
		return string(v)
	case value.Date:
		return map[string]any{typeKey: dateTag, valueKey: v.UTC().Format(time.RFC3339Nano)}
	case value.Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = EncodeValue(e)
		}
		return out
	case value.Object:
		out := make(map[string]any, len(v))
		for k, e := range v {
			if e == nil {
				continue
			}
			out[k] = EncodeValue(e)
		}
		return out
	}
	panic(fmt.Sprintf("codec: unhandled value kind %s", v.Kind()))
}

// DecodeValue is the inverse of EncodeValue. It accepts what json.Unmarshal
// produces for an `any` target; JSON null (and a top-level undefined) comes
// back as value.Null. Unknown scalar types are treated as null.
func DecodeValue(raw any) value.Value {
	switch r := raw.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Bool(r)
	case float64:
		return value.Number(r)
	case json.Number:
		f, err := r.Float64()
		if err != nil {
			return value.String(r.String())
		}
		return value.Number(f)
	case string:
		return value.String(r)
	case []any:
		out := make(value.Array, len(r))
		for i, e := range r {
			out[i] = DecodeValue(e)
		}
		return out
	case map[string]any:
		if d, ok := taggedDate(r); ok {
			return d
		}
		out := make(value.Object, len(r))
		for k, e := range r {
			out[k] = DecodeValue(e)
		}
		return out
	case time.Time:
		return value.NewDate(r)
	}
	return value.Null{}
}

func taggedDate(m map[string]any) (value.Date, bool) {
	if len(m) != 2 || m[typeKey] != dateTag {
		return value.Date{}, false
	}
	s, ok := m[valueKey].(string)
	if !ok {
		return value.Date{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return value.Date{}, false
	}
	return value.NewDate(t), true
}

// JSON is the Codec for standalone values, such as a single field printed by
// the admin CLI.
type JSON struct{}

// Name returns the codec identifier.
func (JSON) Name() string { return "json" }

// Encode marshals v with dates tagged.
func (JSON) Encode(v value.Value) ([]byte, error) {
	data, err := json.Marshal(EncodeValue(v))
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// Decode unmarshals data and rehydrates tagged dates.
func (JSON) Decode(data []byte) (value.Value, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return DecodeValue(raw), nil
}
