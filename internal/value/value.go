// Package value defines the closed set of values a filter field can hold.
//
// A nil Value means the field is undefined. Null is an explicit, cleared value.
package value

import (
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Kind identifies the concrete shape of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "undefined"
	}
}

// Value is one of Null, Bool, Number, String, Date, Array or Object.
type Value interface {
	Kind() Kind
	sealed()
}

type (
	Null   struct{}
	Bool   bool
	Number float64
	String string
	Array  []Value
	Object map[string]Value
)

// Date wraps a point in time.
type Date struct {
	time.Time
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Date) Kind() Kind   { return KindDate }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (Null) sealed()   {}
func (Bool) sealed()   {}
func (Number) sealed() {}
func (String) sealed() {}
func (Date) sealed()   {}
func (Array) sealed()  {}
func (Object) sealed() {}

// KindOf returns the kind of v, KindUndefined for nil.
func KindOf(v Value) Kind {
	if v == nil {
		return KindUndefined
	}
	return v.Kind()
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// Range builds the {from, to} object used by date-range filters.
func Range(from, to time.Time) Object {
	return Object{"from": NewDate(from), "to": NewDate(to)}
}

// IDs builds an array of {id: n} references, the shape asset pickers produce.
func IDs(ids ...int) Array {
	out := make(Array, 0, len(ids))
	for _, id := range ids {
		out = append(out, Object{"id": Number(id)})
	}
	return out
}

// Strings builds an array of strings.
func Strings(ss ...string) Array {
	out := make(Array, 0, len(ss))
	for _, s := range ss {
		out = append(out, String(s))
	}
	return out
}

// Of converts a native Go value into a Value. It panics on types that have no
// filter representation.
func Of(x any) Value {
	switch v := x.(type) {
	case nil:
		return nil
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case time.Time:
		return NewDate(v)
	case []Value:
		return Array(v)
	case map[string]Value:
		return Object(v)
	case []any:
		out := make(Array, 0, len(v))
		for _, e := range v {
			out = append(out, Of(e))
		}
		return out
	case map[string]any:
		out := make(Object, len(v))
		for k, e := range v {
			out[k] = Of(e)
		}
		return out
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		out := make(Array, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, Of(rv.Index(i).Interface()))
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Of(iter.Value().Interface())
		}
		return out
	}
	panic(fmt.Sprintf("value: unsupported type %T", x))
}

// Interface converts v back into plain Go values: bool, float64, string,
// time.Time, []any and map[string]any. Null and undefined both become nil.
func Interface(v Value) any {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Date:
		return v.Time
	case Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Interface(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Interface(e)
		}
		return out
	default:
		return nil
	}
}

// Equal reports structural equality. Dates compare by instant.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch av := a.(type) {
	case nil, Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Date:
		return av.Equal(b.(Date).Time)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for k, ae := range av {
			be, ok := bv[k]
			if !ok || !Equal(ae, be) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v. Scalars are immutable and returned as is.
func Clone(v Value) Value {
	switch v := v.(type) {
	case Array:
		if v == nil {
			return Array(nil)
		}
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = Clone(e)
		}
		return out
	case Object:
		if v == nil {
			return Object(nil)
		}
		out := make(Object, len(v))
		for k, e := range v {
			out[k] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Keys returns the object's keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
