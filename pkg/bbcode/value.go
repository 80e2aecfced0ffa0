package bbcode

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Value is a parameter value: StringValue, NumberValue, BoolValue, ListValue
// or Null.
type Value interface {
	// String returns the text emitted for the value by a [var] tag.
	String() string
	// Truthy reports whether [cond] treats the value as set.
	Truthy() bool
	value()
}

// StringValue is a text parameter. Empty strings are falsy.
type StringValue string

func (v StringValue) value()         {}
func (v StringValue) String() string { return string(v) }
func (v StringValue) Truthy() bool   { return v != "" }

// NumberValue is a numeric parameter. Zero and NaN are falsy.
type NumberValue float64

func (v NumberValue) value() {}

func (v NumberValue) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func (v NumberValue) Truthy() bool {
	f := float64(v)
	return f != 0 && !math.IsNaN(f)
}

// BoolValue is a boolean parameter.
type BoolValue bool

func (v BoolValue) value()         {}
func (v BoolValue) String() string { return strconv.FormatBool(bool(v)) }
func (v BoolValue) Truthy() bool   { return bool(v) }

// ListValue is a sequence of records iterated by [foreach]. A list is truthy
// even when empty.
type ListValue []Params

func (v ListValue) value()         {}
func (v ListValue) String() string { return "" }
func (v ListValue) Truthy() bool   { return true }

type nullValue struct{}

func (nullValue) value()         {}
func (nullValue) String() string { return "" }
func (nullValue) Truthy() bool   { return false }

// Null is the absent value.
var Null Value = nullValue{}

// Params is the environment consulted by var, foreach and cond. Renderers
// never modify it.
type Params map[string]Value

// NewParams converts loosely typed data, as produced by encoding/json or
// yaml.v3, into Params.
func NewParams(data map[string]interface{}) Params {
	params := make(Params, len(data))
	for k, v := range data {
		params[k] = ValueOf(v)
	}
	return params
}

// Lookup returns the value for key, or Null when it is missing.
func (p Params) Lookup(key string) Value {
	if v, ok := p[key]; ok && v != nil {
		return v
	}
	return Null
}

// Overlay returns a new Params holding p with record's keys on top. Neither
// input is modified.
func (p Params) Overlay(record Params) Params {
	merged := make(Params, len(p)+len(record))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range record {
		merged[k] = v
	}
	return merged
}

// UnmarshalJSON decodes a JSON object into Params.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NewParams(raw)
	return nil
}

// ValueOf converts a Go value into a Value. Slices become lists, with map
// elements converted to records and other elements to empty records. Maps
// outside a list have no Value form and become Null.
func ValueOf(v interface{}) Value {
	if v == nil {
		return Null
	}

	switch val := v.(type) {
	case Value:
		return val
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case int:
		return NumberValue(val)
	case int8:
		return NumberValue(val)
	case int16:
		return NumberValue(val)
	case int32:
		return NumberValue(val)
	case int64:
		return NumberValue(val)
	case uint:
		return NumberValue(val)
	case uint8:
		return NumberValue(val)
	case uint16:
		return NumberValue(val)
	case uint32:
		return NumberValue(val)
	case uint64:
		return NumberValue(val)
	case float32:
		return NumberValue(val)
	case float64:
		return NumberValue(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NumberValue(f)
		}
		return StringValue(val.String())
	case []Params:
		return ListValue(val)
	case []map[string]interface{}:
		list := make(ListValue, len(val))
		for i, item := range val {
			list[i] = NewParams(item)
		}
		return list
	case []interface{}:
		list := make(ListValue, len(val))
		for i, item := range val {
			list[i] = recordOf(item)
		}
		return list
	case map[string]interface{}, Params:
		return Null
	case fmt.Stringer:
		return StringValue(val.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make(ListValue, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list[i] = recordOf(rv.Index(i).Interface())
		}
		return list
	case reflect.Map:
		return Null
	case reflect.Pointer:
		if rv.IsNil() {
			return Null
		}
		return ValueOf(rv.Elem().Interface())
	}
	return StringValue(fmt.Sprint(v))
}

// recordOf converts a list element into a record.
func recordOf(item interface{}) Params {
	switch rec := item.(type) {
	case Params:
		return rec
	case map[string]interface{}:
		return NewParams(rec)
	case map[string]string:
		params := make(Params, len(rec))
		for k, v := range rec {
			params[k] = StringValue(v)
		}
		return params
	default:
		return Params{}
	}
}
