package entity

import (
	"encoding/json"
	"fmt"
)

// Value is a sealed interface over the JSON value kinds.
// Only Null, Bool, Number, String, Array, and *Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
// Using an explicit type keeps every stored value a non-nil Value.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) value() {}

// Number represents a JSON number. All numbers are float64, matching
// what a JSON document can express.
type Number float64

func (Number) value() {}

// String represents a JSON string.
type String string

func (String) value() {}

// Array represents a JSON array.
type Array []Value

func (Array) value() {}

// Marshal serializes any Value to JSON bytes.
// Objects serialize their keys in insertion order.
func Marshal(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(bool(val))
	case Number:
		return json.Marshal(float64(val))
	case String:
		return json.Marshal(string(val))
	case Array:
		return marshalArray(val)
	case *Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

func marshalArray(arr Array) ([]byte, error) {
	buf := []byte{'['}
	for i, elem := range arr {
		if i > 0 {
			buf = append(buf, ',')
		}
		b, err := Marshal(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf = append(buf, b...)
	}
	return append(buf, ']'), nil
}

// Clone returns a deep copy of v. Scalars are returned as-is; arrays and
// objects are copied recursively so mutations never alias stored data.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case *Object:
		return val.Clone()
	default:
		return v
	}
}

// Equal reports deep equality of two values.
// Numbers compare by float64 value, objects by keys and values
// (key order is ignored for equality).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		_, bn := b.(Null)
		return b == nil || bn
	case Null:
		_, bn := b.(Null)
		return b == nil || bn
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			other, present := bv.Get(k)
			if !present || !Equal(av.fields[k], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
