package acset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing the types an instance cell may
// hold. Only Str, Int, Float, Bool, List, and Obj implement it. There is no
// null value: an absent cell is modeled by omission, and null inside
// attribute payloads is rejected at the boundary so canonical serialization
// stays total.
type Value interface {
	value() // Sealed - only these types implement it
}

// Str is a string cell value.
type Str string

func (Str) value() {}

// Int is an integer cell value. Morphism cells are always Int.
type Int int64

func (Int) value() {}

// Float is a floating-point cell value. Allowed for attribute cells only;
// NaN and infinities are rejected during serialization.
type Float float64

func (Float) value() {}

// Bool is a boolean cell value.
type Bool bool

func (Bool) value() {}

// List is an array cell value.
type List []Value

func (List) value() {}

// Obj is a JSON-object cell value, used for property-bag attributes.
// Use SortedKeys() for deterministic iteration.
type Obj map[string]Value

func (Obj) value() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a DIFFERENT order.
func (o Obj) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering as
// required by RFC 8785. Must use unicode/utf16.Encode for correct surrogate
// handling.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// MarshalJSON implements json.Marshaler for Obj with RFC 8785 key ordering.
// NOTE: this is NOT canonical marshaling - it may HTML-escape. Use
// MarshalCanonical for content-addressed hashing.
func (o Obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		valBytes, err := json.Marshal(o[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Obj.
func (o *Obj) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = make(Obj, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("object key %q: %w", k, err)
		}
		(*o)[k] = val
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for List.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = make(List, len(raw))
	for i, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("array index %d: %w", i, err)
		}
		(*l)[i] = val
	}
	return nil
}

// UnmarshalValue decodes a JSON value into the appropriate Value type.
// JSON null is rejected: absent cells are expressed by omitting the field.
// Integers decode as Int; any other number decodes as Float.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Str(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		return nil, fmt.Errorf("null is not a valid cell value; omit the field instead")

	case '[':
		var l List
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return l, nil

	case '{':
		var o Obj
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, err
		}
		return o, nil

	default:
		// Must be a number. Use json.Number so integers beyond 2^53 do not
		// lose precision through a float64 round trip.
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", string(data))
		}
		return Float(f), nil
	}
}

// FromGo converts a plain Go value (as produced by encoding/json or yaml
// decoding into any) to a Value. Floats that are integral stay Float; use
// UnmarshalValue when integer identity matters.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid cell value")
	case Value:
		return val, nil
	case string:
		return Str(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", val.String())
		}
		return Float(f), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(val), nil
	case bool:
		return Bool(val), nil
	case []any:
		l := make(List, len(val))
		for i, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = cv
		}
		return l, nil
	case map[string]any:
		o := make(Obj, len(val))
		for k, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			o[k] = cv
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported cell value type: %T", v)
	}
}
