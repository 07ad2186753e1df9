package docfill

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ValueKind is the tag of a Field Map value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	}
	return "null"
}

// Value is a scalar Field Map value: a string, a number, or null.
// The zero Value is null.
type Value struct {
	kind ValueKind
	text string // string content, or canonical number literal
}

// Null is the explicit null value. Markers mapped to Null keep their text.
var Null = Value{}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// IntValue wraps an integer.
func IntValue(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

// FloatValue wraps a float. NaN and infinities have no canonical form and are rejected.
func FloatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: non-finite number %v", ErrInvalidFieldMap, f)
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}, nil
}

// NumberValue wraps a JSON number literal, normalizing it to canonical form
// ("1e3" → "1000", "20240101" → "20240101"). Integer literals keep every digit
// regardless of magnitude.
func NumberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return IntValue(i), nil
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		b, ok := new(big.Int).SetString(n.String(), 10)
		if !ok {
			return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidFieldMap, n.String())
		}
		return Value{kind: KindNumber, text: b.String()}, nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidFieldMap, n.String())
	}
	return FloatValue(f)
}

// ValueOf converts a Go scalar into a Value. Supported: nil, string, json.Number,
// signed/unsigned integers and floats. Anything else is ErrInvalidFieldMap.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case json.Number:
		return NumberValue(x)
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(x), 10)}, nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return Value{kind: KindNumber, text: strconv.FormatUint(x, 10)}, nil
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	}
	return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidFieldMap, v)
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String returns the text written into a cell. Null renders as "".
func (v Value) String() string { return v.text }

// MarshalJSON encodes strings as JSON strings, numbers as literals, null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON string, number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFieldMap, err)
	}
	if _, ok := raw.(bool); ok {
		return fmt.Errorf("%w: boolean values are not supported", ErrInvalidFieldMap)
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FieldMap maps marker names to values. Keys match cell text exactly.
type FieldMap map[string]Value

// ParseFieldMap decodes a JSON object of scalars into a FieldMap.
// Non-object documents, nested values, booleans and trailing data are ErrInvalidFieldMap.
func ParseFieldMap(data []byte) (FieldMap, error) {
	return DecodeFieldMap(bytes.NewReader(data))
}

// DecodeFieldMap reads a single JSON object from r.
func DecodeFieldMap(r io.Reader) (FieldMap, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidFieldMap)
		}
		return nil, fmt.Errorf("%w: invalid JSON format: %v", ErrInvalidFieldMap, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidFieldMap)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: JSON input must be an object, got %s", ErrInvalidFieldMap, jsonKind(raw))
	}

	fields := make(FieldMap, len(obj))
	for key, rv := range obj {
		switch rv.(type) {
		case bool, map[string]any, []any:
			return nil, fmt.Errorf("%w: value for %q must be a string, number or null, got %s",
				ErrInvalidFieldMap, key, jsonKind(rv))
		}
		v, err := ValueOf(rv)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		fields[key] = v
	}
	return fields, nil
}

// FieldMapOf converts a map of Go scalars into a FieldMap.
func FieldMapOf(values map[string]any) (FieldMap, error) {
	fields := make(FieldMap, len(values))
	for key, raw := range values {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		fields[key] = v
	}
	return fields, nil
}

// Lookup returns the value mapped to key and whether the key is present.
func (m FieldMap) Lookup(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the map's keys in sorted order.
func (m FieldMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new FieldMap holding m's entries overlaid with override's.
func (m FieldMap) Merge(override FieldMap) FieldMap {
	out := make(FieldMap, len(m)+len(override))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
