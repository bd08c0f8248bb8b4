// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// Kind classifies the JSON document held by a Value.
type Kind int

const (
	// Absent is the zero Kind: no document at all, e.g. a Get miss without a
	// default.
	Absent Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "absent"
	}
}

// ErrAbsent is returned when decoding a Value that holds no document.
var ErrAbsent = errors.New("value is absent")

// Value is an immutable JSON document as stored in the value column. The zero
// Value is Absent.
type Value struct {
	raw []byte
}

var nullValue = Value{raw: []byte("null")}

// ValueOf encodes v as JSON. Values and json.RawMessage are taken as they are
// (after validation); an Absent Value encodes as null.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if x.IsAbsent() {
			return nullValue, nil
		}
		return x, nil
	case *Value:
		if x == nil || x.IsAbsent() {
			return nullValue, nil
		}
		return *x, nil
	case json.RawMessage:
		return ParseValue(string(x))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("encode value: %w", err)
	}
	return Value{raw: b}, nil
}

// MustValue is ValueOf for values known to be encodable. It panics otherwise.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ParseValue validates JSON text and returns it as a compacted Value. The text
// must be valid UTF-8.
func ParseValue(text string) (Value, error) {
	if !utf8.ValidString(text) {
		return Value{}, errors.New("invalid JSON: not valid UTF-8")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if buf.Len() == 0 {
		return Value{}, errors.New("invalid JSON: empty document")
	}
	return Value{raw: buf.Bytes()}, nil
}

// Kind reports the type of the document.
func (v Value) Kind() Kind {
	if len(v.raw) == 0 {
		return Absent
	}
	switch v.raw[0] {
	case 'n':
		return Null
	case 't', 'f':
		return Bool
	case '"':
		return String
	case '[':
		return Array
	case '{':
		return Object
	default:
		return Number
	}
}

// IsAbsent reports whether v holds no document.
func (v Value) IsAbsent() bool { return len(v.raw) == 0 }

// String returns the JSON text, or "" when absent.
func (v Value) String() string { return string(v.raw) }

// Raw returns a copy of the JSON text.
func (v Value) Raw() json.RawMessage {
	if v.IsAbsent() {
		return nil
	}
	return append(json.RawMessage(nil), v.raw...)
}

// Decode unmarshals the document into dst.
func (v Value) Decode(dst any) error {
	if v.IsAbsent() {
		return ErrAbsent
	}
	return json.Unmarshal(v.raw, dst)
}

// Interface decodes the document into plain Go values. Numbers are kept as
// json.Number so they survive without float rounding. An Absent Value yields
// nil.
func (v Value) Interface() (any, error) {
	if v.IsAbsent() {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Array returns the elements of an array document. Any other kind yields an
// error wrapping ErrNotArray.
func (v Value) Array() ([]Value, error) {
	if k := v.Kind(); k != Array {
		return nil, fmt.Errorf("%w (holds %s)", ErrNotArray, k)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v.raw, &elems); err != nil {
		return nil, err
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = Value{raw: e}
	}
	return out, nil
}

// Equal reports whether both documents are the same JSON value. Object key
// order, insignificant whitespace and the spelling of numbers (1, 1.0, 1e0)
// are ignored.
func (v Value) Equal(other Value) bool {
	if v.IsAbsent() || other.IsAbsent() {
		return v.IsAbsent() == other.IsAbsent()
	}
	if bytes.Equal(v.raw, other.raw) {
		return true
	}
	a, errA := v.canonical()
	b, errB := other.canonical()
	return errA == nil && errB == nil && a == b
}

// canonical re-encodes the document with one spelling per number;
// encoding/json sorts object keys.
func (v Value) canonical() (string, error) {
	x, err := v.Interface()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(normalizeNumbers(x))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// numberPrecision is the mantissa size, in bits, numbers are compared at.
const numberPrecision = 256

// normalizeNumbers rewrites every json.Number in x to the shortest decimal
// form of its value.
func normalizeNumbers(x any) any {
	switch t := x.(type) {
	case json.Number:
		f, _, err := big.ParseFloat(string(t), 10, numberPrecision, big.ToNearestEven)
		if err != nil {
			return t
		}
		if f.Sign() == 0 {
			return json.Number("0")
		}
		return json.Number(f.Text('g', -1))
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
	}
	return x
}

// MarshalJSON implements json.Marshaler. Absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsAbsent() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func arrayOf(items []Value) Value {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if it.IsAbsent() {
			buf.WriteString("null")
			continue
		}
		buf.Write(it.raw)
	}
	buf.WriteByte(']')
	return Value{raw: buf.Bytes()}
}

// uniqueValues keeps the first occurrence of every distinct element.
func uniqueValues(items []Value) []Value {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		k, err := it.canonical()
		if err != nil {
			k = it.String()
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Entry is a key and its decoded value.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value Value  `json:"value" yaml:"value"`
}
