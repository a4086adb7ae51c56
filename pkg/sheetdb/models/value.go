// Package models defines the row and value types stored in a sheet.
package models

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedValue is returned when a Go value has no cell representation.
var ErrUnsupportedValue = errors.New("unsupported value type")

// Kind identifies the type held by a Value.
type Kind uint8

const (
	// KindNull is an explicit empty value.
	KindNull Kind = iota
	// KindString holds text.
	KindString
	// KindNumber holds a float64.
	KindNumber
	// KindBool holds a boolean.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single cell value. The zero Value is Null.
// Values are comparable; == and Equal agree.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
}

// Null returns the explicit empty value.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric value from an integer.
func Int(i int) Value { return Number(float64(i)) }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a Go value into a Value.
// Supported inputs are nil, string, bool, the integer and float kinds, and Value itself.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	}
	return Null(), fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// MustValue is like ValueOf but panics on unsupported input.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the explicit empty value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether v is Null or the empty string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && v.s == "")
}

// Str returns the text payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.n, v.kind == KindNumber }

// Boolean returns the boolean payload and whether v is a bool.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports strict equality: same kind and same payload, no coercion.
func (v Value) Equal(o Value) bool { return v == o }

// Interface returns v as a plain Go value: nil, string, float64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "null"
}
