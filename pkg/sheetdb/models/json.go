package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned when JSON input continues past the first value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// MarshalJSON encodes v as a JSON scalar or null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar. Arrays and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	val, err := valueFromToken(tok)
	if err != nil {
		return err
	}
	if err := expectEOF(dec); err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalJSON encodes r as a JSON object with keys in row order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	row, err := decodeRow(dec)
	if err != nil {
		return err
	}
	if err := expectEOF(dec); err != nil {
		return err
	}
	*r = row
	return nil
}

// ParseRow decodes a JSON object into a Row.
func ParseRow(data []byte) (Row, error) {
	var r Row
	err := r.UnmarshalJSON(data)
	return r, err
}

// ParseRows decodes a JSON array of objects into Rows.
func ParseRows(data []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("expected JSON array of objects")
	}
	var rows []Row
	for dec.More() {
		row, err := decodeRow(dec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return rows, nil
}

// expectEOF fails when dec holds anything after the value just decoded.
func expectEOF(dec *json.Decoder) error {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTrailingData, tok)
}

func decodeRow(dec *json.Decoder) (Row, error) {
	var row Row
	tok, err := dec.Token()
	if err != nil {
		return row, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return row, errors.New("expected JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return row, err
		}
		key, ok := tok.(string)
		if !ok {
			return row, fmt.Errorf("unexpected object key %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return row, io.ErrUnexpectedEOF
			}
			return row, err
		}
		val, err := valueFromToken(tok)
		if err != nil {
			return row, fmt.Errorf("column %q: %w", key, err)
		}
		row.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return row, err
	}
	return row, nil
}

func valueFromToken(tok json.Token) (Value, error) {
	switch x := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case json.Delim:
		return Null(), fmt.Errorf("%w: nested %s", ErrUnsupportedValue, x)
	}
	return Null(), fmt.Errorf("%w: %T", ErrUnsupportedValue, tok)
}
