package models

import "strings"

// Field is one column/value pair of a Row.
type Field struct {
	Name  string
	Value Value
}

// F builds a Field from a Go value. It panics on unsupported value types,
// so it is meant for literals.
func F(name string, v any) Field {
	return Field{Name: name, Value: MustValue(v)}
}

// Row is an ordered mapping from column name to Value.
// The column set may differ between rows. A key may be present with a
// Null value, which is distinct from the key being absent.
// The zero Row is empty and ready to use.
type Row struct {
	keys []string
	vals map[string]Value
}

// NewRow builds a Row from fields in the given order.
// A repeated name overwrites the earlier value in place.
func NewRow(fields ...Field) Row {
	var r Row
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Len returns the number of columns present in r.
func (r Row) Len() int { return len(r.keys) }

// Keys returns the column names in insertion order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the value stored under key and whether the key is present.
func (r Row) Get(key string) (Value, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Value returns the value under key, or Null if the key is absent.
func (r Row) Value(key string) Value {
	return r.vals[key]
}

// Has reports whether key is present.
func (r Row) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (r *Row) Set(key string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Delete removes key from r. Removing an absent key is a no-op.
func (r *Row) Delete(key string) {
	if _, ok := r.vals[key]; !ok {
		return
	}
	delete(r.vals, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Fields returns the column/value pairs in order.
func (r Row) Fields() []Field {
	out := make([]Field, len(r.keys))
	for i, k := range r.keys {
		out[i] = Field{Name: k, Value: r.vals[k]}
	}
	return out
}

// Clone returns an independent copy of r.
func (r Row) Clone() Row {
	if len(r.keys) == 0 {
		return Row{}
	}
	c := Row{
		keys: append([]string(nil), r.keys...),
		vals: make(map[string]Value, len(r.vals)),
	}
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

// Merge returns a copy of r with every field of other applied on top.
// Keys of other override, new keys are appended in other's order.
func (r Row) Merge(other Row) Row {
	out := r.Clone()
	for _, k := range other.keys {
		out.Set(k, other.vals[k])
	}
	return out
}

// Without returns a copy of r that excludes key, keeping the order of the rest.
func (r Row) Without(key string) Row {
	out := r.Clone()
	out.Delete(key)
	return out
}

// Matches reports whether every key of query is present in r with a
// strictly equal value. An empty query matches every row.
func (r Row) Matches(query Row) bool {
	for _, k := range query.keys {
		v, ok := r.vals[k]
		if !ok || v != query.vals[k] {
			return false
		}
	}
	return true
}

// Equal reports whether r and o hold the same keys in the same order with equal values.
func (r Row) Equal(o Row) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || r.vals[k] != o.vals[k] {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(r.vals[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

// Columns returns the union of keys across rows in first-seen order.
func Columns(rows []Row) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range rows {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// CloneRows copies every row of rows.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
