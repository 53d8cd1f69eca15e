package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "null"
	}
}

// Value is a node of the content tree: a scalar, null, an ordered mapping or
// an ordered sequence. The zero Value is null.
type Value struct {
	kind    Kind
	scalar  any
	mapping *Mapping
	items   []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s as a scalar.
func String(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Bool wraps b as a scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: b} }

// Number wraps a numeric literal as a scalar.
func Number(n json.Number) Value { return Value{kind: KindScalar, scalar: n} }

// Int wraps i as a numeric scalar.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// Float wraps f as a numeric scalar.
func Float(f float64) Value {
	return Number(json.Number(strconv.FormatFloat(f, 'f', -1, 64)))
}

// Sequence builds a sequence value from items.
func Sequence(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindSequence, items: out}
}

// Strings builds a sequence of string scalars.
func Strings(items ...string) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = String(item)
	}
	return Value{kind: KindSequence, items: out}
}

// FromMapping wraps m. The mapping is not copied.
func FromMapping(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapping: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Mapping returns the underlying mapping when v is a mapping.
func (v Value) Mapping() (*Mapping, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.mapping, true
}

// Items returns the elements of a sequence, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Len reports the number of entries of a mapping or elements of a sequence.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return v.mapping.Len()
	case KindSequence:
		return len(v.items)
	default:
		return 0
	}
}

// Scalar returns the raw scalar (string, bool or json.Number).
func (v Value) Scalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// Text renders a leaf as text. Null renders empty. The second result is false
// for mappings and sequences.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindNull:
		return "", true
	case KindScalar:
		return formatScalar(v.scalar), true
	default:
		return "", false
	}
}

// Get returns the child stored under key when v is a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	return v.mapping.Get(key)
}

// Clone returns a deep copy of v. Key order is preserved.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMapping:
		return Value{kind: KindMapping, mapping: v.mapping.Clone()}
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Clone()
		}
		return Value{kind: KindSequence, items: items}
	default:
		return v
	}
}

// Interface converts v into the generic JSON shapes produced by
// encoding/json: map[string]any, []any, string, bool, json.Number and nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindMapping:
		out := make(map[string]any, v.mapping.Len())
		for _, key := range v.mapping.Keys() {
			child, _ := v.mapping.Get(key)
			out[key] = child.Interface()
		}
		return out
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality including mapping key order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return v.scalar == other.scalar
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		left, right := v.mapping.Keys(), other.mapping.Keys()
		if len(left) != len(right) {
			return false
		}
		for i, key := range left {
			if right[i] != key {
				return false
			}
			a, _ := v.mapping.Get(key)
			b, _ := other.mapping.Get(key)
			if !a.Equal(b) {
				return false
			}
		}
		return true
	}
}

func formatScalar(raw any) string {
	switch typed := raw.(type) {
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case json.Number:
		return formatNumber(typed)
	default:
		return ""
	}
}

// formatNumber prints integers verbatim and normalizes other literals the way
// a float is printed in decimal notation.
func formatNumber(n json.Number) string {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		return text
	}
	f, err := n.Float64()
	if err != nil {
		return text
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Mapping is a string keyed map that remembers insertion order.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func NewMapping() *Mapping {
	return &Mapping{values: map[string]Value{}}
}

// Set stores value under key. An existing key keeps its position.
func (m *Mapping) Set(key string, value Value) {
	if m.values == nil {
		m.values = map[string]Value{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	value, ok := m.values[key]
	return value, ok
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone deep copies the mapping.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	out.keys = make([]string, len(m.keys))
	copy(out.keys, m.keys)
	for key, value := range m.values {
		out.values[key] = value.Clone()
	}
	return out
}
