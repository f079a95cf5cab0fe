package ort

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
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
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable ORT value. A nil *Value behaves as null.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string

	arrVal []*Value
	objVal []Entry
}

// Entry is one key/value pair of an object.
type Entry struct {
	Key   string
	Value *Value
}

// Field is shorthand for building an Entry.
func Field(key string, v *Value) Entry {
	return Entry{Key: key, Value: v}
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Number creates a number value.
func Number(f float64) *Value {
	return &Value{kind: KindNumber, numVal: f}
}

// Str creates a string value.
func Str(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// Array creates an array value. Nil elements are stored as null.
func Array(values ...*Value) *Value {
	items := make([]*Value, len(values))
	for i, v := range values {
		if v == nil {
			v = Null()
		}
		items[i] = v
	}
	return &Value{kind: KindArray, arrVal: items}
}

// Object creates an object value. A repeated key replaces the earlier value
// but keeps the position of its first occurrence.
func Object(entries ...Entry) *Value {
	var ob objectBuilder
	for _, e := range entries {
		ob.set(e.Key, e.Value)
	}
	return ob.build()
}

// objectBuilder accumulates entries with unique keys in insertion order.
type objectBuilder struct {
	entries []Entry
	index   map[string]int
}

func (ob *objectBuilder) set(key string, v *Value) {
	if v == nil {
		v = Null()
	}
	if i, ok := ob.index[key]; ok {
		ob.entries[i].Value = v
		return
	}
	if ob.index == nil {
		ob.index = make(map[string]int)
	}
	ob.index[key] = len(ob.entries)
	ob.entries = append(ob.entries, Entry{Key: key, Value: v})
}

func (ob *objectBuilder) build() *Value {
	entries := ob.entries
	if entries == nil {
		entries = []Entry{}
	}
	return &Value{kind: KindObject, objVal: entries}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool   { return v.Kind() == KindNull }
func (v *Value) IsBool() bool   { return v.Kind() == KindBool }
func (v *Value) IsNumber() bool { return v.Kind() == KindNumber }
func (v *Value) IsString() bool { return v.Kind() == KindString }
func (v *Value) IsArray() bool  { return v.Kind() == KindArray }
func (v *Value) IsObject() bool { return v.Kind() == KindObject }

// AsBool returns the boolean and true if v is a bool.
func (v *Value) AsBool() (bool, bool) {
	if !v.IsBool() {
		return false, false
	}
	return v.boolVal, true
}

// AsNumber returns the number and true if v is a number.
func (v *Value) AsNumber() (float64, bool) {
	if !v.IsNumber() {
		return 0, false
	}
	return v.numVal, true
}

// AsString returns the string and true if v is a string.
func (v *Value) AsString() (string, bool) {
	if !v.IsString() {
		return "", false
	}
	return v.strVal, true
}

// AsArray returns a copy of the elements and true if v is an array.
func (v *Value) AsArray() ([]*Value, bool) {
	if !v.IsArray() {
		return nil, false
	}
	out := make([]*Value, len(v.arrVal))
	copy(out, v.arrVal)
	return out, true
}

// AsObject returns a copy of the entries and true if v is an object.
func (v *Value) AsObject() ([]Entry, bool) {
	if !v.IsObject() {
		return nil, false
	}
	out := make([]Entry, len(v.objVal))
	copy(out, v.objVal)
	return out, true
}

// Get returns the value stored under key, or nil if v is not an object or
// has no such key.
func (v *Value) Get(key string) *Value {
	if !v.IsObject() {
		return nil
	}
	for _, e := range v.objVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether v is an object containing key.
func (v *Value) Has(key string) bool {
	if !v.IsObject() {
		return false
	}
	for _, e := range v.objVal {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Index returns the i-th array element, or nil if out of range.
func (v *Value) Index(i int) *Value {
	if !v.IsArray() || i < 0 || i >= len(v.arrVal) {
		return nil
	}
	return v.arrVal[i]
}

// Keys returns the object keys in insertion order, or nil for non-objects.
func (v *Value) Keys() []string {
	if !v.IsObject() {
		return nil
	}
	keys := make([]string, len(v.objVal))
	for i, e := range v.objVal {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the element count of an array or the key count of an object.
func (v *Value) Len() (int, error) {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal), nil
	case KindObject:
		return len(v.objVal), nil
	default:
		return 0, &TypeError{Op: "Len", TypeStr: v.Kind().String(), Err: ErrNoLength}
	}
}

// sortedKeys returns the object keys sorted, for shape comparisons.
func (v *Value) sortedKeys() []string {
	keys := v.Keys()
	sort.Strings(keys)
	return keys
}

// String returns a debug rendering of the value in inline ORT syntax.
func (v *Value) String() string {
	var b strings.Builder
	writeDebug(&b, v)
	return b.String()
}

func writeDebug(b *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(formatNumber(v.numVal))
	case KindString:
		fmt.Fprintf(b, "%q", v.strVal)
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			writeDebug(b, e)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('(')
		for i, e := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.Key)
			b.WriteByte(':')
			writeDebug(b, e.Value)
		}
		b.WriteByte(')')
	}
}
