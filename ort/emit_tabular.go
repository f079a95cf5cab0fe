package ort

import (
	"sort"
	"strings"
)

// ============================================================
// Tabular Sections
// ============================================================
//
// A uniform object array is written as a header naming the fields, then one
// comma-separated row per element:
//
//   rows:id,name,addr(city,zip):
//   1,Ada,(London,N1)
//   2,Bob,(Paris,75001)
//
// The header is derived from the first element only. A field whose first
// value is a non-empty object becomes a nested descriptor and its cells are
// positional tuples.

// IsUniformObjectArray reports whether items is non-empty and every element
// is an object with the same sorted key set as the first.
func IsUniformObjectArray(items []*Value) bool {
	if len(items) == 0 || !items[0].IsObject() {
		return false
	}

	first := strings.Join(items[0].sortedKeys(), "\x00")
	for _, item := range items[1:] {
		if !item.IsObject() || len(item.objVal) != len(items[0].objVal) {
			return false
		}
		if strings.Join(item.sortedKeys(), "\x00") != first {
			return false
		}
	}
	return true
}

// HeaderFields derives field descriptors from one object: non-empty object
// values recurse into nested descriptors, everything else is a leaf.
func HeaderFields(obj *Value) []FieldDescriptor {
	entries, ok := obj.AsObject()
	if !ok {
		return nil
	}
	fields := make([]FieldDescriptor, len(entries))
	for i, entry := range entries {
		fields[i] = FieldDescriptor{Name: entry.Key}
		if n, _ := entry.Value.Len(); entry.Value.IsObject() && n > 0 {
			fields[i].Nested = HeaderFields(entry.Value)
		}
	}
	return fields
}

// tabular decides whether items can be written as a table and renders the
// rows if so. It declines when tabular mode is off, the array is not
// uniform, or some row cannot be represented losslessly under the header
// taken from the first element.
func (e *emitter) tabular(items []*Value) ([]FieldDescriptor, []string, bool) {
	if !e.opts.Tabular || !IsUniformObjectArray(items) {
		return nil, nil, false
	}

	fields := HeaderFields(items[0])
	if len(fields) == 0 || !namedFields(fields) {
		return nil, nil, false
	}

	rows := make([]string, len(items))
	for i, item := range items {
		row, ok := e.renderTuple(item, fields, 1)
		if !ok || strings.TrimSpace(row) == "" {
			return nil, nil, false
		}
		rows[i] = row
	}
	if e.err != nil {
		return nil, nil, false
	}
	return fields, rows, true
}

// namedFields reports whether every descriptor has a name; the header
// syntax cannot express an empty field name.
func namedFields(fields []FieldDescriptor) bool {
	for _, f := range fields {
		if f.Name == "" || !namedFields(f.Nested) {
			return false
		}
	}
	return true
}

// renderTuple renders obj positionally over fields, comma-joined.
func (e *emitter) renderTuple(obj *Value, fields []FieldDescriptor, depth int) (string, bool) {
	if e.tooDeep(depth) {
		return "", false
	}

	cells := make([]string, len(fields))
	for i, f := range fields {
		cell, ok := e.renderCell(f, obj.Get(f.Name), depth)
		if !ok {
			return "", false
		}
		cells[i] = cell
	}
	return strings.Join(cells, ","), true
}

// renderCell renders one cell for field f. Leaf cells are inline values;
// nested cells are "", "()" or a parenthesized tuple.
func (e *emitter) renderCell(f FieldDescriptor, v *Value, depth int) (string, bool) {
	if !f.IsNested() {
		return e.inlineString(v, depth), true
	}

	switch v.Kind() {
	case KindNull:
		return "", true
	case KindObject:
		if len(v.objVal) == 0 {
			return "()", true
		}
		if !sameKeys(v, f.Nested) {
			return "", false
		}
		inner, ok := e.renderTuple(v, f.Nested, depth+1)
		if !ok || inner == "" {
			// "()" would read back as an empty object
			return "", false
		}
		return "(" + inner + ")", true
	default:
		return "", false
	}
}

// sameKeys reports whether obj's key set equals the descriptor names.
func sameKeys(obj *Value, fields []FieldDescriptor) bool {
	if len(obj.objVal) != len(fields) {
		return false
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	sort.Strings(names)
	keys := obj.sortedKeys()
	for i := range keys {
		if keys[i] != names[i] {
			return false
		}
	}
	return true
}

// writeTable writes the header line and the pre-rendered rows. key is
// already escaped; an empty key writes an anonymous header.
func (e *emitter) writeTable(key string, fields []FieldDescriptor, rows []string) {
	e.sb.WriteString(key)
	e.sb.WriteByte(':')
	writeFieldList(&e.sb, fields)
	e.sb.WriteString(":\n")
	for _, row := range rows {
		e.sb.WriteString(row)
		e.sb.WriteByte('\n')
	}
}
