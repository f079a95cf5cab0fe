package ort

import (
	"fmt"
	"strings"
)

// FieldDescriptor describes one column of a tabular section, or one
// positional slot of a nested tuple.
//
// A descriptor with no Nested fields is a leaf: its cell holds any inline
// value. Otherwise its cell is a parenthesized tuple decoded by Nested.
type FieldDescriptor struct {
	Name   string
	Nested []FieldDescriptor
}

// IsNested reports whether the field's cells are positional tuples.
func (f FieldDescriptor) IsNested() bool {
	return len(f.Nested) > 0
}

// String renders the descriptor in header syntax, e.g. "addr(city,zip)".
func (f FieldDescriptor) String() string {
	var b strings.Builder
	writeField(&b, f)
	return b.String()
}

func writeField(b *strings.Builder, f FieldDescriptor) {
	b.WriteString(escapeKey(f.Name))
	if f.IsNested() {
		b.WriteByte('(')
		writeFieldList(b, f.Nested)
		b.WriteByte(')')
	}
}

func writeFieldList(b *strings.Builder, fields []FieldDescriptor) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(b, f)
	}
}

// ParseFields parses a header field spec such as "id,name,addr(city,zip)".
func ParseFields(spec string) ([]FieldDescriptor, error) {
	fields, err := parseFields(spec, 0, DefaultMaxDepth)
	if err != nil {
		return nil, newParseError(1, spec, err, "%s", fieldErrorMessage(err))
	}
	return fields, nil
}

func fieldErrorMessage(err error) string {
	switch err {
	case ErrTooDeep:
		return "field nesting too deep"
	case errUnmatchedOpen:
		return "unmatched opening parenthesis"
	default:
		return "unmatched closing parenthesis"
	}
}

// errUnmatchedOpen distinguishes '(' without ')' from the reverse case.
var errUnmatchedOpen = fmt.Errorf("unmatched opening parenthesis: %w", ErrUnmatchedParen)

// parseFields splits spec on top-level commas. "name(...)" captures the
// parenthesized part recursively as that field's nested fields.
func parseFields(spec string, depth, maxDepth int) ([]FieldDescriptor, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var result []FieldDescriptor
	var current strings.Builder

	flush := func() {
		name := strings.TrimSpace(current.String())
		current.Reset()
		if name != "" {
			result = append(result, FieldDescriptor{Name: Unescape(name)})
		}
	}

	for i := 0; i < len(spec); i++ {
		c := spec[i]
		switch c {
		case '\\':
			current.WriteByte(c)
			if i+1 < len(spec) {
				i++
				current.WriteByte(spec[i])
			}
		case '(':
			name := Unescape(strings.TrimSpace(current.String()))
			current.Reset()

			end := matchParen(spec, i)
			if end < 0 {
				return nil, errUnmatchedOpen
			}
			nested, err := parseFields(spec[i+1:end], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			result = append(result, FieldDescriptor{Name: name, Nested: nested})
			i = end
		case ')':
			return nil, ErrUnmatchedParen
		case ',':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return result, nil
}

// matchParen returns the index of the ')' closing the '(' at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
