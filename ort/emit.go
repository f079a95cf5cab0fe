package ort

import (
	"fmt"
	"strings"
	"sync"
)

// GenerateOptions configures the generator.
type GenerateOptions struct {
	// MaxDepth limits container nesting (default: DefaultMaxDepth).
	MaxDepth int

	// Tabular enables tabular sections for uniform object arrays.
	Tabular bool
}

// DefaultGenerateOptions returns sensible defaults.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxDepth: DefaultMaxDepth,
		Tabular:  true,
	}
}

// Generate converts a Value to ORT text.
//
// Objects become one section per key, separated by blank lines; an object
// with an empty key is written as one anonymous inline value. Arrays
// become an anonymous section, tabular when the elements are objects sharing
// one key set. Scalars become an anonymous value section.
func Generate(v *Value) (string, error) {
	return GenerateWithOptions(v, DefaultGenerateOptions())
}

// GenerateWithOptions converts a Value with custom options.
func GenerateWithOptions(v *Value, opts GenerateOptions) (string, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	e := &emitter{opts: opts}
	e.document(v)
	if e.err != nil {
		return "", e.err
	}
	return e.sb.String(), nil
}

// GenerateNative normalizes a native Go value with FromNative and generates
// ORT text for it.
func GenerateNative(x any) (string, error) {
	v, err := FromNative(x)
	if err != nil {
		return "", err
	}
	return Generate(v)
}

// builderPool provides reusable builders for rendering cells.
var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 {
		builderPool.Put(b)
	}
}

type emitter struct {
	sb   strings.Builder
	opts GenerateOptions
	err  error
}

func (e *emitter) tooDeep(depth int) bool {
	if depth <= e.opts.MaxDepth {
		return false
	}
	if e.err == nil {
		e.err = &GenerateError{
			Message: fmt.Sprintf("nesting deeper than %d levels", e.opts.MaxDepth),
			Err:     ErrTooDeep,
		}
	}
	return true
}

func (e *emitter) document(v *Value) {
	switch v.Kind() {
	case KindObject:
		if v.Has("") {
			// An empty key has no header form; write the whole object inline.
			e.sb.WriteByte(':')
			e.writeInline(&e.sb, v, 0)
			e.sb.WriteByte('\n')
			return
		}
		for i, entry := range v.objVal {
			if i > 0 {
				e.sb.WriteByte('\n')
			}
			e.section(entry.Key, entry.Value)
		}

	case KindArray:
		e.anonymousArray(v.arrVal)

	default:
		e.sb.WriteString(":\n")
		e.writeInline(&e.sb, v, 0)
		e.sb.WriteByte('\n')
	}
}

// section writes one keyed section: a tabular block for uniform object
// arrays, otherwise the key header and the inline value on one line.
func (e *emitter) section(key string, v *Value) {
	k := escapeKey(key)

	if items, ok := v.AsArray(); ok && len(items) > 0 {
		if fields, rows, ok := e.tabular(items); ok {
			e.writeTable(k, fields, rows)
			return
		}
	}

	e.sb.WriteString(k)
	e.sb.WriteString(":\n")
	e.writeInline(&e.sb, v, 0)
	e.sb.WriteByte('\n')
}

// anonymousArray writes a top-level array. A single element stays inline
// since a lone anonymous row parses as the bare object.
func (e *emitter) anonymousArray(items []*Value) {
	if len(items) > 1 {
		if fields, rows, ok := e.tabular(items); ok {
			e.writeTable("", fields, rows)
			return
		}
	}

	e.sb.WriteByte(':')
	e.writeInline(&e.sb, Array(items...), 0)
	e.sb.WriteByte('\n')
}

// writeInline writes v as a single inline token.
func (e *emitter) writeInline(b *strings.Builder, v *Value, depth int) {
	if e.tooDeep(depth) {
		return
	}

	switch v.Kind() {
	case KindNull:
		// empty token

	case KindBool:
		if v.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case KindNumber:
		b.WriteString(formatNumber(v.numVal))

	case KindString:
		b.WriteString(escapeScalar(v.strVal))

	case KindArray:
		b.WriteByte('[')
		for i, elem := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			e.writeInline(b, elem, depth+1)
		}
		b.WriteByte(']')

	case KindObject:
		b.WriteByte('(')
		for i, entry := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeKey(entry.Key))
			b.WriteByte(':')
			e.writeInline(b, entry.Value, depth+1)
		}
		b.WriteByte(')')
	}
}

// inlineString renders v inline into a new string.
func (e *emitter) inlineString(v *Value, depth int) string {
	b := getBuilder()
	e.writeInline(b, v, depth)
	s := b.String()
	putBuilder(b)
	return s
}
