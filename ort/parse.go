package ort

import (
	"fmt"
	"strings"
)

// ParseOptions configures the parser behavior.
type ParseOptions struct {
	// MaxDepth limits bracket/parenthesis nesting (default: DefaultMaxDepth).
	MaxDepth int
}

// DefaultParseOptions returns the default parser options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxDepth: DefaultMaxDepth}
}

// Parse parses ORT text into a Value.
//
// Each keyed section contributes one entry of the resulting object. An
// anonymous section ends the document and its value is the whole result.
// The first malformed line aborts parsing with a *ParseError.
func Parse(text string) (*Value, error) {
	return ParseWithOptions(text, DefaultParseOptions())
}

// ParseWithOptions parses with custom options.
func ParseWithOptions(text string, opts ParseOptions) (*Value, error) {
	p := newParser(text, opts)
	return p.parseDocument()
}

type parser struct {
	lines    []string
	maxDepth int
}

func newParser(text string, opts ParseOptions) *parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &parser{
		lines:    strings.Split(text, "\n"),
		maxDepth: opts.MaxDepth,
	}
}

func (p *parser) errorAt(idx int, cause error, format string, args ...interface{}) *ParseError {
	return newParseError(idx+1, strings.TrimRight(p.lines[idx], "\r"), cause, format, args...)
}

func (p *parser) parseDocument() (*Value, error) {
	var result objectBuilder

	for idx := p.nextContent(0); idx < len(p.lines); idx = p.nextContent(idx) {
		sec, err := p.readSection(idx)
		if err != nil {
			return nil, err
		}

		value, err := p.sectionValue(sec)
		if err != nil {
			return nil, err
		}

		if sec.Anonymous {
			// A lone row under an anonymous header is the row itself.
			if sec.IsTabular() && sec.DataLines == 1 {
				if rows, _ := value.AsArray(); len(rows) == 1 {
					return rows[0], nil
				}
			}
			return value, nil
		}

		result.set(sec.Key, value)
		idx = sec.end()
	}

	return result.build(), nil
}

// sectionValue decodes the data lines of sec.
func (p *parser) sectionValue(sec *Section) (*Value, error) {
	headerIdx := sec.Line - 1

	if sec.inline != "" {
		if len(sec.data) > 0 {
			return nil, p.errorAt(sec.data[0], ErrUnexpectedData, "unexpected data after inline value")
		}
		return p.cells(headerIdx).parseValue(sec.inline, 0)
	}

	if !sec.IsTabular() {
		switch len(sec.data) {
		case 0:
			return Null(), nil
		case 1:
			idx := sec.data[0]
			return p.cells(idx).parseValue(p.lines[idx], 0)
		default:
			return nil, p.errorAt(sec.data[1], ErrUnexpectedData,
				"section without fields takes a single value line, got %d", len(sec.data))
		}
	}

	rows := make([]*Value, 0, len(sec.data))
	for _, idx := range sec.data {
		row, err := p.cells(idx).parseRow(strings.TrimSpace(p.lines[idx]), sec.Fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return &Value{kind: KindArray, arrVal: rows}, nil
}

func (p *parser) cells(idx int) *cellParser {
	return &cellParser{
		lineNum:  idx + 1,
		raw:      strings.TrimRight(p.lines[idx], "\r"),
		maxDepth: p.maxDepth,
	}
}

// ============================================================
// Cell and Value Decoding
// ============================================================

// cellParser decodes the text of one line. It only carries the line for
// error reporting; every method is a pure function of its arguments.
type cellParser struct {
	lineNum  int
	raw      string
	maxDepth int
}

func (c *cellParser) errorf(cause error, format string, args ...interface{}) *ParseError {
	return newParseError(c.lineNum, c.raw, cause, format, args...)
}

func (c *cellParser) checkDepth(depth int) error {
	if depth > c.maxDepth {
		return c.errorf(ErrTooDeep, "nesting deeper than %d levels", c.maxDepth)
	}
	return nil
}

// parseRow decodes one tabular data line into an object keyed by field name.
func (c *cellParser) parseRow(line string, fields []FieldDescriptor) (*Value, error) {
	return c.parseTuple(SplitTopLevel(line), fields, 1, "values")
}

// parseTuple decodes cells positionally against fields.
func (c *cellParser) parseTuple(cells []string, fields []FieldDescriptor, depth int, what string) (*Value, error) {
	if len(cells) != len(fields) {
		return nil, c.errorf(ErrFieldCount, "expected %d %s but got %d", len(fields), what, len(cells))
	}

	var ob objectBuilder
	for i, f := range fields {
		v, err := c.parseFieldValue(f, cells[i], depth)
		if err != nil {
			return nil, err
		}
		ob.set(f.Name, v)
	}
	return ob.build(), nil
}

// parseFieldValue decodes one cell according to its field descriptor.
// Leaf fields hold any inline value; nested fields hold a positional tuple.
func (c *cellParser) parseFieldValue(f FieldDescriptor, cell string, depth int) (*Value, error) {
	if !f.IsNested() {
		return c.parseValue(cell, depth)
	}
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}

	t := strings.TrimSpace(cell)
	switch t {
	case "":
		return Null(), nil
	case "()":
		return Object(), nil
	}

	if !strings.HasPrefix(t, "(") || !endsWithUnescaped(t, ')') {
		return nil, c.errorf(ErrNestedValue, "expected nested object in parentheses for %q, got %s", f.Name, t)
	}

	return c.parseTuple(SplitTopLevel(t[1:len(t)-1]), f.Nested, depth+1, fmt.Sprintf("nested values for %q", f.Name))
}

// parseValue decodes a standalone value token.
func (c *cellParser) parseValue(s string, depth int) (*Value, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}

	t := strings.TrimSpace(s)
	switch t {
	case "":
		return Null(), nil
	case "[]":
		return Array(), nil
	case "()":
		return Object(), nil
	}

	if strings.HasPrefix(t, "[") && endsWithUnescaped(t, ']') {
		return c.parseArray(t[1:len(t)-1], depth)
	}
	if strings.HasPrefix(t, "(") && endsWithUnescaped(t, ')') {
		return c.parseInlineObject(t[1:len(t)-1], depth)
	}

	return parseScalar(t), nil
}

// parseScalar classifies an unescaped token as number, bool or string.
func parseScalar(token string) *Value {
	u := Unescape(token)
	if f, ok := parseNumber(u); ok {
		return Number(f)
	}
	switch u {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Str(u)
}

// parseArray decodes the inside of [...]. Every top-level comma separates
// two elements, so "[1,]" holds a trailing null.
func (c *cellParser) parseArray(inner string, depth int) (*Value, error) {
	if strings.TrimSpace(inner) == "" {
		return Array(), nil
	}

	cells := SplitTopLevel(inner)
	items := make([]*Value, len(cells))
	for i, cell := range cells {
		v, err := c.parseValue(cell, depth+1)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return &Value{kind: KindArray, arrVal: items}, nil
}

// parseInlineObject decodes the inside of (k1:v1,k2:v2).
func (c *cellParser) parseInlineObject(inner string, depth int) (*Value, error) {
	var ob objectBuilder

	for _, pair := range SplitTopLevel(inner) {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		ci := indexUnescaped(pair, ':')
		if ci < 0 {
			return nil, c.errorf(ErrMalformedValue, "expected key:value pair, got %s", strings.TrimSpace(pair))
		}
		v, err := c.parseValue(pair[ci+1:], depth+1)
		if err != nil {
			return nil, err
		}
		ob.set(Unescape(strings.TrimSpace(pair[:ci])), v)
	}

	return ob.build(), nil
}
