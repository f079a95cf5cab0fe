package ort

import (
	"strings"
)

// ============================================================
// Section Headers
// ============================================================
//
// A header line has one of the shapes:
//
//   key:                  value section (one data line, or none for null)
//   key:f1,f2(n1,n2):     tabular section (one row per data line)
//   :f1,f2:               anonymous tabular section
//   :                     anonymous value section
//   :[v1,v2]              anonymous inline array
//   :(k1:v1,k2:v2)        anonymous inline object
//
// The data lines of a section are the non-blank, non-comment lines up to the
// next line for which IsHeader holds.

// Section describes one header line and the data lines that follow it.
type Section struct {
	Key       string // empty for the anonymous section
	Anonymous bool
	Fields    []FieldDescriptor
	Line      int // 1-based line number of the header
	DataLines int

	inline string // anonymous inline value, e.g. "[1,2]"
	data   []int  // 0-based indices of the data lines
}

// IsTabular reports whether the section's data lines are rows.
func (s *Section) IsTabular() bool {
	return len(s.Fields) > 0
}

// Sections scans text and returns its sections without decoding data lines.
// Header and field-spec errors are reported as *ParseError.
func Sections(text string) ([]Section, error) {
	p := newParser(text, DefaultParseOptions())
	var out []Section
	for idx := p.nextContent(0); idx < len(p.lines); idx = p.nextContent(idx) {
		sec, err := p.readSection(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, *sec)
		idx = sec.end()
	}
	return out, nil
}

// end returns the line index just past the section.
func (s *Section) end() int {
	if len(s.data) == 0 {
		return s.Line
	}
	return s.data[len(s.data)-1] + 1
}

// nextContent returns the index of the first non-ignorable line at or after
// idx, or len(lines).
func (p *parser) nextContent(idx int) int {
	for idx < len(p.lines) && isIgnorable(strings.TrimSpace(p.lines[idx])) {
		idx++
	}
	return idx
}

// readSection parses the header at idx and collects its data lines.
func (p *parser) readSection(idx int) (*Section, error) {
	line := strings.TrimSpace(p.lines[idx])
	if !strings.Contains(line, ":") {
		return nil, p.errorAt(idx, ErrInvalidHeader, "invalid header format")
	}

	sec := &Section{Line: idx + 1}
	for i := idx + 1; i < len(p.lines); i++ {
		l := strings.TrimSpace(p.lines[i])
		if isIgnorable(l) {
			continue
		}
		if IsHeader(l) {
			break
		}
		sec.data = append(sec.data, i)
	}
	sec.DataLines = len(sec.data)

	key, anonymous, spec, err := splitHeader(line)
	if err != nil {
		return nil, p.errorAt(idx, err, "invalid header format")
	}
	sec.Key = key
	sec.Anonymous = anonymous

	if anonymous && isInlineSpec(spec) {
		sec.inline = spec
		return sec, nil
	}

	fields, err := parseFields(spec, 0, p.maxDepth)
	if err != nil {
		return nil, p.errorAt(idx, err, "%s", fieldErrorMessage(err))
	}
	sec.Fields = fields
	return sec, nil
}

// splitHeader splits a trimmed header line into key and field spec. The key
// ends at the first unescaped ':'; one trailing unescaped ':' is dropped from
// the spec.
func splitHeader(line string) (key string, anonymous bool, spec string, err error) {
	if strings.HasPrefix(line, ":") {
		rest := strings.TrimSpace(line[1:])
		if isInlineSpec(rest) {
			return "", true, rest, nil
		}
		return "", true, trimHeaderColon(rest), nil
	}

	ci := indexUnescaped(line, ':')
	if ci < 0 {
		return "", false, "", ErrInvalidHeader
	}
	key = Unescape(strings.TrimSpace(line[:ci]))
	spec = trimHeaderColon(strings.TrimSpace(line[ci+1:]))
	return key, false, spec, nil
}

func trimHeaderColon(s string) string {
	if endsWithUnescaped(s, ':') {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

// isInlineSpec reports whether the remainder of an anonymous header is an
// inline array or object rather than a field list. A field list never starts
// with '(' since field names cannot be empty.
func isInlineSpec(s string) bool {
	return strings.HasPrefix(s, "[") ||
		(strings.HasPrefix(s, "(") && endsWithUnescaped(s, ')'))
}
