package ort

import (
	"strings"
)

// ============================================================
// Lexical helpers shared by the parser and the generator
// ============================================================

// SplitTopLevel splits s on commas that are not nested inside (...) or [...]
// and not escaped by a backslash. Cells are returned verbatim (escapes kept,
// not trimmed). A string without top-level commas yields one cell.
//
//	SplitTopLevel("a,(b,c),d") == []string{"a", "(b,c)", "d"}
func SplitTopLevel(s string) []string {
	var cells []string
	parenDepth, bracketDepth := 0, 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // the escaped byte never splits
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		case ',':
			if parenDepth == 0 && bracketDepth == 0 {
				cells = append(cells, s[start:i])
				start = i + 1
			}
		}
	}

	return append(cells, s[start:])
}

// indexUnescaped returns the index of the first c in s not preceded by an
// escaping backslash, or -1.
func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case c:
			return i
		}
	}
	return -1
}

// endsWithUnescaped reports whether the last byte of s is c and is not
// itself escaped.
func endsWithUnescaped(s string, c byte) bool {
	if len(s) == 0 || s[len(s)-1] != c {
		return false
	}
	backslashes := 0
	for i := len(s) - 2; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// IsHeader reports whether a trimmed line has the shape of a section header:
// it starts with ':' (anonymous) or ends with an unescaped ':'.
//
// The parser uses it to find where a section's data lines end.
func IsHeader(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, ":") {
		return true
	}
	return endsWithUnescaped(line, ':')
}

// isIgnorable reports whether a trimmed line is blank or a comment.
func isIgnorable(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// Unescape resolves backslash escapes: \n, \t and \r become control
// characters, any other \X becomes X. A trailing lone backslash is dropped.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Escape prefixes ( ) [ ] , and \ with a backslash and writes newline, tab
// and carriage return as \n, \t and \r. It is the inverse of Unescape.
func Escape(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	writeEscaped(&b, s, false)
	return b.String()
}

func needsEscape(s string) bool {
	return strings.ContainsAny(s, "()[],\\\n\t\r")
}

func writeEscaped(b *strings.Builder, s string, colons bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '[', ']', ',', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case ':':
			if colons {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}

// escapeScalar escapes a string cell. Beyond Escape it guards the edges of
// the token so a data line is never read as a comment or a header, and is
// not altered by trimming.
func escapeScalar(s string) string {
	return escapeGuarded(s, false)
}

// escapeKey escapes a section key, inline object key or field name. Every
// ':' is escaped since keys are terminated by the first unescaped colon.
func escapeKey(s string) string {
	return escapeGuarded(s, true)
}

func escapeGuarded(s string, colons bool) string {
	if !needsGuard(s, colons) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)

	rest := s
	for rest != "" && rest[0] == ' ' {
		b.WriteString(`\ `)
		rest = rest[1:]
	}
	if rest != "" && (rest[0] == '#' || (rest[0] == ':' && !colons)) {
		b.WriteByte('\\')
		b.WriteByte(rest[0])
		rest = rest[1:]
	}
	// The parser trims trailing spaces before looking for a header colon.
	body := strings.TrimRight(rest, " ")
	tail := rest[len(body):]
	trailingColon := !colons && strings.HasSuffix(body, ":")
	if trailingColon {
		body = body[:len(body)-1]
	}
	writeEscaped(&b, body, colons)
	if trailingColon {
		b.WriteString(`\:`)
	}
	b.WriteString(tail)
	return b.String()
}

func needsGuard(s string, colons bool) bool {
	if s == "" {
		return false
	}
	if needsEscape(s) || s[0] == ' ' || s[0] == '#' || s[0] == ':' || strings.HasSuffix(strings.TrimRight(s, " "), ":") {
		return true
	}
	return colons && strings.Contains(s, ":")
}
