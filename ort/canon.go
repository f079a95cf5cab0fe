package ort

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Canonical Number Encoding
// ============================================================

// formatNumber renders f the way ECMAScript Number#toString does: shortest
// round-trip digits, plain notation for exponents in [-6, 21), otherwise
// d.ddde±n.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // -0 too
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// "d.ddde±xx" -> digits "dddd", decimal point position n
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	n := exp + 1

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String()
}

// parseNumber classifies an unescaped token as a numeric literal.
// Accepted: [sign] digits [. digits] [e [sign] digits] (either side of the
// point may be empty, not both), [sign] Infinity, and unsigned 0x/0o/0b
// integers.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	if body == "Infinity" {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	if !isDecimalLiteral(body) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

func isDecimalLiteral(s string) bool {
	i := 0
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ============================================================
// Equality and Fingerprint
// ============================================================

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; array order is not. Nil compares equal to null.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.objVal) != len(b.objVal) {
			return false
		}
		for _, e := range a.objVal {
			if !b.Has(e.Key) || !Equal(e.Value, b.Get(e.Key)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Canonical returns a deterministic JSON-like rendering of v with object keys
// sorted. Semantically equal values produce identical output.
func Canonical(v *Value) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolVal))
	case KindNumber:
		b.WriteString(formatNumber(v.numVal))
	case KindString:
		writeJSONString(b, v.strVal)
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	case KindObject:
		entries := make([]Entry, len(v.objVal))
		copy(entries, v.objVal)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key < entries[j].Key
		})
		b.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, e.Key)
			b.WriteByte(':')
			writeCanonical(b, e.Value)
		}
		b.WriteByte('}')
	}
}

// Fingerprint returns the hex SHA-256 of Canonical(v). Useful for caching,
// deduplication and change detection across formats.
func Fingerprint(v *Value) string {
	sum := sha256.Sum256([]byte(Canonical(v)))
	return hex.EncodeToString(sum[:])
}
