package ort

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. Unlike decoding into map[string]any,
// object key order is preserved in both directions, so the tabular header
// order of generated ORT follows the JSON document.

// FromJSON parses JSON bytes into a Value.
func FromJSON(data []byte) (*Value, error) {
	return FromJSONReader(bytes.NewReader(data))
}

// FromJSONReader parses a single JSON document from r.
func FromJSONReader(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("JSON parse error: trailing data after value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, ErrTooDeep
	}

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", t, err)
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			items := []*Value{}
			for dec.More() {
				elem, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("array[%d]: %w", len(items), err)
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &Value{kind: KindArray, arrVal: items}, nil
		case '{':
			var ob objectBuilder
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				elem, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				ob.set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return ob.build(), nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// ToJSON converts a Value to compact JSON bytes, keeping object key order.
// NaN and infinities have no JSON form and fail.
func ToJSON(v *Value) ([]byte, error) {
	var b strings.Builder
	if err := writeJSON(&b, v); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// ToJSONIndent is like ToJSON but indents the output as json.MarshalIndent
// does.
func ToJSONIndent(v *Value, prefix, indent string) ([]byte, error) {
	compact, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	return ToJSON(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func writeJSON(b *strings.Builder, v *Value) error {
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
		if math.IsNaN(v.numVal) || math.IsInf(v.numVal, 0) {
			return fmt.Errorf("NaN/Infinity not allowed in JSON")
		}
		b.WriteString(formatNumber(v.numVal))
	case KindString:
		writeJSONString(b, v.strVal)
	case KindArray:
		b.WriteByte('[')
		for i, elem := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, entry := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, entry.Key)
			b.WriteByte(':')
			if err := writeJSON(b, entry.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}

// writeJSONString writes s as a JSON string literal with minimal escapes.
func writeJSONString(b *strings.Builder, s string) {
	const hex = "0123456789abcdef"

	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"':
				b.WriteString(`\"`)
			case c == '\\':
				b.WriteString(`\\`)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				b.WriteString(`\u00`)
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0xf])
			default:
				b.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\ufffd`)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
}
