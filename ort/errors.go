package ort

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by the typed errors below. Match them with errors.Is.
var (
	ErrUnsupportedType = errors.New("unsupported type")
	ErrNoLength        = errors.New("value has no length")
	ErrInvalidHeader   = errors.New("invalid header format")
	ErrUnmatchedParen  = errors.New("unmatched parenthesis")
	ErrFieldCount      = errors.New("field count mismatch")
	ErrNestedValue     = errors.New("malformed nested value")
	ErrMalformedValue  = errors.New("malformed value")
	ErrUnexpectedData  = errors.New("unexpected data line")
	ErrTooDeep         = errors.New("nesting too deep")
)

// TypeError reports a value of a kind the operation cannot handle:
// an unsupported native type during normalization, or Len on a scalar.
type TypeError struct {
	Op      string // operation that failed, e.g. "FromNative"
	TypeStr string // offending Go type or value kind
	Err     error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("ort: %s: %v: %s", e.Op, e.Err, e.TypeStr)
}

func (e *TypeError) Unwrap() error { return e.Err }

// ParseError represents a parsing error with its source line.
type ParseError struct {
	Line    int    // 1-based line number
	RawLine string // offending line as it appeared in the input
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.RawLine)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GenerateError reports a value that could not be rendered as ORT.
type GenerateError struct {
	Message string
	Err     error
}

func (e *GenerateError) Error() string {
	return "ort: generate: " + e.Message
}

func (e *GenerateError) Unwrap() error { return e.Err }

func newParseError(lineNum int, line string, cause error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Line:    lineNum,
		RawLine: line,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}
