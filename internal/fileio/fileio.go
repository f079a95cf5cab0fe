// Package fileio opens CLI inputs and outputs, decompressing and compressing
// gzip and zstd streams transparently.
package fileio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names an output codec.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseCompression validates a codec name. The empty string means None.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", None:
		return None, nil
	case Gzip, Zstd:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none, gzip or zstd)", s)
	}
}

// FromExtension infers the codec from a file name suffix.
func FromExtension(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// OpenInput opens path for reading, or stdin for "" and "-". Compressed
// content is detected by its magic bytes, regardless of the file name.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return NewReader(io.NopCloser(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return NewReader(f)
}

// ReadAll reads a whole input opened with OpenInput.
func ReadAll(path string) ([]byte, error) {
	r, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", displayName(path), err)
	}
	return data, nil
}

// NewReader wraps rc with a decompressor when its first bytes carry a gzip or
// zstd magic number. Closing the result closes rc.
func NewReader(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("gzip input: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, rc}}, nil

	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("zstd input: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zstdCloser{zr}, rc}}, nil

	default:
		return &stackedReader{Reader: br, closers: []io.Closer{rc}}, nil
	}
}

// CreateOutput opens path for writing, or stdout for "" and "-", compressing
// with c. When c is None and path has a .gz or .zst suffix, the suffix picks
// the codec.
func CreateOutput(path string, c Compression) (io.WriteCloser, error) {
	if c == "" || c == None {
		c = FromExtension(path)
	}

	var dst io.WriteCloser
	if path == "" || path == "-" {
		dst = NopWriteCloser(os.Stdout)
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		dst = f
	}
	return NewWriter(dst, c)
}

// NewWriter wraps w with the compressor for c. Closing the result flushes the
// compressor and then closes w.
func NewWriter(w io.WriteCloser, c Compression) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		zw := gzip.NewWriter(w)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, w}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("zstd output: %w", err)
		}
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, w}}, nil
	case "", None:
		return w, nil
	default:
		w.Close()
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (r *stackedReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (w *stackedWriter) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstd.Decoder.Close has no error result.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

// NopWriteCloser returns w with a Close method that does nothing, for
// wrapping stdout or caller-owned writers with NewWriter.
func NopWriteCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
