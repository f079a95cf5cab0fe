package fileio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "rows:id,tag:\n1,x\n2,y\n"

func writeCompressed(t *testing.T, path string, c Compression) {
	t.Helper()
	w, err := CreateOutput(path, c)
	require.NoError(t, err)
	_, err = io.WriteString(w, sample)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, c := range []Compression{None, Gzip, Zstd} {
		t.Run(string(c), func(t *testing.T) {
			path := filepath.Join(dir, "data-"+string(c)+".ort")
			writeCompressed(t, path, c)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			if c == None {
				assert.Equal(t, sample, string(raw))
			} else {
				assert.NotEqual(t, sample, string(raw))
			}

			data, err := ReadAll(path)
			require.NoError(t, err)
			assert.Equal(t, sample, string(data))
		})
	}
}

func TestDetectsMagicRegardlessOfName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain-name.ort")
	writeCompressed(t, path, Zstd)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, zstdMagic))

	data, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}

func TestCreateOutput_ExtensionPicksCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ort.gz")
	writeCompressed(t, path, None)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, gzipMagic))
}

func TestNewReader_ShortInput(t *testing.T) {
	for _, in := range []string{"", "a", "\x1f"} {
		r, err := NewReader(io.NopCloser(bytes.NewReader([]byte(in))))
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, in, string(data))
		assert.NoError(t, r.Close())
	}
}

func TestNewReader_CorruptGzip(t *testing.T) {
	_, err := NewReader(io.NopCloser(bytes.NewReader([]byte{0x1f, 0x8b, 0x00})))
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		input    string
		expected Compression
		wantErr  bool
	}{
		{"", None, false},
		{"none", None, false},
		{"GZIP", Gzip, false},
		{" zstd ", Zstd, false},
		{"brotli", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestFromExtension(t *testing.T) {
	assert.Equal(t, Gzip, FromExtension("a.ort.gz"))
	assert.Equal(t, Zstd, FromExtension("a.json.ZST"))
	assert.Equal(t, None, FromExtension("a.ort"))
	assert.Equal(t, None, FromExtension(""))
}

func TestOpenInput_Missing(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "missing.ort"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
