package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Neumenon/ort/internal/config"
	"github.com/Neumenon/ort/internal/fileio"
)

const (
	rowsJSON = `{"rows":[{"id":1,"tag":"x"},{"id":2,"tag":"y"}]}`
	rowsORT  = "rows:id,tag:\n1,x\n2,y\n"
)

// isolate keeps user config files and ORT_* variables out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"ORT_CONFIG", "ORT_MAX_DEPTH", "ORT_TABULAR", "ORT_COMPRESSION", "ORT_HISTORY_FILE", "ORT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"ort"}, args...))
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestToJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "name:\nAda\n\nage:\n36\n", "to-json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Ada\",\n  \"age\": 36\n}\n", out)

	out, _, err = run(t, "name:\nAda\n\nage:\n36\n", "to-json", "--compact")
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"Ada\",\"age\":36}\n", out)
}

func TestToJSON_ParseError(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "foo\n", "to-json")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "line 1: invalid header format")
}

func TestFromJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, rowsJSON, "from-json")
	require.NoError(t, err)
	assert.Equal(t, rowsORT, out)

	out, _, err = run(t, rowsJSON, "from-json", "--no-tabular")
	require.NoError(t, err)
	assert.Equal(t, "rows:\n[(id:1,tag:x),(id:2,tag:y)]\n", out)
}

func TestYAMLCommands(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "rows:\n  - id: 1\n    tag: x\n  - id: 2\n    tag: y\n", "from-yaml")
	require.NoError(t, err)
	assert.Equal(t, rowsORT, out)

	out, _, err = run(t, "name:\nAda\n", "to-yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: Ada\n", out)
}

func TestFmt(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "name:\nAda\nage:\n36\n", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "name:\nAda\n\nage:\n36\n", out)

	_, _, err = run(t, "name:\nAda\n\nage:\n36\n", "fmt", "--check")
	assert.NoError(t, err)

	_, _, err = run(t, "name:\nAda\nage:\n36\n", "fmt", "--check")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "not formatted")
}

func TestCheck(t *testing.T) {
	dir := isolate(t)
	good := filepath.Join(dir, "good.ort")
	bad := filepath.Join(dir, "bad.ort")
	require.NoError(t, os.WriteFile(good, []byte(rowsORT), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("rows:a,b:\n1,2\n1,2,3\n"), 0o644))

	_, _, err := run(t, "", "check", good)
	assert.NoError(t, err)

	_, stderr, err := run(t, "", "check", good, bad)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stderr, bad+":3: expected 2 values but got 3")
	assert.NotContains(t, stderr, good)
	assert.Contains(t, err.Error(), "1 of 2 files invalid")
}

func TestHash_SameAcrossFormats(t *testing.T) {
	isolate(t)

	fromORT, _, err := run(t, "b:\n2\n\na:\n[x,true]\n", "hash")
	require.NoError(t, err)
	fromJSON, _, err := run(t, `{"a":["x",true],"b":2}`, "hash", "--from", "json")
	require.NoError(t, err)
	fromYAML, _, err := run(t, "a: [x, true]\nb: 2\n", "hash", "--from", "yaml")
	require.NoError(t, err)

	assert.Len(t, strings.TrimSpace(fromORT), 64)
	assert.Equal(t, fromORT, fromJSON)
	assert.Equal(t, fromORT, fromYAML)

	_, _, err = run(t, "{}", "hash", "--from", "xml")
	assert.Error(t, err)
}

func TestCompressedOutputAndInput(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "rows.ort")

	_, _, err := run(t, rowsJSON, "--output", path, "--compress", "zstd", "from-json")
	require.NoError(t, err)

	data, err := fileio.ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, rowsORT, string(data))

	out, _, err := run(t, "", "to-json", "--compact", path)
	require.NoError(t, err)
	assert.JSONEq(t, rowsJSON, out)
}

func TestCompressedStdin(t *testing.T) {
	isolate(t)

	var buf bytes.Buffer
	w, err := fileio.NewWriter(fileio.NopWriteCloser(&buf), fileio.Gzip)
	require.NoError(t, err)
	_, err = io.WriteString(w, rowsORT)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, _, err := run(t, buf.String(), "to-json", "--compact")
	require.NoError(t, err)
	assert.JSONEq(t, rowsJSON, out)
}

func TestGlobalFlags(t *testing.T) {
	dir := isolate(t)

	_, _, err := run(t, "", "--compress", "brotli", "version")
	assert.Error(t, err)

	_, _, err = run(t, "v:\n[[1]]\n", "--max-depth", "1", "to-json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting")

	cfgPath := filepath.Join(dir, "ort.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tabular: false\n"), 0o644))
	out, _, err := run(t, rowsJSON, "--config", cfgPath, "from-json")
	require.NoError(t, err)
	assert.Equal(t, "rows:\n[(id:1,tag:x),(id:2,tag:y)]\n", out)

	_, stderr, err := run(t, "name:\nAda\n", "--verbose", "to-json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "decoded input")
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "ort "+version+"\n", out)
}

func TestStats(t *testing.T) {
	isolate(t)

	out, _, err := run(t, rowsJSON, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "json bytes")
	assert.Contains(t, out, "<stdin>")
	assert.NotContains(t, out, "TOTAL")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
	assert.Equal(t, 2, estimateTokens("hello"))
	assert.Equal(t, 2, estimateTokens("{}"))
	assert.Equal(t, 1, estimateTokens("   "))
	assert.Equal(t, 3, estimateTokens("a:12"))
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 1, reportError(&buf, errors.New("boom")))
	assert.Equal(t, "ort: boom\n", buf.String())

	buf.Reset()
	assert.Equal(t, 3, reportError(&buf, cli.Exit("", 3)))
	assert.Empty(t, buf.String())
}

// ============================================================
// REPL Session Tests
// ============================================================

func TestReplSession_ORTMode(t *testing.T) {
	s := newReplSession(config.Default())
	assert.Equal(t, promptORT, s.prompt())

	out, done := s.feed("name:")
	assert.Empty(t, out)
	assert.False(t, done)
	assert.Equal(t, promptCont, s.prompt())

	out, _ = s.feed("Ada")
	assert.Empty(t, out)

	out, _ = s.feed("")
	assert.Empty(t, out)
	assert.Equal(t, promptCont, s.prompt())

	out, _ = s.feed("")
	assert.Equal(t, "{\n  \"name\": \"Ada\"\n}", out)
	assert.Equal(t, promptORT, s.prompt())
}

func TestReplSession_MultiSectionBlock(t *testing.T) {
	s := newReplSession(config.Default())

	for _, line := range strings.Split("name:\nAda\n\nage:\n36", "\n") {
		out, _ := s.feed(line)
		require.Empty(t, out)
	}
	s.feed("")
	out, _ := s.feed("")
	assert.JSONEq(t, `{"name":"Ada","age":36}`, out)
}

func TestReplSession_JSONMode(t *testing.T) {
	s := newReplSession(config.Default())

	out, _ := s.feed(":json")
	assert.Equal(t, "input mode: json", out)
	assert.Equal(t, promptJSON, s.prompt())

	out, _ = s.feed(`{"a":1,`)
	assert.Empty(t, out)
	out, _ = s.feed(`"b":2}`)
	assert.Equal(t, "a:\n1\n\nb:\n2", out)
}

func TestReplSession_Commands(t *testing.T) {
	s := newReplSession(config.Default())

	out, done := s.feed(":help")
	assert.Contains(t, out, ":quit")
	assert.False(t, done)

	out, _ = s.feed("foo")
	assert.Empty(t, out)
	s.feed("")
	out, _ = s.feed("")
	assert.True(t, strings.HasPrefix(out, "error: line 1"), out)

	_, done = s.feed(":quit")
	assert.True(t, done)
}
