// ort - ORT text format converter
//
// Usage:
//
//	ort to-json [file]         Convert ORT to JSON
//	ort from-json [file]       Convert JSON to ORT
//	ort to-yaml [file]         Convert ORT to YAML
//	ort from-yaml [file]       Convert YAML to ORT
//	ort fmt [file]             Rewrite ORT in generated form
//	ort check [files...]       Validate ORT files
//	ort hash [file]            Print the value fingerprint
//	ort stats [files...]       Compare JSON and ORT sizes
//	ort repl                   Interactive converter
//	ort version                Print version info
//
// If no file is given, reads from stdin. Gzip and zstd input is detected
// and decompressed automatically.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Neumenon/ort/internal/config"
	"github.com/Neumenon/ort/internal/fileio"
	"github.com/Neumenon/ort/ort"
)

const version = "0.1.0"

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and returns the process exit code.
func reportError(w io.Writer, err error) int {
	code := 1
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(w, "ort: %s\n", msg)
	}
	return code
}

// cliEnv is the state shared by all commands, set up once the global flags
// are parsed.
type cliEnv struct {
	cfg         config.Config
	log         *slog.Logger
	compression fileio.Compression
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	env := &cliEnv{}

	return &cli.App{
		Name:      "ort",
		Usage:     "convert between ORT, JSON and YAML",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config `FILE` (default: $ORT_CONFIG, .ort.yaml, $XDG_CONFIG_HOME/ort/config.yaml)"},
			&cli.BoolFlag{Name: "verbose", Usage: "log debug output to stderr"},
			&cli.IntFlag{Name: "max-depth", Usage: "maximum nesting depth"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to `FILE` instead of stdout"},
			&cli.StringFlag{Name: "compress", Usage: "output compression: none, gzip or zstd"},
		},
		Before:   env.setup,
		Commands: env.commands(),

		// main reports errors and picks the exit code
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (e *cliEnv) setup(c *cli.Context) error {
	cfg, used, err := config.LoadFromPath(c.String("config"))
	if err != nil {
		return exitf("%v", err)
	}
	if c.IsSet("max-depth") {
		if c.Int("max-depth") <= 0 {
			return exitf("--max-depth must be positive")
		}
		cfg.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("compress") {
		cfg.Compression = c.String("compress")
	}

	comp, err := fileio.ParseCompression(cfg.Compression)
	if err != nil {
		return exitf("%v", err)
	}

	level := slog.LevelWarn
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return exitf("log level: %v", err)
		}
	}
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}

	e.cfg = cfg
	e.compression = comp
	e.log = slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
	if used != "" {
		e.log.Debug("loaded config", "path", used)
	}
	return nil
}

func exitf(format string, args ...any) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(format, args...), 1)
}

// ============================================================
// Input / Output
// ============================================================

func inputName(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}

// readInput reads path, or the app's stdin for "" and "-".
func (e *cliEnv) readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "" || path == "-" {
		r, err := fileio.NewReader(io.NopCloser(c.App.Reader))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return fileio.ReadAll(path)
}

// decode parses data in the named input format.
func (e *cliEnv) decode(format string, data []byte) (*ort.Value, error) {
	switch format {
	case "ort":
		return ort.ParseWithOptions(string(data), e.cfg.ParseOptions())
	case "json":
		return ort.FromJSON(data)
	case "yaml":
		return ort.FromYAML(data)
	default:
		return nil, fmt.Errorf("unknown input format %q (want ort, json or yaml)", format)
	}
}

// load reads the first argument and decodes it as format.
func (e *cliEnv) load(c *cli.Context, format string) (*ort.Value, []byte, error) {
	path := c.Args().First()
	data, err := e.readInput(c, path)
	if err != nil {
		return nil, nil, exitf("read input: %v", err)
	}

	v, err := e.decode(format, data)
	if err != nil {
		return nil, nil, exitf("%s: %v", inputName(path), err)
	}
	e.log.Debug("decoded input", "file", inputName(path), "format", format, "bytes", len(data), "kind", v.Kind())
	return v, data, nil
}

// emit writes data to --output or the app's stdout, compressed as
// configured.
func (e *cliEnv) emit(c *cli.Context, data []byte) error {
	path := c.String("output")

	var w io.WriteCloser
	var err error
	if path == "" || path == "-" {
		w, err = fileio.NewWriter(fileio.NopWriteCloser(c.App.Writer), e.compression)
	} else {
		w, err = fileio.CreateOutput(path, e.compression)
	}
	if err != nil {
		return exitf("%v", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return exitf("write output: %v", err)
	}
	if err := w.Close(); err != nil {
		return exitf("write output: %v", err)
	}
	e.log.Debug("wrote output", "file", path, "bytes", len(data), "compression", e.compression)
	return nil
}
