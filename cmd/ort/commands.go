package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Neumenon/ort/ort"
)

func (e *cliEnv) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "to-json",
			Usage:     "convert ORT to JSON",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "indent", Usage: "indent `STRING` (default from config)"},
				&cli.BoolFlag{Name: "compact", Usage: "write single-line JSON"},
			},
			Action: e.cmdToJSON,
		},
		{
			Name:      "from-json",
			Usage:     "convert JSON to ORT",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{noTabularFlag()},
			Action:    e.convertTo("json"),
		},
		{
			Name:      "to-yaml",
			Usage:     "convert ORT to YAML",
			ArgsUsage: "[file]",
			Action:    e.cmdToYAML,
		},
		{
			Name:      "from-yaml",
			Usage:     "convert YAML to ORT",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{noTabularFlag()},
			Action:    e.convertTo("yaml"),
		},
		{
			Name:      "fmt",
			Usage:     "rewrite ORT in generated form",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				noTabularFlag(),
				&cli.BoolFlag{Name: "check", Usage: "exit 1 if the input is not already formatted"},
			},
			Action: e.cmdFmt,
		},
		{
			Name:      "check",
			Usage:     "validate ORT files",
			ArgsUsage: "[files...]",
			Action:    e.cmdCheck,
		},
		{
			Name:      "hash",
			Usage:     "print the SHA-256 fingerprint of the decoded value",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Value: "ort", Usage: "input format: ort, json or yaml"},
			},
			Action: e.cmdHash,
		},
		{
			Name:      "stats",
			Usage:     "compare JSON and ORT sizes",
			ArgsUsage: "[files...]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Value: "json", Usage: "input format: ort, json or yaml"},
				noTabularFlag(),
			},
			Action: e.cmdStats,
		},
		{
			Name:   "repl",
			Usage:  "interactive converter",
			Action: e.cmdRepl,
		},
		{
			Name:  "version",
			Usage: "print version info",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "ort %s\n", version)
				return nil
			},
		},
	}
}

func noTabularFlag() cli.Flag {
	return &cli.BoolFlag{Name: "no-tabular", Usage: "never write tabular sections"}
}

// cmdToJSON: ORT -> JSON
func (e *cliEnv) cmdToJSON(c *cli.Context) error {
	v, _, err := e.load(c, "ort")
	if err != nil {
		return err
	}

	indent := e.cfg.JSONIndent
	if c.IsSet("indent") {
		indent = c.String("indent")
	}

	var out []byte
	if c.Bool("compact") || indent == "" {
		out, err = ort.ToJSON(v)
	} else {
		out, err = ort.ToJSONIndent(v, "", indent)
	}
	if err != nil {
		return exitf("convert to JSON: %v", err)
	}
	return e.emit(c, append(out, '\n'))
}

// cmdToYAML: ORT -> YAML
func (e *cliEnv) cmdToYAML(c *cli.Context) error {
	v, _, err := e.load(c, "ort")
	if err != nil {
		return err
	}
	out, err := ort.ToYAML(v)
	if err != nil {
		return exitf("convert to YAML: %v", err)
	}
	return e.emit(c, out)
}

// convertTo returns the action for "from-json" and "from-yaml".
func (e *cliEnv) convertTo(format string) cli.ActionFunc {
	return func(c *cli.Context) error {
		v, _, err := e.load(c, format)
		if err != nil {
			return err
		}
		text, err := ort.GenerateWithOptions(v, e.generateOptions(c))
		if err != nil {
			return exitf("generate ORT: %v", err)
		}
		return e.emit(c, []byte(text))
	}
}

func (e *cliEnv) generateOptions(c *cli.Context) ort.GenerateOptions {
	opts := e.cfg.GenerateOptions()
	if c.Bool("no-tabular") {
		opts.Tabular = false
	}
	return opts
}

// cmdFmt: ORT -> ORT in generated form
func (e *cliEnv) cmdFmt(c *cli.Context) error {
	v, data, err := e.load(c, "ort")
	if err != nil {
		return err
	}
	text, err := ort.GenerateWithOptions(v, e.generateOptions(c))
	if err != nil {
		return exitf("generate ORT: %v", err)
	}

	if c.Bool("check") {
		if text != string(data) {
			return exitf("%s: not formatted", inputName(c.Args().First()))
		}
		return nil
	}
	return e.emit(c, []byte(text))
}

// cmdCheck parses every file and reports "file:line: message" per failure.
func (e *cliEnv) cmdCheck(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	failed := 0
	for _, path := range paths {
		name := inputName(path)
		data, err := e.readInput(c, path)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", name, err)
			failed++
			continue
		}

		_, err = ort.ParseWithOptions(string(data), e.cfg.ParseOptions())
		var perr *ort.ParseError
		switch {
		case err == nil:
			e.log.Debug("valid", "file", name)
		case errors.As(err, &perr):
			fmt.Fprintf(c.App.ErrWriter, "%s:%d: %s\n", name, perr.Line, perr.Message)
			failed++
		default:
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", name, err)
			failed++
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files invalid", failed, len(paths)), 1)
	}
	return nil
}

// cmdHash prints Fingerprint of the decoded value. Equal values hash equal
// whatever format they came from.
func (e *cliEnv) cmdHash(c *cli.Context) error {
	v, _, err := e.load(c, c.String("from"))
	if err != nil {
		return err
	}
	return e.emit(c, []byte(ort.Fingerprint(v)+"\n"))
}
