package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/Neumenon/ort/internal/config"
	"github.com/Neumenon/ort/ort"
)

const (
	replBanner = "ort " + version + " repl. Type :help for commands, :quit to exit."
	replHelp   = `:ort    read ORT blocks, print JSON (default)
:json   read JSON values, print ORT
:quit   exit

A block ends at two blank lines in a row, so pasted ORT with blank lines
between sections converts as one document. JSON input converts as soon as
it parses.`

	promptORT  = "ort> "
	promptJSON = "json> "
	promptCont = "...  "
)

type replMode int

const (
	modeORT replMode = iota
	modeJSON
)

// replSession buffers input lines and converts complete blocks. It holds no
// terminal state so it can be driven by any line source.
type replSession struct {
	mode      replMode
	buf       strings.Builder
	blank     bool // previous line was blank
	parseOpts ort.ParseOptions
	genOpts   ort.GenerateOptions
}

func newReplSession(cfg config.Config) *replSession {
	return &replSession{
		parseOpts: cfg.ParseOptions(),
		genOpts:   cfg.GenerateOptions(),
	}
}

func (s *replSession) prompt() string {
	switch {
	case s.buf.Len() > 0:
		return promptCont
	case s.mode == modeJSON:
		return promptJSON
	default:
		return promptORT
	}
}

// feed consumes one input line and returns text to print, and whether the
// session is over. Commands are only recognized at the start of a block.
// A single blank line is kept in the block; a second one ends it.
func (s *replSession) feed(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if s.buf.Len() == 0 {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q", ":exit":
			return "", true
		case ":json":
			s.mode = modeJSON
			return "input mode: json", false
		case ":ort":
			s.mode = modeORT
			return "input mode: ort", false
		case ":help":
			return replHelp, false
		case "":
			return "", false
		}
	}

	if trimmed == "" {
		if s.blank {
			return s.flush(), false
		}
		s.blank = true
		return "", false
	}

	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
		if s.blank {
			s.buf.WriteByte('\n')
		}
	}
	s.blank = false
	s.buf.WriteString(line)

	if s.mode == modeJSON && json.Valid([]byte(s.buf.String())) {
		return s.flush(), false
	}
	return "", false
}

// flush converts and clears the buffered block.
func (s *replSession) flush() string {
	src := s.buf.String()
	s.buf.Reset()
	s.blank = false
	if strings.TrimSpace(src) == "" {
		return ""
	}

	if s.mode == modeJSON {
		v, err := ort.FromJSON([]byte(src))
		if err != nil {
			return "error: " + err.Error()
		}
		text, err := ort.GenerateWithOptions(v, s.genOpts)
		if err != nil {
			return "error: " + err.Error()
		}
		return strings.TrimRight(text, "\n")
	}

	v, err := ort.ParseWithOptions(src+"\n", s.parseOpts)
	if err != nil {
		return "error: " + err.Error()
	}
	out, err := ort.ToJSONIndent(v, "", "  ")
	if err != nil {
		return "error: " + err.Error()
	}
	return string(out)
}

// cmdRepl runs the interactive converter on the terminal.
func (e *cliEnv) cmdRepl(c *cli.Context) error {
	w := c.App.Writer
	fmt.Fprintln(w, replBanner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if hist := e.cfg.HistoryFile; hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				e.log.Warn("cannot save history", "file", hist, "err", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	s := newReplSession(e.cfg)
	for {
		line, err := ln.Prompt(s.prompt())
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if out := s.flush(); out != "" {
				fmt.Fprintln(w, out)
			}
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return exitf("read line: %v", err)
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}

		out, done := s.feed(line)
		if out != "" {
			fmt.Fprintln(w, out)
		}
		if done {
			return nil
		}
	}
}
