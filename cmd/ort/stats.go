package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Neumenon/ort/ort"
)

// sizeResult compares the compact JSON and ORT renderings of one input.
type sizeResult struct {
	Name       string
	JSONBytes  int
	ORTBytes   int
	JSONTokens int
	ORTTokens  int
}

func (r sizeResult) bytesSavedPct() float64 {
	return savedPct(r.JSONBytes, r.ORTBytes)
}

func (r sizeResult) tokensSavedPct() float64 {
	return savedPct(r.JSONTokens, r.ORTTokens)
}

func savedPct(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100.0
}

func measure(name string, v *ort.Value, opts ort.GenerateOptions) (sizeResult, error) {
	jsonMin, err := ort.ToJSON(v)
	if err != nil {
		return sizeResult{}, fmt.Errorf("convert to JSON: %w", err)
	}
	text, err := ort.GenerateWithOptions(v, opts)
	if err != nil {
		return sizeResult{}, fmt.Errorf("generate ORT: %w", err)
	}
	return sizeResult{
		Name:       name,
		JSONBytes:  len(jsonMin),
		ORTBytes:   len(text),
		JSONTokens: estimateTokens(string(jsonMin)),
		ORTTokens:  estimateTokens(text),
	}, nil
}

// cmdStats prints a size comparison per input plus a total row.
func (e *cliEnv) cmdStats(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var results []sizeResult
	total := sizeResult{Name: "TOTAL"}
	for _, path := range paths {
		data, err := e.readInput(c, path)
		if err != nil {
			return exitf("read input: %v", err)
		}
		v, err := e.decode(c.String("from"), data)
		if err != nil {
			return exitf("%s: %v", inputName(path), err)
		}
		r, err := measure(inputName(path), v, e.generateOptions(c))
		if err != nil {
			return exitf("%s: %v", inputName(path), err)
		}
		results = append(results, r)

		total.JSONBytes += r.JSONBytes
		total.ORTBytes += r.ORTBytes
		total.JSONTokens += r.JSONTokens
		total.ORTTokens += r.ORTTokens
	}
	if len(results) > 1 {
		results = append(results, total)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "input\tjson bytes\tort bytes\tsaved\tjson tokens\tort tokens\tsaved\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%d\t%d\t%.1f%%\t\n",
			r.Name, r.JSONBytes, r.ORTBytes, r.bytesSavedPct(),
			r.JSONTokens, r.ORTTokens, r.tokensSavedPct())
	}
	return tw.Flush()
}

// estimateTokens approximates an LLM token count: about four characters per
// word or number chunk, one token per punctuation byte, whitespace free.
func estimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}

	tokens := 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isPunctuation(c):
			tokens++
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c):
			n := 0
			for i < len(s) && isNumberByte(s[i]) {
				n++
				i++
			}
			tokens += (n + 3) / 4
		case isWordStart(c):
			n := 0
			for i < len(s) && (isWordStart(s[i]) || isDigit(s[i])) {
				n++
				i++
			}
			tokens += (n + 3) / 4
		default:
			tokens++
			i++
		}
	}

	return max(1, tokens)
}

func isPunctuation(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ':', ',', '"', '\'', '\\', '#', '.', ';':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E'
}

func isWordStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
