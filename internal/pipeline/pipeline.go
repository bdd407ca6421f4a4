// Package pipeline runs a single conversion: detect the input format, read,
// decode, normalize, render and deliver.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/format"
	"github.com/mgpai22/subx/internal/logging"
	"github.com/mgpai22/subx/internal/policy"
	"github.com/mgpai22/subx/internal/transcript"
)

// StdinPath names standard input as the conversion source.
const StdinPath = "-"

var (
	ErrReadInput         = errors.New("failed to read input")
	ErrNoDestination     = errors.New("output path required when input is stdin and stdout is not selected")
	ErrDestinationExists = errors.New("refusing to overwrite existing file (pass --overwrite)")
)

// Request describes one conversion.
type Request struct {
	// Input is a file path or "-" for stdin.
	Input string
	// Output is optional; derived from Input when empty.
	Output string
	// From forces the input format; inferred from Input when empty.
	From      format.Format
	To        format.Format
	Stdout    bool
	Overwrite bool
}

// Result reports what a conversion did.
type Result struct {
	InputFormat format.Format
	// OutputPath is empty when the output went to stdout.
	OutputPath string
	Cues       int
	DurationMS int64
}

type Converter struct {
	Config  *config.Config
	Logger  *logging.Logger
	Decoder *format.Decoder
	Stdin   io.Reader
	Stdout  io.Writer
}

func New(cfg *config.Config, logger *logging.Logger) *Converter {
	return &Converter{
		Config:  cfg,
		Logger:  logger,
		Decoder: format.NewDecoder(cfg, logger),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}
}

func (c *Converter) Convert(req Request) (*Result, error) {
	inputFormat := req.From
	if inputFormat == "" {
		inputFormat = DetectFormat(req.Input)
	}
	c.Logger.Infow("input format selected",
		"input", req.Input,
		"format", inputFormat,
		"to", req.To,
	)

	raw, err := c.readInput(req.Input)
	if err != nil {
		return nil, err
	}
	c.Logger.Infow("read input", "bytes", len(raw))

	t, err := c.decode(raw, inputFormat)
	if err != nil {
		return nil, fmt.Errorf("failed parsing input as %s: %w", inputFormat, err)
	}

	policy.Apply(t, c.Config.Policy)
	c.logSummary(t)

	rendered, err := format.Encode(req.To, t, c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed rendering %s: %w", req.To, err)
	}

	result := &Result{
		InputFormat: inputFormat,
		Cues:        len(t.Cues),
		DurationMS:  t.DurationMS(),
	}

	if req.Stdout {
		if _, err := io.WriteString(c.Stdout, rendered); err != nil {
			return nil, fmt.Errorf("failed to write to stdout: %w", err)
		}
		c.Logger.Infow("wrote output", "mode", "stdout")
		return result, nil
	}

	outPath, err := OutputPath(req)
	if err != nil {
		return nil, err
	}
	if err := writeOutput(outPath, rendered, req.Overwrite); err != nil {
		return nil, err
	}
	c.Logger.Infow("wrote output file", "path", outPath)

	result.OutputPath = outPath
	return result, nil
}

// DetectFormat infers the input format from the path. Stdin and unknown
// extensions are treated as plain text.
func DetectFormat(input string) format.Format {
	if input == StdinPath {
		return format.FormatTXT
	}
	if f, ok := format.FromExtension(input); ok {
		return f
	}
	return format.FormatTXT
}

// OutputPath picks the destination file: the explicit output, otherwise
// <input dir>/<input stem>.<target extension>.
func OutputPath(req Request) (string, error) {
	if req.Output != "" {
		return req.Output, nil
	}
	if req.Input == StdinPath {
		return "", ErrNoDestination
	}

	base := filepath.Base(req.Input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", fmt.Errorf("bad input filename: %s", req.Input)
	}

	return filepath.Join(filepath.Dir(req.Input), stem+req.To.Extension()), nil
}

func (c *Converter) readInput(input string) (string, error) {
	var data []byte
	var err error
	if input == StdinPath {
		data, err = io.ReadAll(c.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrReadInput, input, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w %s: not valid UTF-8", ErrReadInput, input)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// plain text that looks like JSON is tried as JSON first
func (c *Converter) decode(raw string, f format.Format) (*transcript.Transcript, error) {
	if f == format.FormatTXT && looksLikeJSON(raw) {
		c.Logger.Infow("text input looks like JSON; attempting JSON parse")
		return format.DecodeFirst(c.Logger,
			c.attempt(format.FormatJSON, raw),
			c.attempt(format.FormatTXT, raw),
		)
	}
	return c.Decoder.Decode(f, raw)
}

func (c *Converter) attempt(f format.Format, raw string) format.Attempt {
	return format.Attempt{
		Name: string(f),
		Decode: func() (*transcript.Transcript, error) {
			return c.Decoder.Decode(f, raw)
		},
	}
}

func looksLikeJSON(raw string) bool {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func (c *Converter) logSummary(t *transcript.Transcript) {
	c.Logger.Infow("transcript summary",
		"cues", len(t.Cues),
		"duration_ms", t.DurationMS(),
	)

	if !c.Logger.DebugEnabled() {
		return
	}
	n := min(max(c.Config.Logging.DebugCueSamples, 0), len(t.Cues))
	for i, cue := range t.Cues[:n] {
		c.Logger.Debugw("cue sample",
			"idx", i,
			"start_ms", cue.StartMS,
			"end_ms", cue.EndMS,
			"chars", utf8.RuneCountInString(cue.Text),
		)
	}
}

func writeOutput(path, data string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrDestinationExists, path)
	}
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
