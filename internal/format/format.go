// Package format decodes the six supported transcript encodings into the
// canonical transcript model and renders the model back out.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/logging"
	"github.com/mgpai22/subx/internal/policy"
	"github.com/mgpai22/subx/internal/subtitle"
	"github.com/mgpai22/subx/internal/transcript"
)

// represents supported transcript formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatTXT  Format = "txt"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingColumn     = errors.New("missing column")
	ErrUntimedLine       = errors.New("line has no timestamps and synthesize_timings is disabled")
	ErrUnknownShape      = errors.New("unrecognized JSON transcript shape")
)

type decodeFunc func(d *Decoder, raw string) (*transcript.Transcript, error)

type encodeFunc func(t *transcript.Transcript, cfg *config.Config) (string, error)

var decoders = map[Format]decodeFunc{
	FormatSRT:  (*Decoder).decodeSRT,
	FormatVTT:  (*Decoder).decodeVTT,
	FormatASS:  (*Decoder).decodeASS,
	FormatTXT:  (*Decoder).decodeTXT,
	FormatTSV:  (*Decoder).decodeTSV,
	FormatJSON: (*Decoder).decodeJSON,
}

var encoders = map[Format]encodeFunc{
	FormatSRT:  encodeSRT,
	FormatVTT:  encodeVTT,
	FormatASS:  encodeASS,
	FormatTXT:  encodeTXT,
	FormatTSV:  encodeTSV,
	FormatJSON: encodeJSON,
}

// All lists every format in display order.
func All() []Format {
	return []Format{FormatSRT, FormatVTT, FormatASS, FormatTXT, FormatTSV, FormatJSON}
}

// Parse resolves a user supplied format name.
func Parse(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "ssa" {
		return FormatASS, nil
	}
	f := Format(n)
	if _, ok := decoders[f]; !ok {
		return "", fmt.Errorf("%w %q: use srt, vtt, ass, txt, tsv, or json", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// canonical file extension, with the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// FromExtension infers the format of path from its extension.
func FromExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, true
	case ".vtt":
		return FormatVTT, true
	case ".ass", ".ssa":
		return FormatASS, true
	case ".txt":
		return FormatTXT, true
	case ".tsv":
		return FormatTSV, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Decoder turns raw documents into transcripts. Parser handles the
// subtitle dialects; Config supplies policy and per-format settings.
type Decoder struct {
	Config *config.Config
	Logger *logging.Logger
	Parser subtitle.Parser
}

func NewDecoder(cfg *config.Config, logger *logging.Logger) *Decoder {
	return &Decoder{
		Config: cfg,
		Logger: logger,
		Parser: subtitle.NewParser(),
	}
}

// Decode parses raw as format f. A failure never yields a partial transcript.
func (d *Decoder) Decode(f Format, raw string) (*transcript.Transcript, error) {
	decode, ok := decoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return decode(d, raw)
}

// Encode renders t as format f.
func Encode(f Format, t *transcript.Transcript, cfg *config.Config) (string, error) {
	encode, ok := encoders[f]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return encode(t, cfg)
}

// cue text as written by encoders, with the same cleanup as the normalizer
func exportText(text string, cfg *config.Config) string {
	return policy.CleanText(text, cfg.Policy)
}

func withOffset(ms int64, cfg *config.Config) int64 {
	return ms + cfg.Policy.TimestampOffsetMS
}
