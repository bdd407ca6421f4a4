package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is picked up from the working directory when no config path is given.
const DefaultPath = "config.toml"

// Config is the top-level configuration structure for subx.
type Config struct {
	Logging Logging `toml:"logging" yaml:"logging" json:"logging"`
	Policy  Policy  `toml:"policy" yaml:"policy" json:"policy"`
	Formats Formats `toml:"formats" yaml:"formats" json:"formats"`
}

type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level" json:"level"`
	// Format is "pretty" (console) or "json".
	Format string `toml:"format" yaml:"format" json:"format"`
	// DebugCueSamples caps how many cues are logged at debug level.
	DebugCueSamples int `toml:"debug_cue_samples" yaml:"debug_cue_samples" json:"debug_cue_samples"`
}

// Policy holds the normalization and timing synthesis settings shared by
// every format.
type Policy struct {
	SynthesizeTimings   bool    `toml:"synthesize_timings" yaml:"synthesize_timings" json:"synthesize_timings"`
	CharsPerSecond      float64 `toml:"chars_per_second" yaml:"chars_per_second" json:"chars_per_second"`
	MinDurationMS       int64   `toml:"min_duration_ms" yaml:"min_duration_ms" json:"min_duration_ms"`
	MaxDurationMS       int64   `toml:"max_duration_ms" yaml:"max_duration_ms" json:"max_duration_ms"`
	GapMS               int64   `toml:"gap_ms" yaml:"gap_ms" json:"gap_ms"`
	NormalizeWhitespace bool    `toml:"normalize_whitespace" yaml:"normalize_whitespace" json:"normalize_whitespace"`
	TrimText            bool    `toml:"trim_text" yaml:"trim_text" json:"trim_text"`
	TimestampOffsetMS   int64   `toml:"timestamp_offset_ms" yaml:"timestamp_offset_ms" json:"timestamp_offset_ms"`
}

type Formats struct {
	ASS  ASS  `toml:"ass" yaml:"ass" json:"ass"`
	SRT  SRT  `toml:"srt" yaml:"srt" json:"srt"`
	VTT  VTT  `toml:"vtt" yaml:"vtt" json:"vtt"`
	TXT  TXT  `toml:"txt" yaml:"txt" json:"txt"`
	TSV  TSV  `toml:"tsv" yaml:"tsv" json:"tsv"`
	JSON JSON `toml:"json" yaml:"json" json:"json"`
}

type SRT struct {
	WrapWidth int `toml:"wrap_width" yaml:"wrap_width" json:"wrap_width"`
	// MaxLines is advisory; wrapped text is never truncated.
	MaxLines int `toml:"max_lines" yaml:"max_lines" json:"max_lines"`
}

type VTT struct {
	WrapWidth int `toml:"wrap_width" yaml:"wrap_width" json:"wrap_width"`
}

type TXT struct {
	// Mode is "timestamp_range" or "text_only".
	Mode string `toml:"mode" yaml:"mode" json:"mode"`
}

type TSV struct {
	// TimeUnits is "ms", "seconds" or "timestamp".
	TimeUnits string   `toml:"time_units" yaml:"time_units" json:"time_units"`
	Columns   []string `toml:"columns" yaml:"columns" json:"columns"`
}

type JSON struct {
	// TimeUnits is "ms" or "seconds".
	TimeUnits string `toml:"time_units" yaml:"time_units" json:"time_units"`
	Wrapped   bool   `toml:"wrapped" yaml:"wrapped" json:"wrapped"`
}

// ASS describes the single style block and event defaults written to
// Advanced SubStation Alpha output.
type ASS struct {
	PlayResX       int     `toml:"play_res_x" yaml:"play_res_x" json:"play_res_x"`
	PlayResY       int     `toml:"play_res_y" yaml:"play_res_y" json:"play_res_y"`
	StyleName      string  `toml:"style_name" yaml:"style_name" json:"style_name"`
	FontName       string  `toml:"font_name" yaml:"font_name" json:"font_name"`
	FontSize       float64 `toml:"font_size" yaml:"font_size" json:"font_size"`
	PrimaryColor   string  `toml:"primary_color" yaml:"primary_color" json:"primary_color"`
	SecondaryColor string  `toml:"secondary_color" yaml:"secondary_color" json:"secondary_color"`
	OutlineColor   string  `toml:"outline_color" yaml:"outline_color" json:"outline_color"`
	BackColor      string  `toml:"back_color" yaml:"back_color" json:"back_color"`
	Bold           bool    `toml:"bold" yaml:"bold" json:"bold"`
	Italic         bool    `toml:"italic" yaml:"italic" json:"italic"`
	Underline      bool    `toml:"underline" yaml:"underline" json:"underline"`
	StrikeOut      bool    `toml:"strike_out" yaml:"strike_out" json:"strike_out"`
	ScaleX         int     `toml:"scale_x" yaml:"scale_x" json:"scale_x"`
	ScaleY         int     `toml:"scale_y" yaml:"scale_y" json:"scale_y"`
	Spacing        float64 `toml:"spacing" yaml:"spacing" json:"spacing"`
	Angle          float64 `toml:"angle" yaml:"angle" json:"angle"`
	BorderStyle    int     `toml:"border_style" yaml:"border_style" json:"border_style"`
	Outline        int     `toml:"outline" yaml:"outline" json:"outline"`
	Shadow         int     `toml:"shadow" yaml:"shadow" json:"shadow"`
	Alignment      int     `toml:"alignment" yaml:"alignment" json:"alignment"`
	MarginL        int     `toml:"margin_l" yaml:"margin_l" json:"margin_l"`
	MarginR        int     `toml:"margin_r" yaml:"margin_r" json:"margin_r"`
	MarginV        int     `toml:"margin_v" yaml:"margin_v" json:"margin_v"`
	Encoding       int     `toml:"encoding" yaml:"encoding" json:"encoding"`
	EventLayer     int     `toml:"event_layer" yaml:"event_layer" json:"event_layer"`
}

func Default() *Config {
	return &Config{
		Logging: Logging{
			Level:           "info",
			Format:          "pretty",
			DebugCueSamples: 20,
		},
		Policy: Policy{
			SynthesizeTimings:   true,
			CharsPerSecond:      18.0,
			MinDurationMS:       600,
			MaxDurationMS:       8000,
			GapMS:               120,
			NormalizeWhitespace: true,
			TrimText:            true,
			TimestampOffsetMS:   0,
		},
		Formats: Formats{
			ASS: ASS{
				PlayResX:       1920,
				PlayResY:       1080,
				StyleName:      "Default",
				FontName:       "Arial",
				FontSize:       38.0,
				PrimaryColor:   "&H00FFFFFF",
				SecondaryColor: "&H000000FF",
				OutlineColor:   "&H00000000",
				BackColor:      "&H00000000",
				ScaleX:         100,
				ScaleY:         100,
				BorderStyle:    1,
				Outline:        2,
				Shadow:         0,
				Alignment:      2,
				MarginL:        10,
				MarginR:        10,
				MarginV:        10,
				Encoding:       1,
				EventLayer:     0,
			},
			SRT:  SRT{WrapWidth: 42, MaxLines: 2},
			VTT:  VTT{WrapWidth: 60},
			TXT:  TXT{Mode: "timestamp_range"},
			TSV:  TSV{TimeUnits: "ms", Columns: []string{"start", "end", "text", "speaker"}},
			JSON: JSON{TimeUnits: "seconds", Wrapped: true},
		},
	}
}

// Load reads the config at path over the defaults. An empty path falls
// back to DefaultPath when that file exists, otherwise defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return Default(), nil
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML, or YAML when ext is .yaml/.yml. Keys present in
// data overwrite the defaults; unknown keys are rejected.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	p := c.Policy
	if p.CharsPerSecond <= 0 {
		return fmt.Errorf("policy.chars_per_second must be positive, got %v", p.CharsPerSecond)
	}
	if p.MinDurationMS > p.MaxDurationMS {
		return fmt.Errorf(
			"policy.min_duration_ms (%d) exceeds policy.max_duration_ms (%d)",
			p.MinDurationMS,
			p.MaxDurationMS,
		)
	}
	if c.Formats.SRT.WrapWidth <= 0 {
		return fmt.Errorf("formats.srt.wrap_width must be positive, got %d", c.Formats.SRT.WrapWidth)
	}
	if c.Formats.VTT.WrapWidth <= 0 {
		return fmt.Errorf("formats.vtt.wrap_width must be positive, got %d", c.Formats.VTT.WrapWidth)
	}
	return nil
}

func (c *Config) ToTOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed serializing config as TOML: %w", err)
	}
	return data, nil
}

// Schema returns the JSON schema of the config file, keyed by TOML names.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "subx configuration"
	schema.Description = "Schema for the subx config.toml file."

	return json.MarshalIndent(schema, "", "  ")
}
