package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/timecode"
	"github.com/mgpai22/subx/internal/transcript"
	"github.com/tidwall/gjson"
)

const (
	jsonSchemaName    = "subxform.transcript"
	jsonSchemaVersion = 1
	jsonUnitsMS       = "ms"
)

type jsonDocument struct {
	Schema  string    `json:"schema"`
	Version int       `json:"version"`
	Cues    []jsonCue `json:"cues"`
}

type jsonCue struct {
	Start   any     `json:"start"`
	End     any     `json:"end"`
	Text    string  `json:"text"`
	Speaker *string `json:"speaker"`
}

// seconds keep a decimal point even when whole, so readers see a float
type jsonSeconds float64

func (s jsonSeconds) MarshalJSON() ([]byte, error) {
	v := float64(s)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("invalid seconds value %v", v)
	}
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	return []byte(out), nil
}

// accepted shapes, in order: {"cues": [...]}, {"segments": [...]}, [...]
func (d *Decoder) decodeJSON(raw string) (*transcript.Transcript, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON document")
	}

	root := gjson.Parse(raw)
	if root.IsObject() {
		if cues := root.Get("cues"); cues.Exists() {
			return decodeJSONCues(cues, "cues")
		}
		if segs := root.Get("segments"); segs.Exists() {
			return decodeJSONSegments(segs)
		}
	}
	if root.IsArray() {
		return decodeJSONCues(root, "cues")
	}

	return nil, ErrUnknownShape
}

func decodeJSONCues(arr gjson.Result, field string) (*transcript.Transcript, error) {
	if !arr.IsArray() {
		return nil, fmt.Errorf("%s must be an array", field)
	}

	cues := make([]transcript.Cue, 0)
	for i, item := range arr.Array() {
		if !item.IsObject() {
			return nil, fmt.Errorf("cue %d must be an object", i)
		}

		start, err := requiredJSONTime(item, "start")
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", i, err)
		}
		end, err := requiredJSONTime(item, "end")
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", i, err)
		}

		text := item.Get("text")
		if text.Type != gjson.String {
			return nil, fmt.Errorf("cue %d: missing text", i)
		}

		cue := transcript.Cue{
			StartMS: start,
			EndMS:   end,
			Text:    text.String(),
		}
		if speaker := item.Get("speaker"); speaker.Type == gjson.String {
			cue.Speaker = transcript.StringPtr(speaker.String())
		}
		cues = append(cues, cue)
	}

	return transcript.New(cues), nil
}

// segment times may be absent; zero leaves end <= start so the normalizer
// synthesizes them
func decodeJSONSegments(arr gjson.Result) (*transcript.Transcript, error) {
	if !arr.IsArray() {
		return nil, errors.New("segments must be an array")
	}

	cues := make([]transcript.Cue, 0)
	for i, item := range arr.Array() {
		if !item.IsObject() {
			return nil, fmt.Errorf("segment %d must be an object", i)
		}

		var cue transcript.Cue
		var err error
		if v := item.Get("start"); v.Exists() {
			if cue.StartMS, err = jsonTimeMS(v); err != nil {
				return nil, fmt.Errorf("segment %d: start: %w", i, err)
			}
		}
		if v := item.Get("end"); v.Exists() {
			if cue.EndMS, err = jsonTimeMS(v); err != nil {
				return nil, fmt.Errorf("segment %d: end: %w", i, err)
			}
		}
		if text := item.Get("text"); text.Type == gjson.String {
			cue.Text = text.String()
		}
		cues = append(cues, cue)
	}

	return transcript.New(cues), nil
}

func requiredJSONTime(item gjson.Result, key string) (int64, error) {
	v := item.Get(key)
	if !v.Exists() {
		return 0, fmt.Errorf("missing %s", key)
	}
	ms, err := jsonTimeMS(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return ms, nil
}

// integral numbers are milliseconds, anything with a fraction or exponent
// is seconds; the rule applies to each field on its own
func jsonTimeMS(v gjson.Result) (int64, error) {
	switch v.Type {
	case gjson.Number:
		if ms, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return ms, nil
		}
		return timecode.SecondsToMS(v.Float())
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ms, nil
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return timecode.SecondsToMS(secs)
		}
		return timecode.Parse(s)
	default:
		return 0, fmt.Errorf("unsupported time value %s", v.Raw)
	}
}

func encodeJSON(t *transcript.Transcript, cfg *config.Config) (string, error) {
	opts := cfg.Formats.JSON

	cues := make([]jsonCue, len(t.Cues))
	for i, c := range t.Cues {
		cues[i] = jsonCue{
			Start:   jsonTime(withOffset(c.StartMS, cfg), opts.TimeUnits),
			End:     jsonTime(withOffset(c.EndMS, cfg), opts.TimeUnits),
			Text:    c.Text,
			Speaker: c.Speaker,
		}
	}

	var payload any = cues
	if opts.Wrapped {
		payload = jsonDocument{
			Schema:  jsonSchemaName,
			Version: jsonSchemaVersion,
			Cues:    cues,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func jsonTime(ms int64, units string) any {
	if units == jsonUnitsMS {
		return ms
	}
	return jsonSeconds(float64(ms) / 1000)
}
