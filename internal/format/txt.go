package format

import (
	"fmt"
	"strings"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/policy"
	"github.com/mgpai22/subx/internal/timecode"
	"github.com/mgpai22/subx/internal/transcript"
)

const txtModeTextOnly = "text_only"

// lines are either "[start --> end] text" or bare text; bare lines are laid
// out back to back from zero using synthesized durations
func (d *Decoder) decodeTXT(raw string) (*transcript.Transcript, error) {
	p := d.Config.Policy
	cues := make([]transcript.Cue, 0)
	var cursor int64

	for i, rawLine := range strings.Split(raw, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "["); ok {
			if timing, text, ok := strings.Cut(rest, "]"); ok {
				start, end, err := timecode.ParseArrowRange(strings.TrimSpace(timing))
				if err != nil {
					return nil, fmt.Errorf("txt line %d: %w", lineNum, err)
				}
				cues = append(cues, transcript.Cue{
					StartMS: start,
					EndMS:   end,
					Text:    strings.TrimSpace(text),
				})
				continue
			}
		}

		if !p.SynthesizeTimings {
			return nil, fmt.Errorf("txt line %d: %w", lineNum, ErrUntimedLine)
		}

		dur := policy.SynthDuration(line, p)
		cues = append(cues, transcript.Cue{
			StartMS: cursor,
			EndMS:   cursor + dur,
			Text:    line,
		})
		cursor += dur + p.GapMS
	}

	return transcript.New(cues), nil
}

func encodeTXT(t *transcript.Transcript, cfg *config.Config) (string, error) {
	textOnly := strings.ToLower(cfg.Formats.TXT.Mode) == txtModeTextOnly
	var sb strings.Builder

	for _, cue := range t.Cues {
		text := strings.TrimSpace(exportText(cue.Text, cfg))
		if !textOnly {
			sb.WriteString(fmt.Sprintf("[%s --> %s] ",
				timecode.FormatDot(withOffset(cue.StartMS, cfg)),
				timecode.FormatDot(withOffset(cue.EndMS, cfg))))
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}
