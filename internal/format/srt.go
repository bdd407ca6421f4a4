package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/subtitle"
	"github.com/mgpai22/subx/internal/timecode"
	"github.com/mgpai22/subx/internal/transcript"
)

// SubRip and WebVTT files are often mislabeled, so each decoder falls back
// to the other dialect.
func (d *Decoder) decodeSRT(raw string) (*transcript.Transcript, error) {
	return DecodeFirst(d.Logger,
		d.subtitleAttempt(subtitle.KindSubRip, raw),
		d.subtitleAttempt(subtitle.KindWebVTT, raw),
	)
}

func (d *Decoder) decodeVTT(raw string) (*transcript.Transcript, error) {
	return DecodeFirst(d.Logger,
		d.subtitleAttempt(subtitle.KindWebVTT, raw),
		d.subtitleAttempt(subtitle.KindSubRip, raw),
	)
}

func (d *Decoder) subtitleAttempt(kind subtitle.Kind, raw string) Attempt {
	return Attempt{
		Name: string(kind),
		Decode: func() (*transcript.Transcript, error) {
			return d.fromSubtitle(kind, raw)
		},
	}
}

func (d *Decoder) fromSubtitle(kind subtitle.Kind, raw string) (*transcript.Transcript, error) {
	events, err := d.Parser.Parse(kind, raw)
	if err != nil {
		return nil, err
	}

	cues := make([]transcript.Cue, len(events))
	for i, e := range events {
		cues[i] = transcript.Cue{
			StartMS: momentMS(e.Start),
			EndMS:   momentMS(e.End),
			Text:    e.Text,
		}
	}
	return transcript.New(cues), nil
}

func momentMS(m subtitle.Moment) int64 {
	h, mins, s, ms := int64(m.Hours), int64(m.Minutes), int64(m.Seconds), int64(m.Millis)
	return ((h*60+mins)*60+s)*1000 + ms
}

func encodeSRT(t *transcript.Transcript, cfg *config.Config) (string, error) {
	var sb strings.Builder
	writeBlocks(&sb, t, cfg, timecode.FormatComma, cfg.Formats.SRT.WrapWidth)
	return sb.String(), nil
}

func encodeVTT(t *transcript.Transcript, cfg *config.Config) (string, error) {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")
	writeBlocks(&sb, t, cfg, timecode.FormatDot, cfg.Formats.VTT.WrapWidth)
	return sb.String(), nil
}

// numbered cue blocks shared by SubRip and WebVTT
func writeBlocks(
	sb *strings.Builder,
	t *transcript.Transcript,
	cfg *config.Config,
	stamp func(int64) string,
	width int,
) {
	for i, cue := range t.Cues {
		// index (1-based)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')

		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			stamp(withOffset(cue.StartMS, cfg)),
			stamp(withOffset(cue.EndMS, cfg))))

		for _, line := range wrapText(exportText(cue.Text, cfg), width) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
}

// word wraps text to width columns; words longer than width are split.
// empty text is a single empty line
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	lines := strings.Split(ansi.Wrap(text, width, ""), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}
