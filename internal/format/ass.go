package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/subtitle"
	"github.com/mgpai22/subx/internal/timecode"
	"github.com/mgpai22/subx/internal/transcript"
)

const (
	assStyleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, " +
		"OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, " +
		"Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	assEventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
)

var assEscaper = strings.NewReplacer("\r", "", `\`, `\\`, "\n", `\N`)

func (d *Decoder) decodeASS(raw string) (*transcript.Transcript, error) {
	return DecodeFirst(d.Logger, d.subtitleAttempt(subtitle.KindASS, raw))
}

func encodeASS(t *transcript.Transcript, cfg *config.Config) (string, error) {
	style := cfg.Formats.ASS
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", style.PlayResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n\n", style.PlayResY))

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(assStyleFormat + "\n")
	sb.WriteString(assStyleLine(style))
	sb.WriteString("\n")

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString(assEventFormat + "\n")

	for _, cue := range t.Cues {
		sb.WriteString(fmt.Sprintf("Dialogue: %d,%s,%s,%s,,%s,%s,%s,,%s\n",
			style.EventLayer,
			timecode.FormatCentis(withOffset(cue.StartMS, cfg)),
			timecode.FormatCentis(withOffset(cue.EndMS, cfg)),
			style.StyleName,
			assMargin(style.MarginL),
			assMargin(style.MarginR),
			assMargin(style.MarginV),
			escapeASSText(exportText(cue.Text, cfg))))
	}

	return sb.String(), nil
}

func assStyleLine(s config.ASS) string {
	fields := []string{
		s.StyleName,
		s.FontName,
		strconv.FormatFloat(s.FontSize, 'f', 1, 64),
		s.PrimaryColor,
		s.SecondaryColor,
		s.OutlineColor,
		s.BackColor,
		assBool(s.Bold),
		assBool(s.Italic),
		assBool(s.Underline),
		assBool(s.StrikeOut),
		strconv.Itoa(s.ScaleX),
		strconv.Itoa(s.ScaleY),
		strconv.FormatFloat(s.Spacing, 'f', -1, 64),
		strconv.FormatFloat(s.Angle, 'f', -1, 64),
		strconv.Itoa(s.BorderStyle),
		strconv.Itoa(s.Outline),
		strconv.Itoa(s.Shadow),
		strconv.Itoa(s.Alignment),
		assMargin(s.MarginL),
		assMargin(s.MarginR),
		assMargin(s.MarginV),
		strconv.Itoa(s.Encoding),
	}
	return "Style: " + strings.Join(fields, ",") + "\n"
}

// ASS booleans are -1 for true
func assBool(v bool) string {
	if v {
		return "-1"
	}
	return "0"
}

func assMargin(v int) string {
	v = max(0, min(v, 9999))
	return fmt.Sprintf("%04d", v)
}

// carriage returns are dropped and source backslashes doubled; the \N
// markers written for line breaks are left alone
func escapeASSText(text string) string {
	return assEscaper.Replace(text)
}
