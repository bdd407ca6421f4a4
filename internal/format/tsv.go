package format

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/timecode"
	"github.com/mgpai22/subx/internal/transcript"
)

const (
	tsvUnitsSeconds   = "seconds"
	tsvUnitsTimestamp = "timestamp"
)

func (d *Decoder) decodeTSV(raw string) (*transcript.Transcript, error) {
	units := d.Config.Formats.TSV.TimeUnits

	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = '\t'

	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read TSV header: %w", err)
	}

	column := func(name string) (int, error) {
		ix := slices.Index(header, name)
		if ix < 0 {
			return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
		return ix, nil
	}

	startIx, err := column("start")
	if err != nil {
		return nil, err
	}
	endIx, err := column("end")
	if err != nil {
		return nil, err
	}
	textIx, err := column("text")
	if err != nil {
		return nil, err
	}
	speakerIx := slices.Index(header, "speaker")

	cues := make([]transcript.Cue, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read TSV row: %w", err)
		}
		line, _ := r.FieldPos(0)

		start, err := parseTSVTime(rec[startIx], units)
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: start: %w", line, err)
		}
		end, err := parseTSVTime(rec[endIx], units)
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: end: %w", line, err)
		}

		cue := transcript.Cue{
			StartMS: start,
			EndMS:   end,
			Text:    rec[textIx],
		}
		if speakerIx >= 0 {
			if s := strings.TrimSpace(rec[speakerIx]); s != "" {
				cue.Speaker = transcript.StringPtr(s)
			}
		}
		cues = append(cues, cue)
	}

	return transcript.New(cues), nil
}

func parseTSVTime(cell, units string) (int64, error) {
	cell = strings.TrimSpace(cell)
	if units == tsvUnitsSeconds {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number of seconds", timecode.ErrInvalidTimestamp, cell)
		}
		return timecode.SecondsToMS(v)
	}
	return timecode.Parse(cell)
}

func encodeTSV(t *transcript.Transcript, cfg *config.Config) (string, error) {
	cols := cfg.Formats.TSV.Columns
	units := cfg.Formats.TSV.TimeUnits

	var sb strings.Builder
	writeTSVRow(&sb, cols)

	row := make([]string, len(cols))
	for _, cue := range t.Cues {
		for i, col := range cols {
			row[i] = tsvCell(col, cue, units, cfg)
		}
		writeTSVRow(&sb, row)
	}

	return sb.String(), nil
}

// cells are quoted only when they hold a tab, quote or line break; leading
// and trailing spaces are written as they are
func writeTSVRow(sb *strings.Builder, cells []string) {
	if len(cells) == 1 && cells[0] == "" {
		sb.WriteString("\"\"\n")
		return
	}
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte('\t')
		}
		if strings.ContainsAny(cell, "\t\"\r\n") {
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			sb.WriteByte('"')
			continue
		}
		sb.WriteString(cell)
	}
	sb.WriteByte('\n')
}

func tsvCell(col string, cue transcript.Cue, units string, cfg *config.Config) string {
	switch col {
	case "start":
		return formatTSVTime(withOffset(cue.StartMS, cfg), units)
	case "end":
		return formatTSVTime(withOffset(cue.EndMS, cfg), units)
	case "text":
		return cue.Text
	case "speaker":
		if cue.Speaker != nil {
			return *cue.Speaker
		}
		return ""
	default:
		return ""
	}
}

func formatTSVTime(ms int64, units string) string {
	switch units {
	case tsvUnitsSeconds:
		return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
	case tsvUnitsTimestamp:
		return timecode.FormatDot(ms)
	default:
		return strconv.FormatInt(ms, 10)
	}
}
