// Package subtitle parses SubRip, WebVTT and ASS/SSA documents into plain
// timed events. It knows nothing about transcripts; callers convert the
// events themselves.
package subtitle

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// subtitle dialect understood by the parser
type Kind string

const (
	KindSubRip Kind = "subrip"
	KindWebVTT Kind = "webvtt"
	KindASS    Kind = "ass"
)

// point in time split into clock fields, as written in the source document
type Moment struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// single timed event with its display text; line breaks are '\n'
type Event struct {
	Start Moment
	End   Moment
	Text  string
}

// interface for parsing subtitle documents held in memory
type Parser interface {
	Parse(kind Kind, raw string) ([]Event, error)
}

// LineParser implements Parser with line scanners, one per dialect.
type LineParser struct{}

func NewParser() *LineParser {
	return &LineParser{}
}

func (p *LineParser) Parse(kind Kind, raw string) ([]Event, error) {
	switch kind {
	case KindSubRip:
		return parseSRT(raw)
	case KindWebVTT:
		return parseVTT(raw)
	case KindASS:
		return parseASS(raw)
	default:
		return nil, fmt.Errorf("unsupported subtitle kind: %s", kind)
	}
}

const maxLineSize = 1024 * 1024

func newScanner(raw string) *bufio.Scanner {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// fraction digits are right padded or truncated to milliseconds
func parseMoment(hours, minutes, seconds, frac string) (Moment, error) {
	var m Moment
	var err error

	if hours != "" {
		if m.Hours, err = strconv.Atoi(hours); err != nil {
			return m, fmt.Errorf("bad hours %q", hours)
		}
	}
	if m.Minutes, err = strconv.Atoi(minutes); err != nil {
		return m, fmt.Errorf("bad minutes %q", minutes)
	}
	if m.Seconds, err = strconv.Atoi(seconds); err != nil {
		return m, fmt.Errorf("bad seconds %q", seconds)
	}

	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	if m.Millis, err = strconv.Atoi(frac); err != nil {
		return m, fmt.Errorf("bad fraction %q", frac)
	}

	return m, nil
}
