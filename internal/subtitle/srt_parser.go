package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var srtTimingRegex = regexp.MustCompile(
	`^\s*(\d+):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{2}):(\d{2})[,.](\d{1,3})`,
)

// blocks are an optional numeric index, a timing line, then text lines up
// to the next blank line. Any other block shape is an error.
func parseSRT(raw string) ([]Event, error) {
	events := make([]Event, 0)
	scanner := newScanner(raw)

	var currentEvent *Event
	var textLines []string
	sawIndex := false
	lineNum := 0

	flush := func() {
		if currentEvent != nil {
			currentEvent.Text = strings.Join(textLines, "\n")
			events = append(events, *currentEvent)
		}
		currentEvent = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			if currentEvent == nil && sawIndex {
				return nil, fmt.Errorf(
					"SubRip cue ending at line %d has no timing line",
					lineNum,
				)
			}
			flush()
			sawIndex = false
			continue
		}

		if currentEvent != nil {
			textLines = append(textLines, line)
			continue
		}

		if !sawIndex {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				sawIndex = true
				continue
			}
		}

		matches := srtTimingRegex.FindStringSubmatch(line)
		if len(matches) != 9 {
			return nil, fmt.Errorf(
				"expected SubRip timing line at line %d, got %q",
				lineNum,
				line,
			)
		}

		start, err := parseMoment(matches[1], matches[2], matches[3], matches[4])
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
		}
		end, err := parseMoment(matches[5], matches[6], matches[7], matches[8])
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
		}

		currentEvent = &Event{Start: start, End: end}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SubRip document: %w", err)
	}

	if currentEvent == nil && sawIndex {
		return nil, fmt.Errorf("SubRip cue at end of document has no timing line")
	}
	flush()

	return events, nil
}
