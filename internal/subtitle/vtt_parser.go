package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// hours are optional in WebVTT; cue settings may follow the end time
var vttTimingRegex = regexp.MustCompile(
	`^\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s+-->\s+(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})`,
)

func isVTTHeader(line string) bool {
	return line == "WEBVTT" ||
		strings.HasPrefix(line, "WEBVTT ") ||
		strings.HasPrefix(line, "WEBVTT\t")
}

func isVTTMetadataBlock(line string) bool {
	for _, prefix := range []string{"NOTE", "STYLE", "REGION"} {
		if line == prefix ||
			strings.HasPrefix(line, prefix+" ") ||
			strings.HasPrefix(line, prefix+"\t") {
			return true
		}
	}
	return false
}

func parseVTT(raw string) ([]Event, error) {
	events := make([]Event, 0)
	scanner := newScanner(raw)

	var currentEvent *Event
	var textLines []string
	headerSeen := false
	skipping := false
	pendingID := false
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
		trimmed := strings.TrimSpace(line)

		if !headerSeen {
			if trimmed == "" {
				continue
			}
			if !isVTTHeader(trimmed) {
				return nil, fmt.Errorf("missing WEBVTT header at line %d", lineNum)
			}
			headerSeen = true
			// the header block may carry metadata lines until the first blank
			skipping = true
			continue
		}

		if trimmed == "" {
			if pendingID {
				return nil, fmt.Errorf(
					"WebVTT cue ending at line %d has no timing line",
					lineNum,
				)
			}
			flush()
			skipping = false
			continue
		}

		if skipping {
			continue
		}

		if currentEvent == nil && !pendingID && isVTTMetadataBlock(trimmed) {
			skipping = true
			continue
		}

		matches := vttTimingRegex.FindStringSubmatch(line)
		if len(matches) == 9 {
			flush()

			start, err := parseMoment(matches[1], matches[2], matches[3], matches[4])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := parseMoment(matches[5], matches[6], matches[7], matches[8])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}

			currentEvent = &Event{Start: start, End: end}
			pendingID = false
			continue
		}

		if currentEvent == nil {
			if pendingID {
				return nil, fmt.Errorf(
					"expected WebVTT timing line at line %d, got %q",
					lineNum,
					line,
				)
			}
			// cue identifier
			pendingID = true
			continue
		}

		textLines = append(textLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading WebVTT document: %w", err)
	}

	if !headerSeen {
		return nil, fmt.Errorf("missing WEBVTT header")
	}
	if pendingID {
		return nil, fmt.Errorf("WebVTT cue at end of document has no timing line")
	}
	flush()

	return events, nil
}
