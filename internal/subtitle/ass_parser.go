package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	assTimeRegex     = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})\.(\d{1,3})$`)
	assOverrideRegex = regexp.MustCompile(`\{[^}]*\}`)
	assTextReplacer  = strings.NewReplacer(`\\`, `\`, `\N`, "\n", `\n`, "\n", `\h`, " ")
)

// column layout of the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	text  int
}

func newASSColumns(formatLine string) (assColumns, error) {
	cols := assColumns{start: -1, end: -1, text: -1}

	formatPart := strings.TrimPrefix(strings.TrimSpace(formatLine), "Format:")
	columns := strings.Split(formatPart, ",")
	cols.count = len(columns)

	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "text":
			cols.text = i
		}
	}

	if cols.text == -1 {
		return cols, fmt.Errorf("ASS Format line missing Text column")
	}
	if cols.start == -1 || cols.end == -1 {
		return cols, fmt.Errorf("ASS Format line missing Start or End column")
	}
	return cols, nil
}

// sections before [Events] are skipped; inside [Events] only Dialogue
// lines produce events, Comment and other lines are ignored
func parseASS(raw string) ([]Event, error) {
	events := make([]Event, 0)
	scanner := newScanner(raw)

	var cols *assColumns
	inEventsSection := false
	sawEventsSection := false
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			sectionName := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			inEventsSection = sectionName == "events"
			if inEventsSection {
				sawEventsSection = true
			}
			continue
		}

		if !inEventsSection {
			continue
		}

		if strings.HasPrefix(trimmedLine, "Format:") {
			parsed, err := newASSColumns(trimmedLine)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cols = &parsed
			continue
		}

		if strings.HasPrefix(trimmedLine, "Dialogue:") {
			if cols == nil {
				return nil, fmt.Errorf(
					"Dialogue at line %d precedes the [Events] Format line",
					lineNum,
				)
			}
			event, err := parseDialogueLine(trimmedLine, *cols)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse Dialogue at line %d: %w",
					lineNum,
					err,
				)
			}
			events = append(events, event)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS document: %w", err)
	}

	if !sawEventsSection {
		return nil, fmt.Errorf("ASS document missing [Events] section")
	}
	if cols == nil {
		return nil, fmt.Errorf("ASS document missing Format line in [Events] section")
	}

	return events, nil
}

func parseDialogueLine(line string, cols assColumns) (Event, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))

	parts := splitASSFields(content, cols.count)
	if len(parts) < cols.count {
		return Event{}, fmt.Errorf(
			"expected %d fields, got %d",
			cols.count,
			len(parts),
		)
	}

	start, err := parseASSTimestamp(parts[cols.start])
	if err != nil {
		return Event{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseASSTimestamp(parts[cols.end])
	if err != nil {
		return Event{}, fmt.Errorf("invalid end: %w", err)
	}

	return Event{
		Start: start,
		End:   end,
		Text:  plainASSText(parts[cols.text]),
	}, nil
}

// the last field keeps any commas, since dialogue text may contain them
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			return parts
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

func parseASSTimestamp(ts string) (Moment, error) {
	matches := assTimeRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if matches == nil {
		return Moment{}, fmt.Errorf("unrecognized ASS timestamp %q", ts)
	}
	return parseMoment(matches[1], matches[2], matches[3], matches[4])
}

// strips override blocks and resolves the \N, \n, \h and \\ escapes
func plainASSText(text string) string {
	text = assOverrideRegex.ReplaceAllString(text, "")
	return assTextReplacer.Replace(text)
}
