// Package timecode converts between millisecond offsets and the textual
// timestamps used by the transcript formats.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// SecondsToMS rounds seconds to whole milliseconds. NaN, infinities and
// values outside the int64 range are rejected.
func SecondsToMS(secs float64) (int64, error) {
	ms := math.Round(secs * 1000)
	if math.IsNaN(ms) || ms >= math.MaxInt64 || ms < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v seconds is out of range", ErrInvalidTimestamp, secs)
	}
	return int64(ms), nil
}

// Parse accepts a bare integer (milliseconds), a bare decimal (seconds) or
// an H:MM:SS timestamp with an optional ',' or '.' fraction.
func Parse(text string) (int64, error) {
	t := strings.TrimSpace(text)

	if v, err := strconv.ParseInt(t, 10, 64); err == nil {
		return v, nil
	}

	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return SecondsToMS(v)
	}

	hms, frac, hasFrac := strings.Cut(t, ",")
	if !hasFrac {
		hms, frac, hasFrac = strings.Cut(t, ".")
	}

	parts := strings.Split(hms, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: unrecognized timestamp %q", ErrInvalidTimestamp, t)
	}

	h, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad hours in %q", ErrInvalidTimestamp, t)
	}
	m, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad minutes in %q", ErrInvalidTimestamp, t)
	}
	s, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad seconds in %q", ErrInvalidTimestamp, t)
	}

	ms := ((h*60+m)*60 + s) * 1000

	if hasFrac {
		digits := strings.TrimSpace(frac)
		if len(digits) > 3 {
			digits = digits[:3]
		}
		for len(digits) < 3 {
			digits += "0"
		}
		milli, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad milliseconds in %q", ErrInvalidTimestamp, t)
		}
		ms += milli
	}

	return ms, nil
}

// ParseArrowRange parses a "start --> end" pair.
func ParseArrowRange(line string) (int64, int64, error) {
	a, b, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing '-->' in time range %q", ErrInvalidTimestamp, line)
	}
	start, err := Parse(a)
	if err != nil {
		return 0, 0, err
	}
	end, err := Parse(b)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Format renders HH:MM:SS<sep>mmm. Negative input renders as zero.
func Format(ms int64, sep byte) string {
	if ms < 0 {
		ms = 0
	}

	totalSeconds := ms / 1000
	millis := ms % 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// SubRip style, 00:00:00,000
func FormatComma(ms int64) string {
	return Format(ms, ',')
}

// WebVTT style, 00:00:00.000
func FormatDot(ms int64) string {
	return Format(ms, '.')
}

// FormatCentis renders the ASS H:MM:SS.cc form. Centiseconds are floored.
func FormatCentis(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	totalCentis := ms / 10
	centis := totalCentis % 100
	totalSeconds := totalCentis / 100
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
