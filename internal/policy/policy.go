// Package policy applies text cleanup and timing synthesis to a transcript.
package policy

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/transcript"
)

// Apply runs the normalization pass in place: trim, collapse whitespace,
// then synthesize timings for cues whose end does not follow their start.
// Cue order and already valid timings are never changed.
func Apply(t *transcript.Transcript, p config.Policy) {
	if p.TrimText || p.NormalizeWhitespace {
		for i := range t.Cues {
			t.Cues[i].Text = CleanText(t.Cues[i].Text, p)
		}
	}

	if !p.SynthesizeTimings {
		return
	}

	var cursor int64
	for i := range t.Cues {
		c := &t.Cues[i]
		if c.EndMS <= c.StartMS {
			c.StartMS = cursor
			c.EndMS = cursor + SynthDuration(c.Text, p)
		}
		cursor = c.EndMS + p.GapMS
	}
}

// CleanText applies the configured trim and whitespace collapse.
func CleanText(text string, p config.Policy) string {
	if p.TrimText {
		text = strings.TrimSpace(text)
	}
	if p.NormalizeWhitespace {
		text = CollapseWhitespace(text)
	}
	return text
}

// CollapseWhitespace replaces every whitespace run with one space and trims
// both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SynthDuration estimates how long text stays on screen from its character
// count and the configured reading speed, clamped to [min, max].
func SynthDuration(text string, p config.Policy) int64 {
	cps := math.Max(p.CharsPerSecond, 1.0)
	chars := float64(utf8.RuneCountInString(text))
	d := int64(math.Round(chars / cps * 1000))

	if d < p.MinDurationMS {
		d = p.MinDurationMS
	}
	if d > p.MaxDurationMS {
		d = p.MaxDurationMS
	}
	return d
}
