package subtitle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ms(total int) Moment {
	return Moment{
		Hours:   total / 3600000,
		Minutes: total / 60000 % 60,
		Seconds: total / 1000 % 60,
		Millis:  total % 1000,
	}
}

func TestParseSRT(t *testing.T) {
	content := "\ufeff1\n" +
		"00:00:01,000 --> 00:00:04,000\n" +
		"Hello, world!\n" +
		"\n" +
		"2\n" +
		"00:00:05,500 --> 00:00:08,200\n" +
		"This is a test.\n" +
		"With multiple lines.\n" +
		"\n" +
		"3\r\n" +
		"01:00:10,000 --> 01:00:12,500\r\n" +
		"42\r\n"

	events, err := NewParser().Parse(KindSubRip, content)
	if err != nil {
		t.Fatalf("failed to parse SRT: %v", err)
	}

	want := []Event{
		{Start: ms(1000), End: ms(4000), Text: "Hello, world!"},
		{Start: ms(5500), End: ms(8200), Text: "This is a test.\nWith multiple lines."},
		{Start: ms(3610000), End: ms(3612500), Text: "42"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSRTWithoutIndexAndEmptyText(t *testing.T) {
	content := "00:00:01,000 --> 00:00:02,000\n\n00:00:03.5 --> 00:00:04.25\nsecond\n"

	events, err := NewParser().Parse(KindSubRip, content)
	if err != nil {
		t.Fatalf("failed to parse SRT: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Text != "" {
		t.Errorf("expected empty text, got %q", events[0].Text)
	}
	if events[1].Start != ms(3500) || events[1].End != ms(4250) {
		t.Errorf("unexpected timing: %+v", events[1])
	}
}

func TestParseSRTRejectsOtherDialects(t *testing.T) {
	inputs := map[string]string{
		"webvtt":     "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhi\n",
		"plain text": "just some words\n",
		"no timing":  "1\n\n",
		"bad timing": "1\n00:00:01 --> 00:00:02\nhi\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := NewParser().Parse(KindSubRip, input); err == nil {
				t.Errorf("expected error parsing %q as SubRip", input)
			}
		})
	}
}

func TestParseVTT(t *testing.T) {
	content := `WEBVTT - sample
Kind: captions

NOTE this is
a comment

STYLE
::cue { color: red }

1
00:00:01.000 --> 00:00:04.000 align:start
Hello, world!

intro
00:00:05.500 --> 00:00:08.200
This is a test.
With multiple lines.

00:10.000 --> 00:12.500
No cue identifier.
00:00:13.000 --> 00:00:14.000
Back to back.
`

	events, err := NewParser().Parse(KindWebVTT, content)
	if err != nil {
		t.Fatalf("failed to parse VTT: %v", err)
	}

	want := []Event{
		{Start: ms(1000), End: ms(4000), Text: "Hello, world!"},
		{Start: ms(5500), End: ms(8200), Text: "This is a test.\nWith multiple lines."},
		{Start: ms(10000), End: ms(12500), Text: "No cue identifier."},
		{Start: ms(13000), End: ms(14000), Text: "Back to back."},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVTTRejectsOtherDialects(t *testing.T) {
	inputs := map[string]string{
		"subrip":        "1\n00:00:01,000 --> 00:00:02,000\nhi\n",
		"empty":         "",
		"missing range": "WEBVTT\n\nid\nnot a timing line\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := NewParser().Parse(KindWebVTT, input); err == nil {
				t.Errorf("expected error parsing %q as WebVTT", input)
			}
		})
	}
}

func TestParseASS(t *testing.T) {
	content := `[Script Info]
Title: Test Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Comment: 0,0:00:04.00,0:00:05.00,Default,,0,0,0,,ignored
Dialogue: 0,0:00:05.50,0:00:08.20,Default,,0,0,0,,{\pos(100,200)}This has {\i1}positioning{\i0}.
Dialogue: 0,1:00:10.00,1:00:12.55,Default,,0,0,0,,Line with\Nnewline and\hspace and \\ slash.
`

	events, err := NewParser().Parse(KindASS, content)
	if err != nil {
		t.Fatalf("failed to parse ASS: %v", err)
	}

	want := []Event{
		{Start: ms(1000), End: ms(4000), Text: "Hello, world!"},
		{Start: ms(5500), End: ms(8200), Text: "This has positioning."},
		{Start: ms(3610000), End: ms(3612550), Text: "Line with\nnewline and space and \\ slash."},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseASSErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "no events section",
			content: "1\n00:00:01,000 --> 00:00:02,000\nhi\n",
			errSub:  "[Events]",
		},
		{
			name:    "no format line",
			content: "[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,hi\n",
			errSub:  "Format",
		},
		{
			name:    "missing text column",
			content: "[Events]\nFormat: Layer, Start, End\n",
			errSub:  "Text",
		},
		{
			name:    "bad timestamp",
			content: "[Events]\nFormat: Layer, Start, End, Text\nDialogue: 0,soon,0:00:02.00,hi\n",
			errSub:  "line 3",
		},
		{
			name:    "too few fields",
			content: "[Events]\nFormat: Layer, Start, End, Style, Text\nDialogue: 0,0:00:01.00\n",
			errSub:  "expected 5 fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(KindASS, tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected %q in error, got: %v", tt.errSub, err)
			}
		})
	}
}

func TestSplitASSFields(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  []string
	}{
		{"a,b,c", 3, []string{"a", "b", "c"}},
		{"a,b,c,d", 3, []string{"a", "b", "c,d"}},
		{"a,b", 3, []string{"a", "b"}},
		{"", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := splitASSFields(tt.input, tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitASSFields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUnsupportedKind(t *testing.T) {
	_, err := NewParser().Parse(Kind("sami"), "")
	if err == nil {
		t.Fatal("expected error for unsupported kind")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}
}
