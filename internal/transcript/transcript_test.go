package transcript

import "testing"

func TestNewNeverNil(t *testing.T) {
	tr := New(nil)
	if tr.Cues == nil {
		t.Fatal("expected non-nil cue slice")
	}
	if len(tr.Cues) != 0 {
		t.Errorf("expected no cues, got %d", len(tr.Cues))
	}
	if tr.DurationMS() != 0 {
		t.Errorf("expected zero duration, got %d", tr.DurationMS())
	}
}

func TestDurations(t *testing.T) {
	tr := New([]Cue{
		{StartMS: 0, EndMS: 5000},
		{StartMS: 1000, EndMS: 2500, Text: "later cue ends earlier"},
	})

	// the last cue decides, not the maximum end
	if got := tr.DurationMS(); got != 2500 {
		t.Errorf("DurationMS = %d, want 2500", got)
	}

	tests := []struct {
		cue  Cue
		want int64
	}{
		{Cue{StartMS: 100, EndMS: 600}, 500},
		{Cue{StartMS: 600, EndMS: 600}, 0},
		{Cue{StartMS: 900, EndMS: 100}, 0},
	}
	for _, tt := range tests {
		if got := tt.cue.DurationMS(); got != tt.want {
			t.Errorf("DurationMS(%+v) = %d, want %d", tt.cue, got, tt.want)
		}
	}

	neg := New([]Cue{{StartMS: -900, EndMS: -100}})
	if got := neg.DurationMS(); got != 0 {
		t.Errorf("expected negative end to floor at 0, got %d", got)
	}
}

func TestStringPtr(t *testing.T) {
	s := "speaker"
	p := StringPtr(s)
	s = "changed"
	if *p != "speaker" {
		t.Errorf("StringPtr should copy its argument, got %q", *p)
	}
}
