package transcript

// represents one timed text unit. EndMS <= StartMS means the timing is
// not known yet.
type Cue struct {
	StartMS int64
	EndMS   int64
	Text    string
	Speaker *string
}

func (c Cue) DurationMS() int64 {
	return max(c.EndMS-c.StartMS, 0)
}

// free-form document metadata, carried through unchanged
type Meta struct {
	Source   *string
	Language *string
}

// ordered cue sequence in decoder insertion order
type Transcript struct {
	Cues []Cue
	Meta Meta
}

func New(cues []Cue) *Transcript {
	if cues == nil {
		cues = []Cue{}
	}
	return &Transcript{Cues: cues}
}

// end of the last cue, floored at zero
func (t *Transcript) DurationMS() int64 {
	if len(t.Cues) == 0 {
		return 0
	}
	return max(t.Cues[len(t.Cues)-1].EndMS, 0)
}

// returns a pointer to a copy of s, for optional string fields
func StringPtr(s string) *string {
	return &s
}
