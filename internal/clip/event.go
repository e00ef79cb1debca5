package clip

import "github.com/Conceptual-Machines/magda-patterns/internal/pitch"

// NoteEvent is one compiled event. Start is the offset from the clip start
// on the pattern grid, Step the sounding-step counter it came from
// (arpeggiated sub-events share a Step). Pitches is empty for unpitched
// backends.
type NoteEvent struct {
	Index    int      `json:"index"`
	Step     int      `json:"step"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Pitches  []string `json:"pitches,omitempty"`
	Velocity int      `json:"velocity"`
}

// End returns Start + Duration
func (e NoteEvent) End() float64 {
	return e.Start + e.Duration
}

// MIDINotes converts the event pitches to MIDI note numbers (C4 = 60)
func (e NoteEvent) MIDINotes() []int {
	notes := make([]int, 0, len(e.Pitches))
	for _, p := range e.Pitches {
		// Pitches are validated at compile time
		if n, err := pitch.MIDI(p); err == nil {
			notes = append(notes, n)
		}
	}
	return notes
}

// Compiled is the result of compiling one clip
type Compiled struct {
	Spec          Spec        `json:"spec"`
	Events        []NoteEvent `json:"events"`
	SoundingSteps int         `json:"sounding_steps"`
	Span          float64     `json:"span"`
}

// TotalDuration is the pattern span, or the end of the last event when an
// explicit duration list or override runs past it
func (c *Compiled) TotalDuration() float64 {
	total := c.Span
	for _, e := range c.Events {
		if end := e.End(); end > total {
			total = end
		}
	}
	return total
}
