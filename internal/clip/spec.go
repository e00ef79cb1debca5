package clip

import (
	"fmt"

	"github.com/Conceptual-Machines/magda-patterns/internal/pitch"
	"github.com/Conceptual-Machines/magda-patterns/internal/velocity"
)

// Default clip parameters. A zero SubdivUnit, Amp, AccentLow or SizzleReps
// in a Spec means "use the default"; velocity 0 is a note-off in MIDI so
// there is no useful zero floor.
const (
	DefaultSubdivUnit = 0.25 // a 16th note when timing is in beats
	DefaultAmp        = 100
	DefaultAccentLow  = 70
	DefaultSizzleReps = 1
)

// Backend is the capability of whatever will play the compiled events.
// The compiler only cares which variant applies, never the concrete backend.
type Backend int

const (
	BackendNone Backend = iota
	TriggersPitchedNote
	TriggersUnpitchedNote
	StartsPlaybackOnly
)

// ParseBackend accepts the names used in clip documents
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "none":
		return BackendNone, nil
	case "pitched", "synth", "instrument":
		return TriggersPitchedNote, nil
	case "unpitched", "drum", "sample":
		return TriggersUnpitchedNote, nil
	case "playback", "player":
		return StartsPlaybackOnly, nil
	default:
		return BackendNone, fmt.Errorf("unknown backend: %q", s)
	}
}

func (b Backend) String() string {
	switch b {
	case BackendNone:
		return "none"
	case TriggersPitchedNote:
		return "pitched"
	case TriggersUnpitchedNote:
		return "unpitched"
	case StartsPlaybackOnly:
		return "playback"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// Sounds reports whether some playable backend was configured
func (b Backend) Sounds() bool {
	return b == TriggersPitchedNote || b == TriggersUnpitchedNote || b == StartsPlaybackOnly
}

// Pitched reports whether events need pitches
func (b Backend) Pitched() bool {
	return b == TriggersPitchedNote
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	parsed, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Spec is the declarative description of one clip
type Spec struct {
	Pattern     string          `json:"pattern" yaml:"pattern"`
	Notes       pitch.Source    `json:"notes,omitempty" yaml:"notes,omitempty"`
	RandomNotes pitch.Source    `json:"random_notes,omitempty" yaml:"random_notes,omitempty"`
	SubdivUnit  float64         `json:"unit,omitempty" yaml:"unit,omitempty"`
	Duration    float64         `json:"duration,omitempty" yaml:"duration,omitempty"`
	Durations   []float64       `json:"durations,omitempty" yaml:"durations,omitempty"`
	Amp         int             `json:"amp,omitempty" yaml:"amp,omitempty"`
	AccentLow   int             `json:"accent_low,omitempty" yaml:"accent_low,omitempty"`
	Accent      string          `json:"accent,omitempty" yaml:"accent,omitempty"`
	Sizzle      velocity.Sizzle `json:"sizzle,omitempty" yaml:"sizzle,omitempty"`
	SizzleReps  int             `json:"sizzle_reps,omitempty" yaml:"sizzle_reps,omitempty"`
	Shuffle     bool            `json:"shuffle,omitempty" yaml:"shuffle,omitempty"`
	Arpeggiate  bool            `json:"arpeggiate,omitempty" yaml:"arpeggiate,omitempty"`
	Backend     Backend         `json:"backend" yaml:"backend"`
}

// Defaults are the values substituted for zero fields of a Spec
type Defaults struct {
	SubdivUnit float64
	Amp        int
	AccentLow  int
}

// StandardDefaults returns the built-in defaults
func StandardDefaults() Defaults {
	return Defaults{
		SubdivUnit: DefaultSubdivUnit,
		Amp:        DefaultAmp,
		AccentLow:  DefaultAccentLow,
	}
}

// WithDefaults returns a deep copy of s with zero fields filled from d.
// Zero fields of d fall back to StandardDefaults.
func (s Spec) WithDefaults(d Defaults) Spec {
	std := StandardDefaults()
	if d.SubdivUnit <= 0 {
		d.SubdivUnit = std.SubdivUnit
	}
	if d.Amp <= 0 {
		d.Amp = std.Amp
	}
	if d.AccentLow <= 0 {
		d.AccentLow = std.AccentLow
	}

	out := s.Clone()
	if out.SubdivUnit <= 0 {
		out.SubdivUnit = d.SubdivUnit
	}
	if out.Amp <= 0 {
		out.Amp = d.Amp
	}
	if out.AccentLow <= 0 {
		out.AccentLow = d.AccentLow
	}
	if out.SizzleReps < 1 {
		out.SizzleReps = DefaultSizzleReps
	}
	return out
}

// Clone returns a copy of s that shares no slices with it
func (s Spec) Clone() Spec {
	out := s
	out.Notes = cloneSource(s.Notes)
	out.RandomNotes = cloneSource(s.RandomNotes)
	if s.Durations != nil {
		out.Durations = append([]float64{}, s.Durations...)
	}
	return out
}

func (s Spec) velocityParams() velocity.Params {
	return velocity.Params{
		Amp:        s.Amp,
		AccentLow:  s.AccentLow,
		Accent:     s.Accent,
		Sizzle:     s.Sizzle,
		SizzleReps: s.SizzleReps,
	}
}

func cloneSource(src pitch.Source) pitch.Source {
	if src == nil {
		return nil
	}
	out := make(pitch.Source, len(src))
	for i, p := range src {
		if p.IsVoicing() {
			out[i] = pitch.Voicing(p.Notes...)
		} else {
			out[i] = p
		}
	}
	return out
}
