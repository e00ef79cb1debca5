package render

import (
	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
	"github.com/Conceptual-Machines/magda-patterns/internal/pattern"
)

// Window is how much of a looping clip a one-shot render has to capture so
// every pairing of pitch-cycle position and pattern position occurs once.
type Window struct {
	Repetitions int     `json:"repetitions"` // passes over the pattern
	Steps       int     `json:"steps"`       // phase steps covered by all passes
	Duration    float64 `json:"duration"`
}

// Synchronize computes the window for a pattern with `steps` phase steps,
// a pitch source of `pitches` entries and a total pattern length of span.
// Repetitions is lcm(steps, pitches)/steps and Duration is
// span/steps * lcm(steps, pitches). Without steps or pitches there is
// nothing to align and one pass of the pattern is enough.
func Synchronize(steps, pitches int, span float64) Window {
	if steps <= 0 || pitches <= 0 {
		return Window{Repetitions: 1, Steps: max(steps, 0), Duration: span}
	}

	l := lcm(steps, pitches)
	return Window{
		Repetitions: l / steps,
		Steps:       l,
		Duration:    span / float64(steps) * float64(l),
	}
}

// ForClip computes the window of a clip spec. Random hits are left out of
// the phase when the clip has its own random notes, since they never
// advance the deterministic cycle.
func ForClip(spec clip.Spec) (Window, error) {
	s := spec.WithDefaults(clip.StandardDefaults())

	tokens, err := pattern.Parse(s.Pattern)
	if err != nil {
		return Window{}, err
	}

	steps := pattern.Allocate(tokens, s.SubdivUnit)
	phase := len(steps)
	if len(s.RandomNotes) > 0 {
		for _, step := range steps {
			if step.Kind == pattern.RandomHit {
				phase--
			}
		}
	}

	return Synchronize(phase, len(s.Notes), pattern.Span(tokens, s.SubdivUnit)), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
