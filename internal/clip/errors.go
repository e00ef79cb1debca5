package clip

import (
	"errors"

	"github.com/Conceptual-Machines/magda-patterns/internal/pattern"
	"github.com/Conceptual-Machines/magda-patterns/internal/pitch"
)

var (
	ErrMissingSoundSource = errors.New("missing sound source")
	ErrEmptyPitchSource   = errors.New("empty pitch source")
)

var kinds = []struct {
	err  error
	kind string
}{
	{pattern.ErrInvalidPatternCharacter, "invalid_pattern_character"},
	{pattern.ErrUnbalancedGroup, "unbalanced_group"},
	{pattern.ErrEmptyPattern, "empty_pattern"},
	{pattern.ErrEmptyGroup, "empty_group"},
	{pitch.ErrInvalidPitchInArray, "invalid_pitch_in_array"},
	{pitch.ErrUnknownChord, "unknown_chord"},
	{ErrMissingSoundSource, "missing_sound_source"},
	{ErrEmptyPitchSource, "empty_pitch_source"},
}

// Kind returns a stable snake_case name for a compile error,
// or "" when err is not one of the engine's errors.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
