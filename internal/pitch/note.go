package pitch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MIDI range bounds
const (
	minMIDI   = 0
	maxMIDI   = 127
	minOctave = -1
	maxOctave = 9
)

// Note semitone offsets from C
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// IsNoteName reports whether s is a note name like "E1", "C4", "F#3", "Bb2" or "C-1"
func IsNoteName(s string) bool {
	_, err := MIDI(s)
	return err == nil
}

// MIDI converts a note name to a MIDI note number.
// Format: <note><accidental?><octave> where:
//   - note: A-G (case insensitive)
//   - accidental: # (sharp) or b (flat), optional
//   - octave: -1 to 9 (C4 = 60 = middle C)
func MIDI(noteName string) (int, error) {
	if len(noteName) < 2 {
		return 0, fmt.Errorf("note name too short: %q", noteName)
	}

	letter := strings.ToUpper(noteName[:1])[0]
	semitone, ok := noteOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note letter: %q", noteName[:1])
	}

	idx := 1
	switch noteName[idx] {
	case '#':
		semitone++
		idx++
	case 'b':
		semitone--
		idx++
	}

	if idx >= len(noteName) {
		return 0, fmt.Errorf("missing octave in note name: %q", noteName)
	}

	octave, err := strconv.Atoi(noteName[idx:])
	if err != nil || noteName[idx] == '+' {
		return 0, fmt.Errorf("invalid octave in note name %q", noteName)
	}
	if octave < minOctave || octave > maxOctave {
		return 0, fmt.Errorf("octave out of range in note name %q", noteName)
	}

	// C-1 = 0, C0 = 12, C4 = 60
	midi := (octave+1)*12 + semitone
	if midi < minMIDI || midi > maxMIDI {
		return 0, fmt.Errorf("note %q outside MIDI range", noteName)
	}
	return midi, nil
}

// NameOf returns the sharp spelling of a MIDI note number, e.g. 61 -> "C#4"
func NameOf(midi int) string {
	if midi < minMIDI {
		midi = minMIDI
	}
	if midi > maxMIDI {
		midi = maxMIDI
	}
	return sharpNames[midi%12] + strconv.Itoa(midi/12-1)
}

// SortAscending returns a copy of notes ordered from lowest to highest pitch.
// Names that do not parse keep their relative order at the end.
func SortAscending(notes []string) []string {
	sorted := make([]string, len(notes))
	copy(sorted, notes)

	key := func(name string) int {
		m, err := MIDI(name)
		if err != nil {
			return maxMIDI + 1
		}
		return m
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})
	return sorted
}
