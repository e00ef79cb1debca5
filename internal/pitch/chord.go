package pitch

import (
	"strconv"
	"strings"
)

const defaultChordOctave = 4

// Chord intervals in semitones from the root, keyed by the text that follows
// the root in a chord symbol.
var chordIntervals = map[string][]int{
	// Triads
	"":     {0, 4, 7},
	"M":    {0, 4, 7},
	"maj":  {0, 4, 7},
	"m":    {0, 3, 7},
	"min":  {0, 3, 7},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"+":    {0, 4, 8},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
	"5":    {0, 7},

	// Sevenths
	"7":     {0, 4, 7, 10},
	"M7":    {0, 4, 7, 11},
	"maj7":  {0, 4, 7, 11},
	"m7":    {0, 3, 7, 10},
	"min7":  {0, 3, 7, 10},
	"mM7":   {0, 3, 7, 11},
	"dim7":  {0, 3, 6, 9},
	"m7b5":  {0, 3, 6, 10},
	"aug7":  {0, 4, 8, 10},
	"7sus4": {0, 5, 7, 10},

	// Sixths and extensions
	"6":     {0, 4, 7, 9},
	"m6":    {0, 3, 7, 9},
	"9":     {0, 4, 7, 10, 14},
	"M9":    {0, 4, 7, 11, 14},
	"maj9":  {0, 4, 7, 11, 14},
	"m9":    {0, 3, 7, 10, 14},
	"11":    {0, 4, 7, 10, 14, 17},
	"m11":   {0, 3, 7, 10, 14, 17},
	"13":    {0, 4, 7, 10, 14, 17, 21},
	"add9":  {0, 4, 7, 14},
	"madd9": {0, 3, 7, 14},
	"add11": {0, 4, 7, 17},
	"add13": {0, 4, 7, 21},
}

// Root note semitone offsets from C
var rootOffsets = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4,
	"F":  5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11,
}

// DefaultChordLookup resolves chord symbols such as "C", "Em", "Am7",
// "Cmaj7", "F#m-3" (octave suffix) and "Em/G" (bass note one octave below
// the chord) into ascending note names. The default octave is 4.
func DefaultChordLookup(symbol string) ([]string, bool) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, false
	}

	// Parse bass note if present (e.g., "Emin/G" -> chord="Emin", bass="G")
	bass := ""
	if i := strings.Index(symbol, "/"); i >= 0 {
		bass = strings.TrimSpace(symbol[i+1:])
		symbol = strings.TrimSpace(symbol[:i])
	}

	octave := defaultChordOctave
	if i := strings.LastIndex(symbol, "-"); i > 0 {
		o, err := strconv.Atoi(symbol[i+1:])
		if err != nil {
			return nil, false
		}
		octave = o
		symbol = symbol[:i]
	}

	root, rest, ok := splitRoot(symbol)
	if !ok {
		return nil, false
	}
	intervals, ok := chordIntervals[rest]
	if !ok {
		return nil, false
	}

	rootMIDI := (octave+1)*12 + rootOffsets[root]
	notes := make([]int, 0, len(intervals)+1)

	// Inversion: bass note typically one octave lower
	if bass != "" {
		bassRoot, bassRest, ok := splitRoot(bass)
		if !ok || bassRest != "" {
			return nil, false
		}
		bassMIDI := octave*12 + rootOffsets[bassRoot]
		if bassMIDI >= minMIDI && bassMIDI <= maxMIDI {
			notes = append(notes, bassMIDI)
		}
	}

	for _, interval := range intervals {
		midi := rootMIDI + interval
		if midi < minMIDI || midi > maxMIDI {
			continue // Skip out-of-range notes
		}
		notes = append(notes, midi)
	}

	if len(notes) == 0 {
		return nil, false
	}

	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = NameOf(n)
	}
	return names, true
}

// splitRoot extracts the root (first 1-2 chars: C, C#, Db, etc.) from a chord symbol
func splitRoot(symbol string) (root, rest string, ok bool) {
	if symbol == "" {
		return "", "", false
	}
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		root, rest = symbol[:2], symbol[2:]
	} else {
		root, rest = symbol[:1], symbol[1:]
	}
	if _, valid := rootOffsets[root]; !valid {
		return "", "", false
	}
	return root, rest, true
}
