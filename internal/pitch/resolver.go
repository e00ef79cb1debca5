package pitch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPitchInArray = errors.New("invalid pitch in array")
	ErrUnknownChord        = errors.New("unknown chord")
)

// ArrayError reports an element of an explicit voicing that is not a note name
type ArrayError struct {
	Index int
	Value string
}

func (e *ArrayError) Error() string {
	if e.Index < 0 {
		return "invalid pitch in array: empty voicing"
	}
	return fmt.Sprintf("invalid pitch in array: %q at position %d", e.Value, e.Index)
}

func (e *ArrayError) Unwrap() error { return ErrInvalidPitchInArray }

// ChordError reports a chord name the lookup could not resolve
type ChordError struct {
	Name string
}

func (e *ChordError) Error() string {
	return fmt.Sprintf("unknown chord: %q", e.Name)
}

func (e *ChordError) Unwrap() error { return ErrUnknownChord }

// ChordLookup maps a chord name to an ordered list of note names.
// It returns false when the name is not known.
type ChordLookup func(name string) ([]string, bool)

// Pitch is a single note or chord token ("C4", "Am7"), or an explicit
// voicing given as a list of note names.
type Pitch struct {
	Token string
	Notes []string
}

// Note returns a Pitch for a single note or chord name
func Note(token string) Pitch {
	return Pitch{Token: token}
}

// Voicing returns a Pitch for an explicit list of note names
func Voicing(notes ...string) Pitch {
	return Pitch{Notes: append([]string{}, notes...)}
}

// IsVoicing reports whether the pitch was given as a list of note names
func (p Pitch) IsVoicing() bool {
	return p.Notes != nil
}

func (p Pitch) String() string {
	if p.IsVoicing() {
		return "[" + strings.Join(p.Notes, " ") + "]"
	}
	return p.Token
}

// ParseSource splits a whitespace separated list like "C4 E4 Am7-3" into pitches
func ParseSource(s string) []Pitch {
	fields := strings.Fields(s)
	pitches := make([]Pitch, len(fields))
	for i, f := range fields {
		pitches[i] = Note(f)
	}
	return pitches
}

// Resolver turns pitches into concrete note lists
type Resolver struct {
	lookup ChordLookup
}

// NewResolver creates a resolver backed by lookup.
// A nil lookup falls back to DefaultChordLookup.
func NewResolver(lookup ChordLookup) *Resolver {
	if lookup == nil {
		lookup = DefaultChordLookup
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns the ordered note names for p (at least one)
func (r *Resolver) Resolve(p Pitch) ([]string, error) {
	if p.IsVoicing() {
		if len(p.Notes) == 0 {
			return nil, &ArrayError{Index: -1}
		}
		for i, n := range p.Notes {
			if !IsNoteName(n) {
				return nil, &ArrayError{Index: i, Value: n}
			}
		}
		notes := make([]string, len(p.Notes))
		copy(notes, p.Notes)
		return notes, nil
	}

	token := strings.TrimSpace(p.Token)
	if IsNoteName(token) {
		return []string{token}, nil
	}

	notes, ok := r.lookup(token)
	if !ok || len(notes) == 0 {
		return nil, &ChordError{Name: p.Token}
	}
	resolved := make([]string, len(notes))
	copy(resolved, notes)
	return resolved, nil
}

// ResolveSource resolves every pitch of a source, in order
func (r *Resolver) ResolveSource(source []Pitch) ([][]string, error) {
	resolved := make([][]string, len(source))
	for i, p := range source {
		notes, err := r.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("pitch %d: %w", i, err)
		}
		resolved[i] = notes
	}
	return resolved, nil
}
