package arrangement

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxClips is how many clips a channel can address: one per digit
const MaxClips = 10

var ErrInvalidSlotCharacter = errors.New("invalid slot character")

// CharacterError reports a character outside 0-9, '-' and '_'
type CharacterError struct {
	Char  rune
	Index int
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("invalid slot character %q at index %d", e.Char, e.Index)
}

func (e *CharacterError) Unwrap() error { return ErrInvalidSlotCharacter }

// SlotKind is what a channel does during one arrangement unit
type SlotKind int

const (
	PlayClip SlotKind = iota
	Silence
	ExtendPrevious
)

func (k SlotKind) String() string {
	switch k {
	case PlayClip:
		return "play"
	case Silence:
		return "silence"
	case ExtendPrevious:
		return "extend"
	default:
		return fmt.Sprintf("slot(%d)", int(k))
	}
}

func (k SlotKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Slot is one unit of a channel's arrangement. Clip is only meaningful
// for PlayClip.
type Slot struct {
	Kind SlotKind
	Clip int
}

// Play returns a PlayClip slot
func Play(clip int) Slot {
	return Slot{Kind: PlayClip, Clip: clip}
}

func (s Slot) String() string {
	if s.Kind == PlayClip {
		return fmt.Sprintf("play(%d)", s.Clip)
	}
	return s.Kind.String()
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if s.Kind == PlayClip {
		return json.Marshal(struct {
			Kind SlotKind `json:"kind"`
			Clip int      `json:"clip"`
		}{s.Kind, s.Clip})
	}
	return json.Marshal(struct {
		Kind SlotKind `json:"kind"`
	}{s.Kind})
}

// Compile turns an arrangement string like "0__1-" into slots.
// A '_' with nothing before it to extend is recorded as Silence.
func Compile(arrangement string) ([]Slot, error) {
	slots := make([]Slot, 0, len(arrangement))
	index := 0
	for _, c := range arrangement {
		switch {
		case c >= '0' && c <= '9':
			slots = append(slots, Play(int(c-'0')))
		case c == '-':
			slots = append(slots, Slot{Kind: Silence})
		case c == '_':
			if len(slots) == 0 {
				slots = append(slots, Slot{Kind: Silence})
			} else {
				slots = append(slots, Slot{Kind: ExtendPrevious})
			}
		default:
			return nil, &CharacterError{Char: c, Index: index}
		}
		index++
	}
	return slots, nil
}
