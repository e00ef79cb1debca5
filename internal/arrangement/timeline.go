package arrangement

import "fmt"

// Segment is one clip trigger on a channel timeline, measured in
// arrangement units
type Segment struct {
	Clip   int `json:"clip"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Timeline folds slots into the segments a player has to schedule.
// ExtendPrevious lengthens the segment started by the last PlayClip;
// extending a silence keeps it silent.
func Timeline(slots []Slot) []Segment {
	segments := []Segment{}
	open := -1
	for i, s := range slots {
		switch s.Kind {
		case PlayClip:
			segments = append(segments, Segment{Clip: s.Clip, Start: i, Length: 1})
			open = len(segments) - 1
		case Silence:
			open = -1
		case ExtendPrevious:
			if open >= 0 {
				segments[open].Length++
			}
		}
	}
	return segments
}

// Channel is the compiled arrangement of one channel
type Channel struct {
	Slots    []Slot    `json:"slots"`
	Timeline []Segment `json:"timeline"`
}

// MaxClip returns the highest clip index the channel plays, or -1
func (c Channel) MaxClip() int {
	highest := -1
	for _, s := range c.Slots {
		if s.Kind == PlayClip && s.Clip > highest {
			highest = s.Clip
		}
	}
	return highest
}

// CompileChannels compiles each channel string on its own. Channels are
// not checked against each other.
func CompileChannels(arrangements []string) ([]Channel, error) {
	channels := make([]Channel, len(arrangements))
	for i, a := range arrangements {
		slots, err := Compile(a)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		channels[i] = Channel{Slots: slots, Timeline: Timeline(slots)}
	}
	return channels, nil
}
