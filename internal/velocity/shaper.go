package velocity

import (
	"fmt"
	"math"
)

// Sizzle is the shape of a cyclic velocity envelope
type Sizzle string

const (
	SizzleNone     Sizzle = ""
	SizzleSin      Sizzle = "sin"
	SizzleCos      Sizzle = "cos"
	SizzleRampUp   Sizzle = "rampUp"
	SizzleRampDown Sizzle = "rampDown"
)

// accentRest marks an accent position that drops to the low velocity
const accentRest = '-'

// ParseSizzle accepts the shape names used in clip documents.
// "none" and the empty string both disable the envelope.
func ParseSizzle(s string) (Sizzle, error) {
	switch s {
	case "", "none":
		return SizzleNone, nil
	case "sin", "sine":
		return SizzleSin, nil
	case "cos", "cosine":
		return SizzleCos, nil
	case "rampUp", "ramp_up", "rampup":
		return SizzleRampUp, nil
	case "rampDown", "ramp_down", "rampdown":
		return SizzleRampDown, nil
	default:
		return SizzleNone, fmt.Errorf("unknown sizzle shape: %q", s)
	}
}

// UnmarshalText lets JSON and YAML documents use any name ParseSizzle accepts
func (s *Sizzle) UnmarshalText(text []byte) error {
	parsed, err := ParseSizzle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Params are the velocity fields of a clip
type Params struct {
	Amp        int
	AccentLow  int
	Accent     string
	Sizzle     Sizzle
	SizzleReps int
}

// Shape returns the velocity of sounding step `step` out of `total`.
// An accent string wins over sizzle; without either every step gets Amp.
// The result always lies in [AccentLow, Amp].
func Shape(step, total int, p Params) int {
	low, high := bounds(p)

	if accent := []rune(p.Accent); len(accent) > 0 {
		if accent[mod(step, len(accent))] == accentRest {
			return low
		}
		return high
	}

	if p.Sizzle == SizzleNone || total <= 0 {
		return high
	}

	reps := p.SizzleReps
	if reps < 1 {
		reps = 1
	}
	segment := total / reps
	if segment < 1 {
		segment = 1
	}
	pos := mod(step, segment)

	var level float64
	switch p.Sizzle {
	case SizzleSin:
		level = math.Sin(float64(pos) / float64(segment) * math.Pi)
	case SizzleCos:
		level = (math.Cos(float64(pos)/float64(segment)*math.Pi) + 1) / 2
	case SizzleRampUp:
		level = ramp(pos, segment)
	case SizzleRampDown:
		level = 1 - ramp(pos, segment)
	default:
		return high
	}

	v := int(math.Round(float64(low) + level*float64(high-low)))
	return clamp(v, low, high)
}

func ramp(pos, segment int) float64 {
	if segment <= 1 {
		return 1
	}
	return float64(pos) / float64(segment-1)
}

// bounds collapses an inverted range onto Amp
func bounds(p Params) (int, int) {
	if p.AccentLow > p.Amp {
		return p.Amp, p.Amp
	}
	return p.AccentLow, p.Amp
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
