package clip

import (
	"fmt"
	"math/rand/v2"

	"github.com/Conceptual-Machines/magda-patterns/internal/pattern"
	"github.com/Conceptual-Machines/magda-patterns/internal/pitch"
	"github.com/Conceptual-Machines/magda-patterns/internal/velocity"
)

// Rand is the random source used for shuffling and random hits.
// *rand.Rand from math/rand/v2 satisfies it; it is not safe for
// concurrent use, so share one only between sequential compiles.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// processRand uses the math/rand/v2 top-level generator
type processRand struct{}

func (processRand) IntN(n int) int                     { return rand.IntN(n) }
func (processRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Option configures a Compiler
type Option func(*Compiler)

// WithChordLookup sets the chord name collaborator (default pitch.DefaultChordLookup)
func WithChordLookup(lookup pitch.ChordLookup) Option {
	return func(c *Compiler) {
		c.resolver = pitch.NewResolver(lookup)
	}
}

// WithRand makes shuffling and random hits use r
func WithRand(r Rand) Option {
	return func(c *Compiler) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithDefaults sets the values used for zero fields of a Spec
func WithDefaults(d Defaults) Option {
	return func(c *Compiler) {
		c.defaults = d
	}
}

// Compiler turns clip specs into note events
type Compiler struct {
	resolver *pitch.Resolver
	rand     Rand
	defaults Defaults
}

// NewCompiler creates a compiler. Without WithRand it uses the process-wide
// generator, which is fine for serving requests but not for tests.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		resolver: pitch.NewResolver(nil),
		rand:     processRand{},
		defaults: StandardDefaults(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates spec and returns its events in step order.
// Any error means no events at all.
func (c *Compiler) Compile(spec Spec) (*Compiled, error) {
	s := spec.WithDefaults(c.defaults)

	if !s.Backend.Sounds() {
		return nil, ErrMissingSoundSource
	}

	tokens, err := pattern.Parse(s.Pattern)
	if err != nil {
		return nil, err
	}
	steps := pattern.Allocate(tokens, s.SubdivUnit)

	pitches, err := c.resolver.ResolveSource(s.Notes)
	if err != nil {
		return nil, fmt.Errorf("notes: %w", err)
	}
	randomPitches, err := c.resolver.ResolveSource(s.RandomNotes)
	if err != nil {
		return nil, fmt.Errorf("random notes: %w", err)
	}

	if s.Backend.Pitched() && len(pitches) == 0 && needsPitchSource(steps, randomPitches) {
		return nil, ErrEmptyPitchSource
	}

	if s.Shuffle && len(pitches) > 1 {
		c.rand.Shuffle(len(pitches), func(i, j int) {
			pitches[i], pitches[j] = pitches[j], pitches[i]
		})
	}

	vp := s.velocityParams()
	events := make([]NoteEvent, 0, len(steps))
	for counter, step := range steps {
		var notes []string
		if s.Backend.Pitched() {
			notes = c.selectPitches(step, counter, pitches, randomPitches)
		}
		duration := stepDuration(s, step, counter)
		vel := velocity.Shape(counter, len(steps), vp)

		if s.Arpeggiate && len(notes) > 1 {
			events = appendArpeggio(events, counter, step.Start, duration, notes, vel)
			continue
		}
		events = append(events, NoteEvent{
			Index:    len(events),
			Step:     counter,
			Start:    step.Start,
			Duration: duration,
			Pitches:  notes,
			Velocity: vel,
		})
	}

	return &Compiled{
		Spec:          s,
		Events:        events,
		SoundingSteps: len(steps),
		Span:          pattern.Span(tokens, s.SubdivUnit),
	}, nil
}

func (c *Compiler) selectPitches(step pattern.Step, counter int, pitches, randomPitches [][]string) []string {
	var selected []string
	if step.Kind == pattern.RandomHit && len(randomPitches) > 0 {
		selected = randomPitches[c.rand.IntN(len(randomPitches))]
	} else if len(pitches) > 0 {
		selected = pitches[counter%len(pitches)]
	}
	return append([]string(nil), selected...)
}

// needsPitchSource reports whether some step has to draw from the main
// pitch source: every hit does, and random hits do without random notes.
func needsPitchSource(steps []pattern.Step, randomPitches [][]string) bool {
	for _, step := range steps {
		if step.Kind == pattern.Hit || len(randomPitches) == 0 {
			return true
		}
	}
	return false
}

// stepDuration applies the precedence: explicit list, fixed override,
// then the allocated duration
func stepDuration(s Spec, step pattern.Step, counter int) float64 {
	if len(s.Durations) > 0 {
		return s.Durations[counter%len(s.Durations)]
	}
	if s.Duration > 0 {
		return s.Duration
	}
	return step.Duration
}

func appendArpeggio(events []NoteEvent, counter int, start, duration float64, notes []string, vel int) []NoteEvent {
	ordered := pitch.SortAscending(notes)
	sub := duration / float64(len(ordered))
	for k, note := range ordered {
		events = append(events, NoteEvent{
			Index:    len(events),
			Step:     counter,
			Start:    start + float64(k)*sub,
			Duration: sub,
			Pitches:  []string{note},
			Velocity: vel,
		})
	}
	return events
}
