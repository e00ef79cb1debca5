package song

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/Conceptual-Machines/magda-patterns/internal/arrangement"
	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
	"github.com/Conceptual-Machines/magda-patterns/internal/pitch"
	"github.com/Conceptual-Machines/magda-patterns/internal/render"
)

var ErrClipOutOfRange = errors.New("clip out of range")

// Compiled is a song with every clip and arrangement compiled
type Compiled struct {
	Name     string            `json:"name"`
	Tempo    float64           `json:"tempo,omitempty"`
	Channels []CompiledChannel `json:"channels"`
	Unison   map[string][]int  `json:"unison,omitempty"`
}

// CompiledChannel holds a channel's clips in declaration order
type CompiledChannel struct {
	Name     string                `json:"name"`
	Label    string                `json:"label,omitempty"`
	Clips    []CompiledClip        `json:"clips"`
	Slots    []arrangement.Slot    `json:"slots"`
	Timeline []arrangement.Segment `json:"timeline"`
}

// CompiledClip is a compiled clip with its one-shot render window
type CompiledClip struct {
	*clip.Compiled
	Window render.Window `json:"window"`
}

// EventCount returns the number of events across all channels
func (c *Compiled) EventCount() int {
	n := 0
	for _, ch := range c.Channels {
		for _, cl := range ch.Clips {
			n += len(cl.Events)
		}
	}
	return n
}

type options struct {
	seed     *uint64
	lookup   pitch.ChordLookup
	defaults clip.Defaults
}

// Option configures Compile
type Option func(*options)

// WithSeed makes shuffling and random hits reproducible. Each channel
// draws from its own stream derived from seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithChordLookup sets the chord name collaborator for every clip
func WithChordLookup(lookup pitch.ChordLookup) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithDefaults sets the values used for zero clip fields
func WithDefaults(d clip.Defaults) Option {
	return func(o *options) {
		o.defaults = d
	}
}

// Compile compiles all channels concurrently. Errors name the channel and
// clip they came from; when several channels fail the lowest index wins.
func Compile(ctx context.Context, s *Song, opts ...Option) (*Compiled, error) {
	o := options{defaults: clip.StandardDefaults()}
	for _, opt := range opts {
		opt(&o)
	}

	channels := make([]CompiledChannel, len(s.Channels))
	errs := make([]error, len(s.Channels))

	var wg sync.WaitGroup
	for i := range s.Channels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			channels[i], errs[i] = compileChannel(ctx, i, s.Channels[i], o)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Compiled{
		Name:     s.Name,
		Tempo:    s.Tempo,
		Channels: channels,
		Unison:   s.Unison(),
	}, nil
}

func compileChannel(ctx context.Context, index int, ch Channel, o options) (CompiledChannel, error) {
	compiler := clip.NewCompiler(channelOptions(index, o)...)

	out := CompiledChannel{
		Name:  ch.Name,
		Label: ch.Label,
		Clips: make([]CompiledClip, 0, len(ch.Clips)),
	}

	for j, spec := range ch.Clips {
		if err := ctx.Err(); err != nil {
			return CompiledChannel{}, fault.Wrap(err, fmsg.With(fmt.Sprintf("channel %d", index)))
		}

		compiled, err := compiler.Compile(spec)
		if err != nil {
			return CompiledChannel{}, invalid(err, fmt.Sprintf("channel %d clip %d", index, j))
		}
		window, err := render.ForClip(compiled.Spec)
		if err != nil {
			return CompiledChannel{}, invalid(err, fmt.Sprintf("channel %d clip %d", index, j))
		}
		out.Clips = append(out.Clips, CompiledClip{Compiled: compiled, Window: window})
	}

	slots, err := arrangement.Compile(ch.Arrangement)
	if err != nil {
		return CompiledChannel{}, invalid(err, fmt.Sprintf("channel %d arrangement", index))
	}
	arranged := arrangement.Channel{Slots: slots, Timeline: arrangement.Timeline(slots)}
	if highest := arranged.MaxClip(); highest >= len(ch.Clips) {
		err := fmt.Errorf("plays clip %d of %d: %w", highest, len(ch.Clips), ErrClipOutOfRange)
		return CompiledChannel{}, invalid(err, fmt.Sprintf("channel %d arrangement", index))
	}
	out.Slots = arranged.Slots
	out.Timeline = arranged.Timeline

	return out, nil
}

func channelOptions(index int, o options) []clip.Option {
	opts := []clip.Option{
		clip.WithChordLookup(o.lookup),
		clip.WithDefaults(o.defaults),
	}
	if o.seed != nil {
		opts = append(opts, clip.WithRand(rand.New(rand.NewPCG(*o.seed, uint64(index)))))
	}
	return opts
}

func invalid(err error, where string) error {
	return fault.Wrap(err,
		fmsg.With(where),
		ftag.With(ftag.InvalidArgument),
	)
}
