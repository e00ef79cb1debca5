package dsl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Conceptual-Machines/grammar-school-go/gs"

	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
	"github.com/Conceptual-Machines/magda-patterns/internal/logger"
	"github.com/Conceptual-Machines/magda-patterns/internal/pitch"
	"github.com/Conceptual-Machines/magda-patterns/internal/velocity"
	"github.com/Conceptual-Machines/magda-patterns/pkg/embedded"
)

var (
	ErrEmptyDSL       = errors.New("empty DSL code")
	ErrMissingPattern = errors.New("clip: missing pattern")
	ErrInvalidDSL     = errors.New("invalid DSL code")
)

// Parser parses Clip DSL code using Grammar School.
// A Parser may be shared; calls to Parse are serialised.
type Parser struct {
	mu      sync.Mutex
	engine  *gs.Engine
	clipDSL *ClipDSL
	specs   []clip.Spec
}

// ClipDSL implements the DSL side-effect methods
type ClipDSL struct {
	parser *Parser
}

// Grammar returns the Lark grammar of the Clip DSL
func Grammar() string {
	return embedded.ClipDSLGrammar
}

// NewParser creates a new Clip DSL parser
func NewParser() (*Parser, error) {
	parser := &Parser{
		clipDSL: &ClipDSL{},
	}
	parser.clipDSL.parser = parser

	engine, err := gs.NewEngine(Grammar(), parser.clipDSL, gs.NewLarkParser())
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	parser.engine = engine
	return parser, nil
}

// Parse executes DSL code and returns one spec per clip() call, in order.
// Specs are not compiled here.
func (p *Parser) Parse(ctx context.Context, code string) ([]clip.Spec, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyDSL
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.specs = make([]clip.Spec, 0)
	if err := p.engine.Execute(ctx, strings.TrimSpace(code)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDSL, err)
	}

	if len(p.specs) == 0 {
		return nil, fmt.Errorf("%w: no clips found", ErrInvalidDSL)
	}

	logger.Debug("Clip DSL parsed", logger.Fields{"clips": len(p.specs)})
	return p.specs, nil
}

// Clip handles clip() calls
func (d *ClipDSL) Clip(args gs.Args) error {
	spec := clip.Spec{Backend: clip.TriggersPitchedNote}

	spec.Pattern = stringArg(args, "pattern")
	if spec.Pattern == "" {
		return ErrMissingPattern
	}

	if notes := stringArg(args, "notes"); notes != "" {
		spec.Notes = pitch.ParseSource(notes)
	}
	if notes := stringArg(args, "random_notes"); notes != "" {
		spec.RandomNotes = pitch.ParseSource(notes)
	}

	if v, ok := numberArg(args, "unit"); ok {
		spec.SubdivUnit = v
	}
	if v, ok := numberArg(args, "duration"); ok {
		spec.Duration = v
	}
	if v, ok := numberArg(args, "amp"); ok {
		spec.Amp = int(v)
	}
	if v, ok := numberArg(args, "accent_low"); ok {
		spec.AccentLow = int(v)
	}
	if v, ok := numberArg(args, "sizzle_reps"); ok {
		spec.SizzleReps = int(v)
	}

	spec.Accent = stringArg(args, "accent")

	if s := stringArg(args, "sizzle"); s != "" {
		sizzle, err := velocity.ParseSizzle(s)
		if err != nil {
			return fmt.Errorf("clip: %w", err)
		}
		spec.Sizzle = sizzle
	}

	if b := stringArg(args, "backend"); b != "" {
		backend, err := clip.ParseBackend(b)
		if err != nil {
			return fmt.Errorf("clip: %w", err)
		}
		spec.Backend = backend
	}

	spec.Shuffle = boolArg(args, "shuffle")
	spec.Arpeggiate = boolArg(args, "arpeggiate")

	d.parser.specs = append(d.parser.specs, spec)
	return nil
}

func stringArg(args gs.Args, name string) string {
	if v, ok := args[name]; ok && v.Kind == gs.ValueString {
		return strings.Trim(v.Str, "\"")
	}
	return ""
}

func numberArg(args gs.Args, name string) (float64, bool) {
	if v, ok := args[name]; ok && v.Kind == gs.ValueNumber {
		return v.Num, true
	}
	return 0, false
}

func boolArg(args gs.Args, name string) bool {
	v, ok := args[name]
	if !ok {
		return false
	}
	switch v.Kind {
	case gs.ValueBool:
		return v.Bool
	case gs.ValueString:
		return v.Str == "true"
	default:
		return false
	}
}
