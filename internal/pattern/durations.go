package pattern

// Step is one sounding position of a pattern after allocation.
// Start is the offset from the beginning of the pattern, in the same unit
// as the subdivision passed to Allocate.
type Step struct {
	Kind     Kind
	Start    float64
	Duration float64
}

// Allocate walks the token tree depth-first and returns one Step per hit or
// random hit. A top-level token occupies unit; a group of k members gives
// each member unit/k, recursively. A tie extends the most recently
// allocated step by the current unit; a tie before any step is dropped.
func Allocate(tokens []Token, unit float64) []Step {
	a := &allocator{steps: make([]Step, 0, CountSounding(tokens))}
	a.walk(tokens, unit)
	return a.steps
}

// Durations parses pattern and returns the duration of each sounding step,
// e.g. Durations("[xx]x", 4) == [2 2 4] and Durations("x__", 1) == [3].
func Durations(pattern string, unit float64) ([]float64, error) {
	tokens, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	steps := Allocate(tokens, unit)
	durations := make([]float64, len(steps))
	for i, s := range steps {
		durations[i] = s.Duration
	}
	return durations, nil
}

// Span returns the total length of a pattern: every top-level token
// occupies one unit whatever it contains.
func Span(tokens []Token, unit float64) float64 {
	return float64(len(tokens)) * unit
}

type allocator struct {
	steps  []Step
	cursor float64
}

func (a *allocator) walk(tokens []Token, unit float64) {
	for _, t := range tokens {
		switch t.Kind {
		case Hit, RandomHit:
			a.steps = append(a.steps, Step{Kind: t.Kind, Start: a.cursor, Duration: unit})
			a.cursor += unit
		case Rest:
			a.cursor += unit
		case Tie:
			if n := len(a.steps); n > 0 {
				a.steps[n-1].Duration += unit
			}
			a.cursor += unit
		case Group:
			if len(t.Children) == 0 {
				a.cursor += unit
				continue
			}
			a.walk(t.Children, unit/float64(len(t.Children)))
		}
	}
}
