package pattern

import (
	"errors"
	"fmt"
)

// Kind identifies a pattern token
type Kind int

const (
	Hit Kind = iota
	Rest
	Tie
	RandomHit
	Group
)

// Pattern characters
const (
	charHit       = 'x'
	charRest      = '-'
	charTie       = '_'
	charRandomHit = 'R'
	charOpen      = '['
	charClose     = ']'
)

var (
	ErrInvalidPatternCharacter = errors.New("invalid pattern character")
	ErrUnbalancedGroup         = errors.New("unbalanced group")
	ErrEmptyPattern            = errors.New("empty pattern")
	ErrEmptyGroup              = errors.New("empty group")
)

// CharacterError reports a character outside the pattern alphabet
type CharacterError struct {
	Char  rune
	Index int
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("invalid pattern character %q at index %d", e.Char, e.Index)
}

func (e *CharacterError) Unwrap() error { return ErrInvalidPatternCharacter }

// GroupError reports a bracket that does not open or close correctly.
// Index is the position of the offending bracket; for a group that is
// never closed it is the opening '['.
type GroupError struct {
	Index int
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%v at index %d", e.Err, e.Index)
}

func (e *GroupError) Unwrap() error { return e.Err }

// Token is one node of a parsed pattern. Children is only set for Group.
type Token struct {
	Kind     Kind
	Children []Token
}

// IsSounding reports whether the token produces a note event
func (t Token) IsSounding() bool {
	return t.Kind == Hit || t.Kind == RandomHit
}

func (k Kind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Rest:
		return "rest"
	case Tie:
		return "tie"
	case RandomHit:
		return "random_hit"
	case Group:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Parse turns a pattern string such as "x-[xx]_R" into a token tree.
// Brackets nest; each group subdivides the step it occupies.
func Parse(pattern string) ([]Token, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	p := &parser{src: []rune(pattern)}
	tokens, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// parseSequence only stops early on a stray ']'
		return nil, &GroupError{Index: p.pos, Err: ErrUnbalancedGroup}
	}
	return tokens, nil
}

// Validate checks a pattern without keeping the tree
func Validate(pattern string) error {
	_, err := Parse(pattern)
	return err
}

type parser struct {
	src []rune
	pos int
}

// parseSequence reads tokens until the end of input or a closing bracket.
func (p *parser) parseSequence() ([]Token, error) {
	tokens := make([]Token, 0, len(p.src)-p.pos)
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case charHit:
			tokens = append(tokens, Token{Kind: Hit})
		case charRest:
			tokens = append(tokens, Token{Kind: Rest})
		case charTie:
			tokens = append(tokens, Token{Kind: Tie})
		case charRandomHit:
			tokens = append(tokens, Token{Kind: RandomHit})
		case charOpen:
			open := p.pos
			p.pos++
			children, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) {
				return nil, &GroupError{Index: open, Err: ErrUnbalancedGroup}
			}
			if len(children) == 0 {
				return nil, &GroupError{Index: open, Err: ErrEmptyGroup}
			}
			tokens = append(tokens, Token{Kind: Group, Children: children})
		case charClose:
			// The caller decides whether this bracket closes a group
			return tokens, nil
		default:
			return nil, &CharacterError{Char: c, Index: p.pos}
		}
		p.pos++
	}
	return tokens, nil
}

// CountSounding returns the number of hit and random-hit tokens in the tree
func CountSounding(tokens []Token) int {
	count := 0
	for _, t := range tokens {
		if t.Kind == Group {
			count += CountSounding(t.Children)
			continue
		}
		if t.IsSounding() {
			count++
		}
	}
	return count
}
