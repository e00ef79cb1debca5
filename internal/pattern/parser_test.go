package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected []Token
	}{
		{
			name:     "hits and rests",
			pattern:  "x-x-",
			expected: []Token{{Kind: Hit}, {Kind: Rest}, {Kind: Hit}, {Kind: Rest}},
		},
		{
			name:     "tie and random hit",
			pattern:  "x_R",
			expected: []Token{{Kind: Hit}, {Kind: Tie}, {Kind: RandomHit}},
		},
		{
			name:    "group",
			pattern: "[xx]x",
			expected: []Token{
				{Kind: Group, Children: []Token{{Kind: Hit}, {Kind: Hit}}},
				{Kind: Hit},
			},
		},
		{
			name:    "nested group",
			pattern: "[x[x-]]",
			expected: []Token{
				{Kind: Group, Children: []Token{
					{Kind: Hit},
					{Kind: Group, Children: []Token{{Kind: Hit}, {Kind: Rest}}},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestParse_InvalidCharacter(t *testing.T) {
	_, err := Parse("xy-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPatternCharacter))

	var charErr *CharacterError
	require.True(t, errors.As(err, &charErr))
	assert.Equal(t, 'y', charErr.Char)
	assert.Equal(t, 1, charErr.Index)
	assert.Contains(t, err.Error(), `'y'`)
}

func TestParse_InvalidCharacterInsideGroup(t *testing.T) {
	_, err := Parse("x[x.]")

	var charErr *CharacterError
	require.True(t, errors.As(err, &charErr))
	assert.Equal(t, '.', charErr.Char)
	assert.Equal(t, 3, charErr.Index)
}

func TestParse_UnbalancedGroups(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
	}{
		{"[xx", 0},
		{"xx]", 2},
		{"[x]]", 3},
		{"[[x]", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnbalancedGroup))

			var groupErr *GroupError
			require.True(t, errors.As(err, &groupErr))
			assert.Equal(t, tt.index, groupErr.Index)
		})
	}
}

func TestParse_EmptyInputs(t *testing.T) {
	_, err := Parse("")
	assert.True(t, errors.Is(err, ErrEmptyPattern))

	_, err = Parse("x[]")
	assert.True(t, errors.Is(err, ErrEmptyGroup))
}

func TestCountSounding(t *testing.T) {
	tests := []struct {
		pattern  string
		expected int
	}{
		{"x---x---x---x---", 4},
		{"x_x_", 2},
		{"R-x-", 2},
		{"[xx][x[xR]]", 5},
		{"----", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tokens, err := Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, CountSounding(tokens))
		})
	}
}
