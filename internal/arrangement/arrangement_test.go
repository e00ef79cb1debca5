package arrangement

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Slot
	}{
		{
			name:  "play extend silence",
			input: "0__1-",
			expected: []Slot{
				Play(0), {Kind: ExtendPrevious}, {Kind: ExtendPrevious}, Play(1), {Kind: Silence},
			},
		},
		{
			name:     "all digits",
			input:    "0123456789",
			expected: []Slot{Play(0), Play(1), Play(2), Play(3), Play(4), Play(5), Play(6), Play(7), Play(8), Play(9)},
		},
		{
			name:     "leading extend is silence",
			input:    "_0",
			expected: []Slot{{Kind: Silence}, Play(0)},
		},
		{
			name:     "extend after silence",
			input:    "-_",
			expected: []Slot{{Kind: Silence}, {Kind: ExtendPrevious}},
		},
		{
			name:     "empty",
			input:    "",
			expected: []Slot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slots)
		})
	}
}

func TestCompile_InvalidCharacter(t *testing.T) {
	_, err := Compile("01x-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSlotCharacter))

	var charErr *CharacterError
	require.True(t, errors.As(err, &charErr))
	assert.Equal(t, 'x', charErr.Char)
	assert.Equal(t, 2, charErr.Index)
}

func TestTimeline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Segment
	}{
		{"extend lengthens", "0__1-", []Segment{{Clip: 0, Start: 0, Length: 3}, {Clip: 1, Start: 3, Length: 1}}},
		{"retrigger", "00", []Segment{{Clip: 0, Start: 0, Length: 1}, {Clip: 0, Start: 1, Length: 1}}},
		{"silence breaks extension", "2-_3", []Segment{{Clip: 2, Start: 0, Length: 1}, {Clip: 3, Start: 3, Length: 1}}},
		{"leading extend", "__1_", []Segment{{Clip: 1, Start: 2, Length: 2}}},
		{"only silence", "---", []Segment{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Timeline(slots))
		})
	}
}

func TestCompileChannels(t *testing.T) {
	channels, err := CompileChannels([]string{"0_1", "--2"})
	require.NoError(t, err)
	require.Len(t, channels, 2)

	assert.Equal(t, 1, channels[0].MaxClip())
	assert.Equal(t, 2, channels[1].MaxClip())
	assert.Equal(t, []Segment{{Clip: 2, Start: 2, Length: 1}}, channels[1].Timeline)

	_, err = CompileChannels([]string{"0", "1", "2a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSlotCharacter)
	assert.Contains(t, err.Error(), "channel 2")
}

func TestChannel_MaxClipSilent(t *testing.T) {
	assert.Equal(t, -1, Channel{Slots: []Slot{{Kind: Silence}}}.MaxClip())
}

func TestSlot_JSON(t *testing.T) {
	out, err := json.Marshal([]Slot{Play(3), {Kind: ExtendPrevious}, {Kind: Silence}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"play","clip":3},{"kind":"extend"},{"kind":"silence"}]`, string(out))
}
