package velocity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NoShapingGivesAmp(t *testing.T) {
	p := Params{Amp: 100, AccentLow: 70}
	for step := 0; step < 8; step++ {
		assert.Equal(t, 100, Shape(step, 8, p))
	}
}

func TestShape_Accent(t *testing.T) {
	p := Params{Amp: 110, AccentLow: 60, Accent: "x--x"}

	expected := []int{110, 60, 60, 110, 110, 60, 60, 110}
	for step, want := range expected {
		assert.Equal(t, want, Shape(step, len(expected), p), "step %d", step)
	}
}

func TestShape_AccentOverridesSizzle(t *testing.T) {
	p := Params{Amp: 100, AccentLow: 50, Accent: "-x", Sizzle: SizzleSin, SizzleReps: 1}
	assert.Equal(t, 50, Shape(0, 4, p))
	assert.Equal(t, 100, Shape(1, 4, p))
}

func TestShape_SizzleShapes(t *testing.T) {
	tests := []struct {
		name     string
		sizzle   Sizzle
		expected []int
	}{
		// sin(pos/4 * pi) over 0, .25, .5, .75
		{"sine", SizzleSin, []int{0, 71, 100, 71}},
		// (cos(pos/4 * pi) + 1) / 2
		{"cosine", SizzleCos, []int{100, 85, 50, 15}},
		{"ramp up", SizzleRampUp, []int{0, 33, 67, 100}},
		{"ramp down", SizzleRampDown, []int{100, 67, 33, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{Amp: 100, AccentLow: 0, Sizzle: tt.sizzle, SizzleReps: 1}
			for step, want := range tt.expected {
				assert.Equal(t, want, Shape(step, 4, p), "step %d", step)
			}
		})
	}
}

func TestShape_SizzleReps(t *testing.T) {
	p := Params{Amp: 100, AccentLow: 0, Sizzle: SizzleRampUp, SizzleReps: 2}

	// 8 steps in 2 segments of 4: the ramp restarts at step 4
	for step := 0; step < 4; step++ {
		assert.Equal(t, Shape(step, 8, p), Shape(step+4, 8, p))
	}
	assert.Equal(t, 0, Shape(4, 8, p))
	assert.Equal(t, 100, Shape(7, 8, p))
}

func TestShape_BoundedAndIdempotent(t *testing.T) {
	shapes := []Sizzle{SizzleNone, SizzleSin, SizzleCos, SizzleRampUp, SizzleRampDown}
	for _, s := range shapes {
		for _, reps := range []int{0, 1, 3, 7} {
			p := Params{Amp: 120, AccentLow: 40, Sizzle: s, SizzleReps: reps}
			for total := 1; total <= 13; total++ {
				for step := 0; step < total; step++ {
					v := Shape(step, total, p)
					assert.GreaterOrEqual(t, v, 40)
					assert.LessOrEqual(t, v, 120)
					assert.Equal(t, v, Shape(step, total, p))
				}
			}
		}
	}
}

func TestShape_InvertedRangeCollapsesToAmp(t *testing.T) {
	p := Params{Amp: 60, AccentLow: 90, Accent: "-"}
	assert.Equal(t, 60, Shape(0, 1, p))
}

func TestParseSizzle(t *testing.T) {
	for input, want := range map[string]Sizzle{
		"":         SizzleNone,
		"none":     SizzleNone,
		"sin":      SizzleSin,
		"cosine":   SizzleCos,
		"rampUp":   SizzleRampUp,
		"rampDown": SizzleRampDown,
	} {
		got, err := ParseSizzle(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSizzle("triangle")
	assert.Error(t, err)
}

func TestSizzle_UnmarshalText(t *testing.T) {
	var s Sizzle
	require.NoError(t, s.UnmarshalText([]byte("sine")))
	assert.Equal(t, SizzleSin, s)

	assert.Error(t, s.UnmarshalText([]byte("square")))
}
