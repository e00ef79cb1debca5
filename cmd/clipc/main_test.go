package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

func TestLoadSong(t *testing.T) {
	ctx := context.Background()

	_, err := loadSong(ctx, "", false, "")
	assert.ErrorIs(t, err, errNoInput)

	demo, err := loadSong(ctx, "", true, "")
	require.NoError(t, err)
	assert.Equal(t, "demo", demo.Name)

	fromDSL, err := loadSong(ctx, "", false, `clip(pattern="x-", notes="C4"); clip(pattern="xx", backend=unpitched)`)
	require.NoError(t, err)
	require.Len(t, fromDSL.Channels, 1)
	assert.Equal(t, "01", fromDSL.Channels[0].Arrangement)
	assert.Len(t, fromDSL.Channels[0].Clips, 2)
}

func TestView_DemoSong(t *testing.T) {
	s, err := loadSong(context.Background(), "", true, "")
	require.NoError(t, err)

	compiled, err := song.Compile(context.Background(), s, song.WithSeed(1))
	require.NoError(t, err)

	out := View(compiled)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "keys (poly-1)")
	assert.Contains(t, out, "drums")
	assert.Contains(t, out, "unison mono-1: channels [1]")
}
