package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongRecord_BeforeCreate(t *testing.T) {
	r := &SongRecord{Name: "demo"}
	require.NoError(t, r.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, r.ID)

	id := uuid.New()
	kept := &SongRecord{ID: id}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, id, kept.ID)
}
