package pkid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllocatesSequentiallyThenExhausts(t *testing.T) {
	l := NewLimiter(3)

	id1, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, PacketID(1), id1)

	id2, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, PacketID(2), id2)

	id3, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, PacketID(3), id3)

	_, err = l.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestLimiterReleaseFreesAnID(t *testing.T) {
	l := NewLimiter(1)

	id, err := l.Next()
	require.NoError(t, err)

	_, err = l.Next()
	require.ErrorIs(t, err, ErrExhausted)

	l.Release(id)

	id2, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, id, id2)
}

func TestLimiterMarkUsedReservesWithoutAllocating(t *testing.T) {
	l := NewLimiter(2)
	l.MarkUsed(1)

	id, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, PacketID(2), id)

	_, err = l.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGeneratorGivesEachClientAnIndependentLimiter(t *testing.T) {
	g := NewGenerator(1)

	id, err := g.NextID("c1")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id)

	_, err = g.NextID("c1")
	assert.ErrorIs(t, err, ErrExhausted)

	id2, err := g.NextID("c2")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id2)

	g.Forget("c1")
	id3, err := g.NextID("c1")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id3)
}
