package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedGroupAddUpdatesInPlace(t *testing.T) {
	g := newSharedGroup("g", nil)
	cl := fakeClient("c1")

	l, created := g.add(cl, []byte("$share/g/x"), SubOptions{Qos: 1})
	require.True(t, created)

	l2, created2 := g.add(cl, []byte("$share/g/x"), SubOptions{Qos: 2})
	assert.False(t, created2)
	assert.Same(t, l, l2)
	assert.Equal(t, byte(2), l.Options.Qos)
}

func TestSharedGroupRotationIsStableHeadToTail(t *testing.T) {
	g := newSharedGroup("g", nil)
	g.add(fakeClient("c1"), []byte("x"), SubOptions{})
	g.add(fakeClient("c2"), []byte("x"), SubOptions{})

	first := g.next()
	require.Equal(t, "c1", first.Client.ID())
	g.rotate()

	second := g.next()
	require.Equal(t, "c2", second.Client.ID())
	g.rotate()

	third := g.next()
	assert.Equal(t, "c1", third.Client.ID())
}

func TestSharedGroupRemoveAndEmpty(t *testing.T) {
	g := newSharedGroup("g", nil)
	g.add(fakeClient("c1"), []byte("x"), SubOptions{})

	require.Equal(t, "c1", g.next().Client.ID())
	removed := g.remove("missing")
	assert.Nil(t, removed)

	removed = g.remove("c1")
	require.NotNil(t, removed)
	assert.True(t, g.empty())
	assert.Nil(t, g.next())
}

func TestSharedGroupRotateSingleMemberIsNoop(t *testing.T) {
	g := newSharedGroup("g", nil)
	g.add(fakeClient("c1"), []byte("x"), SubOptions{})

	g.rotate()
	assert.Equal(t, "c1", g.next().Client.ID())
}
