package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreatePathThenFindPath(t *testing.T) {
	root := newNode(nil)
	lvls := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	n := root.findOrCreatePath(lvls)
	require.NotNil(t, n)
	assert.Same(t, n, root.findPath(lvls))

	assert.Nil(t, root.findPath([][]byte{[]byte("a"), []byte("x")}))
}

func TestFindOrCreatePathReusesExistingNodes(t *testing.T) {
	root := newNode(nil)
	n1 := root.findOrCreatePath([][]byte{[]byte("a"), []byte("b")})
	n2 := root.findOrCreatePath([][]byte{[]byte("a"), []byte("b")})
	assert.Same(t, n1, n2)
}

func TestCollapseFromPrunesEmptyAncestors(t *testing.T) {
	root := newNode(nil)
	lvls := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	n := root.findOrCreatePath(lvls)

	collapseFrom(n)

	assert.Nil(t, root.findPath(lvls))
	assert.Nil(t, root.findPath([][]byte{[]byte("a")}))
	assert.True(t, root.empty())
}

func TestCollapseFromStopsAtNonEmptyAncestor(t *testing.T) {
	root := newNode(nil)
	a := root.findOrCreatePath([][]byte{[]byte("a")})
	a.subs = append(a.subs, &Leaf{})
	leaf := root.findOrCreatePath([][]byte{[]byte("a"), []byte("b")})

	collapseFrom(leaf)

	assert.NotNil(t, root.findPath([][]byte{[]byte("a")}))
	assert.Nil(t, root.findPath([][]byte{[]byte("a"), []byte("b")}))
}
