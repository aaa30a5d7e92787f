package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChild(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(NewNode(Vec2{0, 0}, "root")) // 8x3

	c1, err := AddChild(g, root, "one")
	require.NoError(t, err)
	c2, err := AddChild(g, root, "two")
	require.NoError(t, err)

	n1, _ := g.Node(c1)
	n2, _ := g.Node(c2)
	assert.Equal(t, Vec2{8 + treeColumnGap, 0}, n1.Pos)
	assert.Equal(t, Vec2{8 + treeColumnGap, 3 + treeRowGap}, n2.Pos)
	assert.Equal(t, []NodeID{c1, c2}, treeChildren(g, root))

	p, ok := parentOf(g, c2)
	require.True(t, ok)
	assert.Equal(t, root, p)

	_, err = AddChild(g, NodeID{}, "x")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAddSibling(t *testing.T) {
	g := NewGraph()
	g.EdgeType = EdgeBezier
	root := g.AddNode(NewNode(Vec2{0, 0}, "root"))
	child, err := AddChild(g, root, "child")
	require.NoError(t, err)

	sib, err := AddSibling(g, child, "sib")
	require.NoError(t, err)
	p, ok := parentOf(g, sib)
	require.True(t, ok)
	assert.Equal(t, root, p)
	for _, e := range g.EdgesOf(sib) {
		assert.Equal(t, EdgeBezier, e.Type)
	}

	// a root's sibling is another root
	lone, err := AddSibling(g, root, "lone")
	require.NoError(t, err)
	_, ok = parentOf(g, lone)
	assert.False(t, ok)
	n, _ := g.Node(lone)
	assert.Equal(t, Vec2{0, 3 + treeRowGap}, n.Pos)
}

func TestRemoveSubtree(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(NewNode(Vec2{0, 0}, "root"))
	other := g.AddNode(NewNode(Vec2{0, 40}, "other"))
	child, _ := AddChild(g, root, "child")
	_, _ = AddChild(g, child, "grandchild")
	_, _ = AddChild(g, other, "kept")

	assert.Equal(t, 3, RemoveSubtree(g, root))
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestRemoveSubtree_Cycle(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewNode(Vec2{0, 0}, "a"))
	b := g.AddNode(NewNode(Vec2{20, 0}, "b"))
	_, err := g.AddEdge(a, b, EdgeLine)
	require.NoError(t, err)
	_, err = g.AddEdge(b, a, EdgeLine)
	require.NoError(t, err)

	assert.Equal(t, 2, RemoveSubtree(g, a))
	assert.Equal(t, 0, g.NodeCount())
}

func TestForest(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(NewNode(Vec2{0, 0}, "root"))
	low := g.AddNode(NewNode(Vec2{20, 30}, "low"))
	high := g.AddNode(NewNode(Vec2{20, -5}, "high"))
	for _, e := range [][2]NodeID{{root, low}, {root, high}, {high, low}, {low, low}} {
		_, err := g.AddEdge(e[0], e[1], EdgeLine)
		if e[0] == e[1] {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
	}

	f := newForest(g)
	assert.Equal(t, []NodeID{high, low}, f.childrenOf(root), "children run top to bottom")
	assert.Empty(t, f.childrenOf(high), "the first incoming edge decides the parent")
	p, ok := f.parentOf(low)
	require.True(t, ok)
	assert.Equal(t, root, p)
	assert.Equal(t, []NodeID{root}, f.roots())
}

func TestRemoveSubtree_Wide(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(NewNode(Vec2{0, 0}, "root"))
	for i := 0; i < 50; i++ {
		child, err := AddChild(g, root, "c")
		require.NoError(t, err)
		for j := 0; j < 4; j++ {
			_, err := AddChild(g, child, "g")
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 251, RemoveSubtree(g, root))
	assert.Equal(t, 0, g.NodeCount())
}

func TestTidy(t *testing.T) {
	g := NewGraph()
	root := g.AddNode(NewNode(Vec2{0, 10}, "root"))
	top := g.AddNode(NewNode(Vec2{50, -20}, "top"))
	bottom := g.AddNode(NewNode(Vec2{3, 90}, "bottom"))
	_, err := g.AddEdge(root, top, EdgeLine)
	require.NoError(t, err)
	_, err = g.AddEdge(root, bottom, EdgeLine)
	require.NoError(t, err)

	Tidy(g)

	nt, _ := g.Node(top)
	nb, _ := g.Node(bottom)
	nr, _ := g.Node(root)
	assert.Equal(t, Vec2{0, 10}, nr.Pos, "roots stay put")
	assert.Equal(t, 8.0+treeColumnGap, nt.Pos.X)
	assert.Equal(t, 8.0+treeColumnGap, nb.Pos.X)
	assert.Equal(t, nt.Pos.Y+3+treeRowGap, nb.Pos.Y)

	// children are centered on the parent
	mid := (nt.Pos.Y + nb.Pos.Y + 3) / 2
	assert.InDelta(t, nr.Pos.Y+1.5, mid, eps)
}
