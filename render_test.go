package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxSnapshot(label string, selected, editing bool) Snapshot {
	return Snapshot{
		Nodes: []NodeView{{Pos: Vec2{0, 0}, Size: Vec2{8, 3}, Label: label, Selected: selected, Editing: editing}},
		View:  IdentityTransform(),
	}
}

func TestRenderSnapshot_NodeBox(t *testing.T) {
	g := RenderSnapshot(boxSnapshot("A", false, false), 10, 4, RenderOptions{})
	assert.Equal(t, []string{
		"┌──────┐  ",
		"│ A    │  ",
		"└──────┘  ",
		"          ",
	}, g.Lines())
}

func TestRenderSnapshot_NodeStates(t *testing.T) {
	tests := map[string]struct {
		selected, editing bool
		corner            rune
	}{
		"plain":    {false, false, '┌'},
		"selected": {true, false, '┏'},
		"editing":  {true, true, '╔'},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g := RenderSnapshot(boxSnapshot("A", tt.selected, tt.editing), 8, 3, RenderOptions{})
			assert.Equal(t, tt.corner, g.At(0, 0))
		})
	}
}

func TestRenderSnapshot_TruncatesLabel(t *testing.T) {
	g := RenderSnapshot(boxSnapshot("abcdefgh", false, false), 8, 3, RenderOptions{})
	assert.Equal(t, "│ abc… │", g.Lines()[1])
}

func TestRenderSnapshot_ClipsOutsideGrid(t *testing.T) {
	snap := boxSnapshot("A", false, false)
	snap.View.Translation = Vec2{-4, -1}
	g := RenderSnapshot(snap, 6, 2, RenderOptions{})
	assert.Equal(t, []string{"   │  ", "───┘  "}, g.Lines())
	assert.Equal(t, rune(0), g.At(-1, 0))
}

func TestRenderSnapshot_EdgeWithArrow(t *testing.T) {
	w, a, b := newTestWidget(t)
	require.NoError(t, w.Store().Update(func(sc *Scene) error {
		_, err := sc.Graph.AddEdge(a, b, EdgeLine)
		return err
	}))

	g := RenderSnapshot(w.Snapshot(), 30, 4, RenderOptions{})
	assert.Equal(t, '─', g.At(12, 1))
	assert.Equal(t, '▶', g.At(19, 1), "arrow sits just outside the target box")
	assert.Equal(t, '│', g.At(20, 1), "nodes paint over the edge line")
}

func TestRenderSnapshot_Overlays(t *testing.T) {
	snap := Snapshot{View: IdentityTransform(), DragSelect: &Rect{Min: Vec2{1, 1}, Max: Vec2{5, 3}}}
	cursor := Vec2{8.5, 0.5}
	g := RenderSnapshot(snap, 10, 4, RenderOptions{Cursor: &cursor})
	assert.Equal(t, '┊', g.At(1, 2))
	assert.Equal(t, '┈', g.At(3, 1))
	assert.Equal(t, '▏', g.At(8, 0))

	snap = boxSnapshot("A", true, false)
	g = RenderSnapshot(snap, 10, 4, RenderOptions{ShowAnchors: true})
	assert.Equal(t, '◆', g.At(7, 1))
	assert.Equal(t, '◆', g.At(4, 0))
}

func TestGrid_StyledWithoutColor(t *testing.T) {
	g := RenderSnapshot(boxSnapshot("A", false, false), 10, 3, RenderOptions{})
	styled := g.Styled(DefaultStyles(false))
	require.Len(t, styled, 3)
	for i, line := range g.Lines() {
		assert.Contains(t, styled[i], strings.TrimRight(line, " "))
	}
}

func TestNewGrid_NegativeSize(t *testing.T) {
	g := NewGrid(-1, -3)
	assert.Empty(t, g.Lines())
	assert.Empty(t, g.Styled(DefaultStyles(true)))
}
