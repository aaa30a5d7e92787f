package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertVecEqual(t *testing.T, want, got Vec2, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := IdentityTransform()
	tr.Scale = 2.5
	tr.Translation = Vec2{-7, 13}

	p := Vec2{3.25, -4}
	assertVecEqual(t, p, tr.ToCanvas(tr.ToScreen(p)))
	assertVecEqual(t, Vec2{3.25*2.5 - 7, -4*2.5 + 13}, tr.ToScreen(p))
}

func TestTransform_ZoomAtKeepsAnchor(t *testing.T) {
	starts := []Transform{
		IdentityTransform(),
		{Scale: 0.5, Translation: Vec2{10, -3}},
		{Scale: 3, Translation: Vec2{-40, 22}},
	}
	pointers := []Vec2{{0, 0}, {12.5, 7.5}, {-30, 80}}
	factors := []float64{0.5, 0.9, 1.1, 2, 4}

	for _, start := range starts {
		for _, p := range pointers {
			for _, z := range factors {
				tr := start.WithBounds(0.01, 100)
				before := tr.ToCanvas(p)
				tr.ZoomAt(p, z, Vec2{})
				assertVecEqual(t, before, tr.ToCanvas(p), "start %+v p %v z %v", start, p, z)
			}
		}
	}
}

func TestTransform_ZoomIdempotence(t *testing.T) {
	tr := Transform{Scale: 1.7, Translation: Vec2{3, 4}}.WithBounds(0.1, 10)
	want := tr
	tr.ZoomAt(Vec2{42, 17}, 1, Vec2{})
	assert.Equal(t, want, tr)
}

func TestTransform_ZoomClamp(t *testing.T) {
	tr := IdentityTransform()
	p := Vec2{20, 10}
	anchor := tr.ToCanvas(p)

	tr.ZoomAt(p, 1000, Vec2{})
	assert.InDelta(t, defaultMaxZoom, tr.Scale, eps)
	assertVecEqual(t, anchor, tr.ToCanvas(p), "anchor holds at the clamp")

	tr.ZoomAt(p, 1e-6, Vec2{})
	assert.InDelta(t, defaultMinZoom, tr.Scale, eps)
	assertVecEqual(t, anchor, tr.ToCanvas(p))
}

func TestTransform_ZoomIgnoresBadFactor(t *testing.T) {
	tr := IdentityTransform()
	for _, f := range []float64{0, -2} {
		tr.ZoomAt(Vec2{5, 5}, f, Vec2{})
		assert.Equal(t, IdentityTransform(), tr)
	}
}

func TestTransform_ZoomAtPans(t *testing.T) {
	tr := IdentityTransform()
	tr.ZoomAt(Vec2{5, 5}, 1, Vec2{3, -2})
	assert.Equal(t, 1.0, tr.Scale)
	assert.Equal(t, Vec2{3, -2}, tr.Translation)
}

func TestTransform_WithBounds(t *testing.T) {
	tr := Transform{Scale: 20}.WithBounds(0.5, 4)
	assert.Equal(t, 4.0, tr.Scale)
	min, max := tr.Bounds()
	assert.Equal(t, 0.5, min)
	assert.Equal(t, 4.0, max)

	tr = tr.WithBounds(5, 1)
	min, max = tr.Bounds()
	assert.Equal(t, defaultMinZoom, min)
	assert.Equal(t, defaultMaxZoom, max)
}

func TestTransform_Fit(t *testing.T) {
	tr := IdentityTransform()
	r := Rect{Min: Vec2{100, 100}, Max: Vec2{140, 120}}
	tr.Fit(r, Vec2{80, 40}, 0)

	require.InDelta(t, 2.0, tr.Scale, eps)
	assertVecEqual(t, Vec2{40, 20}, tr.ToScreen(r.Center()))

	tr.Fit(Rect{}, Vec2{80, 40}, 0)
	assert.Equal(t, 1.0, tr.Scale)
	assert.Equal(t, Vec2{}, tr.Translation)
}

// Node A at (0,0) and B at (100,50) joined by a line; zooming 2x about A's
// screen position keeps A fixed and doubles B's offset from it.
func TestTransform_ZoomAboutNode(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewNode(Vec2{0, 0}, "A"))
	b := g.AddNode(NewNode(Vec2{100, 50}, "B"))
	_, err := g.AddEdge(a, b, EdgeLine)
	require.NoError(t, err)

	tr := IdentityTransform()
	tr.Translation = Vec2{7, 3}
	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	aBefore := tr.ToScreen(na.Pos)
	bBefore := tr.ToScreen(nb.Pos)

	tr.ZoomAt(aBefore, 2, Vec2{})

	assertVecEqual(t, aBefore, tr.ToScreen(na.Pos))
	assertVecEqual(t, bBefore.Sub(aBefore).Scale(2), tr.ToScreen(nb.Pos).Sub(aBefore))
}
