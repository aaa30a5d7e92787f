package main

import (
	"errors"
	"math"
)

const defaultBezierFraction = 0.5

// Side is one of the four link anchors of a node.
type Side int

const (
	SideRight Side = iota
	SideLeft
	SideBottom
	SideTop
)

// anchorPoint returns the midpoint of the given side of r.
func anchorPoint(r Rect, s Side) Vec2 {
	c := r.Center()
	switch s {
	case SideRight:
		return Vec2{r.Max.X, c.Y}
	case SideLeft:
		return Vec2{r.Min.X, c.Y}
	case SideBottom:
		return Vec2{c.X, r.Max.Y}
	default:
		return Vec2{c.X, r.Min.Y}
	}
}

// connectionSides picks the facing sides of two boxes along the dominant axis
// between their centers.
func connectionSides(from, to Rect) (Side, Side) {
	fc, tc := from.Center(), to.Center()
	if isHorizontal(fc, tc) {
		if fc.X <= tc.X {
			return SideRight, SideLeft
		}
		return SideLeft, SideRight
	}
	if fc.Y <= tc.Y {
		return SideBottom, SideTop
	}
	return SideTop, SideBottom
}

// ConnectionPoints returns the anchor points an edge between the two boxes is
// drawn between.
func ConnectionPoints(from, to Rect) (Vec2, Vec2) {
	fs, ts := connectionSides(from, to)
	return anchorPoint(from, fs), anchorPoint(to, ts)
}

// previewStart is the anchor of the source box facing a free point.
func previewStart(from Rect, target Vec2) Vec2 {
	fs, _ := connectionSides(from, Rect{Min: target, Max: target})
	return anchorPoint(from, fs)
}

// Path is the renderable geometry of an edge. For EdgeLine C1 and C2 equal the
// endpoints.
type Path struct {
	Type       EdgeType
	Start, End Vec2
	C1, C2     Vec2
}

// NewPath builds the path between two anchor points. Bezier control points
// sit d*k along the dominant axis, outward from each end, where d is the
// separation on that axis.
func NewPath(typ EdgeType, start, end Vec2, k float64) Path {
	p := Path{Type: typ, Start: start, End: end, C1: start, C2: end}
	if typ != EdgeBezier {
		return p
	}
	if k <= 0 || math.IsNaN(k) {
		k = defaultBezierFraction
	}
	delta := end.Sub(start)
	var u Vec2
	var d float64
	if isHorizontal(start, end) {
		d = math.Abs(delta.X)
		u = Vec2{X: math.Copysign(1, delta.X)}
	} else {
		d = math.Abs(delta.Y)
		u = Vec2{Y: math.Copysign(1, delta.Y)}
	}
	off := u.Scale(d * k)
	p.C1 = start.Add(off)
	p.C2 = end.Sub(off)
	return p
}

// Transform maps the path into screen space.
func (p Path) Transform(t Transform) Path {
	return Path{
		Type:  p.Type,
		Start: t.ToScreen(p.Start),
		End:   t.ToScreen(p.End),
		C1:    t.ToScreen(p.C1),
		C2:    t.ToScreen(p.C2),
	}
}

// Flatten samples the path into a polyline of segments+1 points. A line is
// always two points.
func (p Path) Flatten(segments int) []Vec2 {
	if p.Type != EdgeBezier {
		return []Vec2{p.Start, p.End}
	}
	if segments < 1 {
		segments = 1
	}
	pts := make([]Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		pts = append(pts, cubicAt(p.Start, p.C1, p.C2, p.End, float64(i)/float64(segments)))
	}
	return pts
}

// EdgePath resolves a committed edge to canvas-space geometry.
func EdgePath(g *Graph, e Edge, k float64) (Path, bool) {
	src, ok := g.Node(e.Source)
	if !ok {
		return Path{}, false
	}
	dst, ok := g.Node(e.Target)
	if !ok {
		return Path{}, false
	}
	a, b := ConnectionPoints(src.Bounds(), dst.Bounds())
	return NewPath(e.Type, a, b, k), true
}

// TempEdgePath resolves the in-progress link to canvas-space geometry.
func TempEdgePath(g *Graph, t TempEdge, typ EdgeType, k float64) (Path, bool) {
	src, ok := g.Node(t.Source)
	if !ok {
		return Path{}, false
	}
	return NewPath(typ, previewStart(src.Bounds(), t.Target), t.Target, k), true
}

// AnchorAt reports the node whose link anchor region contains the screen point.
// Each side midpoint owns a square of half-width size in screen cells. Nodes are
// tested topmost first.
func AnchorAt(g *Graph, view Transform, p Vec2, size float64) (NodeID, Side, bool) {
	if size <= 0 {
		size = 1
	}
	ids := g.Nodes()
	for i := len(ids) - 1; i >= 0; i-- {
		n, _ := g.Node(ids[i])
		r := view.RectToScreen(n.Bounds())
		for _, s := range []Side{SideRight, SideLeft, SideBottom, SideTop} {
			a := anchorPoint(r, s)
			if math.Abs(p.X-a.X) <= size && math.Abs(p.Y-a.Y) <= size {
				return ids[i], s, true
			}
		}
	}
	return NodeID{}, 0, false
}

// LinkResult describes how a link gesture ended.
type LinkResult struct {
	Edge      EdgeID
	Committed bool
	Err       error
}

// Linker runs the link protocol against a graph: begin creates the TempEdge,
// update tracks the pointer, end commits or discards it.
type Linker struct{}

// Begin starts a link from source at the canvas point p.
func (Linker) Begin(g *Graph, source NodeID, p Vec2) bool {
	if !g.HasNode(source) {
		return false
	}
	g.SetTempEdge(&TempEdge{Source: source, Target: p})
	return true
}

// Update moves the free end of the in-progress link.
func (Linker) Update(g *Graph, p Vec2) {
	t, ok := g.TempEdge()
	if !ok {
		return
	}
	t.Target = p
	g.SetTempEdge(&t)
}

// End resolves the in-progress link at the canvas point p, using the node body
// under p as the target.
func (l Linker) End(g *Graph, p Vec2) LinkResult {
	target, _ := g.NodeAt(p)
	return l.EndOn(g, target)
}

// EndOn resolves the in-progress link against target. A distinct live node
// commits an edge of the graph's current type; a zero target discards. The
// TempEdge is cleared on every path.
func (Linker) EndOn(g *Graph, target NodeID) LinkResult {
	t, ok := g.TempEdge()
	g.SetTempEdge(nil)
	if !ok || target.IsZero() {
		return LinkResult{}
	}
	id, err := g.AddEdge(t.Source, target, g.EdgeType)
	if err != nil {
		return LinkResult{Err: err}
	}
	return LinkResult{Edge: id, Committed: true}
}

// Cancel discards the in-progress link without committing.
func (Linker) Cancel(g *Graph) {
	g.SetTempEdge(nil)
}

// rejected reports whether a link ended in a rule rejection rather than a
// plain release over nothing.
func (r LinkResult) rejected() bool {
	return r.Err != nil && (errors.Is(r.Err, ErrLoopNotAllowed) ||
		errors.Is(r.Err, ErrParallelEdgeNotAllowed) || errors.Is(r.Err, ErrNodeNotFound))
}
