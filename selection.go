package main

// DragSelectRange holds the screen-space anchor and current corner of a
// rectangle selection.
type DragSelectRange struct {
	Anchor  Vec2
	Current Vec2
}

// Rect is the normalized rectangle regardless of drag direction.
func (r DragSelectRange) Rect() Rect {
	return RectFromPoints(r.Anchor, r.Current)
}

// SelectionController tracks the rectangle selection gesture.
type SelectionController struct {
	rng      *DragSelectRange
	additive bool
	base     []NodeID
}

// Begin opens a range at p. With additive set, nodes selected before the
// gesture stay selected.
func (s *SelectionController) Begin(g *Graph, p Vec2, additive bool) {
	s.rng = &DragSelectRange{Anchor: p, Current: p}
	s.additive = additive
	s.base = nil
	if additive {
		s.base = g.Selection()
	}
}

// Update moves the current corner to p and reselects every node whose
// screen-space bounds intersect the range.
func (s *SelectionController) Update(g *Graph, view Transform, p Vec2) {
	if s.rng == nil {
		return
	}
	s.rng.Current = p
	hits := NodesInRect(g, view, s.rng.Rect())
	if s.additive {
		hits = append(append([]NodeID(nil), s.base...), hits...)
	}
	g.SetSelection(hits)
}

// End closes the range. The selection stays.
func (s *SelectionController) End() {
	s.rng = nil
	s.base = nil
	s.additive = false
}

// Cancel closes the range and restores the selection held before the gesture
// began.
func (s *SelectionController) Cancel(g *Graph, before []NodeID) {
	s.End()
	g.SetSelection(before)
}

func (s SelectionController) clone() SelectionController {
	if s.rng != nil {
		r := *s.rng
		s.rng = &r
	}
	s.base = append([]NodeID(nil), s.base...)
	return s
}

// Range returns the active range, if any.
func (s *SelectionController) Range() (DragSelectRange, bool) {
	if s.rng == nil {
		return DragSelectRange{}, false
	}
	return *s.rng, true
}

// NodesInRect returns the nodes whose screen-space bounds intersect r, in
// paint order.
func NodesInRect(g *Graph, view Transform, r Rect) []NodeID {
	var out []NodeID
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		if view.RectToScreen(n.Bounds()).Intersects(r) {
			out = append(out, id)
		}
	}
	return out
}
