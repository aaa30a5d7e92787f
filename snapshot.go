package main

// NodeView is a node as the renderer sees it.
type NodeView struct {
	ID       NodeID
	Pos      Vec2
	Size     Vec2
	Label    string
	Selected bool
	Editing  bool
}

func (n NodeView) Bounds() Rect { return RectFromPosSize(n.Pos, n.Size) }

// EdgeView is a committed edge with its endpoints resolved to canvas space.
type EdgeView struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Type   EdgeType
	Path   Path
}

// TempEdgeView is the live link preview.
type TempEdgeView struct {
	Source NodeID
	Target Vec2
	Path   Path
}

// Snapshot is the read-only frame state handed to renderers. It shares no
// memory with the graph.
type Snapshot struct {
	Nodes      []NodeView // paint order
	Edges      []EdgeView
	View       Transform
	TempEdge   *TempEdgeView
	DragSelect *Rect // screen space
	Gesture    BusyReason
	EdgeType   EdgeType
	Revision   uint64
}

// Node looks a node up by identity.
func (s Snapshot) Node(id NodeID) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// Bounds covers every node in canvas space.
func (s Snapshot) Bounds() (Rect, bool) {
	if len(s.Nodes) == 0 {
		return Rect{}, false
	}
	r := s.Nodes[0].Bounds()
	for _, n := range s.Nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r, true
}

// NewSnapshot captures the scene. dragSelect and gesture come from the widget
// that owns the frame; k is the Bezier control fraction.
func NewSnapshot(sc *Scene, dragSelect *DragSelectRange, gesture BusyReason, k float64) Snapshot {
	g := sc.Graph
	snap := Snapshot{
		View:     sc.View,
		Gesture:  gesture,
		EdgeType: g.EdgeType,
	}
	editing, _ := g.EditingNode()
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:       id,
			Pos:      n.Pos,
			Size:     n.Size,
			Label:    n.Label,
			Selected: g.IsSelected(id),
			Editing:  id == editing,
		})
	}
	for _, e := range g.Edges() {
		p, ok := EdgePath(g, e, k)
		if !ok {
			continue
		}
		snap.Edges = append(snap.Edges, EdgeView{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   e.Type,
			Path:   p,
		})
	}
	if t, ok := g.TempEdge(); ok {
		if p, ok := TempEdgePath(g, t, g.EdgeType, k); ok {
			snap.TempEdge = &TempEdgeView{Source: t.Source, Target: t.Target, Path: p}
		}
	}
	if dragSelect != nil {
		r := dragSelect.Rect()
		snap.DragSelect = &r
	}
	return snap
}
