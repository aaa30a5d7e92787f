package main

import (
	"fmt"
	"strings"
)

// handle addresses an arena slot. gen starts at 1 for a live slot and is bumped
// every time the slot is freed, so the zero handle never resolves and old
// handles to a reused slot go stale instead of aliasing the new occupant.
type handle struct {
	index uint32
	gen   uint32
}

// NodeID is a stable node identity that survives removals of other nodes.
type NodeID handle

// EdgeID is a stable edge identity.
type EdgeID handle

func (id NodeID) IsZero() bool   { return id.gen == 0 }
func (id NodeID) String() string { return fmt.Sprintf("n%d.%d", id.index, id.gen) }
func (id EdgeID) IsZero() bool   { return id.gen == 0 }
func (id EdgeID) String() string { return fmt.Sprintf("e%d.%d", id.index, id.gen) }

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.live = true
		s.val = v
		a.count++
		return handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, live: true, val: v})
	a.count++
	return handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.val, true
}

func (a *arena[T]) remove(h handle) (T, bool) {
	var zero T
	if _, ok := a.get(h); !ok {
		return zero, false
	}
	s := &a.slots[h.index]
	v := s.val
	s.val = zero
	s.live = false
	s.gen++
	a.free = append(a.free, h.index)
	a.count--
	return v, true
}

func (a *arena[T]) clone() arena[T] {
	c := arena[T]{
		slots: make([]slot[T], len(a.slots)),
		free:  make([]uint32, len(a.free)),
		count: a.count,
	}
	copy(c.slots, a.slots)
	copy(c.free, a.free)
	return c
}

// Node is a labelled box in canvas space.
type Node struct {
	Pos     Vec2
	Size    Vec2
	Label   string
	Editing bool
}

// NewNode returns a node at pos sized to fit its label.
func NewNode(pos Vec2, label string) Node {
	n := Node{Pos: pos}
	n.SetLabel(label)
	return n
}

// SetLabel replaces the label and grows the node to fit it.
func (n *Node) SetLabel(label string) {
	n.Label = label
	n.Size = labelSize(label)
}

func (n Node) Bounds() Rect {
	return RectFromPosSize(n.Pos, n.Size)
}

func labelSize(label string) Vec2 {
	lines := strings.Split(label, "\n")
	w := minNodeWidth
	for _, line := range lines {
		if l := len([]rune(line)) + 4; l > w {
			w = l
		}
	}
	h := len(lines) + 2
	if h < minNodeHeight {
		h = minNodeHeight
	}
	return Vec2{float64(w), float64(h)}
}

// Edge connects two live nodes.
type Edge struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Type   EdgeType
}

// TempEdge is the in-progress link: a source node and the pointer position in
// canvas space.
type TempEdge struct {
	Source NodeID
	Target Vec2
}

type GraphOption func(g *Graph)

// WithSelfLoops permits edges from a node to itself.
func WithSelfLoops(allow bool) GraphOption {
	return func(g *Graph) { g.allowLoops = allow }
}

// WithParallelEdges permits more than one edge between the same ordered pair.
func WithParallelEdges(allow bool) GraphOption {
	return func(g *Graph) { g.allowParallel = allow }
}

// Graph owns nodes, edges and the selection/editing/link state. It is not safe
// for concurrent use; share it through a Store.
type Graph struct {
	nodes arena[Node]
	edges arena[Edge]
	order []NodeID // paint order, last is topmost

	selection []NodeID // first element is the primary selection
	editing   NodeID
	tempEdge  *TempEdge

	EdgeType EdgeType

	allowLoops    bool
	allowParallel bool
}

// NewGraph returns an empty graph. Self-loops are rejected and parallel edges
// allowed unless options say otherwise.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{allowParallel: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) AddNode(n Node) NodeID {
	n.Editing = false
	id := NodeID(g.nodes.insert(n))
	g.order = append(g.order, id)
	return id
}

// RemoveNode deletes the node and every edge touching it. Selection, editing
// and an in-progress link that reference it are cleared. Removing a missing
// node is a no-op and reports false.
func (g *Graph) RemoveNode(id NodeID) bool {
	if _, ok := g.nodes.remove(handle(id)); !ok {
		return false
	}
	for i := range g.edges.slots {
		s := &g.edges.slots[i]
		if s.live && (s.val.Source == id || s.val.Target == id) {
			g.edges.remove(handle{index: uint32(i), gen: s.gen})
		}
	}
	g.order = removeID(g.order, id)
	g.selection = removeID(g.selection, id)
	if g.editing == id {
		g.editing = NodeID{}
	}
	if g.tempEdge != nil && g.tempEdge.Source == id {
		g.tempEdge = nil
	}
	return true
}

func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes.get(handle(id))
	return ok
}

// Node returns a copy of the node.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes.get(handle(id))
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// UpdateNode runs fn against the stored node. The pointer must not escape fn.
func (g *Graph) UpdateNode(id NodeID, fn func(n *Node)) bool {
	n, ok := g.nodes.get(handle(id))
	if !ok {
		return false
	}
	editing := n.Editing
	fn(n)
	n.Editing = editing
	return true
}

func (g *Graph) MoveNode(id NodeID, delta Vec2) bool {
	return g.UpdateNode(id, func(n *Node) { n.Pos = n.Pos.Add(delta) })
}

func (g *Graph) SetLabel(id NodeID, label string) bool {
	return g.UpdateNode(id, func(n *Node) { n.SetLabel(label) })
}

// Nodes returns the live node identities in paint order.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Graph) NodeCount() int { return g.nodes.count }
func (g *Graph) EdgeCount() int { return g.edges.count }

// BringToFront moves the node to the top of the paint order.
func (g *Graph) BringToFront(id NodeID) {
	if !g.HasNode(id) {
		return
	}
	g.order = append(removeID(g.order, id), id)
}

// AddEdge connects source to target. Both ends must be live; loops and
// parallel edges are checked against the graph options. A rejected edge leaves
// the graph untouched.
func (g *Graph) AddEdge(source, target NodeID, typ EdgeType) (EdgeID, error) {
	if !g.HasNode(source) {
		return EdgeID{}, fmt.Errorf("edge source %v: %w", source, ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return EdgeID{}, fmt.Errorf("edge target %v: %w", target, ErrNodeNotFound)
	}
	if source == target && !g.allowLoops {
		return EdgeID{}, fmt.Errorf("edge %v -> %v: %w", source, target, ErrLoopNotAllowed)
	}
	if !g.allowParallel {
		for _, e := range g.Edges() {
			if e.Source == source && e.Target == target {
				return EdgeID{}, fmt.Errorf("edge %v -> %v: %w", source, target, ErrParallelEdgeNotAllowed)
			}
		}
	}
	h := g.edges.insert(Edge{Source: source, Target: target, Type: typ})
	e, _ := g.edges.get(h)
	e.ID = EdgeID(h)
	return e.ID, nil
}

func (g *Graph) RemoveEdge(id EdgeID) bool {
	_, ok := g.edges.remove(handle(id))
	return ok
}

func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	e, ok := g.edges.get(handle(id))
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// SetEdgeType changes how an existing edge is drawn.
func (g *Graph) SetEdgeType(id EdgeID, typ EdgeType) bool {
	e, ok := g.edges.get(handle(id))
	if !ok {
		return false
	}
	e.Type = typ
	return true
}

// Edges returns every live edge in slot order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges.count)
	for _, s := range g.edges.slots {
		if s.live {
			out = append(out, s.val)
		}
	}
	return out
}

// EdgesOf returns the edges with id as source or target.
func (g *Graph) EdgesOf(id NodeID) []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// SelectedNode returns the primary selection.
func (g *Graph) SelectedNode() (NodeID, bool) {
	if len(g.selection) == 0 {
		return NodeID{}, false
	}
	return g.selection[0], true
}

func (g *Graph) Selection() []NodeID {
	out := make([]NodeID, len(g.selection))
	copy(out, g.selection)
	return out
}

func (g *Graph) IsSelected(id NodeID) bool {
	for _, s := range g.selection {
		if s == id {
			return true
		}
	}
	return false
}

// SetSelected selects exactly id, or clears the selection for the zero id.
func (g *Graph) SetSelected(id NodeID) {
	if id.IsZero() || !g.HasNode(id) {
		g.SetSelection(nil)
		return
	}
	g.SetSelection([]NodeID{id})
}

// SetSelection replaces the selection. Dead and duplicate ids are dropped.
// Editing ends unless the editing node is still the only selected node.
func (g *Graph) SetSelection(ids []NodeID) {
	sel := make([]NodeID, 0, len(ids))
	seen := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !g.HasNode(id) {
			continue
		}
		seen[id] = true
		sel = append(sel, id)
	}
	g.selection = sel
	if !g.editing.IsZero() && (len(sel) != 1 || sel[0] != g.editing) {
		g.setEditingFlag(g.editing, false)
		g.editing = NodeID{}
	}
}

func (g *Graph) EditingNode() (NodeID, bool) {
	if g.editing.IsZero() {
		return NodeID{}, false
	}
	return g.editing, true
}

// SetEditing puts id into edit mode and makes it the only selected node. The
// zero id leaves edit mode and keeps the selection.
func (g *Graph) SetEditing(id NodeID) error {
	if id.IsZero() {
		if !g.editing.IsZero() {
			g.setEditingFlag(g.editing, false)
			g.editing = NodeID{}
		}
		return nil
	}
	if !g.HasNode(id) {
		return fmt.Errorf("edit %v: %w", id, ErrNodeNotFound)
	}
	g.SetSelected(id)
	if g.editing != id {
		g.setEditingFlag(g.editing, false)
	}
	g.editing = id
	g.setEditingFlag(id, true)
	return nil
}

func (g *Graph) setEditingFlag(id NodeID, on bool) {
	if n, ok := g.nodes.get(handle(id)); ok {
		n.Editing = on
	}
}

// SetTempEdge stores or clears (nil) the in-progress link.
func (g *Graph) SetTempEdge(t *TempEdge) {
	if t == nil {
		g.tempEdge = nil
		return
	}
	cp := *t
	g.tempEdge = &cp
}

func (g *Graph) TempEdge() (TempEdge, bool) {
	if g.tempEdge == nil {
		return TempEdge{}, false
	}
	return *g.tempEdge, true
}

// Reset drops every node and edge along with selection, editing and link
// state. Options and the edge type setting are kept.
func (g *Graph) Reset() {
	g.nodes = arena[Node]{}
	g.edges = arena[Edge]{}
	g.order = nil
	g.selection = nil
	g.editing = NodeID{}
	g.tempEdge = nil
}

// Clone returns a deep copy, identities included.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:         g.nodes.clone(),
		edges:         g.edges.clone(),
		order:         append([]NodeID(nil), g.order...),
		selection:     append([]NodeID(nil), g.selection...),
		editing:       g.editing,
		EdgeType:      g.EdgeType,
		allowLoops:    g.allowLoops,
		allowParallel: g.allowParallel,
	}
	if g.tempEdge != nil {
		t := *g.tempEdge
		c.tempEdge = &t
	}
	return c
}

// NodeAt returns the topmost node containing the canvas point.
func (g *Graph) NodeAt(p Vec2) (NodeID, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		if n, ok := g.nodes.get(handle(id)); ok && n.Bounds().Contains(p) {
			return id, true
		}
	}
	return NodeID{}, false
}

// Bounds returns the canvas rectangle covering every node.
func (g *Graph) Bounds() (Rect, bool) {
	var r Rect
	found := false
	for _, id := range g.order {
		n, _ := g.nodes.get(handle(id))
		if !found {
			r = n.Bounds()
			found = true
			continue
		}
		r = r.Union(n.Bounds())
	}
	return r, found
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
