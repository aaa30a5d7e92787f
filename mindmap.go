package main

import "sort"

const (
	treeColumnGap = 4
	treeRowGap    = 1
)

// forest indexes the tree structure of a graph in one pass over the edges. A
// node's parent is the source of its first incoming edge.
type forest struct {
	g        *Graph
	parent   map[NodeID]NodeID
	children map[NodeID][]NodeID
}

func newForest(g *Graph) *forest {
	f := &forest{
		g:        g,
		parent:   make(map[NodeID]NodeID),
		children: make(map[NodeID][]NodeID),
	}
	for _, e := range g.Edges() {
		if e.Source == e.Target {
			continue
		}
		if _, ok := f.parent[e.Target]; ok {
			continue
		}
		f.parent[e.Target] = e.Source
		f.children[e.Source] = append(f.children[e.Source], e.Target)
	}
	for _, c := range f.children {
		sortByY(g, c)
	}
	return f
}

func (f *forest) parentOf(id NodeID) (NodeID, bool) {
	p, ok := f.parent[id]
	return p, ok
}

// childrenOf returns the nodes whose parent is id, ordered top to bottom.
func (f *forest) childrenOf(id NodeID) []NodeID {
	return f.children[id]
}

// roots returns every node without a parent, ordered top to bottom.
func (f *forest) roots() []NodeID {
	var roots []NodeID
	for _, id := range f.g.Nodes() {
		if _, ok := f.parent[id]; !ok {
			roots = append(roots, id)
		}
	}
	sortByY(f.g, roots)
	return roots
}

func parentOf(g *Graph, id NodeID) (NodeID, bool) { return newForest(g).parentOf(id) }
func treeChildren(g *Graph, id NodeID) []NodeID  { return newForest(g).childrenOf(id) }
func treeRoots(g *Graph) []NodeID                { return newForest(g).roots() }

func sortByY(g *Graph, ids []NodeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := g.Node(ids[i])
		b, _ := g.Node(ids[j])
		return a.Pos.Y < b.Pos.Y
	})
}

// AddChild creates a node to the right of parent, below its existing children,
// and links parent to it with the current edge type.
func AddChild(g *Graph, parent NodeID, label string) (NodeID, error) {
	p, ok := g.Node(parent)
	if !ok {
		return NodeID{}, ErrNodeNotFound
	}
	y := p.Pos.Y
	if children := treeChildren(g, parent); len(children) > 0 {
		last, _ := g.Node(children[len(children)-1])
		y = last.Pos.Y + last.Size.Y + treeRowGap
	}
	id := g.AddNode(NewNode(Vec2{p.Pos.X + p.Size.X + treeColumnGap, y}, label))
	if _, err := g.AddEdge(parent, id, g.EdgeType); err != nil {
		g.RemoveNode(id)
		return NodeID{}, err
	}
	return id, nil
}

// AddSibling creates a node below sibling, sharing its parent when it has one.
func AddSibling(g *Graph, sibling NodeID, label string) (NodeID, error) {
	s, ok := g.Node(sibling)
	if !ok {
		return NodeID{}, ErrNodeNotFound
	}
	id := g.AddNode(NewNode(Vec2{s.Pos.X, s.Pos.Y + s.Size.Y + treeRowGap}, label))
	if parent, ok := parentOf(g, sibling); ok {
		if _, err := g.AddEdge(parent, id, g.EdgeType); err != nil {
			g.RemoveNode(id)
			return NodeID{}, err
		}
	}
	return id, nil
}

// RemoveSubtree deletes id and every descendant.
func RemoveSubtree(g *Graph, id NodeID) int {
	f := newForest(g)
	removed := 0
	visited := make(map[NodeID]bool)
	var walk func(NodeID)
	walk = func(n NodeID) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, c := range f.childrenOf(n) {
			walk(c)
		}
		if g.RemoveNode(n) {
			removed++
		}
	}
	walk(id)
	return removed
}

// Tidy lays every tree out left to right with children stacked and centered
// on their parent.
func Tidy(g *Graph) {
	f := newForest(g)
	visited := make(map[NodeID]bool)
	for _, root := range f.roots() {
		layoutSubtree(f, root, visited)
	}
}

func subtreeHeight(f *forest, id NodeID, visited map[NodeID]bool) float64 {
	n, ok := f.g.Node(id)
	if !ok || visited[id] {
		return 0
	}
	visited[id] = true
	defer delete(visited, id)

	children := f.childrenOf(id)
	if len(children) == 0 {
		return n.Size.Y
	}
	total := 0.0
	for i, c := range children {
		total += subtreeHeight(f, c, visited)
		if i < len(children)-1 {
			total += treeRowGap
		}
	}
	if total > n.Size.Y {
		return total
	}
	return n.Size.Y
}

func layoutSubtree(f *forest, id NodeID, visited map[NodeID]bool) {
	g := f.g
	if visited[id] {
		return
	}
	visited[id] = true
	n, ok := g.Node(id)
	if !ok {
		return
	}
	children := f.childrenOf(id)
	if len(children) == 0 {
		return
	}

	heights := make([]float64, len(children))
	total := 0.0
	for i, c := range children {
		heights[i] = subtreeHeight(f, c, map[NodeID]bool{id: true})
		total += heights[i]
		if i < len(children)-1 {
			total += treeRowGap
		}
	}

	x := n.Pos.X + n.Size.X + treeColumnGap
	y := n.Pos.Y + n.Size.Y/2 - total/2
	for i, c := range children {
		if visited[c] {
			continue
		}
		cn, _ := g.Node(c)
		pos := Vec2{x, y + (heights[i]-cn.Size.Y)/2}
		g.UpdateNode(c, func(n *Node) { n.Pos = pos })
		y += heights[i] + treeRowGap
		layoutSubtree(f, c, visited)
	}
}
