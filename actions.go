package main

import (
	"fmt"
	"strings"
)

// Editor commands. Each runs in one writer scope and records history before
// it mutates the graph.

// AddNodeAt creates a node whose top-left corner sits under the screen point
// and selects it.
func (w *CanvasWidget) AddNodeAt(p Vec2, label string) NodeID {
	var id NodeID
	w.update(func(sc *Scene) error {
		w.history.Record(ActionAddNode, sc.Graph)
		id = sc.Graph.AddNode(NewNode(sc.View.ToCanvas(p), label))
		sc.Graph.SetSelected(id)
		return nil
	})
	return id
}

// DeleteSelected removes every selected node with its edges.
func (w *CanvasWidget) DeleteSelected() int {
	removed := 0
	w.update(func(sc *Scene) error {
		sel := sc.Graph.Selection()
		if len(sel) == 0 {
			return nil
		}
		w.history.Record(ActionDeleteNode, sc.Graph)
		for _, id := range sel {
			if sc.Graph.RemoveNode(id) {
				removed++
				w.log.Debugf("node %v removed", id)
			}
		}
		return nil
	})
	return removed
}

// DeleteSelectedTree removes the primary selection and its descendants.
func (w *CanvasWidget) DeleteSelectedTree() int {
	removed := 0
	w.update(func(sc *Scene) error {
		id, ok := sc.Graph.SelectedNode()
		if !ok {
			return nil
		}
		w.history.Record(ActionDeleteNode, sc.Graph)
		removed = RemoveSubtree(sc.Graph, id)
		return nil
	})
	return removed
}

// ToggleEdgeType flips the type used for new links and returns it.
func (w *CanvasWidget) ToggleEdgeType() EdgeType {
	var t EdgeType
	w.update(func(sc *Scene) error {
		sc.Graph.EdgeType = sc.Graph.EdgeType.Toggle()
		t = sc.Graph.EdgeType
		return nil
	})
	return t
}

// RetypeSelectedEdges sets every edge touching the selection to the current
// edge type.
func (w *CanvasWidget) RetypeSelectedEdges() int {
	n := 0
	w.update(func(sc *Scene) error {
		g := sc.Graph
		var ids []EdgeID
		for _, e := range g.Edges() {
			if e.Type != g.EdgeType && (g.IsSelected(e.Source) || g.IsSelected(e.Target)) {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		w.history.Record(ActionEdgeType, g)
		for _, id := range ids {
			if g.SetEdgeType(id, g.EdgeType) {
				n++
			}
		}
		return nil
	})
	return n
}

// BeginEdit puts the primary selection into edit mode and returns its label.
func (w *CanvasWidget) BeginEdit() (NodeID, string, error) {
	var (
		id    NodeID
		label string
	)
	err := w.update(func(sc *Scene) error {
		sel, ok := sc.Graph.SelectedNode()
		if !ok {
			return fmt.Errorf("edit: %w", ErrNodeNotFound)
		}
		n, _ := sc.Graph.Node(sel)
		if err := sc.Graph.SetEditing(sel); err != nil {
			return err
		}
		id, label = sel, n.Label
		return nil
	})
	return id, label, err
}

// EditLabel replaces the label of the editing node while edit mode is on.
func (w *CanvasWidget) EditLabel(label string) {
	w.update(func(sc *Scene) error {
		if id, ok := sc.Graph.EditingNode(); ok {
			sc.Graph.SetLabel(id, label)
		}
		return nil
	})
}

// CommitEdit leaves edit mode keeping label. original is the label edit mode
// started with; an unchanged label records nothing.
func (w *CanvasWidget) CommitEdit(original, label string) {
	w.update(func(sc *Scene) error {
		g := sc.Graph
		id, ok := g.EditingNode()
		if !ok {
			return nil
		}
		label = strings.TrimRight(label, "\n")
		if label != original {
			before := g.Clone()
			before.SetLabel(id, original)
			_ = before.SetEditing(NodeID{})
			w.history.push(ActionEditNode, before)
		}
		g.SetLabel(id, label)
		return g.SetEditing(NodeID{})
	})
}

// CancelEdit leaves edit mode restoring original.
func (w *CanvasWidget) CancelEdit(original string) {
	w.update(func(sc *Scene) error {
		if id, ok := sc.Graph.EditingNode(); ok {
			sc.Graph.SetLabel(id, original)
		}
		return sc.Graph.SetEditing(NodeID{})
	})
}

// AddChildNode creates a child of the primary selection and selects it.
func (w *CanvasWidget) AddChildNode(label string) (NodeID, error) {
	return w.addRelative(AddChild, label)
}

// AddSiblingNode creates a sibling of the primary selection and selects it.
func (w *CanvasWidget) AddSiblingNode(label string) (NodeID, error) {
	return w.addRelative(AddSibling, label)
}

func (w *CanvasWidget) addRelative(add func(*Graph, NodeID, string) (NodeID, error), label string) (NodeID, error) {
	var id NodeID
	err := w.update(func(sc *Scene) error {
		sel, ok := sc.Graph.SelectedNode()
		if !ok {
			return ErrNodeNotFound
		}
		before := sc.Graph.Clone()
		created, err := add(sc.Graph, sel, label)
		if err != nil {
			return err
		}
		w.history.push(ActionAddNode, before)
		sc.Graph.SetSelected(created)
		id = created
		return nil
	})
	return id, err
}

// TidyLayout re-lays every tree out.
func (w *CanvasWidget) TidyLayout() {
	w.update(func(sc *Scene) error {
		w.history.Record(ActionLayout, sc.Graph)
		Tidy(sc.Graph)
		return nil
	})
}

// SelectAll selects every node.
func (w *CanvasWidget) SelectAll() {
	w.update(func(sc *Scene) error {
		sc.Graph.SetSelection(sc.Graph.Nodes())
		return nil
	})
}

// ClearSelection empties the selection.
func (w *CanvasWidget) ClearSelection() {
	w.update(func(sc *Scene) error {
		sc.Graph.SetSelected(NodeID{})
		return nil
	})
}

// SelectedLabel returns the primary selection's label.
func (w *CanvasWidget) SelectedLabel() (string, bool) {
	var (
		label string
		ok    bool
	)
	_ = w.store.View(func(sc *Scene) error {
		var id NodeID
		if id, ok = sc.Graph.SelectedNode(); ok {
			n, _ := sc.Graph.Node(id)
			label = n.Label
		}
		return nil
	})
	return label, ok
}

// Undo restores the graph before the newest recorded step.
func (w *CanvasWidget) Undo() (ActionType, error) {
	return w.restore(w.history.Undo)
}

// Redo reapplies the newest undone step.
func (w *CanvasWidget) Redo() (ActionType, error) {
	return w.restore(w.history.Redo)
}

func (w *CanvasWidget) restore(step func(*Graph) (*Graph, ActionType, error)) (ActionType, error) {
	var t ActionType
	err := w.update(func(sc *Scene) error {
		g, at, err := step(sc.Graph)
		if err != nil {
			return err
		}
		sc.Graph = g
		t = at
		return nil
	})
	return t, err
}

// NewDiagram clears the graph and resets the view.
func (w *CanvasWidget) NewDiagram() {
	w.update(func(sc *Scene) error {
		w.history.Record(ActionReset, sc.Graph)
		sc.Graph.Reset()
		sc.View.Reset()
		return nil
	})
}

// ResetView returns to scale 1 at the origin.
func (w *CanvasWidget) ResetView() {
	w.update(func(sc *Scene) error {
		sc.View.Reset()
		return nil
	})
}

// FitView zooms and pans so every node is visible in a viewport of the given
// size.
func (w *CanvasWidget) FitView(viewport Vec2) {
	w.update(func(sc *Scene) error {
		if r, ok := sc.Graph.Bounds(); ok {
			sc.View.Fit(r, viewport, 2)
		} else {
			sc.View.Reset()
		}
		return nil
	})
}

// update is a command scope. Active gestures are abandoned first so a command
// never interleaves with a half-finished drag or link.
func (w *CanvasWidget) update(fn func(sc *Scene) error) error {
	if w.input.Busy() {
		w.Cancel()
	}
	mark := w.history.mark()
	err := w.store.Update(fn)
	if err != nil {
		w.history.reset(mark)
		w.log.Debugf("command: %v", err)
	}
	return err
}
