package main

const defaultHistoryDepth = 100

type ActionType int

const (
	ActionAddNode ActionType = iota
	ActionDeleteNode
	ActionEditNode
	ActionMoveNode
	ActionAddEdge
	ActionEdgeType
	ActionLayout
	ActionPaste
	ActionReset
)

func (a ActionType) String() string {
	switch a {
	case ActionAddNode:
		return "add node"
	case ActionDeleteNode:
		return "delete"
	case ActionEditNode:
		return "edit label"
	case ActionMoveNode:
		return "move"
	case ActionAddEdge:
		return "link"
	case ActionEdgeType:
		return "edge type"
	case ActionLayout:
		return "layout"
	case ActionPaste:
		return "paste"
	case ActionReset:
		return "new diagram"
	default:
		return "change"
	}
}

// Action is one undoable step: the graph as it was before the step.
type Action struct {
	Type  ActionType
	Graph *Graph
}

// History keeps bounded undo and redo stacks of graph snapshots.
type History struct {
	undoStack []Action
	redoStack []Action
	depth     int

	// cleared is the redo stack the newest push discarded.
	cleared []Action
}

func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = defaultHistoryDepth
	}
	return &History{depth: depth}
}

// Record snapshots g before a mutation of the given type and clears redo.
func (h *History) Record(t ActionType, g *Graph) {
	h.push(t, g.Clone())
}

func (h *History) push(t ActionType, before *Graph) {
	before.SetTempEdge(nil)
	h.undoStack = append(h.undoStack, Action{Type: t, Graph: before})
	if len(h.undoStack) > h.depth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.depth:]
	}
	h.cleared = h.redoStack
	h.redoStack = nil
}

// dropLast forgets the newest undo entry and brings back the redo stack it
// cleared; used when a recorded step is abandoned before it commits.
func (h *History) dropLast() {
	n := len(h.undoStack)
	if n == 0 {
		return
	}
	h.undoStack = h.undoStack[:n-1]
	if len(h.redoStack) == 0 {
		h.redoStack = h.cleared
	}
	h.cleared = nil
}

// historyMark is a saved position of both stacks.
type historyMark struct {
	undo, redo, cleared []Action
}

func (h *History) mark() historyMark {
	return historyMark{
		undo:    append([]Action(nil), h.undoStack...),
		redo:    append([]Action(nil), h.redoStack...),
		cleared: h.cleared,
	}
}

// reset returns both stacks to a saved mark, discarding anything recorded
// since.
func (h *History) reset(m historyMark) {
	h.undoStack = m.undo
	h.redoStack = m.redo
	h.cleared = m.cleared
}

// Undo returns the graph to restore in place of current.
func (h *History) Undo(current *Graph) (*Graph, ActionType, error) {
	n := len(h.undoStack)
	if n == 0 {
		return nil, 0, ErrNothingToUndo
	}
	action := h.undoStack[n-1]
	h.undoStack = h.undoStack[:n-1]
	h.cleared = nil
	cur := current.Clone()
	cur.SetTempEdge(nil)
	h.redoStack = append(h.redoStack, Action{Type: action.Type, Graph: cur})
	return action.Graph, action.Type, nil
}

// Redo reapplies the newest undone step.
func (h *History) Redo(current *Graph) (*Graph, ActionType, error) {
	n := len(h.redoStack)
	if n == 0 {
		return nil, 0, ErrNothingToRedo
	}
	action := h.redoStack[n-1]
	h.redoStack = h.redoStack[:n-1]
	h.cleared = nil
	cur := current.Clone()
	cur.SetTempEdge(nil)
	h.undoStack = append(h.undoStack, Action{Type: action.Type, Graph: cur})
	return action.Graph, action.Type, nil
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.cleared = nil
}
