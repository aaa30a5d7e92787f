package main

// WidgetOptions tunes the gesture handlers.
type WidgetOptions struct {
	PanModifier    Modifier
	AnchorSize     float64 // half-width of a link anchor region, in screen cells
	BezierFraction float64
}

func DefaultWidgetOptions() WidgetOptions {
	return WidgetOptions{
		PanModifier:    ModAlt,
		AnchorSize:     0.5,
		BezierFraction: defaultBezierFraction,
	}
}

// CanvasWidget composes the input manager, transform, selection and link
// protocol once per tick against the shared store.
type CanvasWidget struct {
	store     *Store
	input     *InputStateManager
	selection SelectionController
	linker    Linker
	history   *History
	log       Logger
	opts      WidgetOptions

	selectBefore []NodeID
	moveOrigin   map[NodeID]Vec2
}

func NewCanvasWidget(store *Store, history *History, opts WidgetOptions, log Logger) *CanvasWidget {
	if log == nil {
		log = discardLogger()
	}
	if history == nil {
		history = NewHistory(0)
	}
	if opts.BezierFraction <= 0 {
		opts.BezierFraction = defaultBezierFraction
	}
	if opts.AnchorSize <= 0 {
		opts.AnchorSize = 0.5
	}
	return &CanvasWidget{
		store:   store,
		input:   NewInputStateManager(opts.PanModifier),
		history: history,
		log:     log,
		opts:    opts,
	}
}

func (w *CanvasWidget) Store() *Store       { return w.store }
func (w *CanvasWidget) History() *History   { return w.history }
func (w *CanvasWidget) Gesture() BusyReason { return w.input.State() }

// Tick runs one frame: resolve the gesture, apply it, and capture the render
// snapshot, all under a single writer scope.
func (w *CanvasWidget) Tick(in FrameInput) Snapshot {
	var snap Snapshot
	cp := w.checkpoint()
	err := w.store.Update(func(sc *Scene) error {
		w.step(sc, in)
		snap = w.snapshot(sc)
		return nil
	})
	if err != nil {
		w.log.Errorf("frame: %v", err)
		// The store rolled the scene back; bring the gesture state back with
		// it, then drop the gesture cleanly.
		w.rollback(cp)
		if err := w.store.Update(func(sc *Scene) error {
			w.abandon(sc, w.input.Cancel())
			return nil
		}); err != nil {
			w.log.Errorf("frame cleanup: %v", err)
			w.rollback(cp)
			w.input.Cancel()
			w.selection.End()
		}
		return w.Snapshot()
	}
	snap.Revision = w.store.Revision()
	return snap
}

// widgetCheckpoint is the per-gesture state a failed frame must restore
// alongside the scene.
type widgetCheckpoint struct {
	input        InputStateManager
	selection    SelectionController
	history      historyMark
	selectBefore []NodeID
	moveOrigin   map[NodeID]Vec2
}

func (w *CanvasWidget) checkpoint() widgetCheckpoint {
	return widgetCheckpoint{
		input:        *w.input,
		selection:    w.selection.clone(),
		history:      w.history.mark(),
		selectBefore: w.selectBefore,
		moveOrigin:   w.moveOrigin,
	}
}

func (w *CanvasWidget) rollback(cp widgetCheckpoint) {
	*w.input = cp.input
	w.selection = cp.selection
	w.history.reset(cp.history)
	w.selectBefore = cp.selectBefore
	w.moveOrigin = cp.moveOrigin
}

// Cancel abandons the active gesture without committing it.
func (w *CanvasWidget) Cancel() {
	w.Tick(FrameInput{Cancel: true})
}

// Snapshot captures the current state without advancing input.
func (w *CanvasWidget) Snapshot() Snapshot {
	var snap Snapshot
	_ = w.store.View(func(sc *Scene) error {
		snap = w.snapshot(sc)
		return nil
	})
	snap.Revision = w.store.Revision()
	return snap
}

func (w *CanvasWidget) snapshot(sc *Scene) Snapshot {
	var rng *DragSelectRange
	if r, ok := w.selection.Range(); ok {
		rng = &r
	}
	return NewSnapshot(sc, rng, w.input.State(), w.opts.BezierFraction)
}

func (w *CanvasWidget) hitTest(sc *Scene) HitTester {
	return func(p Vec2) Target {
		if id, _, ok := AnchorAt(sc.Graph, sc.View, p, w.opts.AnchorSize); ok {
			return Target{Kind: TargetAnchor, Node: id}
		}
		if id, ok := sc.Graph.NodeAt(sc.View.ToCanvas(p)); ok {
			return Target{Kind: TargetNode, Node: id}
		}
		return Target{Kind: TargetEmpty}
	}
}

func (w *CanvasWidget) step(sc *Scene, in FrameInput) {
	tr := w.input.Resolve(in, w.hitTest(sc))

	if tr.Ended != BusyNone {
		if tr.Cancelled {
			w.abandon(sc, tr.Ended)
		} else {
			w.finish(sc, tr, in)
		}
		w.log.Debugf("gesture %s ended", tr.Ended)
	}
	if tr.Active == BusyNone {
		return
	}
	if tr.Began {
		w.log.Debugf("gesture %s began", tr.Active)
		w.begin(sc, tr, in)
		return
	}
	w.apply(sc, tr, in)
}

func (w *CanvasWidget) begin(sc *Scene, tr Transition, in FrameInput) {
	g := sc.Graph
	switch tr.Active {
	case BusyPan, BusyZoom:
		w.apply(sc, tr, in)
	case BusyDragSelect:
		w.selectBefore = g.Selection()
		w.selection.Begin(g, in.Pointer, in.Modifiers.Has(ModShift))
	case BusyLinkEdge:
		w.linker.Begin(g, tr.Target.Node, sc.View.ToCanvas(in.Pointer))
	case BusyMoveNode:
		id := tr.Target.Node
		switch {
		case in.Modifiers.Has(ModShift) && !g.IsSelected(id):
			g.SetSelection(append(g.Selection(), id))
		case !g.IsSelected(id):
			g.SetSelected(id)
		}
		g.BringToFront(id)
		w.moveOrigin = nil
	}
}

func (w *CanvasWidget) apply(sc *Scene, tr Transition, in FrameInput) {
	g := sc.Graph
	switch tr.Active {
	case BusyPan:
		sc.View.TranslateBy(in.PointerDelta)
	case BusyZoom:
		sc.View.ZoomAt(in.Pointer, in.zoomFactor(), in.Scroll)
	case BusyDragSelect:
		if in.HasPointer {
			w.selection.Update(g, sc.View, in.Pointer)
		}
	case BusyLinkEdge:
		if in.HasPointer {
			w.linker.Update(g, sc.View.ToCanvas(in.Pointer))
		}
	case BusyMoveNode:
		if in.PointerDelta.IsZero() {
			return
		}
		if w.moveOrigin == nil {
			w.history.Record(ActionMoveNode, g)
			w.moveOrigin = make(map[NodeID]Vec2)
			for _, id := range g.Selection() {
				n, _ := g.Node(id)
				w.moveOrigin[id] = n.Pos
			}
		}
		delta := in.PointerDelta.Scale(1 / sc.View.Scale)
		for id := range w.moveOrigin {
			g.MoveNode(id, delta)
		}
	}
}

func (w *CanvasWidget) finish(sc *Scene, tr Transition, in FrameInput) {
	g := sc.Graph
	switch tr.Ended {
	case BusyDragSelect:
		if in.HasPointer {
			w.selection.Update(g, sc.View, in.Pointer)
		}
		w.selection.End()
		w.selectBefore = nil
	case BusyLinkEdge:
		p, ok := w.releasePoint(sc, in)
		if !ok {
			w.linker.Cancel(g)
			return
		}
		var target NodeID
		if t := w.hitTest(sc)(p); t.Kind != TargetEmpty {
			target = t.Node
		}
		before := g.Clone()
		res := w.linker.EndOn(g, target)
		switch {
		case res.Committed:
			w.history.push(ActionAddEdge, before)
			e, _ := g.Edge(res.Edge)
			w.log.Infof("edge %v committed: %v -> %v (%s)", res.Edge, e.Source, e.Target, e.Type)
		case res.rejected():
			w.log.Debugf("edge rejected: %v", res.Err)
		}
	case BusyMoveNode:
		w.moveOrigin = nil
	}
}

// releasePoint is the screen point a link ends at: the pointer, or the last
// tracked point when the release frame carries no pointer.
func (w *CanvasWidget) releasePoint(sc *Scene, in FrameInput) (Vec2, bool) {
	if in.HasPointer {
		return in.Pointer, true
	}
	t, ok := sc.Graph.TempEdge()
	return sc.View.ToScreen(t.Target), ok
}

func (w *CanvasWidget) abandon(sc *Scene, r BusyReason) {
	g := sc.Graph
	switch r {
	case BusyDragSelect:
		w.selection.Cancel(g, w.selectBefore)
		w.selectBefore = nil
	case BusyLinkEdge:
		w.linker.Cancel(g)
	case BusyMoveNode:
		if w.moveOrigin != nil {
			for id, pos := range w.moveOrigin {
				g.UpdateNode(id, func(n *Node) { n.Pos = pos })
			}
			w.history.dropLast()
		}
		w.moveOrigin = nil
	}
	if r != BusyNone {
		w.log.Debugf("gesture %s cancelled", r)
	}
}
