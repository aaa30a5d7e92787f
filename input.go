package main

// ButtonState is one button's state for a single frame.
type ButtonState struct {
	Pressed  bool // went down this frame
	Down     bool // held at the end of the frame
	Released bool // went up this frame
}

// FrameInput is everything the windowing layer reports for one tick, in
// screen space.
type FrameInput struct {
	Pointer      Vec2
	HasPointer   bool
	PointerDelta Vec2
	Primary      ButtonState
	Scroll       Vec2    // smooth-scroll pan delta
	Zoom         float64 // multiplicative zoom delta; 0 and 1 mean none
	Modifiers    Modifier
	Cancel       bool // abandon the active gesture (focus loss, Esc)
}

func (in FrameInput) zoomFactor() float64 {
	if in.Zoom <= 0 {
		return 1
	}
	return in.Zoom
}

func (in FrameInput) hasZoomSignal() bool {
	return in.zoomFactor() != 1 || !in.Scroll.IsZero()
}

// TargetKind classifies what lies under the pointer.
type TargetKind int

const (
	TargetEmpty TargetKind = iota
	TargetNode
	TargetAnchor
)

type Target struct {
	Kind TargetKind
	Node NodeID
}

// HitTester resolves the screen point under the pointer.
type HitTester func(p Vec2) Target

// Transition is the outcome of one frame of gesture resolution. Ended names a
// gesture that finished this frame; Active names the gesture that owns the
// frame afterwards, with Began set on its first frame. At most one of them is
// a live gesture at the end of the frame.
type Transition struct {
	Ended     BusyReason
	Cancelled bool
	Active    BusyReason
	Began     bool
	Target    Target
}

// InputStateManager turns raw per-frame input into at most one active gesture.
// It is polled exactly once per tick.
type InputStateManager struct {
	reason      BusyReason
	target      Target
	panModifier Modifier
}

func NewInputStateManager(panModifier Modifier) *InputStateManager {
	if panModifier == 0 {
		panModifier = ModAlt
	}
	return &InputStateManager{panModifier: panModifier}
}

func (m *InputStateManager) State() BusyReason { return m.reason }
func (m *InputStateManager) Busy() bool        { return m.reason != BusyNone }

// Cancel abandons the active gesture and returns to idle.
func (m *InputStateManager) Cancel() BusyReason {
	r := m.reason
	m.reason = BusyNone
	m.target = Target{}
	return r
}

// Resolve advances the state machine by one frame. While busy, only the active
// gesture may continue or end; starts are evaluated from idle in priority
// order pan, zoom, then press targets.
func (m *InputStateManager) Resolve(in FrameInput, hit HitTester) Transition {
	if in.Cancel {
		return Transition{Ended: m.Cancel(), Cancelled: true}
	}

	var tr Transition
	switch m.reason {
	case BusyPan:
		if in.Modifiers.Has(m.panModifier) && in.Primary.Down && !in.Primary.Released {
			return m.continued()
		}
		return m.end()
	case BusyZoom:
		if in.hasZoomSignal() && in.HasPointer {
			return m.continued()
		}
		// zoom ends passively, so this frame may still start something
		tr.Ended = m.reason
		m.reason = BusyNone
		m.target = Target{}
	case BusyDragSelect, BusyLinkEdge, BusyMoveNode:
		if in.Primary.Released || !in.Primary.Down {
			return m.end()
		}
		return m.continued()
	}

	switch {
	case in.Modifiers.Has(m.panModifier) && in.Primary.Down && !in.Primary.Released:
		m.begin(&tr, BusyPan, Target{})
	case in.hasZoomSignal():
		if !in.HasPointer {
			break
		}
		m.begin(&tr, BusyZoom, Target{})
	case in.Primary.Pressed && in.HasPointer && !in.Primary.Released:
		t := Target{}
		if hit != nil {
			t = hit(in.Pointer)
		}
		switch t.Kind {
		case TargetEmpty:
			m.begin(&tr, BusyDragSelect, t)
		case TargetAnchor:
			m.begin(&tr, BusyLinkEdge, t)
		case TargetNode:
			m.begin(&tr, BusyMoveNode, t)
		}
	}
	return tr
}

func (m *InputStateManager) begin(tr *Transition, r BusyReason, t Target) {
	m.reason = r
	m.target = t
	tr.Active = r
	tr.Began = true
	tr.Target = t
}

func (m *InputStateManager) continued() Transition {
	return Transition{Active: m.reason, Target: m.target}
}

func (m *InputStateManager) end() Transition {
	tr := Transition{Ended: m.reason, Target: m.target}
	m.reason = BusyNone
	m.target = Target{}
	return tr
}
