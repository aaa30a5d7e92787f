package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hitAlways(t Target) HitTester {
	return func(Vec2) Target { return t }
}

func press(p Vec2) FrameInput {
	return FrameInput{Pointer: p, HasPointer: true, Primary: ButtonState{Pressed: true, Down: true}}
}

func hold(p Vec2) FrameInput {
	return FrameInput{Pointer: p, HasPointer: true, Primary: ButtonState{Down: true}}
}

func release(p Vec2) FrameInput {
	return FrameInput{Pointer: p, HasPointer: true, Primary: ButtonState{Released: true}}
}

func TestInputStateManager_PressTargets(t *testing.T) {
	node := NodeID{index: 0, gen: 1}
	tests := map[string]struct {
		target Target
		want   BusyReason
	}{
		"empty canvas": {Target{Kind: TargetEmpty}, BusyDragSelect},
		"anchor":       {Target{Kind: TargetAnchor, Node: node}, BusyLinkEdge},
		"node body":    {Target{Kind: TargetNode, Node: node}, BusyMoveNode},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewInputStateManager(ModAlt)
			tr := m.Resolve(press(Vec2{1, 1}), hitAlways(tt.target))
			assert.Equal(t, tt.want, tr.Active)
			assert.True(t, tr.Began)
			assert.Equal(t, tt.target, tr.Target)

			tr = m.Resolve(hold(Vec2{2, 2}), hitAlways(Target{}))
			assert.Equal(t, tt.want, tr.Active)
			assert.False(t, tr.Began)
			assert.Equal(t, tt.target, tr.Target, "target is fixed at the start")

			tr = m.Resolve(release(Vec2{3, 3}), nil)
			assert.Equal(t, tt.want, tr.Ended)
			assert.False(t, tr.Cancelled)
			assert.Equal(t, BusyNone, m.State())
		})
	}
}

func TestInputStateManager_Priority(t *testing.T) {
	m := NewInputStateManager(ModAlt)
	in := press(Vec2{1, 1})
	in.Modifiers = ModAlt
	in.Zoom = 2
	tr := m.Resolve(in, hitAlways(Target{Kind: TargetNode}))
	assert.Equal(t, BusyPan, tr.Active, "pan outranks zoom and press")

	m = NewInputStateManager(ModAlt)
	in.Modifiers = 0
	tr = m.Resolve(in, hitAlways(Target{Kind: TargetNode}))
	assert.Equal(t, BusyZoom, tr.Active, "zoom outranks press")
}

func TestInputStateManager_MutualExclusion(t *testing.T) {
	m := NewInputStateManager(ModAlt)
	frames := []FrameInput{
		press(Vec2{1, 1}),
		{Pointer: Vec2{2, 2}, HasPointer: true, Primary: ButtonState{Down: true}, Zoom: 1.5},
		{Pointer: Vec2{2, 2}, HasPointer: true, Primary: ButtonState{Down: true}, Modifiers: ModAlt},
		release(Vec2{3, 3}),
		{Pointer: Vec2{3, 3}, HasPointer: true, Zoom: 1.2},
		{Pointer: Vec2{3, 3}, HasPointer: true, Primary: ButtonState{Pressed: true, Down: true}, Scroll: Vec2{0, 4}},
		{Pointer: Vec2{3, 3}, HasPointer: true},
		{Pointer: Vec2{3, 3}, HasPointer: true, Primary: ButtonState{Pressed: true, Down: true}, Modifiers: ModAlt},
		{Cancel: true},
	}
	want := []BusyReason{
		BusyDragSelect,
		BusyDragSelect, // zoom cannot start while selecting
		BusyDragSelect, // nor pan
		BusyNone,
		BusyZoom,
		BusyZoom, // scroll keeps the zoom gesture alive, the press is ignored
		BusyNone,
		BusyPan,
		BusyNone,
	}
	for i, in := range frames {
		tr := m.Resolve(in, hitAlways(Target{Kind: TargetEmpty}))
		assert.Equal(t, want[i], m.State(), "frame %d", i)
		assert.Equal(t, want[i], tr.Active, "frame %d", i)
	}
}

func TestInputStateManager_ZoomEndsPassively(t *testing.T) {
	m := NewInputStateManager(ModAlt)
	m.Resolve(FrameInput{Pointer: Vec2{1, 1}, HasPointer: true, Zoom: 2}, nil)
	assert.Equal(t, BusyZoom, m.State())

	// the frame after the last zoom signal may start a press gesture
	tr := m.Resolve(press(Vec2{1, 1}), hitAlways(Target{Kind: TargetEmpty}))
	assert.Equal(t, BusyZoom, tr.Ended)
	assert.Equal(t, BusyDragSelect, tr.Active)
	assert.True(t, tr.Began)
}

func TestInputStateManager_ZoomWithoutPointerIsNoop(t *testing.T) {
	m := NewInputStateManager(ModAlt)
	tr := m.Resolve(FrameInput{Zoom: 2}, nil)
	assert.Equal(t, Transition{}, tr)
	assert.Equal(t, BusyNone, m.State())
}

func TestInputStateManager_PanEndsWhenModifierReleased(t *testing.T) {
	m := NewInputStateManager(ModCtrl)
	in := hold(Vec2{1, 1})
	in.Primary.Pressed = true
	in.Modifiers = ModCtrl
	assert.Equal(t, BusyPan, m.Resolve(in, nil).Active)

	in.Primary.Pressed = false
	assert.Equal(t, BusyPan, m.Resolve(in, nil).Active)

	in.Modifiers = 0
	tr := m.Resolve(in, nil)
	assert.Equal(t, BusyPan, tr.Ended)
	assert.Equal(t, BusyNone, tr.Active, "a held button without a press does not start a drag")
}

func TestInputStateManager_Cancel(t *testing.T) {
	m := NewInputStateManager(0)
	m.Resolve(press(Vec2{1, 1}), hitAlways(Target{Kind: TargetAnchor}))
	assert.True(t, m.Busy())

	tr := m.Resolve(FrameInput{Cancel: true}, nil)
	assert.Equal(t, BusyLinkEdge, tr.Ended)
	assert.True(t, tr.Cancelled)
	assert.False(t, m.Busy())

	tr = m.Resolve(FrameInput{Cancel: true}, nil)
	assert.Equal(t, BusyNone, tr.Ended)
}

func TestInputStateManager_PressWithoutPointer(t *testing.T) {
	m := NewInputStateManager(ModAlt)
	tr := m.Resolve(FrameInput{Primary: ButtonState{Pressed: true, Down: true}}, hitAlways(Target{Kind: TargetNode}))
	assert.Equal(t, BusyNone, tr.Active)
}
