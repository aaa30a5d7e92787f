package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

const (
	testZoomStep = 1.25
	testPanStep  = 2
)

func mouseAt(x, y int, button tea.MouseButton, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: action}
}

func TestInputAccumulator_Wheel(t *testing.T) {
	var a inputAccumulator

	a.mouse(mouseAt(3, 4, tea.MouseButtonWheelUp, tea.MouseActionPress), testZoomStep, testPanStep)
	in := a.frame(Vec2{})
	assert.Equal(t, Vec2{0, testPanStep}, in.Scroll)
	assert.Equal(t, Vec2{3.5, 4.5}, in.Pointer)

	shift := mouseAt(3, 4, tea.MouseButtonWheelDown, tea.MouseActionPress)
	shift.Shift = true
	a.mouse(shift, testZoomStep, testPanStep)
	in = a.frame(Vec2{})
	assert.Equal(t, Vec2{-testPanStep, 0}, in.Scroll)
	assert.Equal(t, ModShift, in.Modifiers)

	ctrl := mouseAt(3, 4, tea.MouseButtonWheelUp, tea.MouseActionPress)
	ctrl.Ctrl = true
	a.mouse(ctrl, testZoomStep, testPanStep)
	a.mouse(ctrl, testZoomStep, testPanStep)
	in = a.frame(Vec2{})
	assert.InDelta(t, testZoomStep*testZoomStep, in.Zoom, eps)
	assert.True(t, in.Scroll.IsZero())

	in = a.frame(Vec2{})
	assert.Zero(t, in.Zoom, "per-frame signals are drained")
	assert.True(t, in.HasPointer, "pointer position is held")
}

func TestInputAccumulator_PressHoldRelease(t *testing.T) {
	var a inputAccumulator

	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionPress), testZoomStep, testPanStep)
	in := a.frame(Vec2{})
	assert.True(t, in.Primary.Pressed)
	assert.True(t, in.Primary.Down)

	a.mouse(mouseAt(4, 2, tea.MouseButtonLeft, tea.MouseActionMotion), testZoomStep, testPanStep)
	in = a.frame(Vec2{})
	assert.False(t, in.Primary.Pressed)
	assert.True(t, in.Primary.Down)
	assert.Equal(t, Vec2{3, 1}, in.PointerDelta)

	a.mouse(mouseAt(4, 2, tea.MouseButtonLeft, tea.MouseActionRelease), testZoomStep, testPanStep)
	in = a.frame(Vec2{})
	assert.True(t, in.Primary.Released)
	assert.False(t, in.Primary.Down)
	assert.Equal(t, Vec2{}, in.PointerDelta)
}

func TestInputAccumulator_ClickWithinOneFrame(t *testing.T) {
	var a inputAccumulator
	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionPress), testZoomStep, testPanStep)
	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionRelease), testZoomStep, testPanStep)

	in := a.frame(Vec2{})
	assert.True(t, in.Primary.Pressed)
	assert.True(t, in.Primary.Down)
	assert.False(t, in.Primary.Released)

	in = a.frame(Vec2{})
	assert.False(t, in.Primary.Pressed)
	assert.False(t, in.Primary.Down)
	assert.True(t, in.Primary.Released)

	in = a.frame(Vec2{})
	assert.False(t, in.Primary.Released)
}

func TestInputAccumulator_StrayRelease(t *testing.T) {
	var a inputAccumulator
	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionRelease), testZoomStep, testPanStep)
	in := a.frame(Vec2{})
	assert.False(t, in.Primary.Released)
	assert.False(t, in.Primary.Down)
}

func TestInputAccumulator_Keys(t *testing.T) {
	tests := map[string]struct {
		scroll Vec2
		zoom   float64
	}{
		"left":       {Vec2{testPanStep, 0}, 0},
		"l":          {Vec2{-testPanStep, 0}, 0},
		"K":          {Vec2{0, 2 * testPanStep}, 0},
		"shift+down": {Vec2{0, -2 * testPanStep}, 0},
		"+":          {Vec2{}, testZoomStep},
		"-":          {Vec2{}, 1 / testZoomStep},
	}
	for key, tt := range tests {
		t.Run(key, func(t *testing.T) {
			var a inputAccumulator
			assert.True(t, a.key(key, testZoomStep, testPanStep))
			in := a.frame(Vec2{40, 12})
			assert.Equal(t, tt.scroll, in.Scroll)
			assert.InDelta(t, tt.zoom, in.Zoom, eps)
			assert.True(t, in.HasPointer, "keyboard navigation anchors at the center")
			assert.Equal(t, Vec2{40, 12}, in.Pointer)
		})
	}

	var a inputAccumulator
	assert.False(t, a.key("x", testZoomStep, testPanStep))
}

func TestInputAccumulator_CenterOnlyWithoutPointer(t *testing.T) {
	var a inputAccumulator
	a.mouse(mouseAt(2, 3, tea.MouseButtonNone, tea.MouseActionMotion), testZoomStep, testPanStep)
	a.key("+", testZoomStep, testPanStep)
	in := a.frame(Vec2{40, 12})
	assert.Equal(t, Vec2{2.5, 3.5}, in.Pointer)

	var idle inputAccumulator
	in = idle.frame(Vec2{40, 12})
	assert.False(t, in.HasPointer, "no signal, no synthetic pointer")
}

func TestInputAccumulator_Abandon(t *testing.T) {
	var a inputAccumulator
	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionPress), testZoomStep, testPanStep)
	a.mouse(mouseAt(1, 1, tea.MouseButtonLeft, tea.MouseActionRelease), testZoomStep, testPanStep)
	a.abandon()

	in := a.frame(Vec2{})
	assert.True(t, in.Cancel)
	assert.False(t, in.Primary.Down)
	assert.False(t, in.Primary.Pressed)

	in = a.frame(Vec2{})
	assert.False(t, in.Cancel)
	assert.False(t, in.Primary.Released)
}

func TestInputAccumulator_DrivesWidget(t *testing.T) {
	w, a, _ := newTestWidget(t)
	var acc inputAccumulator

	acc.mouse(mouseAt(2, 1, tea.MouseButtonLeft, tea.MouseActionPress), testZoomStep, testPanStep)
	snap := w.Tick(acc.frame(Vec2{}))
	assert.Equal(t, BusyMoveNode, snap.Gesture)

	acc.mouse(mouseAt(7, 3, tea.MouseButtonLeft, tea.MouseActionMotion), testZoomStep, testPanStep)
	w.Tick(acc.frame(Vec2{}))
	acc.mouse(mouseAt(7, 3, tea.MouseButtonLeft, tea.MouseActionRelease), testZoomStep, testPanStep)
	snap = w.Tick(acc.frame(Vec2{}))

	assert.Equal(t, BusyNone, snap.Gesture)
	n, ok := snap.Node(a)
	assert.True(t, ok)
	assert.Equal(t, Vec2{5, 2}, n.Pos)
}
