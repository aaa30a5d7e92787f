package main

import tea "github.com/charmbracelet/bubbletea"

// inputAccumulator folds the terminal's event stream into one FrameInput per
// tick. Held state (pointer, button, modifiers) carries across frames;
// per-frame signals (press, release, scroll, zoom) are drained by frame.
type inputAccumulator struct {
	pointer     Vec2
	hasPointer  bool
	lastPointer Vec2
	down        bool
	pressed     bool
	released    bool
	lateRelease bool
	scroll      Vec2
	zoom        float64
	mods        Modifier
	cancel      bool
}

// cellPoint maps a terminal cell to its center in screen space.
func cellPoint(x, y int) Vec2 {
	return Vec2{float64(x) + 0.5, float64(y) + 0.5}
}

func mouseModifiers(msg tea.MouseMsg) Modifier {
	var m Modifier
	if msg.Shift {
		m |= ModShift
	}
	if msg.Ctrl {
		m |= ModCtrl
	}
	if msg.Alt {
		m |= ModAlt
	}
	return m
}

func (a *inputAccumulator) zoomBy(f float64) {
	if a.zoom == 0 {
		a.zoom = 1
	}
	a.zoom *= f
}

// mouse records one terminal mouse event. Ctrl+wheel zooms, a plain wheel
// scrolls vertically and Shift+wheel horizontally.
func (a *inputAccumulator) mouse(msg tea.MouseMsg, zoomStep, panStep float64) {
	a.pointer = cellPoint(msg.X, msg.Y)
	if !a.hasPointer {
		a.lastPointer = a.pointer
	}
	a.hasPointer = true
	a.mods = mouseModifiers(msg)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		sign := 1.0
		if msg.Button == tea.MouseButtonWheelDown {
			sign = -1
		}
		switch {
		case msg.Ctrl:
			if sign > 0 {
				a.zoomBy(zoomStep)
			} else {
				a.zoomBy(1 / zoomStep)
			}
		case msg.Shift:
			a.scroll.X += sign * panStep
		default:
			a.scroll.Y += sign * panStep
		}
		return
	case tea.MouseButtonWheelLeft:
		a.scroll.X += panStep
		return
	case tea.MouseButtonWheelRight:
		a.scroll.X -= panStep
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && !a.down {
			a.down = true
			a.pressed = true
		}
	case tea.MouseActionRelease:
		if !a.down {
			return
		}
		if a.pressed {
			// press and release in one frame: the release lands next frame
			a.lateRelease = true
			return
		}
		a.down = false
		a.released = true
	}
}

// key records a keyboard navigation signal. It reports whether key was a
// navigation key.
func (a *inputAccumulator) key(key string, zoomStep, panStep float64) bool {
	speed := panStep * keyMoveSpeed(key)
	switch key {
	case "left", "h", "H", "shift+left":
		a.scroll.X += speed
	case "right", "l", "L", "shift+right":
		a.scroll.X -= speed
	case "up", "k", "K", "shift+up":
		a.scroll.Y += speed
	case "down", "j", "J", "shift+down":
		a.scroll.Y -= speed
	case "+", "=":
		a.zoomBy(zoomStep)
	case "-", "_":
		a.zoomBy(1 / zoomStep)
	default:
		return false
	}
	return true
}

func keyMoveSpeed(key string) float64 {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// frame drains the accumulated signals. Keyboard zoom without a known pointer
// anchors at center.
func (a *inputAccumulator) frame(center Vec2) FrameInput {
	in := FrameInput{
		Pointer:      a.pointer,
		HasPointer:   a.hasPointer,
		PointerDelta: a.pointer.Sub(a.lastPointer),
		Primary: ButtonState{
			Pressed:  a.pressed,
			Down:     a.down,
			Released: a.released,
		},
		Scroll:    a.scroll,
		Zoom:      a.zoom,
		Modifiers: a.mods,
		Cancel:    a.cancel,
	}
	if !in.HasPointer && in.hasZoomSignal() {
		in.Pointer = center
		in.HasPointer = true
	}

	a.lastPointer = a.pointer
	a.pressed = false
	a.released = false
	a.scroll = Vec2{}
	a.zoom = 0
	a.cancel = false
	if a.lateRelease {
		a.lateRelease = false
		a.down = false
		a.released = true
	}
	return in
}

// abandon drops the held button and flags the next frame as cancelled.
func (a *inputAccumulator) abandon() {
	a.cancel = true
	a.down = false
	a.pressed = false
	a.released = false
	a.lateRelease = false
}
