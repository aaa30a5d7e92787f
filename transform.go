package main

import "math"

const (
	defaultMinZoom = 0.1
	defaultMaxZoom = 10.0
)

// Transform maps canvas space to screen space: screen = canvas*Scale + Translation.
type Transform struct {
	Scale       float64
	Translation Vec2

	minScale, maxScale float64
}

func IdentityTransform() Transform {
	return Transform{Scale: 1, minScale: defaultMinZoom, maxScale: defaultMaxZoom}
}

// WithBounds returns t with a new scale range; the current scale is clamped
// into it.
func (t Transform) WithBounds(min, max float64) Transform {
	if min <= 0 || max < min {
		min, max = defaultMinZoom, defaultMaxZoom
	}
	t.minScale, t.maxScale = min, max
	t.Scale = t.clamp(t.Scale)
	return t
}

func (t Transform) Bounds() (min, max float64) {
	if t.minScale <= 0 || t.maxScale < t.minScale {
		return defaultMinZoom, defaultMaxZoom
	}
	return t.minScale, t.maxScale
}

func (t Transform) clamp(s float64) float64 {
	min, max := t.Bounds()
	if math.IsNaN(s) || s <= 0 {
		return min
	}
	return math.Max(min, math.Min(max, s))
}

// ToScreen maps a canvas point to screen space.
func (t Transform) ToScreen(p Vec2) Vec2 {
	return p.Scale(t.Scale).Add(t.Translation)
}

// ToCanvas maps a screen point to canvas space.
func (t Transform) ToCanvas(p Vec2) Vec2 {
	return p.Sub(t.Translation).Scale(1 / t.Scale)
}

func (t Transform) RectToScreen(r Rect) Rect {
	return RectFromPoints(t.ToScreen(r.Min), t.ToScreen(r.Max))
}

func (t Transform) RectToCanvas(r Rect) Rect {
	return RectFromPoints(t.ToCanvas(r.Min), t.ToCanvas(r.Max))
}

// TranslateBy pans by a screen-space delta.
func (t *Transform) TranslateBy(delta Vec2) {
	t.Translation = t.Translation.Add(delta)
}

// ZoomAt scales by factor about the screen point pointer, then pans by
// panDelta. The canvas point under pointer stays under pointer; factor 1 with
// no pan leaves t untouched. When the clamp engages the applied factor shrinks
// to the clamped scale so the anchor still holds.
func (t *Transform) ZoomAt(pointer Vec2, factor float64, panDelta Vec2) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		factor = 1
	}
	if factor != 1 {
		anchor := t.ToCanvas(pointer)
		scale := t.clamp(t.Scale * factor)
		t.Scale = scale
		t.Translation = pointer.Sub(anchor.Scale(scale))
	}
	if !panDelta.IsZero() {
		t.TranslateBy(panDelta)
	}
}

// Reset returns to scale 1 with no translation, keeping the bounds.
func (t *Transform) Reset() {
	t.Scale = t.clamp(1)
	t.Translation = Vec2{}
}

// Fit centers the canvas rectangle r inside a screen viewport of the given
// size with padding cells on each side.
func (t *Transform) Fit(r Rect, viewport Vec2, padding float64) {
	w, h := r.Width()+2*padding, r.Height()+2*padding
	if w <= 0 || h <= 0 || viewport.X <= 0 || viewport.Y <= 0 {
		t.Reset()
		return
	}
	t.Scale = t.clamp(math.Min(viewport.X/w, viewport.Y/h))
	c := r.Center()
	t.Translation = viewport.Scale(0.5).Sub(c.Scale(t.Scale))
}
