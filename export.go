package main

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	exportPadding  = 2
	exportCellW    = 8.0
	exportCellH    = 16.0
	exportFontSize = 12.0
	exportArrow    = 6.0
)

// exportFrame is the canvas region an export covers, padded around every
// node and edge.
func exportFrame(snap Snapshot) (Rect, error) {
	r, ok := snap.Bounds()
	if !ok {
		return Rect{}, ErrNothingToExport
	}
	for _, e := range snap.Edges {
		for _, p := range e.Path.Flatten(bezierSegments) {
			r = r.Union(Rect{Min: p, Max: p})
		}
	}
	return r.Expand(exportPadding), nil
}

// ExportPNG draws the diagram at one cell per 8x16 pixels, ignoring the view
// transform.
func ExportPNG(snap Snapshot, filename string) error {
	frame, err := exportFrame(snap)
	if err != nil {
		return err
	}
	w := int(math.Ceil(frame.Width() * exportCellW))
	h := int(math.Ceil(frame.Height() * exportCellH))

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	face, err := exportFace()
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	px := func(p Vec2) (float64, float64) {
		return (p.X - frame.Min.X) * exportCellW, (p.Y - frame.Min.Y) * exportCellH
	}

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	for _, e := range snap.Edges {
		drawEdgePNG(dc, e.Path, px)
	}
	for _, n := range snap.Nodes {
		drawNodePNG(dc, n, px)
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("export %s: %w", filename, err)
	}
	return nil
}

func exportFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    exportFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawEdgePNG(dc *gg.Context, p Path, px func(Vec2) (float64, float64)) {
	sx, sy := px(p.Start)
	ex, ey := px(p.End)
	dc.MoveTo(sx, sy)
	switch p.Type {
	case EdgeBezier:
		c1x, c1y := px(p.C1)
		c2x, c2y := px(p.C2)
		dc.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
	default:
		dc.LineTo(ex, ey)
	}
	dc.Stroke()

	// the arrow follows the tangent at the end of the curve
	fx, fy := px(p.C2)
	if p.Type != EdgeBezier || (fx == ex && fy == ey) {
		fx, fy = sx, sy
	}
	drawArrowPNG(dc, fx, fy, ex, ey)
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length
	const spread = 0.5
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-exportArrow*dx+exportArrow*dy*spread, ty-exportArrow*dy-exportArrow*dx*spread)
	dc.LineTo(tx-exportArrow*dx-exportArrow*dy*spread, ty-exportArrow*dy+exportArrow*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, n NodeView, px func(Vec2) (float64, float64)) {
	x, y := px(n.Pos)
	w, h := n.Size.X*exportCellW, n.Size.Y*exportCellH

	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	for i, line := range strings.Split(n.Label, "\n") {
		dc.DrawString(line, x+2*exportCellW, y+float64(i+1)*exportCellH+exportCellH*0.75)
	}
}

// ExportText writes the diagram as plain text at scale 1, framed to fit
// every node.
func ExportText(snap Snapshot, w io.Writer) error {
	frame, err := exportFrame(snap)
	if err != nil {
		return err
	}
	snap.View = IdentityTransform()
	snap.View.Translation = frame.Min.Neg()
	snap.TempEdge = nil
	snap.DragSelect = nil
	snap.Nodes = append([]NodeView(nil), snap.Nodes...)
	for i := range snap.Nodes {
		snap.Nodes[i].Selected = false
		snap.Nodes[i].Editing = false
	}
	grid := RenderSnapshot(snap, int(math.Ceil(frame.Width())), int(math.Ceil(frame.Height())), RenderOptions{})
	for _, line := range grid.Lines() {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// ExportTextFile writes ExportText output to filename.
func ExportTextFile(snap Snapshot, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := ExportText(snap, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
