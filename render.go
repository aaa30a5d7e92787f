package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleNode
	styleSelected
	styleEditing
	styleEdge
	styleTempEdge
	styleSelectRect
	styleAnchor
)

const bezierSegments = 24

// Grid is a screen-space character buffer with a style per cell.
type Grid struct {
	W, H   int
	cells  [][]rune
	styles [][]cellStyle
}

func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{W: w, H: h, cells: make([][]rune, h), styles: make([][]cellStyle, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
		g.styles[y] = make([]cellStyle, w)
	}
	return g
}

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

func (g *Grid) set(x, y int, r rune, s cellStyle) {
	if g.inside(x, y) {
		g.cells[y][x] = r
		g.styles[y][x] = s
	}
}

func (g *Grid) At(x, y int) rune {
	if !g.inside(x, y) {
		return 0
	}
	return g.cells[y][x]
}

// Lines returns the grid as plain text rows.
func (g *Grid) Lines() []string {
	out := make([]string, g.H)
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}

// Styles maps cell roles to terminal styles.
type Styles struct {
	Node       lipgloss.Style
	Selected   lipgloss.Style
	Editing    lipgloss.Style
	Edge       lipgloss.Style
	TempEdge   lipgloss.Style
	SelectRect lipgloss.Style
	Anchor     lipgloss.Style
	Status     lipgloss.Style
	StatusKey  lipgloss.Style
	Error      lipgloss.Style
}

func DefaultStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Node: plain, Selected: plain.Bold(true), Editing: plain.Bold(true).Underline(true),
			Edge: plain, TempEdge: plain, SelectRect: plain, Anchor: plain,
			Status: plain.Reverse(true), StatusKey: plain.Reverse(true).Bold(true), Error: plain.Bold(true),
		}
	}
	return Styles{
		Node:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Editing:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Edge:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		TempEdge:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		SelectRect: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Anchor:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		StatusKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Background(lipgloss.Color("214")).Bold(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}

func (s Styles) of(c cellStyle) (lipgloss.Style, bool) {
	switch c {
	case styleNode:
		return s.Node, true
	case styleSelected:
		return s.Selected, true
	case styleEditing:
		return s.Editing, true
	case styleEdge:
		return s.Edge, true
	case styleTempEdge:
		return s.TempEdge, true
	case styleSelectRect:
		return s.SelectRect, true
	case styleAnchor:
		return s.Anchor, true
	}
	return lipgloss.Style{}, false
}

// Styled returns the grid rows with runs of equal style rendered through
// lipgloss.
func (g *Grid) Styled(s Styles) []string {
	out := make([]string, g.H)
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.styles[y][x] == g.styles[y][start] {
				continue
			}
			run := string(row[start:x])
			if st, ok := s.of(g.styles[y][start]); ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// RenderOptions controls what the terminal renderer draws beyond the scene.
type RenderOptions struct {
	ShowAnchors bool
	Cursor      *Vec2 // editing caret, screen space
}

// RenderSnapshot draws a snapshot into a w by h grid: edges first, then nodes
// in paint order, then the link preview and selection rectangle on top.
func RenderSnapshot(snap Snapshot, w, h int, opts RenderOptions) *Grid {
	g := NewGrid(w, h)
	view := snap.View

	var heads []arrowHead
	for _, e := range snap.Edges {
		heads = append(heads, drawPath(g, e.Path.Transform(view), styleEdge))
	}
	for _, n := range snap.Nodes {
		drawNode(g, n, view)
	}
	for _, a := range heads {
		g.set(a.x, a.y, a.r, styleEdge)
	}
	if opts.ShowAnchors {
		for _, n := range snap.Nodes {
			if n.Selected {
				drawAnchors(g, view.RectToScreen(n.Bounds()))
			}
		}
	}
	if t := snap.TempEdge; t != nil {
		a := drawPath(g, t.Path.Transform(view), styleTempEdge)
		g.set(a.x, a.y, a.r, styleTempEdge)
	}
	if r := snap.DragSelect; r != nil {
		drawSelectRect(g, *r)
	}
	if c := opts.Cursor; c != nil {
		x, y := cell(*c)
		if g.inside(x, y) {
			g.set(x, y, '▏', styleEditing)
		}
	}
	return g
}

func cell(p Vec2) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func drawNode(g *Grid, n NodeView, view Transform) {
	r := view.RectToScreen(n.Bounds())
	x0, y0 := cell(r.Min)
	x1, y1 := int(math.Ceil(r.Max.X))-1, int(math.Ceil(r.Max.Y))-1
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	style := styleNode
	h, v, tl, tr, bl, br := '─', '│', '┌', '┐', '└', '┘'
	switch {
	case n.Editing:
		style = styleEditing
		h, v, tl, tr, bl, br = '═', '║', '╔', '╗', '╚', '╝'
	case n.Selected:
		style = styleSelected
		h, v, tl, tr, bl, br = '━', '┃', '┏', '┓', '┗', '┛'
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case y == y0 && x == x0:
				g.set(x, y, tl, style)
			case y == y0 && x == x1:
				g.set(x, y, tr, style)
			case y == y1 && x == x0:
				g.set(x, y, bl, style)
			case y == y1 && x == x1:
				g.set(x, y, br, style)
			case y == y0 || y == y1:
				g.set(x, y, h, style)
			case x == x0 || x == x1:
				g.set(x, y, v, style)
			default:
				g.set(x, y, ' ', style)
			}
		}
	}

	maxWidth := x1 - x0 - 3
	for i, line := range strings.Split(n.Label, "\n") {
		y := y0 + 1 + i
		if y >= y1 || maxWidth <= 0 {
			break
		}
		runes := []rune(line)
		if len(runes) > maxWidth {
			runes = append(runes[:maxWidth-1], '…')
		}
		for j, ch := range runes {
			g.set(x0+2+j, y, ch, style)
		}
	}
}

func drawAnchors(g *Grid, r Rect) {
	for _, s := range []Side{SideRight, SideLeft, SideBottom, SideTop} {
		x, y := cell(anchorPoint(r, s))
		if s == SideRight {
			x--
		}
		if s == SideBottom {
			y--
		}
		g.set(x, y, '◆', styleAnchor)
	}
}

func drawSelectRect(g *Grid, r Rect) {
	x0, y0 := cell(r.Min)
	x1, y1 := cell(r.Max)
	for x := x0; x <= x1; x++ {
		g.set(x, y0, '┈', styleSelectRect)
		g.set(x, y1, '┈', styleSelectRect)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, '┊', styleSelectRect)
		g.set(x1, y, '┊', styleSelectRect)
	}
}

type arrowHead struct {
	x, y int
	r    rune
}

// drawPath rasterizes a screen-space path as connected cell segments and
// returns the arrow head cell, which sits just outside the target box.
func drawPath(g *Grid, p Path, style cellStyle) arrowHead {
	pts := p.Flatten(bezierSegments)
	for i := 0; i+1 < len(pts); i++ {
		drawSegment(g, pts[i], pts[i+1], style)
	}
	end, prev := pts[len(pts)-1], pts[len(pts)-2]
	r := arrowRune(prev, end)
	switch r {
	case '▶':
		end.X--
	case '▼':
		end.Y--
	}
	x, y := cell(end)
	return arrowHead{x: x, y: y, r: r}
}

func drawSegment(g *Grid, a, b Vec2, style cellStyle) {
	x0, y0 := cell(a)
	x1, y1 := cell(b)
	ch := segmentRune(a, b)
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func segmentRune(a, b Vec2) rune {
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case math.Abs(dy) <= math.Abs(dx)/2:
		return '─'
	case math.Abs(dx) <= math.Abs(dy)/2:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(from, to Vec2) rune {
	d := to.Sub(from)
	if isHorizontal(from, to) {
		if d.X >= 0 {
			return '▶'
		}
		return '◀'
	}
	if d.Y >= 0 {
		return '▼'
	}
	return '▲'
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
