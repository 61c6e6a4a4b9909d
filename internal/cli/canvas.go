package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/graph"
)

// Screen units per terminal cell. Cells are roughly twice as tall as wide.
const (
	cellWidth  = 10
	cellHeight = 20
)

// ink selects the style of a canvas cell.
type ink uint8

const (
	inkNone ink = iota
	inkEdge
	inkNode
	inkSelected
	inkLasso
	inkWindow
)

var inkStyles = map[ink]lipgloss.Style{
	inkEdge:     styleEdge,
	inkNode:     styleNode,
	inkSelected: styleNodeSelected,
	inkLasso:    styleLasso,
	inkWindow:   styleWindow,
}

// canvas is a grid of styled terminal cells.
type canvas struct {
	w, h  int
	cells [][]rune
	inks  [][]ink
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 1), max(h, 1)
	c := &canvas{w: w, h: h, cells: make([][]rune, h), inks: make([][]ink, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
		c.inks[y] = make([]ink, w)
	}
	return c
}

// cellAt converts a screen point to a cell.
func cellAt(p geom.Point) (int, int) {
	return int(p.X / cellWidth), int(p.Y / cellHeight)
}

// pointAt converts a cell to the screen point at its center.
func pointAt(col, row int) geom.Point {
	return geom.Pt((float32(col)+0.5)*cellWidth, (float32(row)+0.5)*cellHeight)
}

func (c *canvas) set(x, y int, r rune, k ink) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
	c.inks[y][x] = k
}

// line draws a straight segment with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, k ink) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for {
		c.set(x0, y0, r, k)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// box draws a bordered rectangle with label centered on its middle row.
func (c *canvas) box(x, y, w, h int, label string, k ink) {
	w, h = max(w, 3), max(h, 3)
	for i := x; i < x+w; i++ {
		for j := y; j < y+h; j++ {
			c.set(i, j, ' ', k)
		}
	}
	for i := x + 1; i < x+w-1; i++ {
		c.set(i, y, '─', k)
		c.set(i, y+h-1, '─', k)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.set(x, j, '│', k)
		c.set(x+w-1, j, '│', k)
	}
	c.set(x, y, '╭', k)
	c.set(x+w-1, y, '╮', k)
	c.set(x, y+h-1, '╰', k)
	c.set(x+w-1, y+h-1, '╯', k)

	runes := []rune(label)
	if inner := w - 2; len(runes) > inner {
		if inner <= 1 {
			runes = runes[:inner]
		} else {
			runes = append(runes[:inner-1], '…')
		}
	}
	start := x + 1 + (w-2-len(runes))/2
	for i, r := range runes {
		c.set(start+i, y+h/2, r, k)
	}
}

// drawGraph draws connections, then nodes, through the screen index.
func (c *canvas) drawGraph(ix area.PositionIndex, nodes []*graph.Node, conns []*graph.Connection) {
	centers := make(map[string][2]int, len(nodes))
	for _, n := range nodes {
		v, ok := ix.Lookup(n.ID)
		if !ok {
			continue
		}
		centers[n.ID] = cellCenter(v)
	}
	for _, conn := range conns {
		from, ok1 := centers[conn.Source]
		to, ok2 := centers[conn.Target]
		if ok1 && ok2 {
			c.line(from[0], from[1], to[0], to[1], '·', inkEdge)
		}
	}
	for _, n := range nodes {
		v, ok := ix.Lookup(n.ID)
		if !ok {
			continue
		}
		x, y := cellAt(v.Position)
		w := int(v.Width/cellWidth + 0.5)
		h := int(v.Height/cellHeight + 0.5)
		k := inkNode
		if v.Selected {
			k = inkSelected
		}
		c.box(x, y, w, h, n.DisplayLabel(), k)
	}
}

func cellCenter(v area.NodeView) [2]int {
	x, y := cellAt(v.Box().Center())
	return [2]int{x, y}
}

// drawShape draws an overlay shape outline.
func (c *canvas) drawShape(s area.Shape) {
	switch r := s.Region.(type) {
	case geom.Polygon:
		c.polyline(r, true, '•', inkLasso)
	case geom.Rect:
		k := inkWindow
		x0, y0 := cellAt(r.Min)
		x1, y1 := cellAt(r.Max)
		for x := x0; x <= x1; x++ {
			if !s.Style.Dashed || (x-x0)%2 == 0 {
				c.set(x, y0, '-', k)
				c.set(x, y1, '-', k)
			}
		}
		for y := y0 + 1; y < y1; y++ {
			c.set(x0, y, '¦', k)
			c.set(x1, y, '¦', k)
		}
	}
}

func (c *canvas) polyline(pts []geom.Point, closed bool, r rune, k ink) {
	if len(pts) == 1 {
		x, y := cellAt(pts[0])
		c.set(x, y, r, k)
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := cellAt(pts[i-1])
		x1, y1 := cellAt(pts[i])
		c.line(x0, y0, x1, y1, r, k)
	}
	if closed && len(pts) > 2 {
		x0, y0 := cellAt(pts[len(pts)-1])
		x1, y1 := cellAt(pts[0])
		c.line(x0, y0, x1, y1, r, k)
	}
}

// String renders the canvas, styling each run of cells with the same ink.
func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, inks := c.cells[y], c.inks[y]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && inks[x] == inks[start] {
				continue
			}
			run := string(row[start:x])
			if style, ok := inkStyles[inks[start]]; ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
