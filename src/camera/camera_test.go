package camera

import (
	"image"
	"testing"

	"lifepaint/src/universe"
)

type grid struct{ w, h int }

func (g *grid) Size() (int, int) { return g.w, g.h }

func newTestCamera(w int, h int) *Camera {
	return New(&grid{w, h}, Options{ViewportWidth: 800, ViewportHeight: 600})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestScreenToCell(t *testing.T) {
	c := newTestCamera(100, 100)
	ox, oy := c.Offset()
	tests := []struct {
		px, py   int
		col, row int
	}{
		{ox, oy, 0, 0},
		{ox + 19, oy + 19, 0, 0},
		{ox + 20, oy + 41, 1, 2},
		{ox - 1, oy - 1, -1, -1},
		{ox - 20, oy - 21, -1, -2},
	}
	for _, tt := range tests {
		col, row := c.ScreenToCell(tt.px, tt.py)
		if col != tt.col || row != tt.row {
			t.Fatalf("ScreenToCell(%d, %d) = %d, %d, want %d, %d", tt.px, tt.py, col, row, tt.col, tt.row)
		}
	}
	if got := c.CellRect(1, 2); got != image.Rect(ox+20, oy+40, ox+40, oy+60) {
		t.Fatalf("CellRect(1, 2) = %v", got)
	}
}

func TestZoomKeepsAnchor(t *testing.T) {
	c := newTestCamera(100, 100)
	ax, ay := 413, 287
	col, row := c.ScreenToCell(ax, ay)
	x0, y0 := c.Offset()

	c.Zoom(DefZoomStep, ax, ay, 800, 600)
	if c.CellSize() != 24 {
		t.Fatalf("cell size %d, want 24", c.CellSize())
	}
	if gc, gr := c.ScreenToCell(ax, ay); gc != col || gr != row {
		t.Fatalf("anchor cell moved from %d,%d to %d,%d", col, row, gc, gr)
	}

	c.Zoom(-DefZoomStep, ax, ay, 800, 600)
	if c.ZoomFactor() != 1 || c.CellSize() != 20 {
		t.Fatalf("zoom %v cell %d after the round trip", c.ZoomFactor(), c.CellSize())
	}
	x1, y1 := c.Offset()
	if abs(x1-x0) > 1 || abs(y1-y0) > 1 {
		t.Fatalf("offset %d,%d after the round trip, want %d,%d", x1, y1, x0, y0)
	}
}

func TestZoomClamped(t *testing.T) {
	c := newTestCamera(100, 100)
	for i := 0; i < 30; i++ {
		c.Zoom(DefZoomStep, 400, 300, 800, 600)
	}
	if c.ZoomFactor() != MaxZoom || c.CellSize() != 60 {
		t.Fatalf("zoom %v cell %d, want %v", c.ZoomFactor(), c.CellSize(), MaxZoom)
	}
	for i := 0; i < 30; i++ {
		c.Zoom(-DefZoomStep, 400, 300, 800, 600)
	}
	if c.ZoomFactor() != MinZoom || c.CellSize() != 10 {
		t.Fatalf("zoom %v cell %d, want %v", c.ZoomFactor(), c.CellSize(), MinZoom)
	}
}

func TestDragIsIncremental(t *testing.T) {
	c := newTestCamera(100, 100)
	x0, y0 := c.Offset()
	c.UpdateDrag(500, 500, 800, 600)
	if x, y := c.Offset(); x != x0 || y != y0 {
		t.Fatal("drag without StartDrag moved the camera")
	}
	c.StartDrag(100, 100)
	c.UpdateDrag(110, 95, 800, 600)
	c.UpdateDrag(130, 95, 800, 600)
	if x, y := c.Offset(); x != x0+30 || y != y0-5 {
		t.Fatalf("offset %d,%d, want %d,%d", x, y, x0+30, y0-5)
	}
	c.StopDrag()
	if c.IsDragging() {
		t.Fatal("still dragging")
	}
}

func TestLargeGridEdgeClamped(t *testing.T) {
	c := newTestCamera(100, 100) //2000 x 2000 px
	c.Pan(10000, 10000)
	if x, y := c.Offset(); x != 0 || y != 0 {
		t.Fatalf("offset %d,%d, want 0,0", x, y)
	}
	c.Pan(-10000, -10000)
	if x, y := c.Offset(); x != 800-2000 || y != 600-2000 {
		t.Fatalf("offset %d,%d, want %d,%d", x, y, 800-2000, 600-2000)
	}
}

func TestSmallGridCentered(t *testing.T) {
	g := &grid{10, 10} //200 x 200 px
	c := New(g, Options{ViewportWidth: 800, ViewportHeight: 600, PanelWidth: 200})
	if x, y := c.Offset(); x != 200 || y != 200 {
		t.Fatalf("offset %d,%d, want 200,200", x, y)
	}
	c.StartDrag(0, 0)
	c.UpdateDrag(50, 50, 800, 600)
	if x, y := c.Offset(); x != 200 || y != 200 {
		t.Fatalf("small grid panned to %d,%d", x, y)
	}
}

func TestRecenterExcludesPanel(t *testing.T) {
	g := &grid{100, 100}
	c := New(g, Options{ViewportWidth: 800, ViewportHeight: 600, PanelWidth: 100})
	c.Pan(300, 300)
	c.Recenter(100, 100, 800, 600)
	if x, y := c.Offset(); x != (700-2000)/2 || y != (600-2000)/2 {
		t.Fatalf("offset %d,%d", x, y)
	}
	if c.InViewport(750, 10) {
		t.Fatal("the panel is a part of the simulation view")
	}
	if !c.InViewport(699, 599) || c.InViewport(-1, 0) {
		t.Fatal("InViewport bounds")
	}
}

func TestViewportResizeDoesNotRecenter(t *testing.T) {
	c := newTestCamera(100, 100)
	c.Pan(-50, -50)
	x0, y0 := c.Offset()
	c.OnViewportResize(1024, 768)
	if x, y := c.Offset(); x != x0 || y != y0 {
		t.Fatalf("offset changed to %d,%d", x, y)
	}
	if w, h := c.Viewport(); w != 1024 || h != 768 {
		t.Fatalf("viewport %d x %d", w, h)
	}
}

func TestVisibleClipped(t *testing.T) {
	g := &grid{100, 100}
	c := New(g, Options{ViewportWidth: 100, ViewportHeight: 60})
	c.Pan(10000, 10000) //grid origin at the viewport origin
	a := universe.NewArea(100, 100)
	a.Entities[1][2] = universe.Alive

	seen, alive := 0, 0
	c.Visible(a, func(col int, row int, cell universe.Cell, rect image.Rectangle) {
		seen++
		if col < 0 || row < 0 || col >= 5 || row >= 3 {
			t.Fatalf("cell %d,%d outside the view", col, row)
		}
		if rect != c.CellRect(col, row) {
			t.Fatalf("rect %v for %d,%d", rect, col, row)
		}
		if cell {
			alive++
		}
	})
	if seen != 15 || alive != 1 {
		t.Fatalf("seen %d alive %d, want 15 and 1", seen, alive)
	}
	if c0, r0, c1, r1 := c.VisibleBounds(); c0 != 0 || r0 != 0 || c1 != 5 || r1 != 3 {
		t.Fatalf("VisibleBounds = %d,%d,%d,%d", c0, r0, c1, r1)
	}
}

func TestVisiblePartialCells(t *testing.T) {
	g := &grid{100, 100}
	c := New(g, Options{ViewportWidth: 100, ViewportHeight: 60})
	c.Pan(10000, 10000)
	c.Pan(-10, -10) //half cells at the top-left edge
	if c0, r0, c1, r1 := c.VisibleBounds(); c0 != 0 || r0 != 0 || c1 != 6 || r1 != 4 {
		t.Fatalf("VisibleBounds = %d,%d,%d,%d", c0, r0, c1, r1)
	}
}
