package camera

import (
	"image"
	"math"

	"lifepaint/src/universe"
)

//default options
const (
	DefBaseCellSize = 20
	MinZoom         = 0.5
	MaxZoom         = 3.0
	DefZoomStep     = 0.2
)

//Sizer is anything with grid dimensions in cells, the universe is the usual one
type Sizer interface {
	Size() (width int, height int)
}

//Options represents the Camera's configurable options
type Options struct {
	BaseCellSize   int //cell size in pixels at zoom 1.0
	ViewportWidth  int
	ViewportHeight int
	PanelWidth     int //reserved at the right edge of the viewport, not a part of the simulation view
}

//Camera maps the screen pixels to the grid cells and owns zoom and pan state
//it lives on the UI goroutine and is not safe for concurrent use
type Camera struct {
	grid         Sizer
	baseCellSize int
	panelWidth   int
	zoom         float64
	cellSize     int
	offsetX      int
	offsetY      int
	viewportW    int
	viewportH    int
	dragging     bool
	anchorX      int
	anchorY      int
}

//New creates the camera for the grid and centers the grid in the viewport
func New(grid Sizer, o Options) *Camera {
	c := &Camera{
		grid:         grid,
		baseCellSize: o.BaseCellSize,
		panelWidth:   max(o.PanelWidth, 0),
		zoom:         1,
		viewportW:    max(o.ViewportWidth, 0),
		viewportH:    max(o.ViewportHeight, 0),
	}
	if c.baseCellSize <= 0 {
		c.baseCellSize = DefBaseCellSize
	}
	c.cellSize = c.baseCellSize
	w, h := grid.Size()
	c.Recenter(w, h, c.viewportW, c.viewportH)
	return c
}

func (c *Camera) CellSize() int {
	return c.cellSize
}

func (c *Camera) ZoomFactor() float64 {
	return c.zoom
}

func (c *Camera) Offset() (x int, y int) {
	return c.offsetX, c.offsetY
}

func (c *Camera) Viewport() (width int, height int) {
	return c.viewportW, c.viewportH
}

func (c *Camera) PanelWidth() int {
	return c.panelWidth
}

//SetPanelWidth changes the reserved panel width and re-applies the clamping
func (c *Camera) SetPanelWidth(w int) {
	c.panelWidth = max(w, 0)
	c.clamp()
}

//SimulationWidth is the viewport width without the side panel
func (c *Camera) SimulationWidth() int {
	return max(c.viewportW-c.panelWidth, 0)
}

//ScreenToCell maps the pixel to the cell, no clamping to the grid
func (c *Camera) ScreenToCell(px int, py int) (col int, row int) {
	return floorDiv(px-c.offsetX, c.cellSize), floorDiv(py-c.offsetY, c.cellSize)
}

//CellToScreen returns the top-left pixel of the cell
func (c *Camera) CellToScreen(col int, row int) (px int, py int) {
	return c.offsetX + col*c.cellSize, c.offsetY + row*c.cellSize
}

//CellRect returns the cell rectangle in screen pixels
func (c *Camera) CellRect(col int, row int) image.Rectangle {
	px, py := c.CellToScreen(col, row)
	return image.Rect(px, py, px+c.cellSize, py+c.cellSize)
}

//Zoom changes the zoom factor by delta keeping the grid point under the anchor in place
func (c *Camera) Zoom(delta float64, anchorX int, anchorY int, viewportW int, viewportH int) {
	c.viewportW, c.viewportH = max(viewportW, 0), max(viewportH, 0)
	zoom := math.Round(math.Min(math.Max(c.zoom+delta, MinZoom), MaxZoom)*1000) / 1000
	if zoom == c.zoom {
		c.clamp()
		return
	}
	//fractional cell coordinate under the anchor
	fx := float64(anchorX-c.offsetX) / float64(c.cellSize)
	fy := float64(anchorY-c.offsetY) / float64(c.cellSize)

	c.zoom = zoom
	c.cellSize = max(int(math.Round(zoom*float64(c.baseCellSize))), 1)
	c.offsetX = int(math.Round(float64(anchorX) - fx*float64(c.cellSize)))
	c.offsetY = int(math.Round(float64(anchorY) - fy*float64(c.cellSize)))
	c.clamp()
}

//StartDrag starts the pan gesture at the pointer position
func (c *Camera) StartDrag(px int, py int) {
	c.dragging = true
	c.anchorX, c.anchorY = px, py
}

//UpdateDrag pans by the pointer movement since the previous call
func (c *Camera) UpdateDrag(px int, py int, viewportW int, viewportH int) {
	if !c.dragging {
		return
	}
	c.viewportW, c.viewportH = max(viewportW, 0), max(viewportH, 0)
	c.offsetX += px - c.anchorX
	c.offsetY += py - c.anchorY
	c.anchorX, c.anchorY = px, py
	c.clamp()
}

func (c *Camera) StopDrag() {
	c.dragging = false
}

func (c *Camera) IsDragging() bool {
	return c.dragging
}

//Pan moves the grid by dx, dy pixels, used by the keyboard
func (c *Camera) Pan(dx int, dy int) {
	c.offsetX += dx
	c.offsetY += dy
	c.clamp()
}

//Recenter centers the grid of the given size in the simulation view
func (c *Camera) Recenter(gridW int, gridH int, viewportW int, viewportH int) {
	c.viewportW, c.viewportH = max(viewportW, 0), max(viewportH, 0)
	c.offsetX = (c.SimulationWidth() - gridW*c.cellSize) / 2
	c.offsetY = (c.viewportH - gridH*c.cellSize) / 2
}

//OnViewportResize stores the new viewport size, the grid is not recentered
func (c *Camera) OnViewportResize(w int, h int) {
	c.viewportW, c.viewportH = max(w, 0), max(h, 0)
}

//InViewport reports whether the pixel is inside the simulation view (not over the panel)
func (c *Camera) InViewport(px int, py int) bool {
	return px >= 0 && py >= 0 && px < c.SimulationWidth() && py < c.viewportH
}

//VisibleBounds returns the cells range [col0, col1) x [row0, row1) intersecting the simulation view
func (c *Camera) VisibleBounds() (col0 int, row0 int, col1 int, row1 int) {
	w, h := c.grid.Size()
	return c.visibleRange(w, h)
}

//Visible calls fn for every cell of the area intersecting the simulation view
//the rect is the cell rectangle in screen pixels
func (c *Camera) Visible(a universe.Area, fn func(col int, row int, cell universe.Cell, rect image.Rectangle)) {
	col0, row0, col1, row1 := c.visibleRange(a.Width, a.Height)
	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			fn(col, row, a.Entities[row][col], c.CellRect(col, row))
		}
	}
}

func (c *Camera) visibleRange(gridW int, gridH int) (col0 int, row0 int, col1 int, row1 int) {
	col0, row0 = c.ScreenToCell(0, 0)
	col1, row1 = c.ScreenToCell(c.SimulationWidth()-1, c.viewportH-1)
	col0, row0 = max(col0, 0), max(row0, 0)
	col1, row1 = min(col1+1, gridW), min(row1+1, gridH)
	if col1 < col0 || c.SimulationWidth() == 0 {
		col1 = col0
	}
	if row1 < row0 || c.viewportH == 0 {
		row1 = row0
	}
	return
}

//clamp centers the axis where the grid is smaller than the simulation view
//and keeps the edges of a larger grid outside the view
func (c *Camera) clamp() {
	w, h := c.grid.Size()
	c.offsetX = clampAxis(c.offsetX, w*c.cellSize, c.SimulationWidth())
	c.offsetY = clampAxis(c.offsetY, h*c.cellSize, c.viewportH)
}

func clampAxis(offset int, gridPx int, view int) int {
	if gridPx <= view {
		return (view - gridPx) / 2
	}
	return min(max(offset, view-gridPx), 0)
}

//floorDiv rounds toward negative infinity, the pixels left/above the grid map to negative cells
func floorDiv(a int, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
