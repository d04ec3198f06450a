package brush

import (
	"image"

	"lifepaint/src/universe"
)

const (
	MinSize = 1
	MaxSize = 5
)

//Mapper maps screen pixels to grid cells, implemented by the camera
type Mapper interface {
	ScreenToCell(px int, py int) (col int, row int)
}

//Settler writes cells to the grid skipping the cells outside it, implemented by the universe
type Settler interface {
	Settle(vc [][]int, c universe.Cell)
}

//Brush is the square block of cells painted around the pointer
//the block origin is center - size/2, so even sizes extend one cell left and up
type Brush struct {
	size    int
	x       int
	y       int
	placed  bool
	drawing bool
	state   universe.Cell
}

func New() *Brush {
	return &Brush{size: MinSize}
}

//SetPosition records the pointer position in screen pixels
func (b *Brush) SetPosition(px int, py int) {
	b.x, b.y = px, py
	b.placed = true
}

//Unset hides the brush, an unset brush never paints
func (b *Brush) Unset() {
	b.placed = false
}

func (b *Brush) Position() (px int, py int, ok bool) {
	return b.x, b.y, b.placed
}

func (b *Brush) IncreaseSize() {
	b.size = min(b.size+1, MaxSize)
}

func (b *Brush) DecreaseSize() {
	b.size = max(b.size-1, MinSize)
}

func (b *Brush) Size() int {
	return b.size
}

//Bounds returns the brush block in cell coordinates, empty for the unset brush
func (b *Brush) Bounds(m Mapper) image.Rectangle {
	if !b.placed {
		return image.Rectangle{}
	}
	col, row := m.ScreenToCell(b.x, b.y)
	col -= b.size / 2
	row -= b.size / 2
	return image.Rect(col, row, col+b.size, row+b.size)
}

//Cells returns the [x,y] coordinates covered by the brush, cells outside the grid included
func (b *Brush) Cells(m Mapper) [][]int {
	r := b.Bounds(m)
	if r.Empty() {
		return nil
	}
	vc := make([][]int, 0, b.size*b.size)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			vc = append(vc, []int{x, y})
		}
	}
	return vc
}

//PaintAt writes the state to every cell under the brush
func (b *Brush) PaintAt(m Mapper, s Settler, state universe.Cell) {
	if vc := b.Cells(m); len(vc) > 0 {
		s.Settle(vc, state)
	}
}

//StartDrawing starts the stroke painting the state, the cells under the brush are painted at once
func (b *Brush) StartDrawing(m Mapper, s Settler, state universe.Cell) {
	b.drawing = true
	b.state = state
	b.PaintAt(m, s, state)
}

func (b *Brush) StopDrawing() {
	b.drawing = false
}

func (b *Brush) IsDrawing() bool {
	return b.drawing
}

//State returns the state painted by the current stroke
func (b *Brush) State() universe.Cell {
	return b.state
}

//Drag moves the brush and continues the stroke while drawing
func (b *Brush) Drag(px int, py int, m Mapper, s Settler) {
	b.SetPosition(px, py)
	if b.drawing {
		b.PaintAt(m, s, b.state)
	}
}
