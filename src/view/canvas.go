package view

import (
	"image"
	"strings"

	"lifepaint/src/camera"
	"lifepaint/src/universe"
)

//terminal characters are about twice as tall as wide,
//so one character row covers two camera pixels
const rowPixels = 2

type canvasCell byte

const (
	canvasEmpty canvasCell = iota
	canvasDead
	canvasLive
	canvasBrush
)

//fillers are the strings drawn for every kind of the canvas character
type fillers struct {
	empty string
	dead  string
	live  string
	brush string
}

//canvas rasterizes the visible part of the area into cols x rows characters
//the brush block (in cell coordinates) is drawn over the cells
func canvas(a universe.Area, c *camera.Camera, brushCells image.Rectangle, cols int, rows int) [][]canvasCell {
	buf := make([][]canvasCell, rows)
	for i := range buf {
		buf[i] = make([]canvasCell, cols)
	}
	fill := func(r image.Rectangle, v canvasCell) {
		r = image.Rect(r.Min.X, r.Min.Y/rowPixels, r.Max.X, (r.Max.Y+rowPixels-1)/rowPixels).
			Intersect(image.Rect(0, 0, cols, rows))
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if v == canvasBrush || buf[y][x] != canvasLive {
					buf[y][x] = v
				}
			}
		}
	}
	c.Visible(a, func(col int, row int, cell universe.Cell, rect image.Rectangle) {
		if cell {
			fill(rect, canvasLive)
		} else {
			fill(rect, canvasDead)
		}
	})
	if !brushCells.Empty() {
		for row := brushCells.Min.Y; row < brushCells.Max.Y; row++ {
			for col := brushCells.Min.X; col < brushCells.Max.X; col++ {
				if a.Contains(col, row) {
					fill(c.CellRect(col, row), canvasBrush)
				}
			}
		}
	}
	return buf
}

//render joins the canvas rows using the fillers
func (f fillers) render(buf [][]canvasCell) string {
	var b strings.Builder
	for i, line := range buf {
		if i != 0 {
			b.WriteByte('\n')
		}
		for _, v := range line {
			switch v {
			case canvasDead:
				b.WriteString(f.dead)
			case canvasLive:
				b.WriteString(f.live)
			case canvasBrush:
				b.WriteString(f.brush)
			default:
				b.WriteString(f.empty)
			}
		}
	}
	return b.String()
}
