package universe

type Cell bool

const (
	Dead  Cell = false
	Alive Cell = true
)

//Area is the rectangular field where cells are living
//rows of Entities are windows into one row-major backing slice
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
	cells    []Cell
}

//NewArea allocates the area filled with dead cells
func NewArea(width int, height int) Area {
	return createArea(width, height)
}

//createArea allocate the new area filled with dead cells
func createArea(width int, height int) Area {

	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	area.cells = make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = area.cells[start : start+width : start+width]
	}
	return area
}

//Size returns the area dimensions
func (a Area) Size() (width int, height int) {
	return a.Width, a.Height
}

//Contains reports whether x, y addresses a cell inside the area
func (a Area) Contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < a.Width && y < a.Height
}

//Cell returns the cell state at x, y
//coordinates outside the area are dead
func (a Area) Cell(x int, y int) Cell {
	if !a.Contains(x, y) {
		return Dead
	}
	return a.Entities[y][x]
}

//set writes the cell state at x, y, returns false for coordinates outside the area
func (a Area) set(x int, y int, c Cell) bool {
	if !a.Contains(x, y) {
		return false
	}
	a.Entities[y][x] = c
	return true
}

//clear kills all cells
func (a Area) clear() {
	for i := range a.cells {
		a.cells[i] = Dead
	}
}

//AliveNeighbours counts alive cells in the Moore neighbourhood of x, y
//the cell itself and coordinates outside the area are never counted
func (a Area) AliveNeighbours(x int, y int) int {
	liveNeighbours := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			nx := x + i
			ny := y + j
			//skip coordinates outside the area
			if nx < 0 || ny < 0 || nx >= a.Width || ny >= a.Height {
				continue
			}
			if a.Entities[ny][nx] {
				liveNeighbours++
			}
		}
	}
	return liveNeighbours
}

//cellNextState calculates the next state for the cell
func (a Area) cellNextState(x int, y int) Cell {
	return nextState(a.Entities[y][x], a.AliveNeighbours(x, y))
}

//nextState applies the survival/birth rule
func nextState(c Cell, liveNeighbours int) Cell {
	if liveNeighbours == 3 {
		return Alive
	} else if liveNeighbours == 2 && c {
		return Alive
	}
	return Dead
}

//LiveCells calculates the count of live cells
func (a Area) LiveCells() int {
	liveCells := 0
	for _, c := range a.cells {
		if c {
			liveCells++
		}
	}
	return liveCells
}

//Copy returns the deep copy of the area
func (a Area) Copy() Area {
	c := createArea(a.Width, a.Height)
	copy(c.cells, a.cells)
	return c
}

//copyInto copies the area into dst reusing dst buffers when dimensions match
func (a Area) copyInto(dst *Area) {
	if dst.Width != a.Width || dst.Height != a.Height || len(dst.cells) != len(a.cells) {
		*dst = createArea(a.Width, a.Height)
	}
	copy(dst.cells, a.cells)
}

//Equal reports whether both areas have the same dimensions and cells
func (a Area) Equal(b Area) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for y := range a.Entities {
		for x := range a.Entities[y] {
			if a.Entities[y][x] != b.Entities[y][x] {
				return false
			}
		}
	}
	return true
}

//resized returns the new area with the top-left overlap copied from a
func (a Area) resized(width int, height int) Area {
	r := createArea(width, height)
	copyHeight := min(a.Height, height)
	copyWidth := min(a.Width, width)
	for y := 0; y < copyHeight; y++ {
		copy(r.Entities[y][:copyWidth], a.Entities[y][:copyWidth])
	}
	return r
}

//walk walks the entire area and calls the cb function for each cell
func (a Area) walk(cb func(x int, y int, c Cell)) {
	for y := range a.Entities {
		for x := range a.Entities[y] {
			cb(x, y, a.Entities[y][x])
		}
	}
}
