package universe

import (
	"sync"
)

/*
	Universe implementation with multithreaded computation algorithm
	the field is split into horizontal bands, each band is computed by its own goroutine
	into a private buffer and merged back after all bands are done
*/

const (
	DefWorkers          = 10 //default workers
	DefMinRowsPerWorker = 3  //minimum rows for one worker
)

type MultithreadedUniverse struct {
	*BaseUniverse
	bands []band
	//dimensions the bands were built for
	width  int
	height int
}

//band is the rows range [y1, y2] computed by one worker
type band struct {
	y1        int
	y2        int
	tmpBuff   Area
	liveCells int
	changed   bool
}

func NewMultithreadedUniverse(o *Options, stateCh chan Status) Universe {
	mu := MultithreadedUniverse{BaseUniverse: NewBaseUniverse(o, stateCh)}
	//redefine the nextIteration
	mu.BaseUniverse.nextIteration = mu.nextIteration
	mu.options.Advanced["engine"] = "multithreaded"
	mu.options.Advanced["workers"] = DefWorkers
	mu.splitArea(mu.area.Width, mu.area.Height)
	return &mu
}

//splitArea splits the field into at most DefWorkers bands of DefMinRowsPerWorker rows or more
func (mu *MultithreadedUniverse) splitArea(width int, height int) {
	rows := max((height+DefWorkers-1)/DefWorkers, DefMinRowsPerWorker)
	mu.bands = mu.bands[:0]
	for y1 := 0; y1 < height; y1 += rows {
		y2 := min(y1+rows, height) - 1
		mu.bands = append(mu.bands, band{y1: y1, y2: y2, tmpBuff: createArea(width, y2-y1+1)})
	}
	mu.width, mu.height = width, height
}

//nextIteration fans the bands out to goroutines, waits for them and merges the results
func (mu *MultithreadedUniverse) nextIteration() (liveCells int, changed bool) {
	if mu.width != mu.area.Width || mu.height != mu.area.Height {
		mu.splitArea(mu.area.Width, mu.area.Height)
	}
	cur := mu.area.Area
	var wg sync.WaitGroup
	wg.Add(len(mu.bands))
	for i := range mu.bands {
		go func(b *band) {
			defer wg.Done()
			b.calc(cur)
		}(&mu.bands[i])
	}
	wg.Wait()
	//every band has read the previous generation, now it is safe to overwrite it
	for i := range mu.bands {
		b := &mu.bands[i]
		copy(cur.cells[b.y1*cur.Width:], b.tmpBuff.cells)
		liveCells += b.liveCells
		changed = changed || b.changed
	}
	return
}

//calc calculates the next states of the band rows
//reads the shared area only, writes to the own buffer
func (b *band) calc(a Area) {
	b.liveCells = 0
	b.changed = false
	for y := b.y1; y <= b.y2; y++ {
		row := b.tmpBuff.Entities[y-b.y1]
		for x := range row {
			nextState := a.cellNextState(x, y)
			if nextState {
				b.liveCells++
			}
			b.changed = b.changed || nextState != a.Entities[y][x]
			row[x] = nextState
		}
	}
}
