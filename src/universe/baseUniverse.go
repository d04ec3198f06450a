package universe

import (
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//BaseUniverse is the base universe's engine
//implements Universe interface
//can be used to create different implementations by redefining nextIteration func
//area, state and rng are guarded by their own mutexes and never locked together
//control serializes Run, Stop and Close
type BaseUniverse struct {
	options Options
	logger  *log.Logger
	state   struct {
		Status
		playing bool
		sync.Mutex
	}
	area struct {
		Area
		liveCells int
		sync.Mutex
	}
	rng struct {
		*rand.Rand
		sync.Mutex
	}
	control struct {
		stop chan struct{}
		done chan struct{}
		sync.Mutex
	}
	views struct {
		list []Viewer
		sync.Mutex
	}
	templates struct {
		m map[string]Template
		sync.Mutex
	}
	stateCh chan Status
	//nextIteration calculates the next generation, called with the area lock held
	nextIteration func() (liveCells int, changed bool)
}

//NewBaseUniverse creates the BaseUniverse instance
//invalid dimensions in o fall back to the defaults
func NewBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	u := BaseUniverse{
		options: *o,
		stateCh: stateCh,
	}
	u.options.Advanced = map[string]interface{}{"engine": "base"}
	if u.options.MaxCells <= 0 {
		u.options.MaxCells = DefMaxCells
	}
	if u.options.Seed == 0 {
		u.options.Seed = time.Now().UnixNano()
	}
	u.logger = u.options.Logger
	if u.logger == nil {
		u.logger = log.New(io.Discard, "", 0)
	}
	if err := checkDimensions(u.options.Width, u.options.Height, u.options.MaxCells); err != nil {
		u.logger.Printf("universe: %v, using %d x %d", err, DefWidth, DefHeight)
		u.options.Width, u.options.Height = DefWidth, DefHeight
	}
	u.rng.Rand = rand.New(rand.NewPCG(uint64(u.options.Seed), 0))
	u.templates.m = map[string]Template{}
	//nextIteration can be implemented by successor
	u.nextIteration = u._nextIteration

	u.area.Area = u.randomArea(u.options.Width, u.options.Height, u.options.PercentAlive)
	u.state.Width, u.state.Height = u.options.Width, u.options.Height
	u.area.liveCells = u.area.LiveCells()
	u.state.LiveCells = u.area.liveCells
	u.state.Rate = clamp(u.options.Rate, MinRate, MaxRate)
	if u.options.Rate <= 0 {
		u.state.Rate = DefRate
	}
	u.options.Rate = u.state.Rate
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates.Lock()
	u.templates.m[tmpl.Name] = tmpl
	u.templates.Unlock()
}

//Templates returns registered templates sorted by name
func (u *BaseUniverse) Templates() []Template {
	u.templates.Lock()
	defer u.templates.Unlock()
	list := make([]Template, 0, len(u.templates.m))
	for _, t := range u.templates.m {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) bool {
	u.templates.Lock()
	tmpl, ok := u.templates.m[name]
	u.templates.Unlock()
	if !ok {
		return false
	}
	u.Settle(tmpl.Coordinates, Alive)
	return true
}

//Settle settles the universe with data
//vc - array of x,y coordinates, coordinates outside the area are skipped
func (u *BaseUniverse) Settle(vc [][]int, c Cell) {
	u.area.Lock()
	u.settle(vc, c)
	u.area.Unlock()
	u.refreshView()
}

//SetCell sets the cell state at point x, y
func (u *BaseUniverse) SetCell(x int, y int, c Cell) error {
	u.area.Lock()
	if !u.area.Contains(x, y) {
		w, h := u.area.Size()
		u.area.Unlock()
		return errors.Wrapf(ErrOutOfBounds, "cell %d,%d outside %d x %d", x, y, w, h)
	}
	u.settle([][]int{{x, y}}, c)
	u.area.Unlock()
	u.refreshView()
	return nil
}

//InverseCell inverses the cell state at point x, y
func (u *BaseUniverse) InverseCell(x int, y int) {
	u.area.Lock()
	u.settle([][]int{{x, y}}, !u.area.Cell(x, y))
	u.area.Unlock()
	u.refreshView()
}

//Cell returns the cell state at point x, y, dead outside the area
func (u *BaseUniverse) Cell(x int, y int) Cell {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Cell(x, y)
}

//AliveNeighbours returns the count of alive neighbours of the cell x, y
func (u *BaseUniverse) AliveNeighbours(x int, y int) int {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.AliveNeighbours(x, y)
}

//Size returns current area dimensions
func (u *BaseUniverse) Size() (width int, height int) {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Size()
}

//Initialize replaces the area by the new one with percent of randomly placed live cells
func (u *BaseUniverse) Initialize(width int, height int, percent int) error {
	if err := checkDimensions(width, height, u.options.MaxCells); err != nil {
		return err
	}
	u.replaceArea(u.randomArea(width, height, percent))
	u.logger.Printf("universe: initialized %d x %d with %d%% alive", width, height, clamp(percent, 0, 100))
	return nil
}

//SettleWithRandomData populates the universe of the current size with random data
func (u *BaseUniverse) SettleWithRandomData(percent int) {
	w, h := u.Size()
	u.replaceArea(u.randomArea(w, h, percent))
}

//Resize changes the area dimensions keeping the top-left overlap
//while the universe is running the resize is queued up to the next generation
func (u *BaseUniverse) Resize(width int, height int) error {
	if err := checkDimensions(width, height, u.options.MaxCells); err != nil {
		return err
	}
	u.state.Lock()
	if u.state.playing {
		u.state.Pending = true
		u.state.PendingWidth, u.state.PendingHeight = width, height
		st := u.state.Status
		u.state.Unlock()
		u.logger.Printf("universe: resize to %d x %d queued", width, height)
		u.publish(st)
		u.refreshView()
		return nil
	}
	u.state.Unlock()
	u.resize(width, height)
	return nil
}

//Load replaces the area by the grid read from r
//the area is left untouched on error
func (u *BaseUniverse) Load(r io.Reader) error {
	a, err := ReadArea(r, u.options.MaxCells)
	if err != nil {
		return err
	}
	u.replaceArea(a)
	u.logger.Printf("universe: loaded %d x %d", a.Width, a.Height)
	return nil
}

//LoadFile loads the grid file
func (u *BaseUniverse) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	if err := u.Load(f); err != nil {
		if errors.Is(err, ErrParse) {
			return errors.Wrapf(err, "load %s", path)
		}
		return &IOError{Op: "read", Path: path, Err: err}
	}
	return nil
}

//Export writes the area snapshot to w
func (u *BaseUniverse) Export(w io.Writer) error {
	return WriteArea(w, u.Area())
}

//ExportFile writes the area snapshot to the temporary file and renames it to path
func (u *BaseUniverse) ExportFile(path string) error {
	a := u.Area()
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	if err := WriteArea(f, a); err != nil {
		f.Close()
		os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	u.logger.Printf("universe: exported %d x %d to %s", a.Width, a.Height, path)
	return nil
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views.Lock()
	u.views.list = append(u.views.list, v)
	u.views.Unlock()
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	st := u.state.Status
	u.state.Unlock()
	u.area.Lock()
	st.LiveCells = u.area.liveCells
	u.area.Unlock()
	return st
}

//Options returns the universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Area returns the snapshot of the universe area (field where cells is living)
func (u *BaseUniverse) Area() Area {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Copy()
}

//SnapshotInto copies the universe area into dst reusing its buffers
func (u *BaseUniverse) SnapshotInto(dst *Area) {
	u.area.Lock()
	u.area.copyInto(dst)
	u.area.Unlock()
}

//SetRate sets the simulation speed in generations per second
func (u *BaseUniverse) SetRate(gps int) {
	u.state.Lock()
	u.state.Rate = clamp(gps, MinRate, MaxRate)
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
	u.refreshView()
}

//IsPlaying reports whether the simulation loop is running
func (u *BaseUniverse) IsPlaying() bool {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.playing
}

//Run starts the universe simulation, returns immediately
//only one simulation loop runs at a time
func (u *BaseUniverse) Run() {
	u.control.Lock()
	defer u.control.Unlock()
	if u.IsPlaying() {
		return
	}
	//the previous loop may still finish its last generation
	if u.control.done != nil {
		<-u.control.done
	}
	u.state.Lock()
	u.state.playing = true
	u.state.RunningMode = RunningStateRun
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
	u.control.stop = make(chan struct{})
	u.control.done = make(chan struct{})
	go u.run(u.control.stop, u.control.done)
}

//Stop stops the universe simulation, returns immediately
//the loop exits after the generation in progress
func (u *BaseUniverse) Stop() {
	u.control.Lock()
	defer u.control.Unlock()
	u.state.Lock()
	wasPlaying := u.state.playing
	u.state.playing = false
	if wasPlaying {
		u.state.RunningMode = RunningStateManual
	}
	st := u.state.Status
	u.state.Unlock()
	if !wasPlaying {
		return
	}
	if u.control.stop != nil {
		close(u.control.stop)
		u.control.stop = nil
	}
	u.publish(st)
}

//Toggle starts the stopped simulation or stops the running one
func (u *BaseUniverse) Toggle() {
	if u.IsPlaying() {
		u.Stop()
	} else {
		u.Run()
	}
}

//Step does one simulation step synchronously
func (u *BaseUniverse) Step() {
	u.applyPendingResize()
	u.step()
}

//Clear clears the universe (kill all cells and reset all counters)
func (u *BaseUniverse) Clear() {
	u.area.Lock()
	u.area.clear()
	u.area.liveCells = 0
	u.area.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
	u.refreshView()
}

//Close stops the simulation loop and waits for it
func (u *BaseUniverse) Close() {
	u.Stop()
	u.control.Lock()
	done := u.control.done
	u.control.Unlock()
	if done != nil {
		<-done
	}
}

//run is the simulation loop, should start as a goroutine
//each cycle sleeps the rest of the period so the achieved rate tracks the target rate
func (u *BaseUniverse) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer u.applyPendingResize()
	u.logger.Printf("universe: run started at %d generations/s", u.Status().Rate)
	defer u.logger.Printf("universe: run stopped")

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-stop:
			return
		default:
		}
		start := time.Now()
		u.applyPendingResize()
		if finished := u.step(); finished {
			return
		}
		wait := u.period() - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

//period returns the target duration of one generation
func (u *BaseUniverse) period() time.Duration {
	u.state.Lock()
	defer u.state.Unlock()
	return time.Second / time.Duration(u.state.Rate)
}

//step does the new one state calculation for entire universe
//returns true when the boundary conditions are reached
func (u *BaseUniverse) step() (finished bool) {
	u.switchRunningState(RunningStateStep)
	start := time.Now()
	u.area.Lock()
	liveCells, changed := u.nextIteration()
	u.area.liveCells = liveCells
	u.area.Unlock()
	elapsed := time.Since(start)

	u.state.Lock()
	u.state.IterationNum++
	u.state.LiveCells = liveCells
	u.state.IterationTime = elapsed
	maxIter := u.options.MaxSteps
	finished = (maxIter != 0 && u.state.IterationNum >= maxIter) ||
		(u.options.StopOnStable && (liveCells == 0 || !changed))
	switch {
	case finished:
		u.state.playing = false
		u.state.RunningMode = RunningStateFinished
	case u.state.playing:
		u.state.RunningMode = RunningStateRun
	default:
		u.state.RunningMode = RunningStateManual
	}
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
	u.refreshView()
	return finished
}

//applyPendingResize applies the resize queued while running
func (u *BaseUniverse) applyPendingResize() {
	u.state.Lock()
	pending, width, height := u.state.Pending, u.state.PendingWidth, u.state.PendingHeight
	u.state.Pending = false
	u.state.Unlock()
	if pending {
		u.resize(width, height)
	}
}

//resize replaces the area by the resized copy
func (u *BaseUniverse) resize(width int, height int) {
	u.area.Lock()
	u.area.Area = u.area.resized(width, height)
	liveCells := u.area.LiveCells()
	u.area.liveCells = liveCells
	u.area.Unlock()

	u.state.Lock()
	u.state.Width, u.state.Height = width, height
	u.state.LiveCells = liveCells
	st := u.state.Status
	u.state.Unlock()
	u.logger.Printf("universe: resized to %d x %d", width, height)
	u.publish(st)
	u.refreshView()
}

//replaceArea replaces the whole area, reset all counters and drops the queued resize
func (u *BaseUniverse) replaceArea(a Area) {
	liveCells := a.LiveCells()
	u.area.Lock()
	u.area.Area = a
	u.area.liveCells = liveCells
	u.area.Unlock()

	u.state.Lock()
	u.state.Width, u.state.Height = a.Width, a.Height
	u.state.LiveCells = liveCells
	u.state.IterationNum = 0
	u.state.Pending = false
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
	u.refreshView()
}

//randomArea creates the area with exactly round(width*height*percent/100) live cells
//the live cells are placed by shuffling the backing slice
func (u *BaseUniverse) randomArea(width int, height int, percent int) Area {
	a := createArea(width, height)
	n := int(math.Round(float64(len(a.cells)) * float64(clamp(percent, 0, 100)) / 100))
	if n == 0 {
		return a
	}
	for i := 0; i < n; i++ {
		a.cells[i] = Alive
	}
	if n < len(a.cells) {
		u.rng.Lock()
		u.rng.Shuffle(len(a.cells), func(i, j int) {
			a.cells[i], a.cells[j] = a.cells[j], a.cells[i]
		})
		u.rng.Unlock()
	}
	return a
}

//settle places the Cell at positions vc and keeps the live cells counter
//should be called with the area lock held
func (u *BaseUniverse) settle(vc [][]int, c Cell) {
	for _, v := range vc {
		if len(v) < 2 {
			continue
		}
		prev := u.area.Cell(v[0], v[1])
		if !u.area.set(v[0], v[1], c) || prev == c {
			continue
		}
		if c {
			u.area.liveCells++
		} else {
			u.area.liveCells--
		}
	}
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	u.publish(st)
}

//publish writes the status to the stateCh without blocking
//a slow reader misses intermediate statuses
func (u *BaseUniverse) publish(st Status) {
	if u.stateCh == nil {
		return
	}
	select {
	case u.stateCh <- st:
	default:
	}
}

//_nextIteration does one simulation cycle
//walking the area and calculating the next state for the each cell
//the simplest implementation: creates the new area buffer with full size on each call
//All cells state is calculated to the new buffer and then this buffer is stored to the universe replacing the old one
func (u *BaseUniverse) _nextIteration() (liveCells int, changed bool) {
	cur := u.area.Area
	a := createArea(cur.Width, cur.Height)
	cur.walk(func(x int, y int, e Cell) {
		nextState := cur.cellNextState(x, y)
		changed = changed || nextState != e
		a.Entities[y][x] = nextState
		if nextState {
			liveCells++
		}
	})
	u.area.Area = a
	return
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	u.views.Lock()
	views := u.views.list
	u.views.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
