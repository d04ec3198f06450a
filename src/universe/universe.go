package universe

import (
	"io"
	"log"
	"time"
)

//Options represents the Universe's configurable options
type Options struct {
	Width        int
	Height       int
	PercentAlive int
	Rate         int //generations per second
	MaxSteps     int //0 - unlimited
	MaxCells     int
	Seed         int64 //0 - seeded from the clock
	StopOnStable bool  //finish the run when the field is dead or doesn't change
	Logger       *log.Logger
	Advanced     map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Width         int
	Height        int
	Rate          int
	Pending       bool //resize is queued until the next generation
	PendingWidth  int
	PendingHeight int
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start() error
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefWidth    = 100
	DefHeight   = 100
	DefRate     = 5
	DefMaxSteps = 0
	MinRate     = 1
	MaxRate     = 1000
)

const (
	RunningStateManual   = 0x0
	RunningStateStep     = 0x1
	RunningStateRun      = 0x2
	RunningStateFinished = 0x3
)

var DefaultUniverseOptions = Options{
	Width:    DefWidth,
	Height:   DefHeight,
	Rate:     DefRate,
	MaxSteps: DefMaxSteps,
	MaxCells: DefMaxCells,
}

type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	SnapshotInto(dst *Area)
	Size() (width int, height int)
	Cell(x int, y int) Cell
	AliveNeighbours(x int, y int) int
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string) bool
	SettleWithRandomData(percent int)
	Settle(vc [][]int, c Cell)
	SetCell(x int, y int, c Cell) error
	InverseCell(x int, y int)
	Initialize(width int, height int, percent int) error
	Resize(width int, height int) error
	Load(r io.Reader) error
	LoadFile(path string) error
	Export(w io.Writer) error
	ExportFile(path string) error
	RegisterViewer(v Viewer)
	SetRate(gps int)
	IsPlaying() bool
	Run()
	Stop()
	Toggle()
	Step()
	Clear()
	Close()
}
