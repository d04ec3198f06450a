package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"lifepaint/src/universe"
)

//ConsoleOut is the headless viewer printing the progress of the run
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
	every     int
	mu        sync.Mutex
	lastIter  int
	done      chan struct{}
	once      sync.Once
}

//NewConsoleOut creates the viewer printing to w every n-th iteration
func NewConsoleOut(w io.Writer, every int) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, done: make(chan struct{})}
}

//Done is closed when the universe reaches the finished state
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.RunningMode == universe.RunningStateFinished {
		c.once.Do(func() {
			totalTime := time.Since(c.startTime).Round(time.Millisecond)
			resultData := map[string]interface{}{
				"Last iteration": st.IterationNum,
				"Total time":     totalTime,
				"Live cells":     st.LiveCells,
			}
			fmt.Fprintln(c.w, "\nFinished:")
			c.printHashData(resultData)
			close(c.done)
		})
	} else if st.IterationNum != c.lastIter && st.IterationNum%c.every == 0 {
		c.lastIter = st.IterationNum
		fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	st := c.u.Status()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", st.Width, st.Height)
	fmt.Fprintf(c.w, "  Rate: %v gen/s\n", st.Rate)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() error {
	c.mu.Lock()
	c.startTime = time.Now()
	c.mu.Unlock()
	fmt.Fprintln(c.w, "\nSimulation started...")
	return nil
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
