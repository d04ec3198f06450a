package gui

import (
	"fmt"
	"time"

	"lifepaint/src/universe"
)

//gui front-end defaults
const (
	DefWindowWidth  = 1280
	DefWindowHeight = 720
	DefPercent      = 25
	minPanelWidth   = 150
	panStep         = 8
	resizeStep      = 10
	minRate         = 1
	maxRate         = 50
	//file commands ignore the mouse for a moment so the click finishing them is not painted
	fileCooldown = 300 * time.Millisecond
)

//Options represents the window front-end options
type Options struct {
	Width    int
	Height   int
	GridFile string //used by the load and export commands
	Percent  int    //percent of live cells for the random command
	Title    string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefWindowWidth
	}
	if o.Height <= 0 {
		o.Height = DefWindowHeight
	}
	if o.Percent <= 0 {
		o.Percent = DefPercent
	}
	if o.Title == "" {
		o.Title = "lifepaint"
	}
	return o
}

//panelWidth is the width of the side panel at the right edge of the window
func panelWidth(windowWidth int) int {
	return min(max(windowWidth/8, minPanelWidth), windowWidth)
}

var helpLines = []string{
	"SPACE run/stop",
	"N     step",
	"C     clear",
	"W     random",
	"L/E   load/export",
	", .   rate",
	"X     shrink (+shift grow)",
	"[ ]   brush",
	"= -   zoom",
	"O     recenter",
	"ARROWS pan",
	"LMB/RMB paint/erase",
	"MMB   pan, wheel zoom",
	"Q     quit",
}

//panelLines returns the status part of the side panel
func panelLines(s universe.Status, zoom float64, brushSize int, lastErr error) []string {
	mode := map[universe.RunningState]string{
		universe.RunningStateManual:   "waiting",
		universe.RunningStateStep:     "step",
		universe.RunningStateRun:      "running",
		universe.RunningStateFinished: "finished",
	}[s.RunningMode]
	size := fmt.Sprintf("%d x %d", s.Width, s.Height)
	if s.Pending {
		size += fmt.Sprintf(" -> %d x %d", s.PendingWidth, s.PendingHeight)
	}
	lines := []string{
		"Step:  " + fmt.Sprint(s.IterationNum),
		"Live:  " + fmt.Sprint(s.LiveCells),
		"Mode:  " + mode,
		"Rate:  " + fmt.Sprintf("%d gen/s", s.Rate),
		"Size:  " + size,
		"Zoom:  " + fmt.Sprintf("%.1fx", zoom),
		"Brush: " + fmt.Sprint(brushSize),
	}
	if lastErr != nil {
		lines = append(lines, "", "Error:", lastErr.Error())
	}
	return lines
}

//cooldown ignores the input until the deadline
type cooldown struct {
	until time.Time
}

func (c *cooldown) start(now time.Time, d time.Duration) {
	c.until = now.Add(d)
}

func (c *cooldown) active(now time.Time) bool {
	return now.Before(c.until)
}
