package view

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/nsf/termbox-go"

	"lifepaint/src/brush"
	"lifepaint/src/camera"
	"lifepaint/src/universe"
)

//terminal front-end defaults
const (
	termCellSize   = 2 //in camera pixels, one cell is two characters wide at zoom 1.0
	termPanStep    = 4
	MinUIRate      = 1
	MaxUIRate      = 50
	resizeStep     = 10
	DefRandomAlive = 25
)

type keyBindings struct {
	key      interface{}
	mod      gocui.Modifier
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//mouse drag events are reported by termbox with the motion modifier
var modMotion = gocui.Modifier(termbox.ModMotion)

type ConsoleUI struct {
	u        universe.Universe
	g        *gocui.Gui
	k        []keyBindings
	cam      *camera.Camera
	brush    *brush.Brush
	snapshot universe.Area
	fillers  fillers
	gridFile string
	percent  int
	lastErr  error
	fieldW   int
	fieldH   int
	queued   atomic.Bool
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the terminal front-end
//gridFile is the file used by the load and export commands
func NewViewTerminal(gridFile string, percent int) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		brush:    brush.New(),
		gridFile: gridFile,
		percent:  percent,
		fillers: fillers{
			empty: " ",
			dead:  "░",
			live:  aurora.Green("█").BgBrightGreen().String(),
			brush: aurora.Cyan("▒").String(),
		},
	}
	if t.percent <= 0 {
		t.percent = DefRandomAlive
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, gocui.ModNone, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeySpace, gocui.ModNone, "SPACE", "Run/Stop", t.cmdToggle, ""},
		{'n', gocui.ModNone, "N", "Next step", t.cmdNextRound, ""},
		{'r', gocui.ModNone, "R", "Run", t.cmdRun, ""},
		{'s', gocui.ModNone, "S", "Stop", t.cmdStop, ""},
		{'c', gocui.ModNone, "C", "Clear", t.cmdClear, ""},
		{'w', gocui.ModNone, "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'l', gocui.ModNone, "L", "Load", t.cmdLoad, ""},
		{'e', gocui.ModNone, "E", "Export", t.cmdExport, ""},
		{'<', gocui.ModNone, "<", "Slower", t.cmdRate(-1), ""},
		{'>', gocui.ModNone, ">", "Faster", t.cmdRate(1), ""},
		{'x', gocui.ModNone, "x", "Shrink", t.cmdResize(-resizeStep), ""},
		{'X', gocui.ModNone, "X", "Grow", t.cmdResize(resizeStep), ""},
		{'[', gocui.ModNone, "[", "Smaller brush", t.cmdBrush(-1), ""},
		{']', gocui.ModNone, "]", "Larger brush", t.cmdBrush(1), ""},
		{'+', gocui.ModNone, "+", "Zoom in", t.cmdZoom(camera.DefZoomStep), ""},
		{'-', gocui.ModNone, "-", "Zoom out", t.cmdZoom(-camera.DefZoomStep), ""},
		{'o', gocui.ModNone, "O", "Recenter", t.cmdRecenter, ""},
		{gocui.KeyArrowLeft, gocui.ModNone, "ARROWS", "Pan", t.cmdPan(termPanStep, 0), ""},
		{gocui.KeyArrowRight, gocui.ModNone, "", "", t.cmdPan(-termPanStep, 0), ""},
		{gocui.KeyArrowUp, gocui.ModNone, "", "", t.cmdPan(0, termPanStep), ""},
		{gocui.KeyArrowDown, gocui.ModNone, "", "", t.cmdPan(0, -termPanStep), ""},
		{gocui.MouseLeft, gocui.ModNone, "MOUSE", "Left paints, right erases, middle pans, wheel zooms", t.cmdPaint(universe.Alive), "battlefield"},
		{gocui.MouseLeft, modMotion, "", "", t.cmdStroke, "battlefield"},
		{gocui.MouseRight, gocui.ModNone, "", "", t.cmdPaint(universe.Dead), "battlefield"},
		{gocui.MouseRight, modMotion, "", "", t.cmdStroke, "battlefield"},
		{gocui.MouseMiddle, gocui.ModNone, "", "", t.cmdStartDrag, "battlefield"},
		{gocui.MouseMiddle, modMotion, "", "", t.cmdDrag, "battlefield"},
		{gocui.MouseRelease, gocui.ModNone, "", "", t.cmdRelease, ""},
		{gocui.MouseWheelUp, gocui.ModNone, "", "", t.cmdWheel(camera.DefZoomStep), "battlefield"},
		{gocui.MouseWheelDown, gocui.ModNone, "", "", t.cmdWheel(-camera.DefZoomStep), "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, kb.mod, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return err
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
	t.cam = camera.New(u, camera.Options{BaseCellSize: termCellSize})
}

func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

//Refresh can be called from any goroutine, the redraw is queued to the gui loop
//and the refreshes arriving before it runs are coalesced
func (t *ConsoleUI) Refresh() {
	if !t.queued.CompareAndSwap(false, true) {
		return
	}
	t.g.Update(func(g *gocui.Gui) error {
		t.queued.Store(false)
		t.render(g)
		return nil
	})
}

//render should be called on the gui loop
func (t *ConsoleUI) render(g *gocui.Gui) {
	t.u.SnapshotInto(&t.snapshot)
	t.renderField(g)
	t.renderConfiguration(g)
	t.renderStatus(g)
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View("battlefield")
	if err != nil {
		return
	}
	//the entire field is redrawing at once now
	v.Clear()
	cols, rows := v.Size()
	brushCells := t.brush.Bounds(t.cam)
	_, _ = fmt.Fprint(v, t.fillers.render(canvas(t.snapshot, t.cam, brushCells, cols, rows)))
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, err := g.View("status")
	if err != nil {
		return
	}
	v.Clear()
	for _, l := range statusLines(t.u.Status(), t.cam, t.brush, t.lastErr) {
		_, _ = fmt.Fprintln(v, t.renderProp(l[0], "%v", l[1]))
	}
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, err := g.View("configuration")
	if err != nil {
		return
	}
	c := t.u.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Advanced["engine"]))
	_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
	_, _ = fmt.Fprintln(v, t.renderProp("Grid file", "%v", t.gridFile))
	_, _ = fmt.Fprintln(v, t.renderProp("Random", "%v%%", t.percent))
}

//statusLines returns the name/value pairs of the status panel
func statusLines(s universe.Status, c *camera.Camera, b *brush.Brush, lastErr error) [][2]string {
	size := fmt.Sprintf("%v x %v", s.Width, s.Height)
	if s.Pending {
		size += fmt.Sprintf(" -> %v x %v", s.PendingWidth, s.PendingHeight)
	}
	mode := runningStateDescr[s.RunningMode]
	lines := [][2]string{
		{"Step", fmt.Sprint(s.IterationNum)},
		{"Live Cells", fmt.Sprint(s.LiveCells)},
		{"Evaluation time", fmt.Sprint(s.IterationTime.Round(time.Microsecond))},
		{"Mode", mode},
		{"Rate", fmt.Sprintf("%v gen/s", s.Rate)},
		{"Dimension", size},
		{"Zoom", fmt.Sprintf("%.1fx", c.ZoomFactor())},
		{"Brush", fmt.Sprint(b.Size())},
	}
	if lastErr != nil {
		lines = append(lines, [2]string{"Error", aurora.Red(lastErr.Error()).String()})
	}
	return lines
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 34
	minWindowHeight := 20

	if maxY < minWindowHeight || maxX <= leftColumnWidth+2 {
		if _, err := t.headerLayout(g, maxY, "Terminal too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		_ = g.DeleteView("help")
		t.fieldW, t.fieldH = 0, 0
		return nil
	}
	if _, err := t.headerLayout(g, 3, "This is \"The Life\" game sandbox"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 9); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(g)
	}

	if v, err := g.SetView("status", 0, 10, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		v.Wrap = true
		t.renderStatus(g)
	}

	v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	//the camera works in pixels, one character row is rowPixels tall
	if cols, rows := v.Size(); cols != t.fieldW || rows != t.fieldH {
		first := t.fieldW == 0 && t.fieldH == 0
		t.fieldW, t.fieldH = cols, rows
		if first {
			w, h := t.u.Size()
			t.cam.Recenter(w, h, cols, rows*rowPixels)
		} else {
			t.cam.OnViewportResize(cols, rows*rowPixels)
			t.cam.Pan(0, 0)
		}
		t.render(g)
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		_, _ = fmt.Fprintln(v, t.helpLine())
	}

	return nil
}

func (t *ConsoleUI) helpLine() string {
	var b strings.Builder
	b.WriteString("KEYBINDINGS: ")
	first := true
	for _, k := range t.k {
		if k.name == "" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(": ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			text = text[:max(maxX, 0)]
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

//setError stores the result of the last command for the status panel
func (t *ConsoleUI) setError(err error) {
	t.lastErr = err
	t.render(t.g)
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	t.u.Toggle()
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData(t.percent)
	return nil
}

func (t *ConsoleUI) cmdLoad(_ *gocui.View) error {
	err := t.u.LoadFile(t.gridFile)
	if err == nil {
		w, h := t.u.Size()
		t.cam.Recenter(w, h, t.fieldW, t.fieldH*rowPixels)
	}
	t.setError(err)
	return nil
}

func (t *ConsoleUI) cmdExport(_ *gocui.View) error {
	t.setError(t.u.ExportFile(t.gridFile))
	return nil
}

func (t *ConsoleUI) cmdRate(delta int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.u.SetRate(min(max(t.u.Status().Rate+delta, MinUIRate), MaxUIRate))
		return nil
	}
}

func (t *ConsoleUI) cmdResize(delta int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		w, h := t.u.Size()
		t.setError(t.u.Resize(max(w+delta, 1), max(h+delta, 1)))
		return nil
	}
}

func (t *ConsoleUI) cmdBrush(delta int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		if delta > 0 {
			t.brush.IncreaseSize()
		} else {
			t.brush.DecreaseSize()
		}
		t.render(t.g)
		return nil
	}
}

func (t *ConsoleUI) cmdZoom(delta float64) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.cam.Zoom(delta, t.fieldW/2, t.fieldH*rowPixels/2, t.fieldW, t.fieldH*rowPixels)
		t.render(t.g)
		return nil
	}
}

func (t *ConsoleUI) cmdRecenter(_ *gocui.View) error {
	w, h := t.u.Size()
	t.cam.Recenter(w, h, t.fieldW, t.fieldH*rowPixels)
	t.render(t.g)
	return nil
}

func (t *ConsoleUI) cmdPan(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.cam.Pan(dx, dy)
		t.render(t.g)
		return nil
	}
}

//pointer returns the mouse position in camera pixels
func pointer(v *gocui.View) (px int, py int) {
	cx, cy := v.Cursor()
	return cx, cy * rowPixels
}

func (t *ConsoleUI) cmdPaint(state universe.Cell) func(v *gocui.View) error {
	return func(v *gocui.View) error {
		t.brush.SetPosition(pointer(v))
		t.brush.StartDrawing(t.cam, t.u, state)
		return nil
	}
}

func (t *ConsoleUI) cmdStroke(v *gocui.View) error {
	px, py := pointer(v)
	t.brush.Drag(px, py, t.cam, t.u)
	return nil
}

func (t *ConsoleUI) cmdStartDrag(v *gocui.View) error {
	t.cam.StartDrag(pointer(v))
	return nil
}

func (t *ConsoleUI) cmdDrag(v *gocui.View) error {
	px, py := pointer(v)
	t.cam.UpdateDrag(px, py, t.fieldW, t.fieldH*rowPixels)
	t.render(t.g)
	return nil
}

func (t *ConsoleUI) cmdRelease(_ *gocui.View) error {
	t.brush.StopDrawing()
	t.cam.StopDrag()
	return nil
}

func (t *ConsoleUI) cmdWheel(delta float64) func(v *gocui.View) error {
	return func(v *gocui.View) error {
		px, py := pointer(v)
		t.cam.Zoom(delta, px, py, t.fieldW, t.fieldH*rowPixels)
		t.render(t.g)
		return nil
	}
}
