//go:build ebiten

package gui

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"

	"lifepaint/src/brush"
	"lifepaint/src/camera"
	"lifepaint/src/universe"
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	gridColor       = color.RGBA{R: 200, G: 211, B: 180, A: 255}
	deadColor       = color.RGBA{R: 40, G: 42, B: 48, A: 255}
	liveColor       = color.RGBA{R: 252, G: 197, B: 45, A: 255}
	brushColor      = color.RGBA{R: 0, G: 150, B: 150, A: 255}
	panelColor      = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	textColor       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	errorColor      = color.RGBA{R: 240, G: 90, B: 90, A: 255}
)

//Game adapts the universe to the ebiten.Game interface
type Game struct {
	u        universe.Universe
	o        Options
	cam      *camera.Camera
	brush    *brush.Brush
	snapshot universe.Area
	cooldown cooldown
	lastErr  error
	pixel    *ebiten.Image
	width    int
	height   int
}

//New creates the game for the universe, the grid is centered in the window
func New(u universe.Universe, o Options) *Game {
	o = o.withDefaults()
	g := &Game{
		u:      u,
		o:      o,
		brush:  brush.New(),
		pixel:  ebiten.NewImage(1, 1),
		width:  o.Width,
		height: o.Height,
	}
	g.pixel.Fill(color.White)
	g.cam = camera.New(u, camera.Options{
		ViewportWidth:  o.Width,
		ViewportHeight: o.Height,
		PanelWidth:     panelWidth(o.Width),
	})
	return g
}

//Run opens the window and blocks until it is closed
func Run(u universe.Universe, o Options) error {
	g := New(u, o)
	ebiten.SetWindowTitle(g.o.Title)
	ebiten.SetWindowSize(g.o.Width, g.o.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

//Update handles the input, the simulation runs on its own schedule
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.u.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.u.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.u.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.u.SettleWithRandomData(g.o.Percent)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.lastErr = g.u.LoadFile(g.o.GridFile)
		if g.lastErr == nil {
			g.recenter()
		}
		g.cooldown.start(time.Now(), fileCooldown)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.lastErr = g.u.ExportFile(g.o.GridFile)
		g.cooldown.start(time.Now(), fileCooldown)
	case inpututil.IsKeyJustPressed(ebiten.KeyComma):
		g.u.SetRate(max(g.u.Status().Rate-1, minRate))
	case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		g.u.SetRate(min(g.u.Status().Rate+1, maxRate))
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		step := -resizeStep
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step = resizeStep
		}
		w, h := g.u.Size()
		g.lastErr = g.u.Resize(max(w+step, 1), max(h+step, 1))
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.brush.DecreaseSize()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.brush.IncreaseSize()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.cam.Zoom(camera.DefZoomStep, g.cam.SimulationWidth()/2, g.height/2, g.width, g.height)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.cam.Zoom(-camera.DefZoomStep, g.cam.SimulationWidth()/2, g.height/2, g.width, g.height)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.recenter()
	}

	dx, dy := 0, 0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx += panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx -= panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy += panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy -= panStep
	}
	if dx != 0 || dy != 0 {
		g.cam.Pan(dx, dy)
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	//releases are handled everywhere so the strokes and drags always end
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.brush.StopDrawing()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.cam.StopDrag()
	}
	if g.cam.IsDragging() {
		g.cam.UpdateDrag(mx, my, g.width, g.height)
	}
	if !g.cam.InViewport(mx, my) {
		g.brush.Unset()
		return
	}
	if g.cooldown.active(time.Now()) {
		return
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		switch {
		case ebiten.IsKeyPressed(ebiten.KeyControl) && wy > 0:
			g.brush.IncreaseSize()
		case ebiten.IsKeyPressed(ebiten.KeyControl):
			g.brush.DecreaseSize()
		case wy > 0:
			g.cam.Zoom(camera.DefZoomStep, mx, my, g.width, g.height)
		default:
			g.cam.Zoom(-camera.DefZoomStep, mx, my, g.width, g.height)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.cam.StartDrag(mx, my)
	}

	g.brush.Drag(mx, my, g.cam, g.u)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.brush.StartDrawing(g.cam, g.u, universe.Alive)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.brush.StartDrawing(g.cam, g.u, universe.Dead)
	}
}

func (g *Game) recenter() {
	w, h := g.u.Size()
	g.cam.Recenter(w, h, g.width, g.height)
}

//Draw renders the snapshot of the universe through the camera
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.u.SnapshotInto(&g.snapshot)

	//grid lines are the gaps between the cells
	gap := 0
	if g.cam.CellSize() >= 6 {
		gap = 1
	}
	col0, row0, col1, row1 := g.cam.VisibleBounds()
	if col1 > col0 && row1 > row0 {
		g.fillRect(screen, image.Rectangle{
			Min: g.cam.CellRect(col0, row0).Min,
			Max: g.cam.CellRect(col1-1, row1-1).Max,
		}, gridColor)
	}
	g.cam.Visible(g.snapshot, func(col int, row int, cell universe.Cell, r image.Rectangle) {
		r.Min = r.Min.Add(image.Pt(gap, gap))
		if cell {
			g.fillRect(screen, r, liveColor)
		} else {
			g.fillRect(screen, r, deadColor)
		}
	})

	if b := g.brush.Bounds(g.cam); !b.Empty() {
		g.strokeRect(screen, image.Rectangle{
			Min: g.cam.CellRect(b.Min.X, b.Min.Y).Min,
			Max: g.cam.CellRect(b.Max.X-1, b.Max.Y-1).Max,
		}, brushColor)
	}

	g.drawPanel(screen)
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	x := g.cam.SimulationWidth()
	g.fillRect(screen, image.Rect(x, 0, g.width, g.height), panelColor)
	face := basicfont.Face7x13
	y := 20
	status := panelLines(g.u.Status(), g.cam.ZoomFactor(), g.brush.Size(), g.lastErr)
	for i, l := range status {
		c := textColor
		if g.lastErr != nil && i >= len(status)-1 {
			c = errorColor
		}
		text.Draw(screen, l, face, x+8, y, c)
		y += 16
	}
	y += 16
	for _, l := range helpLines {
		text.Draw(screen, l, face, x+8, y, textColor)
		y += 16
	}
}

func (g *Game) fillRect(dst *ebiten.Image, r image.Rectangle, clr color.RGBA) {
	if r.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorM.Scale(float64(clr.R)/255.0, float64(clr.G)/255.0, float64(clr.B)/255.0, float64(clr.A)/255.0)
	dst.DrawImage(g.pixel, op)
}

func (g *Game) strokeRect(dst *ebiten.Image, r image.Rectangle, clr color.RGBA) {
	g.fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+2), clr)
	g.fillRect(dst, image.Rect(r.Min.X, r.Max.Y-2, r.Max.X, r.Max.Y), clr)
	g.fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+2, r.Max.Y), clr)
	g.fillRect(dst, image.Rect(r.Max.X-2, r.Min.Y, r.Max.X, r.Max.Y), clr)
}

//Layout keeps the camera viewport in sync with the window, the grid is not recentered
func (g *Game) Layout(outsideWidth int, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.cam.OnViewportResize(outsideWidth, outsideHeight)
		g.cam.SetPanelWidth(panelWidth(outsideWidth))
	}
	return outsideWidth, outsideHeight
}
