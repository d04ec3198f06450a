package universe

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func loadArea(t *testing.T, u Universe, a Area) {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteArea(&buf, a); err != nil {
		t.Fatal(err)
	}
	if err := u.Load(&buf); err != nil {
		t.Fatal(err)
	}
}

//waitFor polls cond until it is true or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestInitialize(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 10, Height: 10, Seed: 42}, nil)
	tests := []struct {
		w, h, percent int
		want          int
	}{
		{10, 10, 37, 37},
		{3, 3, 100, 9},
		{7, 3, 50, 11},
		{20, 20, 0, 0},
		{4, 4, 150, 16},
		{4, 4, -5, 0},
	}
	for _, tt := range tests {
		if err := u.Initialize(tt.w, tt.h, tt.percent); err != nil {
			t.Fatalf("Initialize(%d, %d, %d): %v", tt.w, tt.h, tt.percent, err)
		}
		a := u.Area()
		if a.Width != tt.w || a.Height != tt.h {
			t.Fatalf("got %d x %d, want %d x %d", a.Width, a.Height, tt.w, tt.h)
		}
		if got := a.LiveCells(); got != tt.want {
			t.Fatalf("Initialize(%d, %d, %d): %d live cells, want %d", tt.w, tt.h, tt.percent, got, tt.want)
		}
		if got := u.Status().LiveCells; got != tt.want {
			t.Fatalf("status live cells %d, want %d", got, tt.want)
		}
	}
}

func TestInitializeInvalidDimensions(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 6, Height: 6, MaxCells: 100}, nil)
	u.SettleTemplate("none")
	u.Settle([][]int{{1, 1}, {2, 2}}, Alive)
	before := u.Area()
	for _, d := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {11, 10}} {
		if err := u.Initialize(d[0], d[1], 10); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Initialize(%v): got %v, want ErrInvalidDimensions", d, err)
		}
		if err := u.Resize(d[0], d[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Resize(%v): got %v, want ErrInvalidDimensions", d, err)
		}
	}
	if !u.Area().Equal(before) {
		t.Fatalf("area changed after failed calls")
	}
}

func TestSetCell(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 5, Height: 5}, nil)
	if err := u.SetCell(2, 3, Alive); err != nil {
		t.Fatal(err)
	}
	if u.Cell(2, 3) != Alive || u.Status().LiveCells != 1 {
		t.Fatalf("cell 2,3 is not alive")
	}
	for _, p := range [][2]int{{-1, 0}, {5, 0}, {0, 5}} {
		if err := u.SetCell(p[0], p[1], Alive); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("SetCell(%v): got %v, want ErrOutOfBounds", p, err)
		}
		if u.Cell(p[0], p[1]) != Dead {
			t.Fatalf("cell %v outside is alive", p)
		}
	}
	u.InverseCell(2, 3)
	if u.Cell(2, 3) != Dead || u.Status().LiveCells != 0 {
		t.Fatalf("InverseCell didn't kill the cell")
	}
	u.Settle([][]int{{0, 0}, {-3, 1}, {9, 9}, {4, 4}, {4}}, Alive)
	if got := u.Status().LiveCells; got != 2 {
		t.Fatalf("live cells %d after settle, want 2", got)
	}
}

func TestResizeRoundTrip(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 10, Height: 10, Seed: 5}, nil)
	if err := u.Initialize(10, 10, 60); err != nil {
		t.Fatal(err)
	}
	orig := u.Area()
	if err := u.Resize(3, 3); err != nil {
		t.Fatal(err)
	}
	if err := u.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	a := u.Area()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := Dead
			if x < 3 && y < 3 {
				want = orig.Entities[y][x]
			}
			if a.Entities[y][x] != want {
				t.Fatalf("cell %d,%d = %v, want %v", x, y, a.Entities[y][x], want)
			}
		}
	}
	if st := u.Status(); st.Width != 10 || st.Height != 10 {
		t.Fatalf("status size %d x %d", st.Width, st.Height)
	}
}

func TestLoadMalformedKeepsArea(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 8, Height: 6, Seed: 9, PercentAlive: 30}, nil)
	before := u.Area()
	err := u.Load(strings.NewReader("abc 5\n11111\n"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want ErrParse", err)
	}
	if !u.Area().Equal(before) {
		t.Fatalf("area changed after the failed load")
	}
	if w, h := u.Size(); w != 8 || h != 6 {
		t.Fatalf("size changed to %d x %d", w, h)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.txt")
	src := NewBaseUniverse(&Options{Width: 40, Height: 25, Seed: 2, PercentAlive: 25}, nil)
	if err := src.ExportFile(path); err != nil {
		t.Fatal(err)
	}
	dst := NewBaseUniverse(&Options{Width: 5, Height: 5}, nil)
	if err := dst.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if !dst.Area().Equal(src.Area()) {
		t.Fatalf("loaded area differs from exported")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("export left %d files in the directory", len(entries))
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	u := NewBaseUniverse(&Options{Width: 5, Height: 5}, nil)

	err := u.LoadFile(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("got %v, want ErrIO wrapping fs.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("x y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := u.LoadFile(bad); !errors.Is(err, ErrParse) || errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrParse", err)
	}

	target := filepath.Join(dir, "nodir", "grid.txt")
	if err := u.ExportFile(target); !errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
	if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("export failure left the file: %v", err)
	}
}

func TestRunStop(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 20, Height: 20, Rate: MaxRate, Seed: 1, PercentAlive: 30}, nil)
	u.Run()
	if !u.IsPlaying() {
		t.Fatalf("not playing after Run")
	}
	waitFor(t, "generations", func() bool { return u.Status().IterationNum > 3 })
	u.Stop()
	u.Close()
	if u.IsPlaying() {
		t.Fatalf("playing after Stop")
	}
	n := u.Status().IterationNum
	time.Sleep(20 * time.Millisecond)
	if got := u.Status().IterationNum; got != n {
		t.Fatalf("generations advanced after Close: %d -> %d", n, got)
	}
	if mode := u.Status().RunningMode; mode != RunningStateManual {
		t.Fatalf("running mode %v after Stop", mode)
	}
}

func TestStopIsPrompt(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 5, Height: 5, Rate: MinRate}, nil)
	u.Run()
	waitFor(t, "first generation", func() bool { return u.Status().IterationNum > 0 })
	start := time.Now()
	u.Close()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Close took %v waiting for the period", elapsed)
	}
}

func TestRate(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 30, Height: 30, Rate: 50}, nil)
	u.Run()
	u.Run()
	time.Sleep(300 * time.Millisecond)
	u.Close()
	//one loop at 50 generations/s makes about 15 generations
	if n := u.Status().IterationNum; n < 4 || n > 22 {
		t.Fatalf("%d generations in 300ms at 50/s", n)
	}
	u.SetRate(0)
	if r := u.Status().Rate; r != MinRate {
		t.Fatalf("rate %d, want clamped to %d", r, MinRate)
	}
}

func TestRunAgainAfterStop(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 10, Height: 10, Rate: MaxRate}, nil)
	for i := 0; i < 5; i++ {
		u.Run()
		u.Stop()
	}
	u.Toggle()
	if !u.IsPlaying() {
		t.Fatalf("Toggle didn't start the loop")
	}
	u.Toggle()
	if u.IsPlaying() {
		t.Fatalf("Toggle didn't stop the loop")
	}
	u.Close()
}

func TestMaxStepsFinishes(t *testing.T) {
	stateCh := make(chan Status, 100)
	u := NewBaseUniverse(&Options{Width: 10, Height: 10, Rate: MaxRate, MaxSteps: 5}, stateCh)
	u.Run()
	waitFor(t, "finish", func() bool { return !u.IsPlaying() })
	u.Close()
	st := u.Status()
	if st.IterationNum != 5 || st.RunningMode != RunningStateFinished {
		t.Fatalf("got iteration %d mode %v, want 5 finished", st.IterationNum, st.RunningMode)
	}
	finished := false
	for len(stateCh) > 0 {
		if (<-stateCh).RunningMode == RunningStateFinished {
			finished = true
		}
	}
	if !finished {
		t.Fatalf("finished status wasn't published")
	}
}

func TestStopOnStable(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 6, Height: 6, Rate: MaxRate, StopOnStable: true}, nil)
	u.Settle([][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, Alive)
	u.Run()
	waitFor(t, "finish", func() bool { return !u.IsPlaying() })
	u.Close()
	if st := u.Status(); st.IterationNum != 1 || st.RunningMode != RunningStateFinished {
		t.Fatalf("got iteration %d mode %v", st.IterationNum, st.RunningMode)
	}
}

func TestResizeWhilePlayingIsQueued(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 20, Height: 20, Rate: 100}, nil)
	u.Run()
	if err := u.Resize(7, 9); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "queued resize", func() bool {
		w, h := u.Size()
		return w == 7 && h == 9
	})
	u.Close()
	if st := u.Status(); st.Pending || st.Width != 7 || st.Height != 9 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestResizeAppliedOnStop(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 20, Height: 20, Rate: MinRate}, nil)
	u.Run()
	waitFor(t, "first generation", func() bool { return u.Status().IterationNum > 0 })
	if err := u.Resize(8, 8); err != nil {
		t.Fatal(err)
	}
	u.Close()
	if w, h := u.Size(); w != 8 || h != 8 {
		t.Fatalf("got %d x %d after stop, want 8 x 8", w, h)
	}
}

func TestConcurrentPaintAndRender(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			u := Engines[e](&Options{Width: 60, Height: 40, Rate: MaxRate, Seed: 4, PercentAlive: 30}, nil)
			u.Run()
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 300; i++ {
					u.Settle([][]int{{i % 60, i % 40}, {(i + 1) % 60, i % 40}}, Alive)
					if i%50 == 0 {
						_ = u.Resize(60-i/50, 40)
					}
				}
			}()
			go func() {
				defer wg.Done()
				var snapshot Area
				for i := 0; i < 300; i++ {
					u.SnapshotInto(&snapshot)
					for y, row := range snapshot.Entities {
						if len(row) != snapshot.Width {
							t.Errorf("torn snapshot: row %d has %d cells, width %d", y, len(row), snapshot.Width)
							return
						}
					}
				}
			}()
			wg.Wait()
			u.Close()
			a := u.Area()
			if got := u.Status().LiveCells; got != a.LiveCells() {
				t.Fatalf("live cells counter %d, area has %d", got, a.LiveCells())
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 30, Height: 30}, nil)
	for _, tmpl := range BuiltinTemplates {
		u.AddTemplate(tmpl)
	}
	if got := len(u.Templates()); got != len(BuiltinTemplates) {
		t.Fatalf("%d templates, want %d", got, len(BuiltinTemplates))
	}
	if u.SettleTemplate("missing") {
		t.Fatalf("settled the unknown template")
	}
	if !u.SettleTemplate("glider") {
		t.Fatalf("glider template not found")
	}
	if st := u.Status(); st.LiveCells != 5 {
		t.Fatalf("glider has %d live cells", st.LiveCells)
	}
	for i := 0; i < 4; i++ {
		u.Step()
	}
	//the glider moves by one cell diagonally each 4 generations
	want := [][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}
	for _, c := range want {
		if u.Cell(c[0], c[1]) != Alive {
			t.Fatalf("cell %v is not alive after 4 generations", c)
		}
	}
	if n := u.Status().LiveCells; n != 5 {
		t.Fatalf("%d live cells after 4 generations", n)
	}
}

func TestClear(t *testing.T) {
	u := NewBaseUniverse(&Options{Width: 9, Height: 7, PercentAlive: 50}, nil)
	u.Step()
	u.Clear()
	st := u.Status()
	if st.IterationNum != 0 || st.LiveCells != 0 || u.Area().LiveCells() != 0 {
		t.Fatalf("unexpected status after Clear %+v", st)
	}
	if w, h := u.Size(); w != 9 || h != 7 {
		t.Fatalf("Clear changed size to %d x %d", w, h)
	}
}
