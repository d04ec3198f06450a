package gui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"lifepaint/src/universe"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{GridFile: "g.grid"}.withDefaults()
	if o.Width != DefWindowWidth || o.Height != DefWindowHeight || o.Percent != DefPercent || o.Title == "" {
		t.Fatalf("unexpected defaults %+v", o)
	}
	if o.GridFile != "g.grid" {
		t.Fatalf("grid file %q", o.GridFile)
	}
}

func TestPanelWidth(t *testing.T) {
	tests := []struct{ window, want int }{
		{1280, 160},
		{800, minPanelWidth},
		{100, 100},
	}
	for _, tt := range tests {
		if got := panelWidth(tt.window); got != tt.want {
			t.Fatalf("panelWidth(%d) = %d, want %d", tt.window, got, tt.want)
		}
	}
}

func TestPanelLines(t *testing.T) {
	st := universe.Status{IterationNum: 7, LiveCells: 12, RunningMode: universe.RunningStateRun, Rate: 5, Width: 10, Height: 8}
	got := strings.Join(panelLines(st, 1.4, 3, nil), "\n")
	for _, want := range []string{"Step:  7", "Live:  12", "Mode:  running", "Rate:  5 gen/s", "Size:  10 x 8", "Zoom:  1.4x", "Brush: 3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("panel has no %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Error") {
		t.Fatal("error shown without an error")
	}
	lines := panelLines(st, 1, 1, errors.New("open x.grid: no such file"))
	if lines[len(lines)-1] != "open x.grid: no such file" {
		t.Fatalf("last line %q", lines[len(lines)-1])
	}
}

func TestCooldown(t *testing.T) {
	var c cooldown
	now := time.Now()
	if c.active(now) {
		t.Fatal("zero cooldown is active")
	}
	c.start(now, fileCooldown)
	if !c.active(now.Add(fileCooldown / 2)) {
		t.Fatal("cooldown is not active")
	}
	if c.active(now.Add(fileCooldown)) {
		t.Fatal("cooldown is still active at the deadline")
	}
}
