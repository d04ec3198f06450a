package universe

import (
	"testing"
	"time"
)

var (
	testTemplate = Template{"ts1", "", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}}}
)

const (
	width  = 200
	height = 200
)

func universeStep(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		u.SettleTemplate("ts1")
		b.StartTimer()
		u.Step()
	}
	u.Close()
}

func universeRun(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		u.SettleTemplate("ts1")
		b.StartTimer()
		u.Run()
		//wait for finish
		for u.IsPlaying() {
			time.Sleep(time.Millisecond)
		}
	}
	u.Close()
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Rate = MaxRate
	o.MaxSteps = 100
	o.Width = width
	o.Height = height
	o.Seed = 1
	return &o
}

func Benchmark_Step(b *testing.B) {
	for _, e := range EngineNames() {
		b.Run(e, func(b *testing.B) {
			u := Engines[e](newUniverseOptions(), nil)
			universeStep(u, b)
		})
	}
}

func Benchmark_Universe(b *testing.B) {
	for _, e := range EngineNames() {
		b.Run(e, func(b *testing.B) {
			u := Engines[e](newUniverseOptions(), nil)
			universeRun(u, b)
		})
	}
}

func Benchmark_Snapshot(b *testing.B) {
	u := NewBaseUniverse(newUniverseOptions(), nil)
	if err := u.Initialize(1000, 1000, 50); err != nil {
		b.Fatal(err)
	}
	var dst Area
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.SnapshotInto(&dst)
	}
}
