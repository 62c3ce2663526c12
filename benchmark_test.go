package pacy

import (
	"testing"
	"time"
)

type nopSleeper struct{}

func (nopSleeper) Sleep(time.Duration) {}

func BenchmarkWaitForFrame(b *testing.B) {
	p, err := New(144, WithSleeper(nopSleeper{}))
	if err != nil {
		b.Fatal(err)
	}
	stages := []StageHandle{p.RegisterStage(), p.RegisterStage(), p.RegisterStage()}
	now := p.Now()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j, h := range stages {
			_ = p.BeginStage(h, now)
			now = now.Add(time.Duration(j+1) * time.Millisecond)
			_ = p.EndStage(h, now)
		}
		p.WaitForFrame()
	}
}

func BenchmarkForecast(b *testing.B) {
	tr := NewStageTracker[Ticks](256, DefaultForecastWindow)
	h := tr.Register()
	var at Ticks
	for i := range 256 {
		_ = tr.Begin(h, at)
		at += Ticks(i * 1000)
		_, _ = tr.End(h, at)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tr.Forecast(h)
	}
}

func BenchmarkUntil(b *testing.B) {
	p, err := NewRefreshPredictor(60, time.Now())
	if err != nil {
		b.Fatal(err)
	}
	now := time.Now()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Until(8*time.Millisecond, now.Add(time.Duration(i)))
	}
}
