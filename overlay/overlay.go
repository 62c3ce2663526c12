// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package overlay draws a pacing diagnostics panel with gg.
//
// The panel shows whether pacing is enabled, the last frame's phase
// split, each stage's forecast and a bar graph of recent sleeps scaled
// to the refresh interval. It reads a [pacy.Internals] and never changes
// pacing.
//
//	face, _ := overlay.DefaultFace(14)
//	ov := overlay.New(face)
//	ov.Draw(dc, pacer.Internals())
package overlay

import (
	"fmt"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/pacy"
)

// Layout defaults, in pixels.
const (
	DefaultWidth = 340
	padding      = 8
	graphHeight  = 64
	barWidth     = 4
	barGap       = 1
)

var (
	panelColor    = gg.RGBA{R: 0.05, G: 0.05, B: 0.08, A: 0.78}
	textColor     = gg.RGBA{R: 0.92, G: 0.92, B: 0.92, A: 1}
	enabledColor  = gg.RGBA{R: 0.30, G: 0.85, B: 0.40, A: 1}
	disabledColor = gg.RGBA{R: 0.90, G: 0.35, B: 0.30, A: 1}
	intervalColor = gg.RGBA{R: 1, G: 1, B: 1, A: 0.35}
)

// DefaultFace returns a face of the Go Regular font at size.
func DefaultFace(size float64) (text.Face, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	return src.Face(size), nil
}

// Overlay renders the panel at a fixed position.
type Overlay struct {
	face  text.Face
	x, y  float64
	width float64
}

// New creates an overlay at the top-left corner. A nil face draws the
// graphics without text.
func New(face text.Face) *Overlay {
	return &Overlay{face: face, width: DefaultWidth}
}

// SetPosition moves the panel's top-left corner.
func (o *Overlay) SetPosition(x, y float64) { o.x, o.y = x, y }

func (o *Overlay) lineHeight() float64 {
	if o.face == nil {
		return 0
	}
	return o.face.Metrics().LineHeight()
}

func (o *Overlay) lines(in *pacy.Internals) []string {
	state := "off"
	if in.Enabled() {
		state = "on"
	}
	lines := []string{
		fmt.Sprintf("pacing %s  %.2f Hz (%v)", state, in.Frequency(), in.Interval()),
	}
	if ft, ok := in.Last(); ok {
		lines = append(lines,
			fmt.Sprintf("input %v  cpu %v", round(ft.Input), round(ft.Compute)),
			fmt.Sprintf("post %v  sleep %v", round(ft.PostFrame), round(ft.Sleep)))
	}
	for _, s := range in.Stages() {
		lines = append(lines, fmt.Sprintf("  %-10s %v", s.Name, round(s.Forecast)))
	}
	return lines
}

func round(d time.Duration) time.Duration { return d.Round(time.Microsecond) }

// Height returns the panel height for the current pacer state.
func (o *Overlay) Height(in *pacy.Internals) float64 {
	return o.textHeight(len(o.lines(in))) + graphHeight + 2*padding
}

func (o *Overlay) textHeight(n int) float64 {
	return float64(n) * o.lineHeight()
}

// graphOrigin returns the bottom-left corner of the sleep graph.
func (o *Overlay) graphOrigin(textLines int) (x, y float64) {
	return o.x + padding, o.y + padding + o.textHeight(textLines) + graphHeight
}

// barHeight scales a sleep to the graph; a full interval fills it.
func barHeight(sleep, interval time.Duration) float64 {
	if interval <= 0 || sleep <= 0 {
		return 0
	}
	return min(float64(sleep)/float64(interval), 1) * graphHeight
}

// Draw renders the panel onto dc.
func (o *Overlay) Draw(dc *gg.Context, in *pacy.Internals) {
	lines := o.lines(in)
	h := o.textHeight(len(lines)) + graphHeight + 2*padding

	setColor(dc, panelColor)
	dc.DrawRectangle(o.x, o.y, o.width, h)
	_ = dc.Fill()

	if o.face != nil {
		dc.SetFont(o.face)
		ascent := o.face.Metrics().Ascent
		for i, line := range lines {
			if i == 0 {
				setColor(dc, stateColor(in.Enabled()))
			} else {
				setColor(dc, textColor)
			}
			dc.DrawString(line, o.x+padding, o.y+padding+float64(i)*o.lineHeight()+ascent)
		}
	}

	gx, gy := o.graphOrigin(len(lines))
	maxBars := int((o.width - 2*padding) / (barWidth + barGap))
	sleeps := in.SleepHistory()
	if len(sleeps) > maxBars {
		sleeps = sleeps[len(sleeps)-maxBars:]
	}
	interval := in.Interval()
	setColor(dc, stateColor(in.Enabled()))
	for i, s := range sleeps {
		bh := barHeight(s, interval)
		if bh == 0 {
			continue
		}
		dc.DrawRectangle(gx+float64(i*(barWidth+barGap)), gy-bh, barWidth, bh)
	}
	_ = dc.Fill()

	// Full-interval line.
	setColor(dc, intervalColor)
	dc.DrawRectangle(gx, gy-graphHeight, o.width-2*padding, 1)
	_ = dc.Fill()
}

func setColor(dc *gg.Context, c gg.RGBA) { dc.SetRGBA(c.R, c.G, c.B, c.A) }

func stateColor(enabled bool) gg.RGBA {
	if enabled {
		return enabledColor
	}
	return disabledColor
}
