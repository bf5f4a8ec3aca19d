// Package minimap renders a top-down debug view of the session in the
// anchor-local frame: center target, portal spawn points, live entities,
// and in-flight projectiles. It reads HUD snapshots only, never engine
// internals.
package minimap

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"skypop/internal/sim"
)

// Renderer draws HUD snapshots to an image. Not safe for concurrent use;
// the API layer serializes access.
type Renderer struct {
	width  int
	height int
	// Meters shown across the shorter image dimension.
	viewSpan float64
}

// NewRenderer creates a renderer with a 6 m view span.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height, viewSpan: 6.0}
}

// Render draws the snapshot top-down: local X maps right, local Z maps up
// (toward the captured facing direction).
func (r *Renderer) Render(snap *sim.HudSnapshot) image.Image {
	dc := gg.NewContext(r.width, r.height)

	// Background
	dc.SetHexColor("#101418")
	dc.Clear()

	r.drawGrid(dc)
	r.drawCenter(dc)

	for _, p := range snap.SpawnPoints {
		x, y := r.project(p.X, p.Z)
		dc.SetHexColor("#7a5cff")
		dc.DrawCircle(x, y, 7)
		dc.Stroke()
	}

	for _, e := range snap.Entities {
		x, y := r.project(e.X, e.Z)
		if e.Behavior == "approach" {
			dc.SetHexColor("#ff5c5c")
		} else {
			dc.SetHexColor("#ffd75c")
		}
		dc.DrawCircle(x, y, 6)
		dc.Fill()
	}

	for _, p := range snap.Projectiles {
		x, y := r.project(p.X, p.Z)
		dc.SetHexColor("#5cffb0")
		dc.DrawCircle(x, y, 3)
		dc.Fill()
	}

	r.drawHud(dc, snap)

	return dc.Image()
}

func (r *Renderer) drawGrid(dc *gg.Context) {
	dc.SetHexColor("#1d242b")
	dc.SetLineWidth(1)
	step := float64(minInt(r.width, r.height)) / r.viewSpan // one line per meter
	for x := 0.0; x < float64(r.width); x += step {
		dc.DrawLine(x, 0, x, float64(r.height))
		dc.Stroke()
	}
	for y := 0.0; y < float64(r.height); y += step {
		dc.DrawLine(0, y, float64(r.width), y)
		dc.Stroke()
	}
}

func (r *Renderer) drawCenter(dc *gg.Context) {
	cx, cy := float64(r.width)/2, float64(r.height)/2
	dc.SetHexColor("#3e9fff")
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, 10)
	dc.Stroke()
	dc.DrawLine(cx-14, cy, cx+14, cy)
	dc.Stroke()
	dc.DrawLine(cx, cy-14, cx, cy+14)
	dc.Stroke()
}

func (r *Renderer) drawHud(dc *gg.Context, snap *sim.HudSnapshot) {
	dc.SetHexColor("#e8e8e8")
	line := fmt.Sprintf("%s  score %d  kills %d  pop %d  %.1fs",
		snap.Phase, snap.Score, snap.Kills, snap.Pops, snap.Remaining)
	dc.DrawString(line, 8, 16)
}

// project maps anchor-local X/Z meters to pixel coordinates. +Z (the
// captured facing direction) points up the image.
func (r *Renderer) project(localX, localZ float64) (float64, float64) {
	scale := float64(minInt(r.width, r.height)) / r.viewSpan
	x := float64(r.width)/2 + localX*scale
	y := float64(r.height)/2 - localZ*scale
	return x, y
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
