package minimap

import (
	"image"
	"testing"

	"skypop/internal/sim"
)

func testSnapshot() *sim.HudSnapshot {
	return &sim.HudSnapshot{
		Phase:     sim.PhaseActive,
		Mode:      "portal",
		Score:     20,
		Kills:     2,
		Remaining: 31.2,
		Entities: []sim.EntitySnapshot{
			{Behavior: "approach", X: 0.5, Z: 1.5},
			{Behavior: "drift", X: -1.0, Y: 0.5, Z: 0.2},
		},
		Projectiles: []sim.ProjectileSnapshot{
			{X: 0.1, Z: 0.8},
		},
		SpawnPoints: []sim.Vec3{
			{X: -1.4, Z: 1.4},
			{X: 1.4, Z: 1.4},
		},
	}
}

func TestRenderProducesImage(t *testing.T) {
	r := NewRenderer(480, 320)
	img := r.Render(testSnapshot())

	bounds := img.Bounds()
	if bounds.Dx() != 480 || bounds.Dy() != 320 {
		t.Fatalf("image %dx%d, want 480x320", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	r := NewRenderer(64, 64)
	img := r.Render(&sim.HudSnapshot{Phase: sim.PhaseIdle})
	if img == nil {
		t.Fatal("nil image for empty snapshot")
	}
}

func TestRenderMarksEntities(t *testing.T) {
	r := NewRenderer(200, 200)
	blank := r.Render(&sim.HudSnapshot{})
	busy := r.Render(testSnapshot())

	if countDiff(blank, busy) == 0 {
		t.Error("entities and projectiles should change the rendered pixels")
	}
}

func TestProjectOrientation(t *testing.T) {
	r := NewRenderer(100, 100)

	cx, cy := r.project(0, 0)
	if cx != 50 || cy != 50 {
		t.Errorf("origin projected to (%f,%f), want center", cx, cy)
	}

	// +X right, +Z (facing direction) up the image.
	x, y := r.project(1, 1)
	if x <= cx || y >= cy {
		t.Errorf("local (1,1) projected to (%f,%f), want right of and above center", x, y)
	}
}

func countDiff(a, b image.Image) int {
	bounds := a.Bounds()
	diff := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				diff++
			}
		}
	}
	return diff
}
