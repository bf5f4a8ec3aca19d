package sim

import (
	"math"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	frame := NewFrame(Vec3{X: 1.5, Y: 0.2, Z: -3}, Vec3{X: 0.3, Y: -0.4, Z: -0.8})

	points := []Vec3{
		{},
		{X: 1, Y: 2, Z: 3},
		{X: -0.5, Y: 0.1, Z: 4.2},
	}
	for _, p := range points {
		back := frame.ToWorld(frame.ToLocal(p))
		if Dist(p, back) > 1e-9 {
			t.Errorf("world round trip: %v became %v", p, back)
		}
		backLocal := frame.ToLocal(frame.ToWorld(p))
		if Dist(p, backLocal) > 1e-9 {
			t.Errorf("local round trip: %v became %v", p, backLocal)
		}
	}
}

func TestFrameBasisIsOrthonormal(t *testing.T) {
	frame := NewFrame(Vec3{}, Vec3{X: 0.6, Y: -0.2, Z: -0.5})

	for _, axis := range []Vec3{frame.Right, frame.Up, frame.Forward} {
		if math.Abs(axis.Length()-1) > 1e-9 {
			t.Errorf("axis %v is not unit length", axis)
		}
	}
	if math.Abs(frame.Right.Dot(frame.Forward)) > 1e-9 ||
		math.Abs(frame.Right.Dot(frame.Up)) > 1e-9 ||
		math.Abs(frame.Up.Dot(frame.Forward)) > 1e-9 {
		t.Error("basis axes are not orthogonal")
	}
}

func TestFrameOrientsToHorizontalFacing(t *testing.T) {
	// A tilted camera forward flattens to the horizontal plane.
	frame := NewFrame(Vec3{}, Vec3{Y: -0.9, Z: -1})

	if math.Abs(frame.Forward.Y) > 1e-9 {
		t.Errorf("forward should be horizontal, got %v", frame.Forward)
	}
	if Dist(frame.Forward, Vec3{Z: -1}) > 1e-9 {
		t.Errorf("forward should keep the horizontal heading, got %v", frame.Forward)
	}
	if Dist(frame.Up, Vec3{Y: 1}) > 1e-9 {
		t.Errorf("up should stay world up, got %v", frame.Up)
	}

	// Local forward offsets land in the facing direction.
	got := frame.ToWorld(Vec3{Z: 2})
	if Dist(got, Vec3{Z: -2}) > 1e-9 {
		t.Errorf("local (0,0,2) should map to (0,0,-2), got %v", got)
	}
}

func TestFrameVerticalForwardFallsBack(t *testing.T) {
	origin := Vec3{X: 4, Y: 1, Z: 2}
	frame := NewFrame(origin, Vec3{Y: -1}) // looking straight down

	id := IdentityFrame()
	if frame.Right != id.Right || frame.Up != id.Up || frame.Forward != id.Forward {
		t.Errorf("vertical forward should fall back to identity orientation, got %+v", frame)
	}
	if frame.Origin != origin {
		t.Errorf("origin should be kept, got %v", frame.Origin)
	}
}

func TestFrameTranslation(t *testing.T) {
	origin := Vec3{X: 10, Y: -2, Z: 5}
	frame := NewFrame(origin, Vec3{Z: -1})

	if got := frame.ToLocal(origin); got.Length() > 1e-9 {
		t.Errorf("origin should map to local zero, got %v", got)
	}
	if got := frame.ToWorld(Vec3{}); Dist(got, origin) > 1e-9 {
		t.Errorf("local zero should map to origin, got %v", got)
	}
}

func TestVecHorizontal(t *testing.T) {
	if _, ok := (Vec3{Y: -1}).Horizontal(); ok {
		t.Error("vertical vector should have no horizontal direction")
	}
	flat, ok := (Vec3{X: 3, Y: -7, Z: 4}).Horizontal()
	if !ok {
		t.Fatal("expected a horizontal direction")
	}
	if flat.Y != 0 || math.Abs(flat.Length()-1) > 1e-9 {
		t.Errorf("expected flat unit vector, got %v", flat)
	}
}

func TestVecNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector should normalize to zero, got %v", got)
	}
}
