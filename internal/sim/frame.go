package sim

// Frame is the session-local reference frame captured once when a session
// becomes active. All collision and motion math runs in this frame so it
// stays consistent even if the external tracker re-estimates the anchor
// mid-session.
//
// The frame is a rigid transform built from the anchor's world position and
// the player's horizontal facing direction at activation: Forward is the
// camera forward with Y zeroed and renormalized, Up is world up, Right
// completes the right-handed basis. Spawn-point layout is therefore oriented
// relative to where the player was looking, not world north.
type Frame struct {
	Origin  Vec3
	Right   Vec3
	Up      Vec3
	Forward Vec3
}

// IdentityFrame is the trivial frame used before an anchor is placed.
func IdentityFrame() Frame {
	return Frame{
		Right:   Vec3{X: 1},
		Up:      Vec3{Y: 1},
		Forward: Vec3{Z: -1},
	}
}

// NewFrame captures a frame at the given anchor origin, oriented by the
// camera's forward direction. A vertical camera forward falls back to the
// identity orientation so the frame is always well formed.
func NewFrame(origin, cameraForward Vec3) Frame {
	fwd, ok := cameraForward.Horizontal()
	if !ok {
		f := IdentityFrame()
		f.Origin = origin
		return f
	}
	up := Vec3{Y: 1}
	// Right-handed: right = forward x up (Y-up convention).
	right := Vec3{
		X: fwd.Y*up.Z - fwd.Z*up.Y,
		Y: fwd.Z*up.X - fwd.X*up.Z,
		Z: fwd.X*up.Y - fwd.Y*up.X,
	}.Normalize()
	return Frame{Origin: origin, Right: right, Up: up, Forward: fwd}
}

// ToLocal converts a world-space position into the anchor-local frame.
func (f Frame) ToLocal(world Vec3) Vec3 {
	d := world.Sub(f.Origin)
	return Vec3{
		X: d.Dot(f.Right),
		Y: d.Dot(f.Up),
		Z: d.Dot(f.Forward),
	}
}

// ToWorld converts an anchor-local position back into world space.
func (f Frame) ToWorld(local Vec3) Vec3 {
	return f.Origin.
		Add(f.Right.Scale(local.X)).
		Add(f.Up.Scale(local.Y)).
		Add(f.Forward.Scale(local.Z))
}
