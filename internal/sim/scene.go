package sim

// Scene is the external surface/tracking collaborator. The core consumes it
// for anchor placement and for resolving projectile start/aim points; it
// never implements tracking itself. Screen coordinates are normalized to
// [0,1] with the origin at the top-left.
type Scene interface {
	// ProbeSurface hit-tests a screen point against detected real-world
	// geometry and returns the world-space hit point. ok is false when no
	// surface was found; callers fall back to a fixed default point.
	ProbeSurface(screenX, screenY float64) (point Vec3, ok bool)

	// CameraPose returns the current camera position and forward direction
	// in world space.
	CameraPose() (pos, forward Vec3)
}

// StaticScene is a headless stand-in for a real tracker: a flat floor plane
// at a fixed height and a fixed camera. It makes the simulation runnable
// and testable without any AR runtime behind it.
type StaticScene struct {
	CameraPos     Vec3
	CameraForward Vec3
	FloorY        float64
	// Tangent of the half field-of-view; scales how far screen offsets
	// tilt the probe ray.
	FOVScale float64
}

// NewStaticScene returns a scene with a camera 1.4 m above a floor at y=0,
// looking slightly downward along -Z.
func NewStaticScene() *StaticScene {
	return &StaticScene{
		CameraPos:     Vec3{Y: 1.4},
		CameraForward: Vec3{Y: -0.35, Z: -1}.Normalize(),
		FOVScale:      0.7,
	}
}

func (s *StaticScene) CameraPose() (Vec3, Vec3) {
	return s.CameraPos, s.CameraForward.Normalize()
}

// ProbeSurface casts a ray through the screen point and intersects it with
// the floor plane.
func (s *StaticScene) ProbeSurface(screenX, screenY float64) (Vec3, bool) {
	fwd := s.CameraForward.Normalize()
	up := Vec3{Y: 1}
	right := Vec3{
		X: fwd.Y*up.Z - fwd.Z*up.Y,
		Y: fwd.Z*up.X - fwd.X*up.Z,
		Z: fwd.X*up.Y - fwd.Y*up.X,
	}.Normalize()
	// Re-derive a camera-relative up so the ray basis is orthogonal even
	// with a tilted forward.
	camUp := Vec3{
		X: right.Y*fwd.Z - right.Z*fwd.Y,
		Y: right.Z*fwd.X - right.X*fwd.Z,
		Z: right.X*fwd.Y - right.Y*fwd.X,
	}

	dir := fwd.
		Add(right.Scale((screenX - 0.5) * 2 * s.FOVScale)).
		Add(camUp.Scale((0.5 - screenY) * 2 * s.FOVScale)).
		Normalize()

	if dir.Y >= -1e-9 {
		return Vec3{}, false // ray parallel to or away from the floor
	}
	t := (s.FloorY - s.CameraPos.Y) / dir.Y
	if t <= 0 {
		return Vec3{}, false
	}
	return s.CameraPos.Add(dir.Scale(t)), true
}
