package sim

import "math"

// Vec3 is a position or direction in meters, right-handed, Y up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalize returns the unit vector, or the zero vector when the input
// has no magnitude (keeps fire-at-own-position from producing NaNs).
func (v Vec3) Normalize() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Horizontal zeroes the Y component and renormalizes. Returns false when
// the vector is (near) vertical and has no horizontal direction.
func (v Vec3) Horizontal() (Vec3, bool) {
	flat := Vec3{X: v.X, Z: v.Z}
	if flat.LengthSq() < 1e-9 {
		return Vec3{}, false
	}
	return flat.Normalize(), true
}

// Lerp interpolates from a to b by t in [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// DistSq returns the squared distance, used for threshold comparisons.
func DistSq(a, b Vec3) float64 {
	return a.Sub(b).LengthSq()
}
