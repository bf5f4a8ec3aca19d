package sim

// Mode selects the mini-game variant the engine runs.
type Mode uint8

const (
	// ModePortal spawns approach entities from a fixed ring of portals
	// laid out around the player's facing direction (tower defense).
	ModePortal Mode = iota
	// ModeDrift spawns floating entities at random offsets inside a
	// bounded region around the anchor (balloon pop).
	ModeDrift
)

func (m Mode) String() string {
	switch m {
	case ModePortal:
		return "portal"
	case ModeDrift:
		return "drift"
	default:
		return "unknown"
	}
}

// ParseMode maps a config string to a Mode, defaulting to portal.
func ParseMode(s string) Mode {
	if s == "drift" {
		return ModeDrift
	}
	return ModePortal
}

// Limits are hard caps on live simulation objects. Overflowing requests are
// silently dropped; the spawner just tries again on its next interval.
type Limits struct {
	MaxEntities    int
	MaxProjectiles int
}

// DefaultLimits provides production-safe caps.
var DefaultLimits = Limits{
	MaxEntities:    64,
	MaxProjectiles: 32,
}

// Config fixes every tunable of a session up front. Distances are meters,
// durations seconds.
type Config struct {
	TickRate int   // simulation ticks per second
	Mode     Mode  // portal or drift variant
	Seed     int64 // RNG seed; 0 means derive from wall clock

	CountdownSeconds float64 // session length once active

	SpawnInterval float64 // seconds between spawns
	SpawnWarmup   float64 // delay before the first spawn

	// Portal layout: SpawnPointCount portals on a ring of SpawnRingRadius
	// around the anchor, centered on the captured facing direction, at
	// SpawnHeight above the anchor plane.
	SpawnPointCount int
	SpawnRingRadius float64
	SpawnHeight     float64

	// Drift region: half-extents of the cuboid sampled around the anchor.
	SpawnExtent Vec3

	ApproachSpeed float64 // m/s toward center, portal mode

	ProjectileSpeed  float64
	ProjectileLife   float64
	ProjectileRadius float64
	EntityRadius     float64
	HitMargin        float64 // extra slack added to the radius sum
	ReachRadius      float64 // center distance that counts as a reach

	FireStartOffset   float64 // projectile start, meters in front of camera
	FireFallbackRange float64 // aim fallback when no surface is hit

	PointsPerKill int

	Limits Limits
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		TickRate:         30,
		Mode:             ModePortal,
		CountdownSeconds: 60,

		SpawnInterval: 5.0,
		SpawnWarmup:   1.0,

		SpawnPointCount: 4,
		SpawnRingRadius: 2.0,
		SpawnHeight:     0.3,

		SpawnExtent: Vec3{X: 1.5, Y: 0.8, Z: 1.5},

		ApproachSpeed: 0.15,

		ProjectileSpeed:  10.0,
		ProjectileLife:   1.2,
		ProjectileRadius: 0.1,
		EntityRadius:     0.2,
		HitMargin:        0.1,
		ReachRadius:      0.01,

		FireStartOffset:   0.3,
		FireFallbackRange: 4.0,

		PointsPerKill: 10,

		Limits: DefaultLimits,
	}
}

// HitThreshold is the center distance below which a projectile and an
// entity collide: the sum of their nominal radii plus a fixed margin.
func (c Config) HitThreshold() float64 {
	return c.ProjectileRadius + c.EntityRadius + c.HitMargin
}
