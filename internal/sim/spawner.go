package sim

import (
	"math"
	"math/rand"
)

// Spawner creates new entities on a fixed interval while the session is
// active. It never touches the registry itself; the engine's tick loop asks
// it for due spawns and applies them, keeping all mutation on one thread.
//
// Invalidation is synchronous: once invalidate is called no further spawn is
// produced, even if the interval has already elapsed. This is the guard
// against a timer firing into a torn-down session.
type Spawner struct {
	cfg Config
	rng *rand.Rand

	points []Vec3 // portal mode: fixed world-space spawn points
	frame  Frame

	nextAt float64
	active bool
}

func newSpawner(cfg Config, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// activate captures the session frame, lays out portals for the captured
// facing direction, and schedules the warm-up spawn.
func (s *Spawner) activate(frame Frame, now float64) {
	s.frame = frame
	s.active = true
	s.nextAt = now + s.cfg.SpawnWarmup
	s.points = portalLayout(frame, s.cfg)
}

// invalidate stops the spawner. Idempotent.
func (s *Spawner) invalidate() {
	s.active = false
}

// SpawnPoints exposes the portal layout for rendering. Nil in drift mode.
func (s *Spawner) SpawnPoints() []Vec3 {
	return s.points
}

// poll returns an entity template when a spawn is due at the given session
// time. The returned entity has no ID; the registry assigns one.
func (s *Spawner) poll(now float64) (Entity, bool) {
	if !s.active || now < s.nextAt {
		return Entity{}, false
	}
	s.nextAt += s.cfg.SpawnInterval

	if s.cfg.Mode == ModePortal {
		return s.portalSpawn(now), true
	}
	return s.driftSpawn(now), true
}

func (s *Spawner) portalSpawn(now float64) Entity {
	pos := s.points[s.rng.Intn(len(s.points))]
	return Entity{
		Behavior:  BehaviorApproach,
		SpawnPos:  pos,
		SpawnTime: now,
		Pos:       pos,
		Radius:    s.cfg.EntityRadius,
		Motion: MotionParams{
			SpinSpeed:     s.randRange(0.5, 2.0),
			ApproachSpeed: s.cfg.ApproachSpeed,
		},
	}
}

func (s *Spawner) driftSpawn(now float64) Entity {
	ext := s.cfg.SpawnExtent
	local := Vec3{
		X: s.randRange(-ext.X, ext.X),
		Y: s.cfg.SpawnHeight + s.randRange(0, ext.Y),
		Z: s.randRange(-ext.Z, ext.Z),
	}
	pos := s.frame.ToWorld(local)
	return Entity{
		Behavior:  BehaviorDrift,
		SpawnPos:  pos,
		SpawnTime: now,
		Pos:       pos,
		Radius:    s.cfg.EntityRadius,
		Motion: MotionParams{
			Amp: Vec3{
				X: s.randRange(0.05, 0.2),
				Y: s.randRange(0.05, 0.25),
				Z: s.randRange(0.05, 0.2),
			},
			Freq: Vec3{
				X: s.randRange(0.5, 1.5),
				Y: s.randRange(0.5, 1.5),
				Z: s.randRange(0.5, 1.5),
			},
			Phase: Vec3{
				X: s.randRange(0, 2*math.Pi),
				Y: s.randRange(0, 2*math.Pi),
				Z: s.randRange(0, 2*math.Pi),
			},
			SpinSpeed: s.randRange(-1.5, 1.5),
		},
	}
}

func (s *Spawner) randRange(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// portalLayout spreads the spawn points across a forward-facing arc on a
// ring around the anchor, so the portals sit where the player was looking
// at activation rather than at fixed world headings.
func portalLayout(frame Frame, cfg Config) []Vec3 {
	n := cfg.SpawnPointCount
	if n <= 0 {
		n = 1
	}
	const arc = 2 * math.Pi / 3 // 120 degree fan
	points := make([]Vec3, 0, n)
	for i := 0; i < n; i++ {
		angle := 0.0
		if n > 1 {
			angle = -arc/2 + arc*float64(i)/float64(n-1)
		}
		local := Vec3{
			X: cfg.SpawnRingRadius * math.Sin(angle),
			Y: cfg.SpawnHeight,
			Z: cfg.SpawnRingRadius * math.Cos(angle),
		}
		points = append(points, frame.ToWorld(local))
	}
	return points
}
