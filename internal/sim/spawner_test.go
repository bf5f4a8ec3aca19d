package sim

import (
	"math"
	"math/rand"
	"testing"
)

func spawnerFor(cfg Config, seed int64) (*Spawner, Frame) {
	frame := NewFrame(Vec3{X: 2, Z: -1}, Vec3{Z: -1})
	s := newSpawner(cfg, rand.New(rand.NewSource(seed)))
	s.activate(frame, 0)
	return s, frame
}

func TestSpawnerHonorsWarmupAndInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnWarmup = 1.0
	cfg.SpawnInterval = 5.0
	s, _ := spawnerFor(cfg, 1)

	if _, ok := s.poll(0.9); ok {
		t.Error("spawn before warmup")
	}
	if _, ok := s.poll(1.0); !ok {
		t.Error("expected warmup spawn at t=1.0")
	}
	if _, ok := s.poll(5.9); ok {
		t.Error("spawn before the interval elapsed")
	}
	if _, ok := s.poll(6.0); !ok {
		t.Error("expected interval spawn at t=6.0")
	}
}

func TestSpawnerInvalidateIsImmediate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnWarmup = 0
	s, _ := spawnerFor(cfg, 1)

	// The spawn is already due, but invalidation wins.
	s.invalidate()
	if _, ok := s.poll(10); ok {
		t.Error("spawn after invalidate")
	}
	s.invalidate() // idempotent
	if _, ok := s.poll(100); ok {
		t.Error("spawn after repeated invalidate")
	}
}

func TestPortalSpawnsComeFromLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModePortal
	cfg.SpawnWarmup = 0
	cfg.SpawnInterval = 1
	s, _ := spawnerFor(cfg, 3)

	points := s.SpawnPoints()
	if len(points) != cfg.SpawnPointCount {
		t.Fatalf("expected %d spawn points, got %d", cfg.SpawnPointCount, len(points))
	}

	for i := 0; i < 20; i++ {
		ent, ok := s.poll(float64(i))
		if !ok {
			t.Fatalf("expected a spawn at t=%d", i)
		}
		if ent.Behavior != BehaviorApproach {
			t.Fatalf("portal spawn behavior %s, want approach", ent.Behavior)
		}
		if ent.Motion.ApproachSpeed != cfg.ApproachSpeed {
			t.Fatalf("approach speed %f, want %f", ent.Motion.ApproachSpeed, cfg.ApproachSpeed)
		}
		onPortal := false
		for _, p := range points {
			if Dist(ent.SpawnPos, p) < 1e-9 {
				onPortal = true
			}
		}
		if !onPortal {
			t.Fatalf("spawn %v is not on any portal", ent.SpawnPos)
		}
	}
}

func TestPortalLayoutGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnPointCount = 4
	cfg.SpawnRingRadius = 2.0
	cfg.SpawnHeight = 0.3

	frame := NewFrame(Vec3{X: 5, Y: 1, Z: 5}, Vec3{X: 1}) // facing +X
	points := portalLayout(frame, cfg)

	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	for _, p := range points {
		local := frame.ToLocal(p)
		ring := math.Hypot(local.X, local.Z)
		if math.Abs(ring-cfg.SpawnRingRadius) > 1e-9 {
			t.Errorf("point %v at ring distance %f, want %f", local, ring, cfg.SpawnRingRadius)
		}
		if math.Abs(local.Y-cfg.SpawnHeight) > 1e-9 {
			t.Errorf("point %v at height %f, want %f", local, local.Y, cfg.SpawnHeight)
		}
		// All portals sit inside the forward-facing 120 degree fan.
		angle := math.Atan2(local.X, local.Z)
		if math.Abs(angle) > math.Pi/3+1e-9 {
			t.Errorf("point %v at angle %f outside the fan", local, angle)
		}
	}

	// A single portal sits dead ahead.
	cfg.SpawnPointCount = 1
	single := portalLayout(frame, cfg)
	local := frame.ToLocal(single[0])
	if math.Abs(local.X) > 1e-9 || math.Abs(local.Z-cfg.SpawnRingRadius) > 1e-9 {
		t.Errorf("single portal at %v, want straight ahead", local)
	}
}

func TestDriftSpawnsStayInRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeDrift
	cfg.SpawnWarmup = 0
	cfg.SpawnInterval = 1
	s, frame := spawnerFor(cfg, 9)

	for i := 0; i < 50; i++ {
		ent, ok := s.poll(float64(i))
		if !ok {
			t.Fatalf("expected a spawn at t=%d", i)
		}
		if ent.Behavior != BehaviorDrift {
			t.Fatalf("drift spawn behavior %s, want drift", ent.Behavior)
		}
		local := frame.ToLocal(ent.SpawnPos)
		if math.Abs(local.X) > cfg.SpawnExtent.X+1e-9 ||
			math.Abs(local.Z) > cfg.SpawnExtent.Z+1e-9 {
			t.Errorf("spawn %v outside horizontal extent", local)
		}
		if local.Y < cfg.SpawnHeight-1e-9 || local.Y > cfg.SpawnHeight+cfg.SpawnExtent.Y+1e-9 {
			t.Errorf("spawn %v outside vertical band", local)
		}
		if ent.Motion.Amp.X <= 0 || ent.Motion.Freq.Y <= 0 {
			t.Error("drift motion parameters should be sampled positive")
		}
	}
}

func TestSpawnerDeterministicPerSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeDrift
	cfg.SpawnWarmup = 0
	cfg.SpawnInterval = 1

	a, _ := spawnerFor(cfg, 11)
	b, _ := spawnerFor(cfg, 11)
	for i := 0; i < 10; i++ {
		ea, _ := a.poll(float64(i))
		eb, _ := b.poll(float64(i))
		if ea.SpawnPos != eb.SpawnPos || ea.Motion != eb.Motion {
			t.Fatalf("spawn %d diverged for identical seeds", i)
		}
	}
}
