package sim

import (
	"sync/atomic"
	"time"
)

// EntitySnapshot is an immutable copy of one entity for presentation.
// Positions are anchor-local so a HUD or minimap renders in a stable frame.
type EntitySnapshot struct {
	ID       ID      `json:"id"`
	Behavior string  `json:"behavior"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Yaw      float64 `json:"yaw"`
}

// ProjectileSnapshot is an immutable copy of one projectile, anchor-local.
type ProjectileSnapshot struct {
	ID ID      `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// HudSnapshot is a complete immutable view of the session for one tick.
// The presentation side reads these lock-free; the tick loop never waits
// on a consumer.
type HudSnapshot struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	RNGSeed   int64     `json:"rngSeed"`

	Phase     Phase   `json:"phase"`
	Mode      string  `json:"mode"`
	Score     int     `json:"score"`
	Kills     int     `json:"kills"`
	Pops      int     `json:"population"`
	Remaining float64 `json:"remaining"`
	Clock     float64 `json:"clock"`

	Entities    []EntitySnapshot     `json:"entities"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	SpawnPoints []Vec3               `json:"spawnPoints"`
}

// SnapshotPool triple-buffers HUD snapshots so the single producer (tick
// loop) and any number of consumers (HTTP, WebSocket, minimap) never share
// a buffer that is being written.
type SnapshotPool struct {
	snapshots [3]HudSnapshot
	writeIdx  uint32 // atomic
	readIdx   uint32 // atomic
	sequence  uint64 // atomic
}

// NewSnapshotPool pre-allocates the buffers to the given limits.
func NewSnapshotPool(limits Limits) *SnapshotPool {
	pool := &SnapshotPool{}
	for i := range pool.snapshots {
		pool.snapshots[i] = HudSnapshot{
			Entities:    make([]EntitySnapshot, 0, limits.MaxEntities),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with slices reset but capacity
// kept. Producer only.
func (p *SnapshotPool) AcquireWrite() *HudSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Entities = snap.Entities[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.SpawnPoints = nil

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite makes the just-written snapshot the one readers see.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot. Consumer side.
func (p *SnapshotPool) AcquireRead() *HudSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}
