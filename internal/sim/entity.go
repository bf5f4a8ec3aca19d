package sim

import "fmt"

// ID is a generation-tagged handle into the registry. The generation makes
// removal safe: a stale handle kept after removal can never match the slot's
// next occupant, so collision checks never resolve against freed state.
type ID struct {
	Slot uint32 `json:"slot"`
	Gen  uint32 `json:"gen"`
}

// Zero reports whether the ID is the unassigned zero value.
func (id ID) Zero() bool {
	return id == ID{}
}

func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.Slot, id.Gen)
}

// Behavior selects how an entity moves after spawn.
type Behavior uint8

const (
	// BehaviorDrift floats in place on a per-entity sinusoidal path
	// (balloon variant).
	BehaviorDrift Behavior = iota
	// BehaviorApproach advances in a straight line from the spawn point
	// toward the session center at constant speed (tower-defense variant).
	BehaviorApproach
)

func (b Behavior) String() string {
	switch b {
	case BehaviorDrift:
		return "drift"
	case BehaviorApproach:
		return "approach"
	default:
		return "unknown"
	}
}

// MotionParams are sampled once at spawn and never change afterwards.
// Together with the spawn position and spawn time they fully determine the
// entity's trajectory, which is what makes runs replayable.
type MotionParams struct {
	Amp   Vec3 // drift amplitude per axis, meters
	Freq  Vec3 // drift angular speed per axis, rad/s
	Phase Vec3 // drift phase offset per axis, rad

	SpinSpeed     float64 // yaw rotation, rad/s
	ApproachSpeed float64 // m/s toward center, approach behavior only
}

// Entity is a live spawned object (balloon or raider). Position is in world
// space; the collision pass converts to the anchor-local frame before
// comparing anything.
type Entity struct {
	ID        ID
	Behavior  Behavior
	SpawnPos  Vec3    // world space, fixed at spawn
	SpawnTime float64 // session seconds at spawn
	Pos       Vec3    // world space, recomputed every tick
	Yaw       float64 // radians, recomputed every tick
	Radius    float64
	Motion    MotionParams
}

// Projectile is a transient straight-line shot. It advances at constant
// speed from Start along Dir and dies on hit or when MaxLife elapses.
type Projectile struct {
	ID        ID
	Start     Vec3    // world space
	Dir       Vec3    // unit vector, world space
	Speed     float64 // m/s
	SpawnTime float64 // session seconds at fire
	MaxLife   float64 // seconds
	Pos       Vec3    // world space, recomputed every tick
	Radius    float64
}

// Expired reports whether the projectile's lifetime has elapsed at the
// given session time.
func (p *Projectile) Expired(now float64) bool {
	return now-p.SpawnTime >= p.MaxLife
}
