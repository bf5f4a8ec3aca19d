package sim

import "math"

// Procedural motion. Positions are pure functions of elapsed time since
// spawn and parameters fixed at spawn. There is no incremental per-tick
// accumulation, so trajectories never drift under tick jitter and replaying
// the same timestamps reproduces the same positions exactly.

// DriftPosition returns the world position of a drifting entity at elapsed
// seconds since spawn.
func DriftPosition(spawn Vec3, m MotionParams, elapsed float64) Vec3 {
	return Vec3{
		X: spawn.X + m.Amp.X*math.Sin(m.Freq.X*elapsed+m.Phase.X),
		Y: spawn.Y + m.Amp.Y*math.Sin(m.Freq.Y*elapsed+m.Phase.Y),
		Z: spawn.Z + m.Amp.Z*math.Sin(m.Freq.Z*elapsed+m.Phase.Z),
	}
}

// ApproachPosition returns the world position of an approaching entity at
// elapsed seconds since spawn, interpolating linearly from spawn toward
// center at constant speed. Travel duration is distance/speed; past that
// the entity sits on the center.
func ApproachPosition(spawn, center Vec3, speed, elapsed float64) Vec3 {
	dist := Dist(spawn, center)
	if dist == 0 || speed <= 0 {
		return spawn
	}
	t := speed * elapsed / dist
	if t >= 1 {
		return center
	}
	return Lerp(spawn, center, t)
}

// SpinYaw returns the entity's yaw at elapsed seconds since spawn.
func SpinYaw(m MotionParams, elapsed float64) float64 {
	return math.Mod(m.SpinSpeed*elapsed, 2*math.Pi)
}

// ProjectilePosition returns a projectile's world position at elapsed
// seconds since fire.
func ProjectilePosition(p *Projectile, elapsed float64) Vec3 {
	return p.Start.Add(p.Dir.Scale(p.Speed * elapsed))
}

// advanceEntity recomputes an entity's pose for the given session time.
func advanceEntity(e *Entity, center Vec3, now float64) {
	elapsed := now - e.SpawnTime
	if elapsed < 0 {
		elapsed = 0
	}
	switch e.Behavior {
	case BehaviorApproach:
		e.Pos = ApproachPosition(e.SpawnPos, center, e.Motion.ApproachSpeed, elapsed)
	default:
		e.Pos = DriftPosition(e.SpawnPos, e.Motion, elapsed)
	}
	e.Yaw = SpinYaw(e.Motion, elapsed)
}

// advanceProjectile recomputes a projectile's position for the given
// session time.
func advanceProjectile(p *Projectile, now float64) {
	elapsed := now - p.SpawnTime
	if elapsed < 0 {
		elapsed = 0
	}
	p.Pos = ProjectilePosition(p, elapsed)
}
