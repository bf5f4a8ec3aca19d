package sim

// Collision resolution. Every comparison happens in the session's
// anchor-local frame: both positions are converted through the same Frame
// before measuring, so a re-estimated world anchor can never put a
// projectile and an entity in different coordinate systems mid-check.

// hitPair records one resolved projectile/entity collision.
type hitPair struct {
	projectile ID
	entity     ID
}

// resolveHits runs the per-tick hit pass: every live projectile against
// every live entity, in registry order on both sides. A projectile resolves
// against the first entity found within threshold and stops checking, so
// one projectile kills at most one entity per tick. Both parties are
// removed immediately, which keeps a second projectile in the same tick
// from matching the already-dead entity.
func resolveHits(reg *Registry, frame Frame, threshold float64) []hitPair {
	var hits []hitPair
	thresholdSq := threshold * threshold

	reg.ForEachProjectile(func(p *Projectile) bool {
		pLocal := frame.ToLocal(p.Pos)
		var found ID
		reg.ForEachEntity(func(e *Entity) bool {
			if DistSq(pLocal, frame.ToLocal(e.Pos)) < thresholdSq {
				found = e.ID
				return false // first in registry order wins
			}
			return true
		})
		if found.Zero() {
			return true
		}
		reg.RemoveEntity(found)
		reg.RemoveProjectile(p.ID)
		hits = append(hits, hitPair{projectile: p.ID, entity: found})
		return true
	})

	return hits
}

// resolveReaches runs the per-tick reach pass: approach entities whose
// anchor-local distance to the session center has dropped to the reach
// radius are removed. A reach is a terminal condition distinct from a hit
// and awards no score.
func resolveReaches(reg *Registry, frame Frame, reachRadius float64) []ID {
	var reached []ID
	radiusSq := reachRadius * reachRadius

	reg.ForEachEntity(func(e *Entity) bool {
		if e.Behavior != BehaviorApproach {
			return true
		}
		if frame.ToLocal(e.Pos).LengthSq() <= radiusSq {
			reached = append(reached, e.ID)
		}
		return true
	})
	for _, id := range reached {
		reg.RemoveEntity(id)
	}
	return reached
}

// expireProjectiles removes projectiles whose lifetime has elapsed without
// a hit. The returned IDs feed the Missed event stream.
func expireProjectiles(reg *Registry, now float64) []ID {
	var expired []ID
	reg.ForEachProjectile(func(p *Projectile) bool {
		if p.Expired(now) {
			expired = append(expired, p.ID)
		}
		return true
	})
	for _, id := range expired {
		reg.RemoveProjectile(id)
	}
	return expired
}
