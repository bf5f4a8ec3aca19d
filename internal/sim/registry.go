package sim

// arena is a generational slot allocator. Slots are reused, generations are
// not: every allocation bumps nothing, every removal bumps the slot's
// generation, so an ID is valid for exactly one occupancy.
//
// Iteration follows insertion order, which the collision tie-break relies on
// (first entity in registry order wins). Entries removed mid-pass fail the
// generation check and are skipped, so a removal is atomic with respect to
// the remainder of the pass.
type arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	order []ID
	live  int
}

type arenaSlot[T any] struct {
	gen   uint32
	alive bool
	val   T
}

func (a *arena[T]) alloc(v T) ID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot[T]{gen: 1})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.alive = true
	s.val = v
	id := ID{Slot: idx, Gen: s.gen}
	a.order = append(a.order, id)
	a.live++
	return id
}

// remove is idempotent: a stale or already-removed ID is a no-op.
func (a *arena[T]) remove(id ID) bool {
	if int(id.Slot) >= len(a.slots) {
		return false
	}
	s := &a.slots[id.Slot]
	if !s.alive || s.gen != id.Gen {
		return false
	}
	s.alive = false
	s.gen++ // retire this ID forever
	var zero T
	s.val = zero
	a.free = append(a.free, id.Slot)
	a.live--
	return true
}

func (a *arena[T]) get(id ID) *T {
	if int(id.Slot) >= len(a.slots) {
		return nil
	}
	s := &a.slots[id.Slot]
	if !s.alive || s.gen != id.Gen {
		return nil
	}
	return &s.val
}

// forEach visits live entries in insertion order. Returning false stops the
// walk. Dead order entries are compacted away as a side effect.
func (a *arena[T]) forEach(fn func(id ID, v *T) bool) {
	n := 0
	stopped := false
	for _, id := range a.order {
		s := &a.slots[id.Slot]
		if !s.alive || s.gen != id.Gen {
			continue // removed; drop from order
		}
		a.order[n] = id
		n++
		if !stopped && !fn(id, &s.val) {
			stopped = true
		}
	}
	a.order = a.order[:n]
}

func (a *arena[T]) reset() {
	a.slots = a.slots[:0]
	a.free = a.free[:0]
	a.order = a.order[:0]
	a.live = 0
}

// Registry owns the canonical set of live entities and projectiles for one
// session. It is not internally locked: the engine's tick loop is the only
// mutator, which is the "one logical mutation at a time" contract.
type Registry struct {
	entities    arena[Entity]
	projectiles arena[Projectile]
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SpawnEntity inserts an entity and stamps its ID.
func (r *Registry) SpawnEntity(e Entity) ID {
	id := r.entities.alloc(e)
	r.entities.get(id).ID = id
	return id
}

// RemoveEntity removes an entity. Removing an already-removed ID is a no-op.
func (r *Registry) RemoveEntity(id ID) bool {
	return r.entities.remove(id)
}

// Entity returns the live entity for id, or nil for stale/removed IDs.
func (r *Registry) Entity(id ID) *Entity {
	return r.entities.get(id)
}

// ForEachEntity visits live entities in spawn order.
func (r *Registry) ForEachEntity(fn func(e *Entity) bool) {
	r.entities.forEach(func(_ ID, e *Entity) bool { return fn(e) })
}

// LiveEntities returns the current live entity count.
func (r *Registry) LiveEntities() int {
	return r.entities.live
}

// SpawnProjectile inserts a projectile and stamps its ID.
func (r *Registry) SpawnProjectile(p Projectile) ID {
	id := r.projectiles.alloc(p)
	r.projectiles.get(id).ID = id
	return id
}

// RemoveProjectile removes a projectile, idempotently.
func (r *Registry) RemoveProjectile(id ID) bool {
	return r.projectiles.remove(id)
}

// Projectile returns the live projectile for id, or nil.
func (r *Registry) Projectile(id ID) *Projectile {
	return r.projectiles.get(id)
}

// ForEachProjectile visits live projectiles in fire order.
func (r *Registry) ForEachProjectile(fn func(p *Projectile) bool) {
	r.projectiles.forEach(func(_ ID, p *Projectile) bool { return fn(p) })
}

// LiveProjectiles returns the current live projectile count.
func (r *Registry) LiveProjectiles() int {
	return r.projectiles.live
}

// Reset drops everything. Used when a session is torn down.
func (r *Registry) Reset() {
	r.entities.reset()
	r.projectiles.reset()
}
