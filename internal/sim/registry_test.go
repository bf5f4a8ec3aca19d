package sim

import "testing"

func TestSpawnAssignsUniqueIDs(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := reg.SpawnEntity(Entity{})
		if seen[id] {
			t.Fatalf("duplicate ID %v", id)
		}
		seen[id] = true
	}
	if reg.LiveEntities() != 100 {
		t.Errorf("expected 100 live entities, got %d", reg.LiveEntities())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	id := reg.SpawnEntity(Entity{})

	if !reg.RemoveEntity(id) {
		t.Fatal("first remove should succeed")
	}
	if reg.RemoveEntity(id) {
		t.Error("second remove should be a no-op")
	}
	if reg.LiveEntities() != 0 {
		t.Errorf("expected 0 live entities, got %d", reg.LiveEntities())
	}
}

func TestStaleIDNeverMatchesAgain(t *testing.T) {
	reg := NewRegistry()
	id := reg.SpawnEntity(Entity{Radius: 1})
	reg.RemoveEntity(id)

	// Slot reuse must not resurrect the old handle.
	id2 := reg.SpawnEntity(Entity{Radius: 2})
	if id2 == id {
		t.Fatal("slot reuse produced an identical ID")
	}
	if reg.Entity(id) != nil {
		t.Error("stale ID should resolve to nil")
	}
	if got := reg.Entity(id2); got == nil || got.Radius != 2 {
		t.Error("fresh ID should resolve to the new entity")
	}
}

func TestIterationFollowsSpawnOrder(t *testing.T) {
	reg := NewRegistry()
	var ids []ID
	for i := 0; i < 5; i++ {
		ids = append(ids, reg.SpawnEntity(Entity{SpawnTime: float64(i)}))
	}
	reg.RemoveEntity(ids[1])
	reg.RemoveEntity(ids[3])

	var visited []float64
	reg.ForEachEntity(func(e *Entity) bool {
		visited = append(visited, e.SpawnTime)
		return true
	})

	want := []float64{0, 2, 4}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestRemovalMidPassIsNotRevisited(t *testing.T) {
	reg := NewRegistry()
	a := reg.SpawnEntity(Entity{})
	b := reg.SpawnEntity(Entity{})
	c := reg.SpawnEntity(Entity{})

	var visited []ID
	reg.ForEachEntity(func(e *Entity) bool {
		visited = append(visited, e.ID)
		if e.ID == a {
			// Removing b mid-pass must keep it out of this same pass.
			reg.RemoveEntity(b)
		}
		return true
	})

	if len(visited) != 2 || visited[0] != a || visited[1] != c {
		t.Errorf("expected visits [a c], got %v", visited)
	}
}

func TestProjectileArenaIsIndependent(t *testing.T) {
	reg := NewRegistry()
	eid := reg.SpawnEntity(Entity{})
	pid := reg.SpawnProjectile(Projectile{Speed: 10})

	if reg.LiveEntities() != 1 || reg.LiveProjectiles() != 1 {
		t.Fatal("expected one of each")
	}

	// Entity and projectile ID spaces do not cross-resolve.
	if reg.Projectile(eid) != nil && eid != pid {
		t.Error("entity ID resolved in projectile arena")
	}

	reg.RemoveProjectile(pid)
	if reg.LiveProjectiles() != 0 {
		t.Error("projectile should be gone")
	}
	if reg.Entity(eid) == nil {
		t.Error("entity should be untouched")
	}
}

func TestResetDropsEverything(t *testing.T) {
	reg := NewRegistry()
	reg.SpawnEntity(Entity{})
	reg.SpawnProjectile(Projectile{})
	reg.Reset()

	if reg.LiveEntities() != 0 || reg.LiveProjectiles() != 0 {
		t.Error("reset should empty the registry")
	}

	count := 0
	reg.ForEachEntity(func(*Entity) bool { count++; return true })
	if count != 0 {
		t.Error("reset registry should iterate nothing")
	}
}
