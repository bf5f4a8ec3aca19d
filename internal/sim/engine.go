package sim

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// Engine drives the session: the phase state machine, the fixed-rate tick
// loop, spawning, motion, collision, and scoring. One goroutine owns all
// mutation; the public command methods only enqueue intents that the next
// tick applies, so there is exactly one logical mutation at a time even
// though commands arrive from HTTP and WebSocket handlers.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	scene Scene

	phase   Phase
	frame   Frame
	reg     *Registry
	spawner *Spawner
	score   ScoreKeeper

	clock     float64 // session seconds since activation
	tickCount uint64

	pending []command

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	// Deterministic RNG: motion parameters and spawn selection draw from
	// here only, so a seed plus a command/tick sequence replays exactly.
	rng     *rand.Rand
	rngSeed int64

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	subMu sync.Mutex
	subs  []chan Event

	onTick func(time.Duration) // optional metrics hook
}

type commandKind uint8

const (
	cmdSelectAnchor commandKind = iota
	cmdFire
	cmdStop
	cmdReset
)

type command struct {
	kind    commandKind
	screenX float64
	screenY float64
}

// NewEngine creates an engine in the Idle phase. A zero cfg.Seed derives
// the seed from the wall clock.
func NewEngine(cfg Config, scene Scene) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		cfg:          cfg,
		scene:        scene,
		phase:        PhaseIdle,
		frame:        IdentityFrame(),
		reg:          NewRegistry(),
		spawner:      newSpawner(cfg, rng),
		rng:          rng,
		rngSeed:      seed,
		stopChan:     make(chan struct{}),
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(),
	}
}

// Start begins the tick loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	dt := 1.0 / float64(e.cfg.TickRate)
	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.Step(dt)
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("sim: engine started at %d TPS (%s mode)", e.cfg.TickRate, e.cfg.Mode)
}

// Stop halts the tick loop. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("sim: engine stopped")
}

// Activate enters the Placing phase from Idle (the view appeared). A call
// in any other phase is a no-op.
func (e *Engine) Activate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return
	}
	e.setPhase(PhasePlacing)
}

// SelectAnchor queues a placement probe for the given screen point.
// Applied on the next tick; only effective during Placing.
func (e *Engine) SelectAnchor(screenX, screenY float64) {
	e.enqueue(command{kind: cmdSelectAnchor, screenX: screenX, screenY: screenY})
}

// Fire queues a shot from the player's current view. Only effective during
// Active.
func (e *Engine) Fire() {
	e.enqueue(command{kind: cmdFire})
}

// EndSession queues an explicit stop of the active session.
func (e *Engine) EndSession() {
	e.enqueue(command{kind: cmdStop})
}

// ResetSession queues a reset: from Ended, a fresh session re-enters
// Placing.
func (e *Engine) ResetSession() {
	e.enqueue(command{kind: cmdReset})
}

func (e *Engine) enqueue(c command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, c)
}

// Step advances the simulation by dt seconds. Exported so tests can drive
// time explicitly; the ticker goroutine calls it with a fixed dt.
//
// Per-tick order is fixed: commands, spawn, motion, collision, countdown.
// Motion runs before collision so every hit test sees just-updated
// positions.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.tickCount++

	// Apply queued intents in arrival order.
	cmds := e.pending
	e.pending = e.pending[:0]
	for _, c := range cmds {
		e.apply(c)
	}

	if e.phase == PhaseActive {
		e.clock += dt

		e.emit(EventTypeTick, TickPayload{
			RNGSeed:     e.rngSeed,
			EntityCount: e.reg.LiveEntities(),
			Clock:       e.clock,
		})
		// Advance the recorded seed deterministically for replay.
		e.rngSeed = e.rng.Int63()
		e.rng.Seed(e.rngSeed)

		e.runSpawns()
		e.runMotion()
		e.runCollisions()

		if e.score.countdown(dt) {
			e.endActiveSession()
		}
	}

	e.produceSnapshot()

	if e.onTick != nil {
		e.onTick(time.Since(start))
	}
}

func (e *Engine) apply(c command) {
	switch c.kind {
	case cmdSelectAnchor:
		e.applySelectAnchor(c.screenX, c.screenY)
	case cmdFire:
		e.applyFire()
	case cmdStop:
		if e.phase == PhaseActive {
			e.endActiveSession()
		}
	case cmdReset:
		e.applyReset()
	}
}

// applySelectAnchor resolves a placement probe. On success the anchor frame
// is captured, oriented by the camera's horizontal facing, and the session
// goes Active: scheduler started, countdown started, score reset.
func (e *Engine) applySelectAnchor(screenX, screenY float64) {
	if e.phase != PhasePlacing {
		return // redundant transition trigger, ignore
	}

	camPos, camFwd := e.scene.CameraPose()
	anchor, ok := e.scene.ProbeSurface(screenX, screenY)
	if !ok {
		// No surface found: fall back to a fixed point in front of the
		// camera rather than failing the placement.
		anchor = camPos.Add(camFwd.Scale(e.cfg.FireFallbackRange))
	}

	e.frame = NewFrame(anchor, camFwd)
	e.clock = 0
	e.reg.Reset()
	e.score.reset(e.cfg.CountdownSeconds)
	e.spawner.activate(e.frame, e.clock)
	e.setPhase(PhaseActive)
}

// applyFire resolves the shot's start and aim points against the current
// view and spawns a projectile on the line between them.
func (e *Engine) applyFire() {
	if e.phase != PhaseActive {
		return
	}
	if e.reg.LiveProjectiles() >= e.cfg.Limits.MaxProjectiles {
		return // cap reached; the shot simply doesn't register
	}

	camPos, camFwd := e.scene.CameraPose()
	aim, ok := e.scene.ProbeSurface(0.5, 0.5)
	if !ok {
		aim = camPos.Add(camFwd.Scale(e.cfg.FireFallbackRange))
	}

	start := camPos.Add(camFwd.Scale(e.cfg.FireStartOffset))
	dir := aim.Sub(start).Normalize()
	if dir == (Vec3{}) {
		dir = camFwd
	}

	id := e.reg.SpawnProjectile(Projectile{
		Start:     start,
		Dir:       dir,
		Speed:     e.cfg.ProjectileSpeed,
		SpawnTime: e.clock,
		MaxLife:   e.cfg.ProjectileLife,
		Pos:       start,
		Radius:    e.cfg.ProjectileRadius,
	})
	e.emit(EventTypeFired, FiredPayload{
		ProjectileID: id,
		DirX:         dir.X,
		DirY:         dir.Y,
		DirZ:         dir.Z,
	})
}

func (e *Engine) applyReset() {
	if e.phase != PhaseEnded {
		return
	}
	e.reg.Reset()
	e.score = ScoreKeeper{}
	e.clock = 0
	e.frame = IdentityFrame()
	e.setPhase(PhasePlacing)
}

func (e *Engine) runSpawns() {
	for {
		ent, ok := e.spawner.poll(e.clock)
		if !ok {
			break
		}
		if e.reg.LiveEntities() >= e.cfg.Limits.MaxEntities {
			continue // cap reached; try again next interval
		}
		id := e.reg.SpawnEntity(ent)
		e.score.recordSpawn()
		e.emit(EventTypeSpawned, SpawnedPayload{
			EntityID: id,
			Behavior: ent.Behavior.String(),
			X:        ent.SpawnPos.X,
			Y:        ent.SpawnPos.Y,
			Z:        ent.SpawnPos.Z,
		})
	}
}

func (e *Engine) runMotion() {
	center := e.frame.Origin
	e.reg.ForEachEntity(func(ent *Entity) bool {
		advanceEntity(ent, center, e.clock)
		return true
	})
	e.reg.ForEachProjectile(func(p *Projectile) bool {
		advanceProjectile(p, e.clock)
		return true
	})
}

func (e *Engine) runCollisions() {
	for _, hit := range resolveHits(e.reg, e.frame, e.cfg.HitThreshold()) {
		e.score.recordKill(e.cfg.PointsPerKill)
		e.emit(EventTypeHit, HitPayload{
			ProjectileID: hit.projectile,
			EntityID:     hit.entity,
			Score:        e.score.Score,
			Kills:        e.score.Kills,
		})
	}

	for _, id := range resolveReaches(e.reg, e.frame, e.cfg.ReachRadius) {
		e.score.recordReach()
		e.emit(EventTypeReached, ReachedPayload{
			EntityID:   id,
			Population: e.score.Population,
		})
	}

	for _, id := range expireProjectiles(e.reg, e.clock) {
		e.emit(EventTypeMissed, MissedPayload{ProjectileID: id})
	}
}

// endActiveSession performs the Active -> Ended transition: the spawner is
// invalidated synchronously so no spawn can land after this point. Entity
// and projectile state is left as-is.
func (e *Engine) endActiveSession() {
	if e.phase != PhaseEnded {
		e.spawner.invalidate()
		e.setPhase(PhaseEnded)
	}
}

func (e *Engine) setPhase(to Phase) {
	from := e.phase
	e.phase = to
	e.emit(EventTypePhase, PhasePayload{From: from, To: to})
	log.Printf("sim: phase %s -> %s", from, to)
}

// emit records the event and fans it out to subscribers without blocking:
// a slow consumer drops events, it never stalls the tick.
func (e *Engine) emit(eventType EventType, payload interface{}) {
	ev := NewEvent(eventType, e.tickCount, payload)
	e.eventLog.Emit(ev)

	e.subMu.Lock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	e.subMu.Unlock()
}

// Subscribe returns a channel of session events for the presentation side.
// The channel is buffered; events overflowing the buffer are dropped.
func (e *Engine) Subscribe() <-chan Event {
	ch := make(chan Event, 256)
	e.subMu.Lock()
	e.subs = append(e.subs, ch)
	e.subMu.Unlock()
	return ch
}

func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.Tick = e.tickCount
	snap.RNGSeed = e.rngSeed
	snap.Phase = e.phase
	snap.Mode = e.cfg.Mode.String()
	snap.Score = e.score.Score
	snap.Kills = e.score.Kills
	snap.Pops = e.score.Population
	snap.Remaining = e.score.Remaining
	snap.Clock = e.clock

	e.reg.ForEachEntity(func(ent *Entity) bool {
		if len(snap.Entities) >= e.cfg.Limits.MaxEntities {
			return false
		}
		local := e.frame.ToLocal(ent.Pos)
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:       ent.ID,
			Behavior: ent.Behavior.String(),
			X:        local.X,
			Y:        local.Y,
			Z:        local.Z,
			Yaw:      ent.Yaw,
		})
		return true
	})

	e.reg.ForEachProjectile(func(p *Projectile) bool {
		if len(snap.Projectiles) >= e.cfg.Limits.MaxProjectiles {
			return false
		}
		local := e.frame.ToLocal(p.Pos)
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID: p.ID,
			X:  local.X,
			Y:  local.Y,
			Z:  local.Z,
		})
		return true
	})

	if points := e.spawner.SpawnPoints(); len(points) > 0 {
		locals := make([]Vec3, len(points))
		for i, p := range points {
			locals[i] = e.frame.ToLocal(p)
		}
		snap.SpawnPoints = locals
	}

	e.snapshotPool.PublishWrite()
}

// Snapshot returns the latest published HUD snapshot, lock-free.
func (e *Engine) Snapshot() *HudSnapshot {
	return e.snapshotPool.AcquireRead()
}

// Phase returns the current session phase.
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Frame returns the session's anchor frame (identity before placement).
func (e *Engine) Frame() Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frame
}

// Config returns the engine's fixed configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetTickHook installs a per-tick duration callback for metrics. Call
// before Start.
func (e *Engine) SetTickHook(fn func(time.Duration)) {
	e.onTick = fn
}

// StartEventLog begins persisting the session event stream.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and closes the event log.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log counters for monitoring.
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
