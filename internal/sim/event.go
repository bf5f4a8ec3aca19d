package sim

import (
	"encoding/json"
	"time"
)

// EventType enumerates the closed set of discrete session events. The
// presentation layer branches on the tag, never on concrete simulation
// types.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // tick boundary with RNG seed, for replay
	EventTypePhase             // phase transition
	EventTypeSpawned
	EventTypeFired
	EventTypeHit
	EventTypeReached
	EventTypeMissed
)

// EventVersion guards replay compatibility across schema changes.
const EventVersion uint8 = 1

// Event is the wire/log form of one discrete session event.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // unix nano
	Sequence  uint64    `json:"sequence"`  // monotonic, assigned by the log
	Tick      uint64    `json:"tick"`
	Payload   []byte    `json:"payload"` // JSON-encoded typed payload
}

func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypePhase:
		return "phase"
	case EventTypeSpawned:
		return "spawned"
	case EventTypeFired:
		return "fired"
	case EventTypeHit:
		return "hit"
	case EventTypeReached:
		return "reached"
	case EventTypeMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// TickPayload carries the per-tick replay anchor.
type TickPayload struct {
	RNGSeed     int64   `json:"rngSeed"`
	EntityCount int     `json:"entityCount"`
	Clock       float64 `json:"clock"`
}

// PhasePayload records a phase transition.
type PhasePayload struct {
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// SpawnedPayload records a new entity.
type SpawnedPayload struct {
	EntityID ID      `json:"entityId"`
	Behavior string  `json:"behavior"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
}

// FiredPayload records a player shot.
type FiredPayload struct {
	ProjectileID ID      `json:"projectileId"`
	DirX         float64 `json:"dirX"`
	DirY         float64 `json:"dirY"`
	DirZ         float64 `json:"dirZ"`
}

// HitPayload records a projectile/entity collision.
type HitPayload struct {
	ProjectileID ID  `json:"projectileId"`
	EntityID     ID  `json:"entityId"`
	Score        int `json:"score"`
	Kills        int `json:"kills"`
}

// ReachedPayload records an approach entity arriving at the center.
// Distinct from a hit: no score is awarded.
type ReachedPayload struct {
	EntityID   ID  `json:"entityId"`
	Population int `json:"population"`
}

// MissedPayload records a projectile expiring without a hit.
type MissedPayload struct {
	ProjectileID ID `json:"projectileId"`
}

// EncodePayload marshals a payload to JSON bytes.
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates an event stamped with the current wall time.
func NewEvent(eventType EventType, tick uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Tick:      tick,
		Payload:   EncodePayload(payload),
	}
}
