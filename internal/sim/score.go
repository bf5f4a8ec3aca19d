package sim

// ScoreKeeper tracks score, kill and population counters, and the session
// countdown. Only the tick loop mutates it.
type ScoreKeeper struct {
	Score      int
	Kills      int
	Population int     // current live entity count: spawned - (hits + reaches)
	Spawned    int     // total entities spawned this session
	Remaining  float64 // countdown seconds left

	expired bool
}

// reset prepares the keeper for a fresh active session.
func (s *ScoreKeeper) reset(countdown float64) {
	*s = ScoreKeeper{Remaining: countdown}
}

func (s *ScoreKeeper) recordSpawn() {
	s.Spawned++
	s.Population++
}

func (s *ScoreKeeper) recordKill(points int) {
	s.Score += points
	s.Kills++
	s.Population--
}

func (s *ScoreKeeper) recordReach() {
	s.Population--
}

// countdown advances the clock and reports whether the zero crossing
// happened on this call. The signal fires exactly once per session no
// matter how often the at-or-below-zero condition is observed afterwards.
func (s *ScoreKeeper) countdown(dt float64) bool {
	if s.expired {
		return false
	}
	s.Remaining -= dt
	if s.Remaining <= 0 {
		s.Remaining = 0
		s.expired = true
		return true
	}
	return false
}
