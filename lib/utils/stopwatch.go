package utils

import "time"

// Stopwatch measures laps between consecutive calls to Lap.
type Stopwatch struct {
	start time.Time
	last  time.Time
}

func (s *Stopwatch) Start() {
	now := time.Now()
	s.start = now
	s.last = now
}

// Lap returns the time since the previous lap, or since Start. The
// timestamp is taken exactly once so laps add up to Total.
func (s *Stopwatch) Lap() time.Duration {
	now := time.Now()
	if s.last.IsZero() {
		s.start = now
		s.last = now
		return 0
	}
	defer func() { s.last = now }()
	return now.Sub(s.last)
}

func (s *Stopwatch) Total() time.Duration {
	if s.start.IsZero() {
		return 0
	}
	return s.last.Sub(s.start)
}
