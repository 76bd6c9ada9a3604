// internal/gpio/sim.go
package gpio

import "sync"

// Sim is an in-memory GPIO bank.
// Inputs idle HIGH (pull-up) until pressed with Set.
type Sim struct {
	mu     sync.Mutex
	levels map[Pin]Level
	writes map[Pin]int
}

func NewSim() *Sim {
	return &Sim{
		levels: make(map[Pin]Level),
		writes: make(map[Pin]int),
	}
}

func (s *Sim) SetupInput(p Pin) error {
	if !p.Wired() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.levels[p]; !ok {
		s.levels[p] = High
	}
	return nil
}

func (s *Sim) SetupOutput(p Pin, initial Level) error {
	return s.Write(p, initial)
}

func (s *Sim) Read(p Pin) (Level, error) {
	if !p.Wired() {
		return High, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[p]
	if !ok {
		return High, nil
	}
	return l, nil
}

func (s *Sim) Write(p Pin, l Level) error {
	if !p.Wired() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[p] = l
	s.writes[p]++
	return nil
}

func (s *Sim) Close() error { return nil }

// Set drives an input line from outside (a button press is Low).
func (s *Sim) Set(p Pin, l Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[p] = l
}

// Level returns the current level of p; unknown lines read HIGH.
func (s *Sim) Level(p Pin) Level {
	l, _ := s.Read(p)
	return l
}

// Writes returns how many times p was written.
func (s *Sim) Writes(p Pin) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[p]
}
