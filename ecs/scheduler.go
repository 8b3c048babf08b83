package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w)
	}
}
