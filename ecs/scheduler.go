package ecs

// System updates a world once per rendered frame.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
	frames  uint64
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
	for _, system := range s.systems {
		system.Update(w)
	}
	s.frames++
}

// Frames counts completed Update calls.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// FindSystem returns the first registered system of type T.
func FindSystem[T System](s *Scheduler) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	for _, system := range s.systems {
		if t, ok := system.(T); ok {
			return t, true
		}
	}
	return zero, false
}
