package rope

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type StabilizeState int

const (
	StateSettling StabilizeState = iota
	StateActivating
	StateReleasingAnchor
	StateDone
)

func (s StabilizeState) String() string {
	switch s {
	case StateSettling:
		return "settling"
	case StateActivating:
		return "activating"
	case StateReleasingAnchor:
		return "releasing_anchor"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stabilizer brings a frozen chain to life one link per physics step and
// then releases anchor B. Step must be called once per physics step, never
// per rendered frame.
type Stabilizer struct {
	chain *Chain
	cfg   StabilizeConfig

	state   StabilizeState
	waited  float64
	next    int
	skipped int
}

// NewStabilizer requires that collision filtering has already been applied
// to the chain.
func NewStabilizer(chain *Chain, cfg StabilizeConfig) (*Stabilizer, error) {
	if chain == nil {
		return nil, fmt.Errorf("rope: stabilizer: %w", ErrMissingAnchor)
	}
	if !chain.Filtered() {
		return nil, ErrChainNotFiltered
	}
	return &Stabilizer{chain: chain, cfg: cfg}, nil
}

func (s *Stabilizer) State() StabilizeState {
	if s == nil {
		return StateDone
	}
	return s.state
}

func (s *Stabilizer) Done() bool {
	return s.State() == StateDone
}

// Skipped counts links that were missing when their turn came.
func (s *Stabilizer) Skipped() int {
	if s == nil {
		return 0
	}
	return s.skipped
}

// Step advances the sequence by one physics step of length dt.
func (s *Stabilizer) Step(dt float64) {
	if s == nil || s.state == StateDone {
		return
	}
	if s.chain.TornDown() {
		s.enter(StateDone)
		return
	}

	switch s.state {
	case StateSettling:
		s.waited += dt
		if s.waited >= s.cfg.SettleDelay {
			s.enter(StateActivating)
		}
	case StateActivating:
		links := s.chain.links
		if s.next < len(links) {
			l := links[s.next]
			if l.live() {
				l.Body.SetVelocity(mgl64.Vec2{})
				l.Body.SetAngularVelocity(0)
				l.Body.SetFrozen(false)
			} else {
				s.skipped++
				s.chain.log.WithField("link", s.next).Warn("link missing during activation, skipped")
			}
			s.next++
		}
		if s.next >= len(links) {
			s.enter(StateReleasingAnchor)
		}
	case StateReleasingAnchor:
		s.waited += dt
		if s.waited < s.cfg.AnchorReleaseDelay {
			return
		}
		if b := s.chain.anchorB; b != nil && b.Alive() {
			b.SetVelocity(mgl64.Vec2{})
			b.SetAngularVelocity(0)
			b.SetFrozen(false)
		}
		s.enter(StateDone)
	}
}

func (s *Stabilizer) enter(state StabilizeState) {
	s.state = state
	s.waited = 0
	s.chain.log.WithField("state", state.String()).Debug("stabilizer state")
	if state == StateDone {
		s.chain.log.WithField("skipped", s.skipped).Info("rope stabilized")
	}
}
