package rope

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Build creates a chain of frozen links spanning anchorA to anchorB. The
// total rest length equals the anchor separation. On error nothing created
// by Build is left in the engine.
func Build(engine Engine, anchorA, anchorB Body, cfg Config) (*Chain, error) {
	if anchorA == nil || anchorB == nil {
		return nil, fmt.Errorf("rope: build: %w", ErrMissingAnchor)
	}
	if engine == nil {
		return nil, fmt.Errorf("rope: build: %w: nil engine", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rope: build: %w", err)
	}

	start := anchorA.Position()
	separation := anchorB.Position().Sub(start).Len()
	count := cfg.SegmentCount(separation)

	total := separation
	segLen := separation / float64(count)
	if segLen < MinSegmentLength {
		segLen = MinSegmentLength
		total = segLen * float64(count)
	}

	dir := placementDir(cfg.Placement, start, anchorB.Position())
	// rotate local +Y onto dir
	angle := math.Atan2(-dir[0], dir[1])

	chain := newChain(anchorA, anchorB, cfg.Width)
	chain.segmentLength = segLen
	chain.currentLength = total
	chain.initialLength = total
	chain.links = make([]*Link, 0, count)

	var prev Body = anchorA
	for i := 0; i < count; i++ {
		body := engine.NewBody(BodyDef{
			Position: start.Add(dir.Mul(segLen * (float64(i) + 0.5))),
			Angle:    angle,
			Mass:     cfg.Mass,
			Damping:  cfg.Damping,
			Frozen:   true,
		})
		link := &Link{Index: i, Body: body}
		chain.links = append(chain.links, link)

		col, err := engine.NewCollider(body, ColliderDef{Radius: cfg.Width / 2, Length: segLen})
		if err != nil {
			chain.Teardown(engine)
			return nil, fmt.Errorf("rope: build: link %d collider: %w", i, err)
		}
		link.Collider = col

		def := JointDef{
			A:       body,
			B:       prev,
			AnchorA: headOffset(segLen),
			AnchorB: tailOffset(segLen),
			Kind:    cfg.Joint,
			MaxBend: cfg.MaxBend,
		}
		if i == 0 {
			def.AnchorB = mgl64.Vec2{}
			def.Kind = JointPivot
		}
		joint, err := engine.NewJoint(def)
		if err != nil {
			chain.Teardown(engine)
			return nil, fmt.Errorf("rope: build: link %d joint: %w", i, err)
		}
		link.Joint = joint
		prev = body
	}

	last := chain.links[count-1]
	end, err := engine.NewJoint(JointDef{
		A:       last.Body,
		B:       anchorB,
		AnchorA: tailOffset(segLen),
		Kind:    JointPivot,
	})
	if err != nil {
		chain.Teardown(engine)
		return nil, fmt.Errorf("rope: build: end joint: %w", err)
	}
	last.EndJoint = end

	if cfg.FreezeAnchorB {
		anchorB.SetVelocity(mgl64.Vec2{})
		anchorB.SetAngularVelocity(0)
		anchorB.SetFrozen(true)
	}

	chain.log.WithFields(logrus.Fields{
		"segments":   count,
		"segment":    segLen,
		"length":     total,
		"placement":  cfg.Placement,
		"joint_kind": cfg.Joint.String(),
	}).Info("rope built")

	return chain, nil
}

func placementDir(p Placement, from, to mgl64.Vec2) mgl64.Vec2 {
	down := mgl64.Vec2{0, 1}
	if p == PlaceVertical {
		return down
	}
	d := to.Sub(from)
	if d.Len() < MinSegmentLength {
		return down
	}
	return d.Normalize()
}
