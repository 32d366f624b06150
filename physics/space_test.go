package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tether/rope"
)

const stepDt = 1.0 / 120

func ropeConfig() rope.Config {
	cfg := rope.DefaultConfig()
	cfg.Segments.Policy = rope.CountUnitLength
	cfg.Segments.UnitLength = 0.1
	cfg.Stabilize = rope.StabilizeConfig{SettleDelay: 0.05, AnchorReleaseDelay: 0.05}
	return cfg
}

type scene struct {
	space *Space
	a, b  *Body
	chain *rope.Chain
}

func newScene(t *testing.T, cfg rope.Config) *scene {
	t.Helper()
	s := NewSpace(DefaultSettings())
	a := s.NewAnchor(AnchorDef{Position: mgl64.Vec2{0, 0}, Kinematic: true})
	b := s.NewAnchor(AnchorDef{Position: mgl64.Vec2{0, 1}, Mass: 0.2, Radius: 0.05})
	chain, err := rope.Build(s, a, b, cfg)
	require.NoError(t, err)
	return &scene{space: s, a: a, b: b, chain: chain}
}

func (sc *scene) stabilize(t *testing.T) {
	t.Helper()
	rope.ApplyFiltering(sc.space, sc.chain)
	st, err := rope.NewStabilizer(sc.chain, ropeConfig().Stabilize)
	require.NoError(t, err)
	for i := 0; i < 10000 && !st.Done(); i++ {
		st.Step(stepDt)
		sc.space.Step(stepDt)
	}
	require.True(t, st.Done())
}

func (sc *scene) run(seconds float64) {
	for n := int(seconds / stepDt); n > 0; n-- {
		sc.space.Step(stepDt)
	}
}

func finite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsNaN(v[1]) && !math.IsInf(v[0], 0) && !math.IsInf(v[1], 0)
}

func jointsOf(chain *rope.Chain) []*Joint {
	var out []*Joint
	for _, l := range chain.Links() {
		out = append(out, l.Joint.(*Joint))
		if l.EndJoint != nil {
			out = append(out, l.EndJoint.(*Joint))
		}
	}
	return out
}

// jointGap is the world distance between a joint's two anchor points.
func jointGap(j *Joint) float64 {
	a, b := j.Bodies()
	ha, hb := j.Anchors()
	pa := a.CP().LocalToWorld(toCP(ha))
	pb := b.CP().LocalToWorld(toCP(hb))
	return pa.Distance(pb)
}

func TestBuildParksJointsWhileFrozen(t *testing.T) {
	sc := newScene(t, ropeConfig())

	assert.Equal(t, 10, sc.chain.SegmentCount())
	assert.True(t, sc.b.Frozen())
	for _, l := range sc.chain.Links() {
		assert.True(t, l.Body.Frozen())
	}
	for i, j := range jointsOf(sc.chain) {
		assert.False(t, j.Active(), "joint %d between frozen bodies", i)
	}

	sc.run(0.5)
	for _, p := range sc.chain.Positions() {
		assert.True(t, finite(p))
	}
	assert.InDelta(t, 1.0, sc.b.Position()[1], 1e-9, "frozen anchor does not fall")
}

func TestStabilizedRopeHangs(t *testing.T) {
	sc := newScene(t, ropeConfig())
	sc.stabilize(t)

	assert.False(t, sc.b.Frozen())
	assert.True(t, sc.a.Frozen(), "kinematic anchor stays frozen")
	for i, j := range jointsOf(sc.chain) {
		assert.True(t, j.Active(), "joint %d", i)
	}

	sc.run(2)
	for _, p := range sc.chain.Positions() {
		require.True(t, finite(p))
	}
	assert.Equal(t, mgl64.Vec2{0, 0}, sc.a.Position())
	assert.InDelta(t, 1.0, sc.b.Position()[1], 0.25)
}

func TestFilteringIgnoresRopePairs(t *testing.T) {
	sc := newScene(t, ropeConfig())
	rope.ApplyFiltering(sc.space, sc.chain)
	links := sc.chain.Links()

	assert.True(t, sc.space.Ignored(links[0].Body, links[1].Body))
	assert.True(t, sc.space.Ignored(links[5].Body, links[2].Body))
	assert.True(t, sc.space.Ignored(links[3].Body, sc.a))
	assert.True(t, sc.space.Ignored(sc.b, links[9].Body))
	assert.False(t, sc.space.Ignored(sc.a, sc.b))
}

func TestChainBodiesNeverTouch(t *testing.T) {
	sc := newScene(t, ropeConfig())
	sc.space.AddStaticSegment(mgl64.Vec2{-3, 1.5}, mgl64.Vec2{3, 1.5}, 0.02)
	sc.stabilize(t)

	chainBodies := []*Body{sc.a, sc.b}
	for _, l := range sc.chain.Links() {
		chainBodies = append(chainBodies, l.Body.(*Body))
	}

	internal, floor := 0, 0
	count := func() {
		for _, b := range chainBodies {
			b.CP().EachArbiter(func(arb *cp.Arbiter) {
				x, y := arb.Bodies()
				switch {
				case sc.space.ignoredPair(x, y):
					internal++
				case x == sc.space.Space().StaticBody || y == sc.space.Space().StaticBody:
					floor++
				}
			})
		}
	}

	// longer links overlap their neighbours once the rope folds on the floor
	_, err := sc.chain.BeginExtend(1.0, 0.5)
	require.NoError(t, err)
	for sc.chain.IsAdjusting() {
		sc.chain.Update(1.0 / 60)
		for i := 0; i < 2; i++ {
			sc.space.Step(stepDt)
			count()
		}
	}
	for i := 0; i < 240; i++ {
		sc.space.Step(stepDt)
		count()
	}

	assert.Zero(t, internal, "ignored pairs reached the solver")
	assert.Positive(t, floor, "rope rests on the floor")
	for _, j := range jointsOf(sc.chain) {
		assert.InDelta(t, 0, jointGap(j), 0.01)
	}
}

func TestHeldAnchorWaitsForRelease(t *testing.T) {
	s := NewSpace(DefaultSettings())
	b := s.NewAnchor(AnchorDef{Position: mgl64.Vec2{0, 1}, Mass: 0.2, Radius: 0.05, Held: true})
	require.True(t, b.Frozen())

	for i := 0; i < 60; i++ {
		s.Step(stepDt)
	}
	assert.Equal(t, mgl64.Vec2{0, 1}, b.Position())

	b.SetFrozen(false)
	assert.False(t, b.Frozen())
	for i := 0; i < 60; i++ {
		s.Step(stepDt)
	}
	assert.Greater(t, b.Position()[1], 1.0)
}

func TestSetFrozenTogglesType(t *testing.T) {
	s := NewSpace(DefaultSettings())
	body := s.NewBody(rope.BodyDef{Position: mgl64.Vec2{0, 0}, Mass: 0.01, Frozen: true}).(*Body)
	_, err := s.NewCollider(body, rope.ColliderDef{Radius: 0.01, Length: 0.1})
	require.NoError(t, err)
	require.True(t, body.Frozen())

	s.Step(0.1)
	assert.Equal(t, mgl64.Vec2{}, body.Position())

	body.SetFrozen(false)
	assert.False(t, body.Frozen())
	assert.InDelta(t, 0.01, body.CP().Mass(), 1e-9)

	for i := 0; i < 30; i++ {
		s.Step(stepDt)
	}
	assert.Greater(t, body.Position()[1], 0.0, "dynamic body falls along +Y")

	body.SetFrozen(true)
	assert.True(t, body.Frozen())
}

func TestPinnedAnchorStaysFrozen(t *testing.T) {
	s := NewSpace(DefaultSettings())
	a := s.NewAnchor(AnchorDef{Position: mgl64.Vec2{1, 1}, Kinematic: true})

	a.SetFrozen(false)
	assert.True(t, a.Frozen())

	a.SetVelocity(mgl64.Vec2{1, 0})
	for i := 0; i < 120; i++ {
		s.Step(stepDt)
	}
	assert.InDelta(t, 2.0, a.Position()[0], 1e-6)
	assert.InDelta(t, 1.0, a.Position()[1], 1e-9)
}

func TestForeignBodyRejected(t *testing.T) {
	s := NewSpace(DefaultSettings())
	other := NewSpace(DefaultSettings())
	a := s.NewAnchor(AnchorDef{Kinematic: true})
	b := other.NewAnchor(AnchorDef{Kinematic: true})

	_, err := s.NewJoint(rope.JointDef{A: a, B: b})
	require.ErrorIs(t, err, ErrForeignBody)
	_, err = s.NewCollider(b, rope.ColliderDef{Radius: 0.1, Length: 1})
	require.ErrorIs(t, err, ErrForeignBody)
}

func TestLimitedJoints(t *testing.T) {
	cfg := ropeConfig()
	cfg.Joint = rope.JointLimited
	sc := newScene(t, cfg)

	links := sc.chain.Links()
	assert.False(t, links[0].Joint.(*Joint).Limited())
	assert.True(t, links[1].Joint.(*Joint).Limited())
	assert.False(t, links[len(links)-1].EndJoint.(*Joint).Limited())

	sc.stabilize(t)
	sc.run(1)
	for _, p := range sc.chain.Positions() {
		require.True(t, finite(p))
	}
}

func TestAdjustLengthOnLiveRope(t *testing.T) {
	sc := newScene(t, ropeConfig())
	sc.stabilize(t)

	_, err := sc.chain.BeginExtend(1.0, 0.5)
	require.NoError(t, err)
	for sc.chain.IsAdjusting() {
		sc.chain.Update(1.0 / 60)
		sc.space.Step(stepDt)
		sc.space.Step(stepDt)
	}
	assert.Equal(t, 2.0, sc.chain.CurrentLength())

	for _, l := range sc.chain.Links() {
		assert.InDelta(t, 0.2, l.Collider.Length(), 1e-12)
		head, _ := l.Joint.Anchors()
		assert.InDelta(t, -0.1, head[1], 1e-12)
	}

	sc.run(2)
	for _, p := range sc.chain.Positions() {
		require.True(t, finite(p))
	}
	assert.Greater(t, sc.b.Position()[1], 1.5, "anchor B drops with the longer rope")
}

func TestTeardownRemovesEverything(t *testing.T) {
	sc := newScene(t, ropeConfig())
	sc.stabilize(t)
	links := sc.chain.Links()
	joints := jointsOf(sc.chain)

	sc.chain.Teardown(sc.space)

	for _, l := range links {
		assert.False(t, l.Body.Alive())
	}
	for _, j := range joints {
		assert.True(t, j.Removed())
		assert.False(t, j.Active())
	}
	assert.True(t, sc.a.Alive())
	assert.True(t, sc.b.Alive())
	assert.False(t, sc.space.Ignored(links[0].Body, links[1].Body))

	sc.run(0.5)
	assert.True(t, finite(sc.b.Position()))
}
