package rope

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/logger"
)

// Link is one generated rigid body of the chain. Its local +Y axis points
// from anchor A toward anchor B.
type Link struct {
	Index    int
	Body     Body
	Collider Collider
	// Joint connects the link to the previous link, or to anchor A for link 0.
	Joint Joint
	// EndJoint connects the last link to anchor B; nil for every other link.
	EndJoint Joint
}

func (l *Link) live() bool {
	return l != nil && l.Body != nil && l.Body.Alive()
}

// Chain is the ordered sequence of links between two anchors. The joint graph
// is always A -> link0 -> ... -> linkN-1 -> B and every link shares the same
// rest length.
type Chain struct {
	ID uuid.UUID

	anchorA Body
	anchorB Body
	links   []*Link

	segmentLength float64
	currentLength float64
	initialLength float64
	width         float64

	filter   *FilterTable
	filtered bool
	tornDown bool
	adjust   *Adjustment

	log *logrus.Entry
}

func newChain(a, b Body, width float64) *Chain {
	id := uuid.New()
	return &Chain{
		ID:      id,
		anchorA: a,
		anchorB: b,
		width:   width,
		filter:  NewFilterTable(),
		log:     logger.For("rope").WithField("rope", id.String()),
	}
}

func (c *Chain) AnchorA() Body { return c.anchorA }
func (c *Chain) AnchorB() Body { return c.anchorB }

// Links returns the chain's links in index order. The slice must not be
// modified.
func (c *Chain) Links() []*Link {
	if c == nil {
		return nil
	}
	return c.links
}

func (c *Chain) SegmentCount() int {
	if c == nil {
		return 0
	}
	return len(c.links)
}

// SegmentLength is the shared rest length of every link.
func (c *Chain) SegmentLength() float64 {
	if c == nil {
		return 0
	}
	return c.segmentLength
}

func (c *Chain) CurrentLength() float64 {
	if c == nil {
		return 0
	}
	return c.currentLength
}

func (c *Chain) InitialLength() float64 {
	if c == nil {
		return 0
	}
	return c.initialLength
}

func (c *Chain) Width() float64 {
	if c == nil {
		return 0
	}
	return c.width
}

// AnchorDistance is the current straight-line distance between the anchors.
func (c *Chain) AnchorDistance() float64 {
	if c == nil || c.anchorA == nil || c.anchorB == nil {
		return 0
	}
	return c.anchorB.Position().Sub(c.anchorA.Position()).Len()
}

func (c *Chain) AnchorBFrozen() bool {
	return c != nil && c.anchorB != nil && c.anchorB.Frozen()
}

func (c *Chain) Filtered() bool {
	return c != nil && c.filtered
}

// FilterTable returns the pairs disabled by ApplyFiltering.
func (c *Chain) FilterTable() *FilterTable {
	if c == nil {
		return nil
	}
	return c.filter
}

func (c *Chain) TornDown() bool {
	return c != nil && c.tornDown
}

// FrozenLinks counts live links still in kinematic mode.
func (c *Chain) FrozenLinks() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.links {
		if l.live() && l.Body.Frozen() {
			n++
		}
	}
	return n
}

// Positions returns anchor A, every link and anchor B in order, so the result
// always has SegmentCount()+2 points.
func (c *Chain) Positions() []mgl64.Vec2 {
	if c == nil {
		return nil
	}
	return c.AppendPositions(make([]mgl64.Vec2, 0, len(c.links)+2))
}

// AppendPositions appends the same points as Positions to dst. A link whose
// body is gone repeats the previous point.
func (c *Chain) AppendPositions(dst []mgl64.Vec2) []mgl64.Vec2 {
	if c == nil {
		return dst
	}
	var prev mgl64.Vec2
	if c.anchorA != nil {
		prev = c.anchorA.Position()
	}
	dst = append(dst, prev)
	for _, l := range c.links {
		if l.live() {
			prev = l.Body.Position()
		}
		dst = append(dst, prev)
	}
	if c.anchorB != nil {
		prev = c.anchorB.Position()
	}
	return append(dst, prev)
}

// Teardown removes every joint and link body from the engine and cancels any
// in-flight adjustment. Anchors are left untouched.
func (c *Chain) Teardown(engine Engine) {
	if c == nil || c.tornDown {
		return
	}
	if c.adjust != nil {
		c.adjust.finish(ErrTornDown)
		c.adjust = nil
	}
	for _, l := range c.links {
		if l == nil {
			continue
		}
		if l.EndJoint != nil {
			engine.RemoveJoint(l.EndJoint)
		}
		if l.Joint != nil {
			engine.RemoveJoint(l.Joint)
		}
	}
	for _, l := range c.links {
		if l != nil && l.Body != nil {
			engine.RemoveBody(l.Body)
		}
	}
	c.log.WithField("segments", len(c.links)).Info("rope torn down")
	c.links = nil
	c.tornDown = true
}

// applySegmentLength pushes a rest length into every joint and collider.
// Anchor-side connection points stay at the anchor body's origin.
func (c *Chain) applySegmentLength(length float64) {
	c.segmentLength = length
	head, tail := headOffset(length), tailOffset(length)
	for i, l := range c.links {
		if l == nil {
			continue
		}
		if l.Joint != nil {
			if i == 0 {
				l.Joint.SetAnchors(head, mgl64.Vec2{})
			} else {
				l.Joint.SetAnchors(head, tail)
			}
		}
		if l.EndJoint != nil {
			l.EndJoint.SetAnchors(tail, mgl64.Vec2{})
		}
		if l.Collider != nil {
			l.Collider.SetLength(length)
		}
	}
}

// headOffset is the connection point toward anchor A in link-local space.
func headOffset(length float64) mgl64.Vec2 {
	return mgl64.Vec2{0, -length / 2}
}

// tailOffset is the connection point toward anchor B in link-local space.
func tailOffset(length float64) mgl64.Vec2 {
	return mgl64.Vec2{0, length / 2}
}
