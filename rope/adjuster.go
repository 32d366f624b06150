package rope

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
)

// Adjustment is an in-flight rest-length transition. It completes exactly
// once: Done is closed and Err reports nil on success, ErrAdjustmentPreempted
// when a newer request replaced it, or ErrTornDown.
type Adjustment struct {
	Start    float64
	Target   float64
	Duration float64

	elapsed   float64
	startSeg  float64
	targetSeg float64
	done      chan struct{}
	err       error
	finished  bool
}

func (a *Adjustment) Done() <-chan struct{} { return a.done }

func (a *Adjustment) Elapsed() float64 { return a.elapsed }

func (a *Adjustment) Finished() bool { return a.finished }

// Err is only meaningful once Done is closed.
func (a *Adjustment) Err() error { return a.err }

// Progress is elapsed/duration clamped to [0,1].
func (a *Adjustment) Progress() float64 {
	if a.Duration <= 0 {
		if a.finished {
			return 1
		}
		return 0
	}
	return common.Clamp(a.elapsed/a.Duration, 0, 1)
}

func (a *Adjustment) finish(err error) {
	if a.finished {
		return
	}
	a.finished = true
	a.err = err
	close(a.done)
}

// BeginAdjustment starts a transition of the total rest length to target over
// duration seconds, replacing any transition already running. Nothing moves
// until the next Update. A duration <= 0 snaps on that Update.
func (c *Chain) BeginAdjustment(target, duration float64) (*Adjustment, error) {
	if c == nil || c.tornDown {
		return nil, ErrTornDown
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, target)
	}
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	n := float64(len(c.links))
	target = max(target, MinSegmentLength*n)

	if prev := c.adjust; prev != nil {
		prev.finish(ErrAdjustmentPreempted)
		c.log.WithFields(logrus.Fields{
			"target": prev.Target,
			"at":     c.currentLength,
		}).Debug("adjustment preempted")
	}

	adj := &Adjustment{
		Start:     c.currentLength,
		Target:    target,
		Duration:  duration,
		startSeg:  c.segmentLength,
		targetSeg: target / n,
		done:      make(chan struct{}),
	}
	c.adjust = adj
	c.log.WithFields(logrus.Fields{
		"from":     adj.Start,
		"target":   target,
		"duration": duration,
	}).Info("rope adjustment started")
	return adj, nil
}

// BeginExtend lengthens the rope by extra over duration.
func (c *Chain) BeginExtend(extra, duration float64) (*Adjustment, error) {
	return c.BeginAdjustment(c.CurrentLength()+extra, duration)
}

// BeginRetract moves the rope length to target over duration.
func (c *Chain) BeginRetract(target, duration float64) (*Adjustment, error) {
	return c.BeginAdjustment(target, duration)
}

func (c *Chain) IsAdjusting() bool {
	return c != nil && c.adjust != nil
}

// Adjustment returns the running transition, if any.
func (c *Chain) Adjustment() *Adjustment {
	if c == nil {
		return nil
	}
	return c.adjust
}

// Update advances the running transition by one rendered frame of length dt
// and pushes the interpolated rest length into every joint and collider.
// It reports whether a transition finished during this call.
func (c *Chain) Update(dt float64) bool {
	if c == nil || c.adjust == nil {
		return false
	}
	adj := c.adjust
	adj.elapsed += dt

	if adj.Duration <= 0 || adj.elapsed >= adj.Duration {
		c.applySegmentLength(adj.targetSeg)
		c.currentLength = adj.Target
		c.adjust = nil
		adj.finish(nil)
		c.log.WithField("length", adj.Target).Info("rope adjustment complete")
		return true
	}

	t := adj.elapsed / adj.Duration
	seg := common.Lerp(adj.startSeg, adj.targetSeg, t)
	c.applySegmentLength(seg)
	c.currentLength = seg * float64(len(c.links))
	return false
}
