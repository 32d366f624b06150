package rope

import (
	"fmt"
	"math"
)

type CountPolicy string

const (
	CountFixed      CountPolicy = "fixed"
	CountUnitLength CountPolicy = "unit_length"
	CountDensity    CountPolicy = "density"
)

type Placement string

const (
	PlaceStraight Placement = "straight"
	PlaceVertical Placement = "vertical"
)

const (
	// HardMinSegments is the floor under any configured minimum; fewer links
	// would not give a chain with interior joints.
	HardMinSegments = 3

	// MinSegmentLength keeps colliders non-degenerate when the anchors overlap.
	MinSegmentLength = 1e-3

	// MaxSegments caps the generated body count.
	MaxSegments = 4096
)

type SegmentsConfig struct {
	Policy     CountPolicy
	Count      int
	UnitLength float64
	Density    float64
	Min        int
}

type StabilizeConfig struct {
	// SettleDelay is waited before the first link is unfrozen.
	SettleDelay float64
	// AnchorReleaseDelay is waited after the last link before anchor B is
	// released.
	AnchorReleaseDelay float64
}

// Config parameterises Build and NewStabilizer.
type Config struct {
	Segments      SegmentsConfig
	Placement     Placement
	Joint         JointKind
	MaxBend       float64
	Width         float64
	Mass          float64
	Damping       float64
	FreezeAnchorB bool
	Stabilize     StabilizeConfig
}

func DefaultConfig() Config {
	return Config{
		Segments: SegmentsConfig{
			Policy:     CountUnitLength,
			Count:      60,
			UnitLength: 0.1,
			Density:    10,
			Min:        5,
		},
		Placement:     PlaceStraight,
		Joint:         JointPivot,
		MaxBend:       math.Pi / 4,
		Width:         0.02,
		Mass:          0.01,
		Damping:       20,
		FreezeAnchorB: true,
		Stabilize: StabilizeConfig{
			SettleDelay:        0.5,
			AnchorReleaseDelay: 1,
		},
	}
}

func (c Config) Validate() error {
	switch c.Segments.Policy {
	case CountFixed:
		if c.Segments.Count <= 0 {
			return fmt.Errorf("%w: fixed policy needs count > 0, got %d", ErrInvalidConfig, c.Segments.Count)
		}
	case CountUnitLength:
		if !(c.Segments.UnitLength > 0) {
			return fmt.Errorf("%w: unit_length must be > 0, got %v", ErrInvalidConfig, c.Segments.UnitLength)
		}
	case CountDensity:
		if !(c.Segments.Density > 0) {
			return fmt.Errorf("%w: density must be > 0, got %v", ErrInvalidConfig, c.Segments.Density)
		}
	default:
		return fmt.Errorf("%w: unknown segment policy %q", ErrInvalidConfig, c.Segments.Policy)
	}
	switch c.Placement {
	case PlaceStraight, PlaceVertical:
	default:
		return fmt.Errorf("%w: unknown placement %q", ErrInvalidConfig, c.Placement)
	}
	if c.Joint != JointPivot && c.Joint != JointLimited {
		return fmt.Errorf("%w: unknown joint kind %d", ErrInvalidConfig, c.Joint)
	}
	if !(c.Width > 0) {
		return fmt.Errorf("%w: width must be > 0", ErrInvalidConfig)
	}
	if !(c.Mass > 0) {
		return fmt.Errorf("%w: mass must be > 0", ErrInvalidConfig)
	}
	if c.Damping < 0 {
		return fmt.Errorf("%w: damping must be >= 0", ErrInvalidConfig)
	}
	if c.Stabilize.SettleDelay < 0 || c.Stabilize.AnchorReleaseDelay < 0 {
		return fmt.Errorf("%w: stabilize delays must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// SegmentCount applies the configured policy to an anchor separation.
func (c Config) SegmentCount(separation float64) int {
	var n int
	switch c.Segments.Policy {
	case CountFixed:
		n = c.Segments.Count
	case CountUnitLength:
		if c.Segments.UnitLength > 0 {
			n = roundCount(separation / c.Segments.UnitLength)
		}
	case CountDensity:
		n = roundCount(separation * c.Segments.Density)
	}
	return min(max(n, c.minSegments()), MaxSegments)
}

func (c Config) minSegments() int {
	return max(c.Segments.Min, HardMinSegments)
}

func roundCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > MaxSegments {
		return MaxSegments
	}
	return int(math.Round(v))
}
