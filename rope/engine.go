package rope

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Engine is the slice of a rigid-body engine the rope needs. The rope only
// issues calls; it never steps the simulation itself.
type Engine interface {
	NewBody(def BodyDef) Body
	NewCollider(body Body, def ColliderDef) (Collider, error)
	NewJoint(def JointDef) (Joint, error)
	// IgnoreCollision disables collision response between two bodies.
	IgnoreCollision(a, b Body)
	RemoveBody(body Body)
	RemoveJoint(joint Joint)
}

// Body is a rigid body owned by the engine.
type Body interface {
	Position() mgl64.Vec2
	Velocity() mgl64.Vec2
	AngularVelocity() float64
	SetVelocity(v mgl64.Vec2)
	SetAngularVelocity(w float64)
	// Frozen reports kinematic mode: the solver does not move the body.
	Frozen() bool
	SetFrozen(frozen bool)
	// Alive is false once the body has been removed from its engine.
	Alive() bool
}

// Joint is a two-body pivot constraint with per-body local anchor offsets.
type Joint interface {
	Anchors() (a, b mgl64.Vec2)
	SetAnchors(a, b mgl64.Vec2)
}

// Collider is a capsule attached to a body, long axis along local Y.
type Collider interface {
	Length() float64
	SetLength(length float64)
}

type BodyDef struct {
	Position mgl64.Vec2
	Angle    float64
	Mass     float64
	// Damping is a linear drag coefficient per second applied to both linear
	// and angular velocity.
	Damping float64
	Frozen  bool
}

type ColliderDef struct {
	Radius float64
	Length float64
}

type JointKind int

const (
	// JointPivot leaves rotation in the plane free.
	JointPivot JointKind = iota
	// JointLimited is a pivot with the relative angle clamped to ±MaxBend.
	JointLimited
)

func (k JointKind) String() string {
	switch k {
	case JointPivot:
		return "pivot"
	case JointLimited:
		return "limited"
	default:
		return "unknown"
	}
}

// ParseJointKind accepts the names returned by String; empty means pivot.
func ParseJointKind(s string) (JointKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pivot":
		return JointPivot, nil
	case "limited":
		return JointLimited, nil
	default:
		return JointPivot, fmt.Errorf("%w: unknown joint kind %q", ErrInvalidConfig, s)
	}
}

type JointDef struct {
	A, B             Body
	AnchorA, AnchorB mgl64.Vec2
	Kind             JointKind
	MaxBend          float64
}
