package component

import "github.com/milk9111/tether/rope"

type SequenceOp string

const (
	SequenceExtend   SequenceOp = "extend"
	SequenceRetract  SequenceOp = "retract"
	SequenceWait     SequenceOp = "wait"
	SequenceTraverse SequenceOp = "traverse"
)

// SequenceStep is one planned action. Value is extra length for extend and
// the target length for retract; it is unused by wait and traverse.
type SequenceStep struct {
	Op       SequenceOp
	Value    float64
	Duration float64
}

type SequenceSettings struct {
	ExtendDuration   float64
	WaitAfterExtend  float64
	RetractDuration  float64
	WaitBeforeSpot   float64
	MoveSpeed        float64
	ArrivalThreshold float64
	// Script names a tengo plan script; empty means the default plan.
	Script string
}

// Sequence is the home sequence state carried by anchor A.
type Sequence struct {
	Settings SequenceSettings

	Running bool
	Plan    []SequenceStep
	Step    int
	Elapsed float64
	Started bool

	Adjustment *rope.Adjustment
	SpotCursor int

	Placed bool
}

var SequenceComponent = NewComponent[Sequence]()
