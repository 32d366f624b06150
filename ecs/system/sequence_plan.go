package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tether/ecs/component"
)

var ErrInvalidPlan = errors.New("sequence: invalid plan")

const planScriptTimeout = 250 * time.Millisecond

// PlanInputs are exposed to plan scripts as globals of the same snake_case
// names.
type PlanInputs struct {
	AnchorDistance float64
	InitialLength  float64
	CurrentLength  float64
	SpotCount      int
	HasRope        bool
}

// DefaultPlan extends by the anchor distance, waits, retracts to the initial
// length, waits and traverses the spots. Without a rope only the final wait
// and the traverse remain.
func DefaultPlan(s component.SequenceSettings, in PlanInputs) []component.SequenceStep {
	var plan []component.SequenceStep
	if in.HasRope {
		plan = append(plan,
			component.SequenceStep{Op: component.SequenceExtend, Value: in.AnchorDistance, Duration: s.ExtendDuration},
			component.SequenceStep{Op: component.SequenceWait, Duration: s.WaitAfterExtend},
			component.SequenceStep{Op: component.SequenceRetract, Value: in.InitialLength, Duration: s.RetractDuration},
		)
	}
	return append(plan,
		component.SequenceStep{Op: component.SequenceWait, Duration: s.WaitBeforeSpot},
		component.SequenceStep{Op: component.SequenceTraverse},
	)
}

// ScriptPlan runs a tengo script that must define `plan`, an array of maps
// with keys op, value and duration.
func ScriptPlan(src []byte, in PlanInputs) ([]component.SequenceStep, error) {
	script := tengo.NewScript(src)
	globals := map[string]any{
		"anchor_distance": in.AnchorDistance,
		"initial_length":  in.InitialLength,
		"current_length":  in.CurrentLength,
		"spot_count":      in.SpotCount,
		"has_rope":        in.HasRope,
	}
	for name, v := range globals {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("sequence: plan script: add %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	ctx, cancel := context.WithTimeout(context.Background(), planScriptTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("sequence: plan script: %w", err)
	}
	if !compiled.IsDefined("plan") {
		return nil, fmt.Errorf("%w: script does not define plan", ErrInvalidPlan)
	}
	raw := compiled.Get("plan").Value()
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: plan must be an array, got %T", ErrInvalidPlan, raw)
	}
	return parsePlan(items, in)
}

func parsePlan(items []any, in PlanInputs) ([]component.SequenceStep, error) {
	plan := make([]component.SequenceStep, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: step %d is %T, want map", ErrInvalidPlan, i, item)
		}
		op, _ := m["op"].(string)
		step := component.SequenceStep{
			Op:       component.SequenceOp(strings.ToLower(strings.TrimSpace(op))),
			Value:    number(m["value"]),
			Duration: number(m["duration"]),
		}
		switch step.Op {
		case component.SequenceExtend:
			if !in.HasRope {
				continue
			}
		case component.SequenceRetract:
			if !in.HasRope {
				continue
			}
			if step.Value <= 0 {
				return nil, fmt.Errorf("%w: step %d: retract needs a positive value", ErrInvalidPlan, i)
			}
		case component.SequenceWait, component.SequenceTraverse:
		default:
			return nil, fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidPlan, i, op)
		}
		if step.Duration < 0 {
			step.Duration = 0
		}
		plan = append(plan, step)
	}
	return plan, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
