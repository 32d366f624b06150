package system

import (
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

// InputSource samples the devices once per frame.
type InputSource interface {
	Poll() component.Input
}

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	in := component.Input{Preset: -1}
	if i.source != nil {
		in = i.source.Poll()
	}

	ecs.ForEach(w, component.InputComponent, func(e ecs.Entity, _ component.Input) {
		if err := ecs.Add(w, e, component.InputComponent, in); err != nil {
			panic("input system: update input: " + err.Error())
		}
	})
}
