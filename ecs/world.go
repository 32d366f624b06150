package ecs

import (
	"fmt"

	"github.com/milk9111/tether/ecs/component"
)

// Kind identifies a component store. component.ComponentKind satisfies it.
type Kind interface {
	ID() component.ComponentID
}

// World owns entities and their components.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

func (w *World) store(kind Kind, create bool) *SparseSet {
	id := kind.ID()
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent sets the component of the given kind on e, replacing any
// previous value.
func (w *World) AddComponent(e Entity, kind Kind, value any) error {
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("add %v to %s: %w", kind, e, component.ErrEntityNotAlive)
	}
	w.store(kind, true).Set(e, value)
	return nil
}

func (w *World) GetComponent(e Entity, kind Kind) (any, bool) {
	if !w.IsAlive(e) || kind == nil {
		return nil, false
	}
	s := w.store(kind, false)
	if !s.Has(e) {
		return nil, false
	}
	return s.Get(e), true
}

func (w *World) HasComponent(e Entity, kind Kind) bool {
	if !w.IsAlive(e) || kind == nil {
		return false
	}
	return w.store(kind, false).Has(e)
}

func (w *World) RemoveComponent(e Entity, kind Kind) bool {
	if !w.IsAlive(e) || kind == nil {
		return false
	}
	return w.store(kind, false).Remove(e)
}

// Query returns entities that have every given component kind.
func (w *World) Query(kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k, false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	return IntersectEntities(sets...)
}

// First returns any entity that has the given component kind.
func (w *World) First(kind Kind) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind, false)
	if s.Len() == 0 {
		return 0, false
	}
	return s.Entities()[0], true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
