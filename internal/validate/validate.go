// Package validate checks the world invariants the rest of the engine
// assumes. It reports every violation it finds in one aggregated error
// instead of stopping at the first, so a single debug pass paints the
// whole picture.
package validate

import (
	"fmt"

	"go.uber.org/multierr"

	"spireward/internal/component"
	"spireward/internal/ecs"
)

// World checks every live entity and returns all violations combined,
// or nil when the world is consistent.
func World(w *ecs.World) error {
	var err error

	for _, id := range w.EntitiesWithTag(component.TagIsAlive) {
		hc := w.Get(id, component.CHealth)
		if hc == nil {
			err = multierr.Append(err, fmt.Errorf("validate: alive entity %d has no health", id))
			continue
		}
		hp := hc.(component.Health)
		if hp.Current < 0 || hp.Current > hp.Max {
			err = multierr.Append(err, fmt.Errorf("validate: entity %d HP %d outside [0, %d]", id, hp.Current, hp.Max))
		}
		if ac := w.Get(id, component.CActor); ac != nil {
			if ac.(component.Actor).Graphic == "%" {
				err = multierr.Append(err, fmt.Errorf("validate: entity %d is alive but wears the remains glyph", id))
			}
			if ac.(component.Actor).Energy < 0 {
				err = multierr.Append(err, fmt.Errorf("validate: entity %d has negative energy", id))
			}
		}
	}

	for _, id := range w.EntitiesWithTag(component.TagIsEffect) {
		target, ok := w.GetRelation(id, component.RelAffecting)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("validate: effect %d affects nothing", id))
			continue
		}
		if !w.Alive(target) {
			err = multierr.Append(err, fmt.Errorf("validate: effect %d affects destroyed entity %d", id, target))
		}
	}

	for _, id := range w.EntitiesWithTag(component.TagIsActor) {
		if w.IsTemplate(id) {
			continue
		}
		if w.Get(id, component.CPosition) == nil {
			err = multierr.Append(err, fmt.Errorf("validate: actor %d has no position", id))
			continue
		}
		if _, ok := w.GetRelation(id, component.RelIsIn); !ok {
			err = multierr.Append(err, fmt.Errorf("validate: actor %d is on no map", id))
		}
	}

	for _, id := range w.EntitiesWithTag(component.TagIsItem) {
		if w.IsTemplate(id) {
			continue
		}
		// Floor items are the only item entities; each needs a tile and
		// a map to sit on.
		if w.Get(id, component.CPosition) == nil {
			err = multierr.Append(err, fmt.Errorf("validate: floor item %d has no position", id))
		}
		if _, ok := w.GetRelation(id, component.RelIsIn); !ok {
			err = multierr.Append(err, fmt.Errorf("validate: floor item %d is on no map", id))
		}
	}

	return err
}
