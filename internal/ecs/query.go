package ecs

import "sort"

// QuerySpec describes an all_of filter: every listed tag, component type,
// and (key, target) relation pair must hold for an entity to match.
type QuerySpec struct {
	Tags       []Tag
	Components []ComponentType
	Relations  map[RelationKey]EntityID
}

// AllOf returns every alive entity matching spec, sorted by id. An empty
// spec matches no entities — callers that want "everything alive" should
// query by a universal tag instead, the same way IsActor/IsItem do here.
func (w *World) AllOf(spec QuerySpec) []EntityID {
	candidates, ok := w.smallestCandidateSet(spec)
	if !ok {
		return nil
	}

	var result []EntityID
	for _, id := range candidates {
		if !w.alive[id] {
			continue
		}
		if w.matchesSpec(id, spec) {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// NoneOf filters ids down to those NOT carrying any of the given tags.
func (w *World) NoneOf(ids []EntityID, tags ...Tag) []EntityID {
	if len(tags) == 0 {
		return ids
	}
	out := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		excluded := false
		for _, tag := range tags {
			if w.HasTag(id, tag) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, id)
		}
	}
	return out
}

func (w *World) matchesSpec(id EntityID, spec QuerySpec) bool {
	for _, tag := range spec.Tags {
		if !w.HasTag(id, tag) {
			return false
		}
	}
	for _, t := range spec.Components {
		if !w.Has(id, t) {
			return false
		}
	}
	for key, target := range spec.Relations {
		got, ok := w.GetRelation(id, key)
		if !ok || got != target {
			return false
		}
	}
	return true
}

// smallestCandidateSet picks whichever index — a tag, a component store,
// or a relation's reverse index — holds the fewest entities, so AllOf
// never has to scan the whole world for a narrow filter.
func (w *World) smallestCandidateSet(spec QuerySpec) ([]EntityID, bool) {
	bestSize := -1
	var collect func() []EntityID

	considerTag := func(tag Tag) {
		idx := w.tagIndex[tag]
		if bestSize != -1 && len(idx) >= bestSize {
			return
		}
		bestSize = len(idx)
		collect = func() []EntityID {
			out := make([]EntityID, 0, len(idx))
			for id := range idx {
				out = append(out, id)
			}
			return out
		}
	}
	considerComponent := func(t ComponentType) {
		store := w.components[t]
		if bestSize != -1 && len(store) >= bestSize {
			return
		}
		bestSize = len(store)
		collect = func() []EntityID {
			out := make([]EntityID, 0, len(store))
			for id := range store {
				out = append(out, id)
			}
			return out
		}
	}
	considerRelation := func(key RelationKey, target EntityID) {
		idx := w.relIndex[key][target]
		if bestSize != -1 && len(idx) >= bestSize {
			return
		}
		bestSize = len(idx)
		collect = func() []EntityID {
			out := make([]EntityID, 0, len(idx))
			for id := range idx {
				out = append(out, id)
			}
			return out
		}
	}

	for _, tag := range spec.Tags {
		considerTag(tag)
	}
	for _, t := range spec.Components {
		considerComponent(t)
	}
	for key, target := range spec.Relations {
		considerRelation(key, target)
	}

	if collect == nil {
		return nil, false
	}
	return collect(), true
}
