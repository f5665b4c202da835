package ecs

import "sort"

// EntityRecord is the serializable form of one entity: everything the
// world knows about it, in deterministic order. Component values travel
// as the Component interface; persistence layers register the concrete
// types with their codec.
type EntityRecord struct {
	ID         EntityID
	Template   bool
	Tags       []Tag
	Components []Component
	Relations  map[RelationKey]EntityID
}

// Snapshot dumps every alive entity, sorted by id, for serialization.
func (w *World) Snapshot() []EntityRecord {
	var ids []EntityID
	for id, alive := range w.alive {
		if alive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]EntityRecord, 0, len(ids))
	for _, id := range ids {
		rec := EntityRecord{ID: id, Template: w.templates[id]}

		for tag := range w.tags[id] {
			rec.Tags = append(rec.Tags, tag)
		}
		sort.Slice(rec.Tags, func(i, j int) bool { return rec.Tags[i] < rec.Tags[j] })

		var types []ComponentType
		for t, store := range w.components {
			if _, ok := store[id]; ok {
				types = append(types, t)
			}
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			rec.Components = append(rec.Components, w.components[t][id])
		}

		if rels := w.relations[id]; len(rels) > 0 {
			rec.Relations = make(map[RelationKey]EntityID, len(rels))
			for k, v := range rels {
				rec.Relations[k] = v
			}
		}
		records = append(records, rec)
	}
	return records
}

// RestoreWorld rebuilds a world from Snapshot records, preserving entity
// ids. Hooks are not part of a snapshot: callers re-register them (and
// rebuild derived indexes) after restoring, before any further mutation.
func RestoreWorld(records []EntityRecord) *World {
	w := NewWorld()
	for _, rec := range records {
		w.alive[rec.ID] = true
		if rec.ID >= w.nextID {
			w.nextID = rec.ID + 1
		}
		if rec.Template {
			w.templates[rec.ID] = true
		}
		for _, tag := range rec.Tags {
			w.AddTag(rec.ID, tag)
		}
		for _, c := range rec.Components {
			t := c.Type()
			if w.components[t] == nil {
				w.components[t] = make(map[EntityID]Component)
			}
			w.components[t][rec.ID] = c
		}
	}
	// Second pass so relation targets exist before being pointed at.
	for _, rec := range records {
		for k, target := range rec.Relations {
			w.SetRelation(rec.ID, k, target)
		}
	}
	return w
}
