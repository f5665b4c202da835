// Package spatial maintains an O(1) amortized "what's standing on this
// tile" index, kept current by an ecs.World component-change hook instead
// of being rebuilt every query.
package spatial

import (
	"sort"

	"spireward/internal/component"
	"spireward/internal/ecs"
)

type cell struct {
	mapID ecs.EntityID
	x, y  int
}

// Index answers "which entities occupy (map, x, y)".
type Index struct {
	byCell map[cell]map[ecs.EntityID]bool
	lastAt map[ecs.EntityID]cell
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		byCell: make(map[cell]map[ecs.EntityID]bool),
		lastAt: make(map[ecs.EntityID]cell),
	}
}

// Attach registers the Position change hook that keeps the index current.
// Call once, right after constructing the World.
func (idx *Index) Attach(w *ecs.World) {
	w.OnComponentChange(component.CPosition, func(w *ecs.World, id ecs.EntityID, old, new ecs.Component) {
		idx.remove(id)
		if new == nil {
			return
		}
		pos := new.(component.Position)
		mapID, _ := w.GetRelation(id, component.RelIsIn)
		idx.place(id, cell{mapID: mapID, x: pos.X, y: pos.Y})
	})
}

func (idx *Index) remove(id ecs.EntityID) {
	c, ok := idx.lastAt[id]
	if !ok {
		return
	}
	if set := idx.byCell[c]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(idx.byCell, c)
		}
	}
	delete(idx.lastAt, id)
}

func (idx *Index) place(id ecs.EntityID, c cell) {
	if idx.byCell[c] == nil {
		idx.byCell[c] = make(map[ecs.EntityID]bool)
	}
	idx.byCell[c][id] = true
	idx.lastAt[id] = c
}

// At returns every entity occupying (mapID, x, y), sorted by id.
func (idx *Index) At(mapID ecs.EntityID, x, y int) []ecs.EntityID {
	set := idx.byCell[cell{mapID: mapID, x: x, y: y}]
	out := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Blocked reports whether any entity occupying the cell carries
// TagIsBlocking.
func (idx *Index) Blocked(w *ecs.World, mapID ecs.EntityID, x, y int) bool {
	for _, id := range idx.At(mapID, x, y) {
		if w.HasTag(id, component.TagIsBlocking) {
			return true
		}
	}
	return false
}

// Rebuild drops the index and re-derives it from every positioned entity
// in the world. Used after restoring a saved world, where components were
// loaded without firing change hooks.
func (idx *Index) Rebuild(w *ecs.World) {
	idx.byCell = make(map[cell]map[ecs.EntityID]bool)
	idx.lastAt = make(map[ecs.EntityID]cell)
	for _, id := range w.Query(component.CPosition) {
		if w.IsTemplate(id) {
			continue
		}
		idx.Reindex(w, id)
	}
}

// Reindex forces a recomputed position for id — for callers that set
// Position and RelIsIn directly instead of through Add, or that change
// RelIsIn without touching Position. Rebuild runs it for every positioned
// entity.
func (idx *Index) Reindex(w *ecs.World, id ecs.EntityID) {
	idx.remove(id)
	c := w.Get(id, component.CPosition)
	if c == nil {
		return
	}
	pos := c.(component.Position)
	mapID, _ := w.GetRelation(id, component.RelIsIn)
	idx.place(id, cell{mapID: mapID, x: pos.X, y: pos.Y})
}
