// Package fov computes a viewer's visible set via recursive shadowcasting
// and maintains the per-tile Explored/Visible memory, plus the Ghost
// entities that mark where an actor was last actually seen.
package fov

import (
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/gamemap"
)

// octant transform matrices — for each octant, a (dx, dy) sweep pair maps
// to a world offset via worldX = cx + dx*xx + dy*xy, worldY = cy + dx*yx + dy*yy.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Update recomputes viewerID's visible set on gmap and reconciles Ghost
// entities: actors that leave visibility get a Ghost at their last seen
// position and graphic; a ghost is destroyed once its owner or its own
// tile is visible again.
// With clear set, visibility is zeroed instead of recomputed — the
// level-transition discipline clears the old floor before the move, which
// leaves ghosts behind for everything the viewer could see.
func Update(w *ecs.World, mapID ecs.EntityID, gmap *gamemap.GameMap, viewerID ecs.EntityID, radius int, clear bool) {
	posComp := w.Get(viewerID, component.CPosition)
	if posComp == nil {
		return
	}
	pos := posComp.(component.Position)

	wasVisible := make(map[ecs.EntityID]bool)
	for _, id := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsActor},
		Components: []ecs.ComponentType{component.CPosition},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		p := w.Get(id, component.CPosition).(component.Position)
		if gmap.InBounds(p.X, p.Y) && gmap.At(p.X, p.Y).Visible {
			wasVisible[id] = true
		}
	}

	for y := 0; y < gmap.Height; y++ {
		for x := 0; x < gmap.Width; x++ {
			gmap.At(x, y).Visible = false
		}
	}

	if !clear {
		if gmap.InBounds(pos.X, pos.Y) {
			t := gmap.At(pos.X, pos.Y)
			t.Visible = true
			t.Explored = true
		}
		for _, m := range octants {
			castLight(gmap, pos.X, pos.Y, 1, 1.0, 0.0, radius, m[0], m[1], m[2], m[3])
		}
	}

	reconcileGhosts(w, mapID, gmap, wasVisible)
}

func reconcileGhosts(w *ecs.World, mapID ecs.EntityID, gmap *gamemap.GameMap, wasVisible map[ecs.EntityID]bool) {
	actors := w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsActor},
		Components: []ecs.ComponentType{component.CPosition},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	})
	for _, id := range actors {
		p := w.Get(id, component.CPosition).(component.Position)
		visibleNow := gmap.InBounds(p.X, p.Y) && gmap.At(p.X, p.Y).Visible

		if visibleNow {
			if g := existingGhost(w, mapID, id); g != ecs.NilEntity {
				w.DestroyEntity(g)
			}
			continue
		}
		if !wasVisible[id] {
			continue // was already out of sight; no transition happened
		}
		spawnOrUpdateGhost(w, mapID, id, p)
	}

	// A ghost whose tile is back in view no longer marks anything unseen.
	for _, g := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsGhost},
		Components: []ecs.ComponentType{component.CGhost},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		gc := w.Get(g, component.CGhost).(component.Ghost)
		if gmap.InBounds(gc.X, gc.Y) && gmap.At(gc.X, gc.Y).Visible {
			w.DestroyEntity(g)
		}
	}
}

func spawnOrUpdateGhost(w *ecs.World, mapID, ownerID ecs.EntityID, p component.Position) {
	actor, _ := w.Get(ownerID, component.CActor).(component.Actor)
	ghost := component.Ghost{Graphic: actor.Graphic, Name: actor.Name, X: p.X, Y: p.Y}

	if g := existingGhost(w, mapID, ownerID); g != ecs.NilEntity {
		w.Add(g, ghost)
		return
	}
	g := w.CreateEntity()
	w.AddTag(g, component.TagIsGhost)
	w.SetRelation(g, component.RelAffecting, ownerID)
	w.SetRelation(g, component.RelIsIn, mapID)
	w.Add(g, ghost)
}

func existingGhost(w *ecs.World, mapID, ownerID ecs.EntityID) ecs.EntityID {
	for _, g := range w.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsGhost},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID, component.RelAffecting: ownerID},
	}) {
		return g
	}
	return ecs.NilEntity
}

// castLight casts light for one octant using recursive shadowcasting,
// matching the standard RogueBasin reference algorithm.
func castLight(gmap *gamemap.GameMap, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			wx := cx + dx*xx + dy*xy
			wy := cy + dx*yx + dy*yy

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && gmap.InBounds(wx, wy) {
				t := gmap.At(wx, wy)
				t.Visible = true
				t.Explored = true
			}

			opaque := !gmap.InBounds(wx, wy) || !gmap.IsTransparent(wx, wy)

			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(gmap, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
