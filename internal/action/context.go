package action

import (
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/factory"
	"spireward/internal/gamemap"
	"spireward/internal/message"
	"spireward/internal/rng"
	"spireward/internal/spatial"
)

// LevelStore resolves floor numbers to map entities, generating and
// caching floors on demand, and owns the player FOV refresh. Implemented
// by internal/game; an interface here so actions can change levels
// without importing the orchestrator.
type LevelStore interface {
	MapEntity(floor int) ecs.EntityID
	UpdateFOV(viewer ecs.EntityID, clear bool)
}

// Context bundles the world and services every action resolution needs.
// One Context lives for the whole game; it is plain wiring, not state.
type Context struct {
	World    *ecs.World
	Catalog  *content.Catalog
	RNG      *rng.Stream
	Log      *message.Log
	Index    *spatial.Index
	Registry *factory.Registry
	Levels   LevelStore
}

// MapOf returns the map entity an actor stands in and its grid.
func (c *Context) MapOf(id ecs.EntityID) (ecs.EntityID, *gamemap.GameMap) {
	mapID, ok := c.World.GetRelation(id, component.RelIsIn)
	if !ok {
		return ecs.NilEntity, nil
	}
	mc := c.World.Get(mapID, gamemap.CMap)
	if mc == nil {
		return ecs.NilEntity, nil
	}
	return mapID, mc.(gamemap.MapComponent).Map
}

// Position returns an actor's position component, zero if absent.
func (c *Context) Position(id ecs.EntityID) component.Position {
	pc := c.World.Get(id, component.CPosition)
	if pc == nil {
		return component.Position{}
	}
	return pc.(component.Position)
}

// LivingAt returns the alive actor standing on (mapID, x, y), if any.
func (c *Context) LivingAt(mapID ecs.EntityID, x, y int) ecs.EntityID {
	for _, id := range c.Index.At(mapID, x, y) {
		if c.World.HasTag(id, component.TagIsAlive) {
			return id
		}
	}
	return ecs.NilEntity
}
