package gamemap

import "spireward/internal/ecs"

// CMap is the component type for the map entity — one per dungeon floor.
const CMap ecs.ComponentType = 19

// MapComponent attaches a generated floor's grid to its map entity.
// Actors and items on this floor point back at it via a RelIsIn relation;
// the map entity itself carries the component.TagIsMap tag.
type MapComponent struct {
	Map   *GameMap
	Floor int
}

func (MapComponent) Type() ecs.ComponentType { return CMap }
