package component

import "spireward/internal/ecs"

const CGhost ecs.ComponentType = 17

// Ghost is the last-remembered appearance of an actor the player has seen
// but can no longer see. internal/fov spawns one when an IsActor entity
// leaves visibility and destroys it the moment that tile is seen again
// (occupied or not).
type Ghost struct {
	Graphic string
	Name    string
	X, Y    int
}

func (Ghost) Type() ecs.ComponentType { return CGhost }
