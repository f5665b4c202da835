package component

import "spireward/internal/ecs"

const CStairs ecs.ComponentType = 20

// Stairs marks a staircase entity. DestFloor is the floor this stair
// leads to (the map key internal/game resolves or generates on demand);
// 0 means the stair goes nowhere yet.
type Stairs struct {
	Down      bool
	DestFloor int
}

func (Stairs) Type() ecs.ComponentType { return CStairs }
