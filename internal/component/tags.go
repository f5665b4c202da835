package component

import "spireward/internal/ecs"

// Tag atoms attached to entities via ecs.World.AddTag. A boolean fact
// about an entity lives here rather than burning a ComponentType slot on
// an empty marker struct.
const (
	TagIsActor         ecs.Tag = "IsActor"
	TagIsPlayer        ecs.Tag = "IsPlayer"
	TagIsAlive         ecs.Tag = "IsAlive"
	TagIsBlocking      ecs.Tag = "IsBlocking"
	TagIsItem          ecs.Tag = "IsItem"
	TagIsStairsDown    ecs.Tag = "IsStairsDown"
	TagIsStairsUp      ecs.Tag = "IsStairsUp"
	TagIsMap           ecs.Tag = "IsMap"
	TagIsGhost         ecs.Tag = "IsGhost"
	TagIsEffect        ecs.Tag = "IsEffect"
	TagIsEffectSpawner ecs.Tag = "IsEffectSpawner"
)

// Relation keys. Targets are stored via ecs.World.SetRelation/GetRelation.
const (
	RelIsIn      ecs.RelationKey = "IsIn"      // actor/item -> the map entity it's on
	RelAffecting ecs.RelationKey = "Affecting" // effect/spawner/ghost -> the entity it shadows
)
