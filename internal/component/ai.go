package component

import "spireward/internal/ecs"

const CAI ecs.ComponentType = 5

// AIKind names which policy in internal/ai drives this entity. AI is a
// single component rather than three because an entity can only run one
// policy at a time and ConfusedAI needs to remember what it's overriding.
type AIKind uint8

const (
	AIHostile AIKind = iota
	AIConfused
	AISpawner
)

// AI is the tagged-variant AI state attached to non-player actors.
type AI struct {
	Kind AIKind

	// HostileAI — Path is the stored route toward the player's last seen
	// position, consumed one step per FollowPath action. It survives
	// losing sight of the player until exhausted.
	SightRange int
	Path       [][2]int

	// ConfusedAI — wears off after TurnsRemaining bump actions, restoring
	// the entity to RestoreKind/RestoreSightRange.
	TurnsRemaining    int
	RestoreKind       AIKind
	RestoreSightRange int

	// SpawnerAI — spawns SpawnTemplate every Cooldown ticks once its tile
	// has been visible to the player, gated by an internal timer. Initiated
	// latches true the first time the spawner is seen so it keeps
	// spawning even after the player looks away again.
	SpawnTemplate string
	Cooldown      int
	Timer         int
	Initiated     bool
}

func (AI) Type() ecs.ComponentType { return CAI }

// Clone deep-copies the stored path so Instantiate doesn't alias it.
func (a AI) Clone() ecs.Component {
	out := a
	if a.Path != nil {
		out.Path = append([][2]int(nil), a.Path...)
	}
	return out
}
