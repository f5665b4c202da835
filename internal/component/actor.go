package component

import "spireward/internal/ecs"

const CActor ecs.ComponentType = 4

// DamageType classifies an attack or effect for resistance lookup.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageFire     DamageType = "fire"
	DamagePoison   DamageType = "poison"
	DamageCold     DamageType = "cold"
)

// ResistanceLevel scales incoming damage of a given DamageType.
type ResistanceLevel uint8

const (
	ResWeak     ResistanceLevel = iota // x1.5
	ResNone                            // x1.0
	ResModerate                        // x0.66
	ResHigh                            // x0.33
	ResImmune                          // absorbed outright
	ResHealed                          // damage heals instead
)

// Actor holds every stat a combatant or NPC needs: ability scores feeding
// derived bonuses, dice-notation attack, energy/speed for the scheduler,
// progression, and the resistance table consulted by the combat engine.
type Actor struct {
	Name    string
	Graphic string

	STR, DEX, CON int
	MaxHP         int    // spawn-time value; the live pool is the Health component
	AttackDice    string // e.g. "1d6+1", consumed by internal/combat/dice.go
	Defense       int

	Energy          int
	Speed           int // energy gained per scheduler tick
	MoveSpeedCost   int // energy spent performing a Move (Bump and FollowPath are not repriced)
	AttackSpeedCost int // energy spent performing a Melee

	Level    int
	XP       int
	RewardXP int // XP granted to the killer on death

	LootDropChance float64 // 0..1, rolled on death against the floor's item tables
	Resistances    map[DamageType]ResistanceLevel

	AIBuilder    string   // AI policy key ("hostile", "spawner") mapped by factory.SpawnActor
	RacialTraits []string // keys into the trait catalog (internal/content)

	// Spawner actors only: what they spawn and how often.
	SpawnTemplate string
	SpawnRate     int
}

func (Actor) Type() ecs.ComponentType { return CActor }

// Resistance returns the actor's resistance to dt, defaulting to ResNone.
func (a Actor) Resistance(dt DamageType) ResistanceLevel {
	if a.Resistances == nil {
		return ResNone
	}
	if r, ok := a.Resistances[dt]; ok {
		return r
	}
	return ResNone
}

// Clone deep-copies Actor so Instantiate doesn't share the Resistances map
// or RacialTraits slice with the template it was spawned from.
func (a Actor) Clone() ecs.Component {
	out := a
	if a.Resistances != nil {
		out.Resistances = make(map[DamageType]ResistanceLevel, len(a.Resistances))
		for k, v := range a.Resistances {
			out.Resistances[k] = v
		}
	}
	if a.RacialTraits != nil {
		out.RacialTraits = append([]string(nil), a.RacialTraits...)
	}
	return out
}
