package component

import "spireward/internal/ecs"

const (
	CEffectInstance ecs.ComponentType = 7
	CEffectSpawner  ecs.ComponentType = 8
)

// EffectKind names what an effect instance does when it affects its owner.
// internal/effect interprets Kind + Magnitude each tick.
type EffectKind uint8

const (
	EffectPoison       EffectKind = iota // damage-over-time, ignores Defense
	EffectRegeneration                   // heal-over-time, never expires
	EffectHealing                        // one-shot heal, consumed on first tick
	EffectConfusion                      // swaps the owner's AI to AIConfused
	EffectAttackBoost                    // adds Magnitude to attack rolls
	EffectDefenseBoost                   // adds Magnitude to Defense
)

// EffectInstance is its own entity, related to its owner via RelAffecting,
// so destroying the owner cascades to destroy the effect (see
// ecs.World.RegisterCascadeRelation) instead of living in a list embedded
// on the owner.
type EffectInstance struct {
	TemplateKey    string // catalog key this instance was stamped from
	Kind           EffectKind
	Magnitude      int
	TurnsRemaining int          // <0 means permanent; never decremented
	SourceID       ecs.EntityID // who gets the blame when this effect kills
}

func (EffectInstance) Type() ecs.ComponentType { return CEffectInstance }

// Permanent reports whether the effect never expires on its own.
func (e EffectInstance) Permanent() bool { return e.TurnsRemaining < 0 }

// TraitEvent names the discrete moment a dormant racial-trait spawner
// fires: never polled, only triggered by the combat engine or at spawn.
type TraitEvent uint8

const (
	OnCreate TraitEvent = iota
	OnAttack
	OnDefend
)

// TraitTarget names who a fired trait's effect lands on.
type TraitTarget uint8

const (
	TargetSelf TraitTarget = iota
	TargetEnemy
)

// EffectSpawner is a dormant racial trait attached to its owner via
// RelAffecting. ON_CREATE traits never become spawners — they apply their
// effect immediately at actor spawn; ON_ATTACK/ON_DEFEND spawners sit on
// the owner until the combat engine fires their event.
type EffectSpawner struct {
	EffectTemplate string
	Event          TraitEvent
	Target         TraitTarget
	Chance         float64 // 0..1 probability per trigger; 0 means always
}

func (EffectSpawner) Type() ecs.ComponentType { return CEffectSpawner }
