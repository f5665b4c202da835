// Package effect manages timed and permanent effects: instances stamped
// from catalog templates and attached to their owner through the
// Affecting relation, plus the dormant racial-trait spawners the combat
// engine fires on attack or defend. The scheduler ticks every effect on
// an actor at the end of that actor's action sequence.
package effect

import (
	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/message"
	"spireward/internal/rng"
)

// Add stamps a fresh instance of the named effect template onto target.
// source is who the effect is blamed on when it kills (NilEntity for
// self-inflicted or environmental effects). Confusion is special-cased:
// it rewires the target's AI instead of leaving a ticking instance.
func Add(w *ecs.World, cat *content.Catalog, log *message.Log, templateKey string, target, source ecs.EntityID) ecs.EntityID {
	tpl, ok := cat.EffectTemplates[templateKey]
	if !ok {
		return ecs.NilEntity
	}

	if tpl.Kind == component.EffectConfusion {
		confuse(w, log, target, tpl.TurnsRemaining)
		return ecs.NilEntity
	}

	e := w.CreateEntity()
	w.AddTag(e, component.TagIsEffect)
	w.SetRelation(e, component.RelAffecting, target)
	w.Add(e, component.EffectInstance{
		TemplateKey:    templateKey,
		Kind:           tpl.Kind,
		Magnitude:      tpl.Magnitude,
		TurnsRemaining: tpl.TurnsRemaining,
		SourceID:       source,
	})
	return e
}

// AddInstance attaches a ready-built effect instance to target, for
// effects that don't come from a catalog template (furnishing bonuses).
func AddInstance(w *ecs.World, inst component.EffectInstance, target ecs.EntityID) ecs.EntityID {
	e := w.CreateEntity()
	w.AddTag(e, component.TagIsEffect)
	w.SetRelation(e, component.RelAffecting, target)
	w.Add(e, inst)
	return e
}

// confuse swaps the target's AI for the confused policy, remembering what
// to restore when it wears off. Actors without an AI (the player) can't
// be confused this way.
func confuse(w *ecs.World, log *message.Log, target ecs.EntityID, turns int) {
	c := w.Get(target, component.CAI)
	if c == nil {
		return
	}
	prev := c.(component.AI)
	if prev.Kind == component.AIConfused {
		// Already confused: just top the duration back up.
		prev.TurnsRemaining = turns
		w.Add(target, prev)
		return
	}
	w.Add(target, component.AI{
		Kind:              component.AIConfused,
		TurnsRemaining:    turns,
		RestoreKind:       prev.Kind,
		RestoreSightRange: prev.SightRange,
		SpawnTemplate:     prev.SpawnTemplate,
		Cooldown:          prev.Cooldown,
		Timer:             prev.Timer,
		Initiated:         prev.Initiated,
	})
	log.Addf(message.ColorStatusEffect,
		"The eyes of the %s look vacant, as it starts to stumble around!", combat.Name(w, target))
}

// Tick runs every effect affecting entity once and removes the consumed
// ones. Called by the scheduler after an actor finishes its actions for
// the tick.
func Tick(w *ecs.World, log *message.Log, entity ecs.EntityID) {
	for _, e := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsEffect},
		Components: []ecs.ComponentType{component.CEffectInstance},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: entity},
	}) {
		inst := w.Get(e, component.CEffectInstance).(component.EffectInstance)
		consumed := affect(w, log, entity, &inst)
		if consumed {
			w.DestroyEntity(e)
		} else {
			w.Add(e, inst)
		}
	}
}

// affect applies one effect tick and reports whether the instance is
// fully consumed.
func affect(w *ecs.World, log *message.Log, entity ecs.EntityID, inst *component.EffectInstance) bool {
	switch inst.Kind {
	case component.EffectHealing:
		if healed := combat.Heal(w, entity, inst.Magnitude); healed > 0 {
			log.Addf(message.ColorHealthRecover, "%s recovers %d HP.", combat.Name(w, entity), healed)
		}
		return true

	case component.EffectRegeneration:
		if healed := combat.Heal(w, entity, inst.Magnitude); healed > 0 {
			log.Addf(message.ColorHealthRecover, "%s recovers %d HP.", combat.Name(w, entity), healed)
		}
		return !inst.Permanent() && countdown(inst)

	case component.EffectPoison:
		if amount := combat.Poison(w, log, entity, inst.Magnitude, inst.SourceID); amount > 0 {
			log.Addf(message.ColorStatusEffect, "%s took %d poison damage.", combat.Name(w, entity), amount)
		}
		return !inst.Permanent() && countdown(inst)

	case component.EffectAttackBoost, component.EffectDefenseBoost:
		// Passive while attached; the combat engine reads the magnitude.
		return !inst.Permanent() && countdown(inst)
	}
	return true
}

// countdown decrements a timed effect and reports expiry.
func countdown(inst *component.EffectInstance) bool {
	inst.TurnsRemaining--
	return inst.TurnsRemaining <= 0
}

// AttachTraits realizes an actor's racial traits at spawn time: ON_CREATE
// traits apply their effect immediately, every other activation leaves a
// dormant spawner entity affecting the actor for FireTraits to find.
func AttachTraits(w *ecs.World, cat *content.Catalog, log *message.Log, actor ecs.EntityID) {
	c := w.Get(actor, component.CActor)
	if c == nil {
		return
	}
	for _, key := range c.(component.Actor).RacialTraits {
		trait, ok := cat.Traits[key]
		if !ok {
			continue
		}
		if trait.Event == component.OnCreate {
			Add(w, cat, log, trait.EffectTemplate, actor, actor)
			continue
		}
		sp := w.CreateEntity()
		w.AddTag(sp, component.TagIsEffectSpawner)
		w.SetRelation(sp, component.RelAffecting, actor)
		w.Add(sp, component.EffectSpawner{
			EffectTemplate: trait.EffectTemplate,
			Event:          trait.Event,
			Target:         trait.Target,
			Chance:         trait.Chance,
		})
	}
}

// FireTraits triggers every dormant spawner on owner whose activation
// matches event. enemy is the other party of the attack: the defender
// when owner just attacked, the attacker when owner just defended.
func FireTraits(w *ecs.World, cat *content.Catalog, s *rng.Stream, log *message.Log, event component.TraitEvent, owner, enemy ecs.EntityID) {
	for _, sp := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsEffectSpawner},
		Components: []ecs.ComponentType{component.CEffectSpawner},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: owner},
	}) {
		spawner := w.Get(sp, component.CEffectSpawner).(component.EffectSpawner)
		if spawner.Event != event {
			continue
		}
		if spawner.Chance > 0 && !s.Chance(spawner.Chance) {
			continue
		}
		target := owner
		if spawner.Target == component.TargetEnemy {
			if enemy == ecs.NilEntity || !w.Alive(enemy) {
				continue
			}
			target = enemy
		}
		Add(w, cat, log, spawner.EffectTemplate, target, owner)
	}
}
