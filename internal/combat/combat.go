// Package combat resolves melee attacks and the actor lifecycle around
// them: to-hit and crit rolls, damage-type resistance, defense mitigation,
// HP changes, death, and experience. Every random draw comes off the
// caller's rng.Stream so a fight replays identically from a seed.
package combat

import (
	"fmt"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
	"spireward/internal/rng"
)

// Result reports what one melee attack did.
type Result struct {
	Hit    bool
	Crit   bool
	Damage int
	Killed bool
}

// GetAttack rolls the attacker's attack dice plus the dice of every
// equipped item's power bonus plus any flat attack-boost effects.
func GetAttack(w *ecs.World, s *rng.Stream, id ecs.EntityID) int {
	total := 0
	if c := w.Get(id, component.CActor); c != nil {
		d, err := ParseDice(c.(component.Actor).AttackDice)
		if err == nil {
			total += d.Roll(s)
		}
	}
	for _, it := range equippedItems(w, id) {
		if it.PowerBonus == "" {
			continue
		}
		if d, err := ParseDice(it.PowerBonus); err == nil {
			total += d.Roll(s)
		}
	}
	for _, eff := range effectsOn(w, id) {
		if eff.Kind == component.EffectAttackBoost {
			total += eff.Magnitude
		}
	}
	return total
}

// GetDefense sums the actor's base defense, equipped defense bonuses, and
// flat defense-boost effects.
func GetDefense(w *ecs.World, id ecs.EntityID) int {
	total := 0
	if c := w.Get(id, component.CActor); c != nil {
		total += c.(component.Actor).Defense
	}
	for _, it := range equippedItems(w, id) {
		total += it.DefenseBonus
	}
	for _, eff := range effectsOn(w, id) {
		if eff.Kind == component.EffectDefenseBoost {
			total += eff.Magnitude
		}
	}
	return total
}

func equippedItems(w *ecs.World, id ecs.EntityID) []component.Item {
	c := w.Get(id, component.CInventory)
	if c == nil {
		return nil
	}
	inv := c.(component.Inventory)
	var out []component.Item
	for _, it := range []component.Item{inv.Head, inv.Body, inv.Feet, inv.MainHand, inv.OffHand} {
		if !it.IsEmpty() {
			out = append(out, it)
		}
	}
	return out
}

func effectsOn(w *ecs.World, id ecs.EntityID) []component.EffectInstance {
	var out []component.EffectInstance
	for _, e := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsEffect},
		Components: []ecs.ComponentType{component.CEffectInstance},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: id},
	}) {
		out = append(out, w.Get(e, component.CEffectInstance).(component.EffectInstance))
	}
	return out
}

// Name returns an entity's display name, with a fallback so messages
// never show an empty string.
func Name(w *ecs.World, id ecs.EntityID) string {
	if c := w.Get(id, component.CActor); c != nil {
		if n := c.(component.Actor).Name; n != "" {
			return n
		}
	}
	if c := w.Get(id, component.CItem); c != nil {
		if n := c.(component.Item).Name; n != "" {
			return n
		}
	}
	return "something"
}

// MeleeDamage runs one full melee attack from attacker against defender:
// d20 to-hit (natural 1 misses, natural 20 crits for double damage),
// resistance scaling, defense mitigation floored at 25% of the rolled
// damage and at 1, then damage application and any resulting death.
func MeleeDamage(w *ecs.World, s *rng.Stream, log *message.Log, attacker, defender ecs.EntityID) Result {
	atkColor := message.ColorEnemyAtk
	if w.HasTag(attacker, component.TagIsPlayer) {
		atkColor = message.ColorPlayerAtk
	}
	desc := fmt.Sprintf("%s attacks %s", Name(w, attacker), Name(w, defender))

	toHit := s.IntRange(1, 20)
	if toHit == 1 {
		log.Add(desc+" but missed.", atkColor)
		return Result{}
	}
	crit := toHit == 20

	damage := GetAttack(w, s, attacker)
	if crit {
		damage *= 2
	}

	var defActor component.Actor
	if c := w.Get(defender, component.CActor); c != nil {
		defActor = c.(component.Actor)
	}
	switch defActor.Resistance(component.DamagePhysical) {
	case component.ResWeak:
		damage = int(float64(damage) * 1.5)
	case component.ResModerate:
		damage = int(float64(damage) * 0.66)
	case component.ResHigh:
		damage = int(float64(damage) * 0.33)
	case component.ResImmune:
		log.Add(desc+" but it is immune to this damage!", atkColor)
		return Result{Hit: true}
	case component.ResHealed:
		healed := Heal(w, defender, int(float64(damage)*0.33))
		log.Addf(atkColor, "%s but it healed for %d hp!", desc, healed)
		return Result{Hit: true}
	}

	defense := GetDefense(w, defender)
	mitigated := damage - defense
	floor := int(float64(damage) * 0.25)
	if mitigated < floor {
		mitigated = floor
	}
	if mitigated < 1 {
		mitigated = 1
	}
	damage = mitigated

	if crit {
		log.Addf(atkColor, "%s and crits for %d hit points!", desc, damage)
	} else {
		log.Addf(atkColor, "%s for %d hit points.", desc, damage)
	}

	killed := ApplyDamage(w, log, defender, damage, attacker)
	return Result{Hit: true, Crit: crit, Damage: damage, Killed: killed}
}

// ApplyDamage subtracts damage from the target's HP and kills it when HP
// reaches zero, crediting blame with the kill. Reports whether the target
// died.
func ApplyDamage(w *ecs.World, log *message.Log, target ecs.EntityID, damage int, blame ecs.EntityID) bool {
	c := w.Get(target, component.CHealth)
	if c == nil {
		return false
	}
	hp := c.(component.Health)
	hp.Current -= damage
	w.Add(target, hp)
	if hp.Current <= 0 && w.HasTag(target, component.TagIsAlive) {
		Die(w, log, target, blame)
		return true
	}
	return false
}

// Die converts an actor into remains: graphic and name swapped, AI
// dropped, blocking and alive tags removed, lingering effects destroyed,
// and RewardXP credited to whoever gets the blame.
func Die(w *ecs.World, log *message.Log, entity, blame ecs.EntityID) {
	name := Name(w, entity)
	if w.HasTag(entity, component.TagIsPlayer) {
		log.Add("You died!", message.ColorPlayerDie)
	} else {
		log.Addf(message.ColorEnemyDie, "%s is dead!", name)
	}

	if blame != ecs.NilEntity && w.Alive(blame) {
		if c := w.Get(entity, component.CActor); c != nil {
			reward := c.(component.Actor).RewardXP
			if bc := w.Get(blame, component.CActor); bc != nil {
				blameActor := bc.(component.Actor)
				blameActor.XP += reward
				w.Add(blame, blameActor)
				log.Addf(message.ColorNeutral, "%s gains %d experience points.", blameActor.Name, reward)
			}
		}
	}

	if c := w.Get(entity, component.CActor); c != nil {
		actor := c.(component.Actor)
		actor.Graphic = "%"
		actor.Name = "remains of " + name
		w.Add(entity, actor)
	}
	if c := w.Get(entity, component.CRenderable); c != nil {
		r := c.(component.Renderable)
		r.Glyph = "%"
		r.RenderOrder = 1
		w.Add(entity, r)
	}
	w.Remove(entity, component.CAI)
	w.RemoveTag(entity, component.TagIsBlocking)
	w.RemoveTag(entity, component.TagIsAlive)

	// Effects and dormant trait spawners don't outlive their owner.
	for _, e := range w.RelationSources(component.RelAffecting, entity) {
		if w.HasTag(e, component.TagIsEffect) || w.HasTag(e, component.TagIsEffectSpawner) {
			w.DestroyEntity(e)
		}
	}
}

// Heal restores up to amount HP, clamped to MaxHP, and returns how much
// was actually recovered.
func Heal(w *ecs.World, entity ecs.EntityID, amount int) int {
	c := w.Get(entity, component.CHealth)
	if c == nil {
		return 0
	}
	hp := c.(component.Health)
	healed := amount
	if hp.Current+healed > hp.Max {
		healed = hp.Max - hp.Current
	}
	if healed <= 0 {
		return 0
	}
	hp.Current += healed
	w.Add(entity, hp)
	return healed
}

// Poison applies untyped damage that bypasses defense, clamped so HP
// never goes below zero. Returns the amount actually applied; a kill is
// credited to blame.
func Poison(w *ecs.World, log *message.Log, entity ecs.EntityID, amount int, blame ecs.EntityID) int {
	c := w.Get(entity, component.CHealth)
	if c == nil {
		return 0
	}
	hp := c.(component.Health)
	if amount > hp.Current {
		amount = hp.Current
	}
	if amount <= 0 {
		return 0
	}
	ApplyDamage(w, log, entity, amount, blame)
	return amount
}
