package combat

import (
	"strings"
	"testing"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
	"spireward/internal/rng"
)

func newCombatant(w *ecs.World, actor component.Actor, hp int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, actor)
	w.Add(id, component.Health{Current: hp, Max: hp})
	w.AddTag(id, component.TagIsActor)
	w.AddTag(id, component.TagIsAlive)
	w.AddTag(id, component.TagIsBlocking)
	return id
}

func TestMeleeDamageHitsForAtLeastOne(t *testing.T) {
	s := rng.New(42)
	hits, misses := 0, 0
	for i := 0; i < 200; i++ {
		w := ecs.NewWorld()
		log := message.NewLog(50)
		attacker := newCombatant(w, component.Actor{Name: "player", AttackDice: "1d6"}, 20)
		defender := newCombatant(w, component.Actor{Name: "giant rat", Defense: 0, RewardXP: 5}, 1000)

		before := w.Get(defender, component.CHealth).(component.Health).Current
		res := MeleeDamage(w, s, log, attacker, defender)
		after := w.Get(defender, component.CHealth).(component.Health).Current

		if !res.Hit {
			misses++
			if before != after {
				t.Fatal("miss must not deal damage")
			}
			continue
		}
		hits++
		if res.Damage < 1 {
			t.Fatalf("hit dealt %d damage, want >= 1", res.Damage)
		}
		if before-after != res.Damage {
			t.Fatalf("HP delta %d != reported damage %d", before-after, res.Damage)
		}
	}
	if hits == 0 || misses == 0 {
		t.Fatalf("expected both hits and natural-1 misses across 200 attacks, got %d/%d", hits, misses)
	}
}

func TestMeleeDamageDefenseFloor(t *testing.T) {
	// Defense far above any possible roll: the 25% floor (and the
	// minimum of 1) must still land damage on every hit.
	s := rng.New(9)
	for i := 0; i < 100; i++ {
		w := ecs.NewWorld()
		log := message.NewLog(50)
		attacker := newCombatant(w, component.Actor{Name: "a", AttackDice: "1d4"}, 10)
		defender := newCombatant(w, component.Actor{Name: "d", Defense: 50}, 1000)
		if res := MeleeDamage(w, s, log, attacker, defender); res.Hit && res.Damage < 1 {
			t.Fatalf("hit with huge defense dealt %d, want >= 1", res.Damage)
		}
	}
}

func TestMeleeDamageImmuneAbsorbs(t *testing.T) {
	s := rng.New(3)
	for i := 0; i < 50; i++ {
		w := ecs.NewWorld()
		log := message.NewLog(50)
		attacker := newCombatant(w, component.Actor{Name: "a", AttackDice: "3d6"}, 10)
		defender := newCombatant(w, component.Actor{
			Name:        "d",
			Resistances: map[component.DamageType]component.ResistanceLevel{component.DamagePhysical: component.ResImmune},
		}, 30)
		MeleeDamage(w, s, log, attacker, defender)
		if hp := w.Get(defender, component.CHealth).(component.Health).Current; hp != 30 {
			t.Fatalf("immune defender lost HP: %d", hp)
		}
	}
}

func TestMeleeDamageHealedResistanceHeals(t *testing.T) {
	s := rng.New(5)
	for i := 0; i < 50; i++ {
		w := ecs.NewWorld()
		log := message.NewLog(50)
		attacker := newCombatant(w, component.Actor{Name: "a", AttackDice: "3d6"}, 10)
		defender := newCombatant(w, component.Actor{
			Name:        "d",
			Resistances: map[component.DamageType]component.ResistanceLevel{component.DamagePhysical: component.ResHealed},
		}, 30)
		hurt := w.Get(defender, component.CHealth).(component.Health)
		hurt.Current = 10
		w.Add(defender, hurt)

		MeleeDamage(w, s, log, attacker, defender)
		if hp := w.Get(defender, component.CHealth).(component.Health).Current; hp < 10 {
			t.Fatalf("healed-resistance defender lost HP: %d", hp)
		}
	}
}

func TestDieConvertsToRemainsAndAwardsXP(t *testing.T) {
	w := ecs.NewWorld()
	w.RegisterCascadeRelation(component.RelAffecting)
	log := message.NewLog(50)
	killer := newCombatant(w, component.Actor{Name: "player", XP: 0}, 20)
	victim := newCombatant(w, component.Actor{Name: "giant rat", RewardXP: 5}, 4)
	w.Add(victim, component.AI{Kind: component.AIHostile})

	eff := w.CreateEntity()
	w.AddTag(eff, component.TagIsEffect)
	w.SetRelation(eff, component.RelAffecting, victim)
	w.Add(eff, component.EffectInstance{Kind: component.EffectRegeneration, Magnitude: 1, TurnsRemaining: -1})

	ApplyDamage(w, log, victim, 10, killer)

	if w.HasTag(victim, component.TagIsAlive) || w.HasTag(victim, component.TagIsBlocking) {
		t.Fatal("dead actor kept IsAlive/IsBlocking")
	}
	if w.Get(victim, component.CAI) != nil {
		t.Fatal("dead actor kept its AI")
	}
	actor := w.Get(victim, component.CActor).(component.Actor)
	if actor.Graphic != "%" || actor.Name != "remains of giant rat" {
		t.Fatalf("remains not applied: %q %q", actor.Graphic, actor.Name)
	}
	if got := w.Get(killer, component.CActor).(component.Actor).XP; got != 5 {
		t.Fatalf("killer XP = %d, want 5", got)
	}
	if w.Alive(eff) {
		t.Fatal("effect survived its owner's death")
	}

	found := false
	for _, e := range log.Entries() {
		if strings.Contains(e.Text, "giant rat is dead!") {
			found = true
		}
	}
	if !found {
		t.Fatal("death message missing")
	}
}

func TestHealClampsToMax(t *testing.T) {
	w := ecs.NewWorld()
	id := newCombatant(w, component.Actor{Name: "p"}, 20)
	hp := w.Get(id, component.CHealth).(component.Health)
	hp.Current = 15
	w.Add(id, hp)

	if got := Heal(w, id, 10); got != 5 {
		t.Fatalf("Heal returned %d, want 5", got)
	}
	if got := Heal(w, id, 10); got != 0 {
		t.Fatalf("Heal at full HP returned %d, want 0", got)
	}
}

func TestPoisonClampsAtZeroAndKills(t *testing.T) {
	w := ecs.NewWorld()
	log := message.NewLog(50)
	blame := newCombatant(w, component.Actor{Name: "slime"}, 10)
	victim := newCombatant(w, component.Actor{Name: "d", RewardXP: 2}, 3)

	if got := Poison(w, log, victim, 5, blame); got != 3 {
		t.Fatalf("Poison applied %d, want 3 (clamped)", got)
	}
	if w.HasTag(victim, component.TagIsAlive) {
		t.Fatal("victim should be dead at 0 HP")
	}
	if got := w.Get(blame, component.CActor).(component.Actor).XP; got != 2 {
		t.Fatalf("poison kill blame XP = %d, want 2", got)
	}
}

func TestGetAttackIncludesEquipmentAndEffects(t *testing.T) {
	w := ecs.NewWorld()
	s := rng.New(1)
	id := newCombatant(w, component.Actor{Name: "p", AttackDice: "1d1"}, 20)
	w.Add(id, component.Inventory{
		Slots:    map[rune]component.Item{},
		MainHand: component.Item{Name: "long sword", PowerBonus: "1d1+2"},
	})
	eff := w.CreateEntity()
	w.AddTag(eff, component.TagIsEffect)
	w.SetRelation(eff, component.RelAffecting, id)
	w.Add(eff, component.EffectInstance{Kind: component.EffectAttackBoost, Magnitude: 3, TurnsRemaining: -1})

	// 1d1 (=1) + 1d1+2 (=3) + boost 3 = 7, fully deterministic.
	if got := GetAttack(w, s, id); got != 7 {
		t.Fatalf("GetAttack = %d, want 7", got)
	}
}

func TestGetDefenseSumsSources(t *testing.T) {
	w := ecs.NewWorld()
	id := newCombatant(w, component.Actor{Name: "p", Defense: 2}, 20)
	w.Add(id, component.Inventory{
		Slots: map[rune]component.Item{},
		Body:  component.Item{Name: "leather armor", DefenseBonus: 1},
	})
	eff := w.CreateEntity()
	w.AddTag(eff, component.TagIsEffect)
	w.SetRelation(eff, component.RelAffecting, id)
	w.Add(eff, component.EffectInstance{Kind: component.EffectDefenseBoost, Magnitude: 4, TurnsRemaining: 5})

	if got := GetDefense(w, id); got != 7 {
		t.Fatalf("GetDefense = %d, want 7", got)
	}
}
