package effect

import (
	"strings"
	"testing"

	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/message"
	"spireward/internal/rng"
)

func newActor(w *ecs.World, name string, hp, maxHP int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Actor{Name: name})
	w.Add(id, component.Health{Current: hp, Max: maxHP})
	w.AddTag(id, component.TagIsActor)
	w.AddTag(id, component.TagIsAlive)
	return id
}

func effectsOn(w *ecs.World, id ecs.EntityID) []ecs.EntityID {
	return w.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsEffect},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: id},
	})
}

func TestRegenerationTicksForever(t *testing.T) {
	w := ecs.NewWorld()
	cat := content.DefaultCatalog()
	log := message.NewLog(50)
	troll := newActor(w, "cave troll", 8, 16)

	Add(w, cat, log, "regen_minor", troll, troll)
	for i := 0; i < 4; i++ {
		Tick(w, log, troll)
	}
	if hp := w.Get(troll, component.CHealth).(component.Health).Current; hp != 12 {
		t.Fatalf("after 4 regen ticks HP = %d, want 12", hp)
	}
	if len(effectsOn(w, troll)) != 1 {
		t.Fatal("permanent regeneration was consumed")
	}
}

func TestPoisonTicksAndExpires(t *testing.T) {
	w := ecs.NewWorld()
	cat := content.DefaultCatalog()
	log := message.NewLog(50)
	slime := newActor(w, "acid slime", 10, 10)
	victim := newActor(w, "player", 20, 20)

	Add(w, cat, log, "poison_minor", victim, slime)
	for i := 0; i < 4; i++ {
		Tick(w, log, victim)
	}
	if hp := w.Get(victim, component.CHealth).(component.Health).Current; hp != 16 {
		t.Fatalf("after 4 poison ticks HP = %d, want 16", hp)
	}
	if n := len(effectsOn(w, victim)); n != 0 {
		t.Fatalf("expired poison still attached (%d instances)", n)
	}

	logged := false
	for _, e := range log.Entries() {
		if strings.Contains(e.Text, "poison damage") {
			logged = true
		}
	}
	if !logged {
		t.Fatal("poison ticks produced no message")
	}
}

func TestHealingIsOneShot(t *testing.T) {
	w := ecs.NewWorld()
	log := message.NewLog(50)
	id := newActor(w, "player", 5, 20)

	AddInstance(w, component.EffectInstance{Kind: component.EffectHealing, Magnitude: 4}, id)
	Tick(w, log, id)

	if hp := w.Get(id, component.CHealth).(component.Health).Current; hp != 9 {
		t.Fatalf("HP after healing tick = %d, want 9", hp)
	}
	if len(effectsOn(w, id)) != 0 {
		t.Fatal("one-shot healing effect was retained")
	}
}

func TestConfusionSwapsAndPreservesAI(t *testing.T) {
	w := ecs.NewWorld()
	cat := content.DefaultCatalog()
	log := message.NewLog(50)
	orc := newActor(w, "orc", 10, 10)
	w.Add(orc, component.AI{Kind: component.AIHostile, SightRange: 8})

	Add(w, cat, log, "confuse", orc, ecs.NilEntity)

	aiComp := w.Get(orc, component.CAI).(component.AI)
	if aiComp.Kind != component.AIConfused {
		t.Fatal("confusion did not swap the AI")
	}
	if aiComp.TurnsRemaining != 10 {
		t.Fatalf("confusion duration = %d, want 10", aiComp.TurnsRemaining)
	}
	if aiComp.RestoreKind != component.AIHostile || aiComp.RestoreSightRange != 8 {
		t.Fatal("previous AI not preserved for restore")
	}
	if len(effectsOn(w, orc)) != 0 {
		t.Fatal("confusion should not leave a ticking instance")
	}
}

func TestAttachTraitsOnCreateAppliesImmediately(t *testing.T) {
	w := ecs.NewWorld()
	cat := content.DefaultCatalog()
	log := message.NewLog(50)
	troll := newActor(w, "cave troll", 8, 16)
	w.Add(troll, component.Actor{Name: "cave troll", RacialTraits: []string{"lesser_regeneration"}})

	AttachTraits(w, cat, log, troll)

	if len(effectsOn(w, troll)) != 1 {
		t.Fatal("ON_CREATE trait did not attach its effect")
	}
	spawners := w.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsEffectSpawner},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: troll},
	})
	if len(spawners) != 0 {
		t.Fatal("ON_CREATE trait should not leave a dormant spawner")
	}
}

func TestAttachTraitsOnAttackStaysDormantUntilFired(t *testing.T) {
	w := ecs.NewWorld()
	cat := content.DefaultCatalog()
	// Always-fire variant of the goblin's poison touch so the test
	// doesn't depend on the chance roll.
	cat.Traits["lesser_poison"] = content.TraitSpawner{
		Key: "lesser_poison", Event: component.OnAttack, Target: component.TargetEnemy,
		Chance: 1.0, EffectTemplate: "poison_minor",
	}
	log := message.NewLog(50)
	s := rng.New(11)

	goblin := newActor(w, "goblin", 10, 10)
	w.Add(goblin, component.Actor{Name: "goblin", RacialTraits: []string{"lesser_poison"}})
	player := newActor(w, "player", 20, 20)

	AttachTraits(w, cat, log, goblin)
	if len(effectsOn(w, goblin)) != 0 || len(effectsOn(w, player)) != 0 {
		t.Fatal("ON_ATTACK trait applied an effect before its event")
	}

	FireTraits(w, cat, s, log, component.OnAttack, goblin, player)
	if len(effectsOn(w, player)) != 1 {
		t.Fatal("firing ON_ATTACK did not poison the enemy")
	}
	inst := w.Get(effectsOn(w, player)[0], component.CEffectInstance).(component.EffectInstance)
	if inst.Kind != component.EffectPoison || inst.SourceID != goblin {
		t.Fatalf("wrong instance: kind=%d source=%d", inst.Kind, inst.SourceID)
	}

	// Defend event must not trigger attack traits.
	FireTraits(w, cat, s, log, component.OnDefend, goblin, player)
	if len(effectsOn(w, player)) != 1 {
		t.Fatal("OnDefend fired an OnAttack trait")
	}
}
