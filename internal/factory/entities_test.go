package factory

import (
	"testing"

	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/message"
)

func setup() (*ecs.World, *content.Catalog, *Registry, ecs.EntityID, *message.Log) {
	w := ecs.NewWorld()
	w.RegisterCascadeRelation(component.RelAffecting)
	cat := content.DefaultCatalog()
	reg := NewRegistry(w, cat)
	mapID := w.CreateEntity()
	w.AddTag(mapID, component.TagIsMap)
	return w, cat, reg, mapID, message.NewLog(20)
}

func TestSpawnActorWiresEverything(t *testing.T) {
	w, cat, reg, mapID, log := setup()
	id := reg.SpawnActor(w, cat, log, "rat", mapID, 3, 4)
	if id == ecs.NilEntity {
		t.Fatal("spawn failed")
	}
	for _, tag := range []ecs.Tag{component.TagIsActor, component.TagIsAlive, component.TagIsBlocking} {
		if !w.HasTag(id, tag) {
			t.Fatalf("missing tag %q", tag)
		}
	}
	if w.IsTemplate(id) {
		t.Fatal("spawned actor is a template")
	}
	hp := w.Get(id, component.CHealth).(component.Health)
	if hp.Current != 4 || hp.Max != 4 {
		t.Fatalf("rat HP = %d/%d, want 4/4", hp.Current, hp.Max)
	}
	aiComp := w.Get(id, component.CAI).(component.AI)
	if aiComp.Kind != component.AIHostile {
		t.Fatal("rat AI not built from its AIBuilder key")
	}
	if got, _ := w.GetRelation(id, component.RelIsIn); got != mapID {
		t.Fatal("IsIn relation not set")
	}
	if p := w.Get(id, component.CPosition).(component.Position); p.X != 3 || p.Y != 4 {
		t.Fatalf("position = %+v", p)
	}
}

func TestSpawnActorRealizesOnCreateTraits(t *testing.T) {
	w, cat, reg, mapID, log := setup()
	troll := reg.SpawnActor(w, cat, log, "troll", mapID, 1, 1)

	effects := w.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsEffect},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: troll},
	})
	if len(effects) != 1 {
		t.Fatalf("troll carries %d effects, want its regeneration", len(effects))
	}
}

func TestSpawnActorLeavesDormantAttackTraits(t *testing.T) {
	w, cat, reg, mapID, log := setup()
	goblin := reg.SpawnActor(w, cat, log, "goblin", mapID, 1, 1)

	spawners := w.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsEffectSpawner},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: goblin},
	})
	if len(spawners) != 1 {
		t.Fatalf("goblin carries %d dormant spawners, want 1", len(spawners))
	}
	sp := w.Get(spawners[0], component.CEffectSpawner).(component.EffectSpawner)
	if sp.Event != component.OnAttack || sp.Target != component.TargetEnemy {
		t.Fatalf("spawner = %+v", sp)
	}
}

func TestSpawnActorInstancesAreIndependent(t *testing.T) {
	w, cat, reg, mapID, log := setup()
	a := reg.SpawnActor(w, cat, log, "goblin", mapID, 1, 1)
	b := reg.SpawnActor(w, cat, log, "goblin", mapID, 2, 2)

	actorA := w.Get(a, component.CActor).(component.Actor)
	actorA.Resistances[component.DamageFire] = component.ResWeak
	w.Add(a, actorA)

	actorB := w.Get(b, component.CActor).(component.Actor)
	if _, leaked := actorB.Resistances[component.DamageFire]; leaked {
		t.Fatal("instances share the template's resistance map")
	}
}

func TestSpawnUnknownKeyReturnsNil(t *testing.T) {
	w, cat, reg, mapID, log := setup()
	if id := reg.SpawnActor(w, cat, log, "no_such_actor", mapID, 1, 1); id != ecs.NilEntity {
		t.Fatal("unknown actor key spawned something")
	}
	if id := reg.SpawnItem(w, "no_such_item", mapID, 1, 1); id != ecs.NilEntity {
		t.Fatal("unknown item key spawned something")
	}
}

func TestAdoptTemplatesReplacesOldOnes(t *testing.T) {
	w, cat, _, _, _ := setup()
	before := len(w.Templates())

	reg := AdoptTemplates(w, cat)
	if reg == nil {
		t.Fatal("no registry")
	}
	after := len(w.Templates())
	if after != before {
		t.Fatalf("template count changed %d -> %d; adoption should replace, not accumulate", before, after)
	}
}
