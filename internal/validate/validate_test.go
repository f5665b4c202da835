package validate

import (
	"strings"
	"testing"

	"go.uber.org/multierr"

	"spireward/internal/component"
	"spireward/internal/ecs"
)

func healthyActor(w *ecs.World, mapID ecs.EntityID) ecs.EntityID {
	id := w.CreateEntity()
	w.AddTag(id, component.TagIsActor)
	w.AddTag(id, component.TagIsAlive)
	w.Add(id, component.Actor{Name: "rat", Graphic: "r", Energy: 0})
	w.Add(id, component.Health{Current: 4, Max: 4})
	w.SetRelation(id, component.RelIsIn, mapID)
	w.Add(id, component.Position{X: 1, Y: 1})
	return id
}

func TestCleanWorldValidates(t *testing.T) {
	w := ecs.NewWorld()
	mapID := w.CreateEntity()
	w.AddTag(mapID, component.TagIsMap)
	healthyActor(w, mapID)
	if err := World(w); err != nil {
		t.Fatalf("clean world reported: %v", err)
	}
}

func TestDetectsHPOutOfRange(t *testing.T) {
	w := ecs.NewWorld()
	mapID := w.CreateEntity()
	id := healthyActor(w, mapID)
	w.Add(id, component.Health{Current: 9, Max: 4})
	if err := World(w); err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("HP > MaxHP not reported: %v", err)
	}
}

func TestDetectsAliveRemains(t *testing.T) {
	w := ecs.NewWorld()
	mapID := w.CreateEntity()
	id := healthyActor(w, mapID)
	w.Add(id, component.Actor{Name: "remains of rat", Graphic: "%"})
	if err := World(w); err == nil || !strings.Contains(err.Error(), "remains") {
		t.Fatalf("alive remains not reported: %v", err)
	}
}

func TestDetectsDanglingEffect(t *testing.T) {
	w := ecs.NewWorld()
	mapID := w.CreateEntity()
	victim := healthyActor(w, mapID)

	eff := w.CreateEntity()
	w.AddTag(eff, component.TagIsEffect)
	w.SetRelation(eff, component.RelAffecting, victim)
	w.Add(eff, component.EffectInstance{Kind: component.EffectPoison, Magnitude: 1, TurnsRemaining: 2})

	// Without the cascade registered, destroying the victim strands the
	// effect — exactly what the validator must catch. (The relation
	// itself is wiped by DestroyEntity, so it reports "affects nothing".)
	w.DestroyEntity(victim)
	if err := World(w); err == nil || !strings.Contains(err.Error(), "affects nothing") {
		t.Fatalf("dangling effect not reported: %v", err)
	}
}

func TestAggregatesMultipleViolations(t *testing.T) {
	w := ecs.NewWorld()
	mapID := w.CreateEntity()
	a := healthyActor(w, mapID)
	b := healthyActor(w, mapID)
	w.Add(a, component.Health{Current: -1, Max: 4})
	w.Add(b, component.Health{Current: 99, Max: 4})

	err := World(w)
	if err == nil {
		t.Fatal("violations not reported")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Fatalf("%d errors aggregated, want 2", n)
	}
}
