package ecs

import "testing"

type cloneComp struct{ vals []int }

func (cloneComp) Type() ComponentType { return 3 }

func (c cloneComp) Clone() Component {
	return cloneComp{vals: append([]int(nil), c.vals...)}
}

func TestTagsAndIndex(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	w.AddTag(a, "IsActor")
	w.AddTag(b, "IsActor")
	w.AddTag(b, "IsAlive")

	if got := w.EntitiesWithTag("IsActor"); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("EntitiesWithTag = %v", got)
	}
	w.RemoveTag(a, "IsActor")
	if w.HasTag(a, "IsActor") {
		t.Fatal("tag not removed")
	}
	if got := w.EntitiesWithTag("IsActor"); len(got) != 1 || got[0] != b {
		t.Fatalf("tag index stale: %v", got)
	}
}

func TestRelationsAndReverseIndex(t *testing.T) {
	w := NewWorld()
	mapA := w.CreateEntity()
	mapB := w.CreateEntity()
	actor := w.CreateEntity()

	w.SetRelation(actor, "IsIn", mapA)
	if got, ok := w.GetRelation(actor, "IsIn"); !ok || got != mapA {
		t.Fatalf("GetRelation = %v, %v", got, ok)
	}
	if got := w.RelationSources("IsIn", mapA); len(got) != 1 || got[0] != actor {
		t.Fatalf("RelationSources = %v", got)
	}

	// Re-pointing replaces, never duplicates.
	w.SetRelation(actor, "IsIn", mapB)
	if got := w.RelationSources("IsIn", mapA); len(got) != 0 {
		t.Fatalf("old target still indexed: %v", got)
	}
	if got := w.RelationSources("IsIn", mapB); len(got) != 1 {
		t.Fatalf("new target not indexed: %v", got)
	}

	w.ClearRelation(actor, "IsIn")
	if _, ok := w.GetRelation(actor, "IsIn"); ok {
		t.Fatal("relation not cleared")
	}
}

func TestAllOfCombinesFilters(t *testing.T) {
	w := NewWorld()
	mapID := w.CreateEntity()
	match := w.CreateEntity()
	w.AddTag(match, "IsActor")
	w.Add(match, testComp{val: 1})
	w.SetRelation(match, "IsIn", mapID)

	wrongTag := w.CreateEntity()
	w.Add(wrongTag, testComp{val: 2})
	w.SetRelation(wrongTag, "IsIn", mapID)

	wrongMap := w.CreateEntity()
	w.AddTag(wrongMap, "IsActor")
	w.Add(wrongMap, testComp{val: 3})

	got := w.AllOf(QuerySpec{
		Tags:       []Tag{"IsActor"},
		Components: []ComponentType{ComponentType(1)},
		Relations:  map[RelationKey]EntityID{"IsIn": mapID},
	})
	if len(got) != 1 || got[0] != match {
		t.Fatalf("AllOf = %v, want [%d]", got, match)
	}
}

func TestNoneOfExcludesTags(t *testing.T) {
	w := NewWorld()
	keep := w.CreateEntity()
	drop := w.CreateEntity()
	w.AddTag(keep, "IsActor")
	w.AddTag(drop, "IsActor")
	w.AddTag(drop, "IsGhost")

	all := w.EntitiesWithTag("IsActor")
	got := w.NoneOf(all, "IsGhost")
	if len(got) != 1 || got[0] != keep {
		t.Fatalf("NoneOf = %v", got)
	}
}

func TestCascadeDestroy(t *testing.T) {
	w := NewWorld()
	w.RegisterCascadeRelation("Affecting")

	owner := w.CreateEntity()
	effect := w.CreateEntity()
	w.SetRelation(effect, "Affecting", owner)
	bystander := w.CreateEntity()

	w.DestroyEntity(owner)
	if w.Alive(effect) {
		t.Fatal("cascade did not destroy the dependent entity")
	}
	if !w.Alive(bystander) {
		t.Fatal("cascade destroyed an unrelated entity")
	}
}

func TestInstantiateDeepCopies(t *testing.T) {
	w := NewWorld()
	tpl := w.CreateEntity()
	w.MarkTemplate(tpl)
	w.AddTag(tpl, "IsActor")
	w.Add(tpl, cloneComp{vals: []int{1, 2}})
	w.SetRelation(tpl, "IsIn", w.CreateEntity())

	inst := w.Instantiate(tpl)
	if !w.HasTag(inst, "IsActor") {
		t.Fatal("tags not copied")
	}
	if w.IsTemplate(inst) {
		t.Fatal("instance must not be a template")
	}
	if _, ok := w.GetRelation(inst, "IsIn"); ok {
		t.Fatal("relations must not be copied")
	}

	got := w.Get(inst, ComponentType(3)).(cloneComp)
	got.vals[0] = 99
	if w.Get(tpl, ComponentType(3)).(cloneComp).vals[0] != 1 {
		t.Fatal("instance shares backing storage with its template")
	}
}

func TestComponentChangeHooks(t *testing.T) {
	w := NewWorld()
	var events []struct{ old, new Component }
	w.OnComponentChange(ComponentType(1), func(w *World, id EntityID, old, new Component) {
		events = append(events, struct{ old, new Component }{old, new})
	})

	id := w.CreateEntity()
	w.Add(id, testComp{val: 1})
	w.Add(id, testComp{val: 2})
	w.Remove(id, ComponentType(1))

	if len(events) != 3 {
		t.Fatalf("%d hook events, want 3", len(events))
	}
	if events[0].old != nil || events[0].new.(testComp).val != 1 {
		t.Fatal("creation event wrong")
	}
	if events[1].old.(testComp).val != 1 || events[1].new.(testComp).val != 2 {
		t.Fatal("replacement event wrong")
	}
	if events[2].old.(testComp).val != 2 || events[2].new != nil {
		t.Fatal("removal event wrong")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	w.AddTag(a, "IsActor")
	w.Add(a, testComp{val: 5})
	b := w.CreateEntity()
	w.SetRelation(b, "Affecting", a)
	dead := w.CreateEntity()
	w.DestroyEntity(dead)

	restored := RestoreWorld(w.Snapshot())
	if !restored.Alive(a) || !restored.Alive(b) {
		t.Fatal("alive entities lost")
	}
	if restored.Alive(dead) {
		t.Fatal("dead entity resurrected")
	}
	if restored.Get(a, ComponentType(1)).(testComp).val != 5 {
		t.Fatal("component value lost")
	}
	if got, ok := restored.GetRelation(b, "Affecting"); !ok || got != a {
		t.Fatal("relation lost")
	}
	// New entities never collide with restored ids.
	if fresh := restored.CreateEntity(); fresh <= b {
		t.Fatalf("fresh id %d collides with restored ids", fresh)
	}
}
