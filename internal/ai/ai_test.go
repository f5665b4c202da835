package ai

import (
	"strings"
	"testing"

	"spireward/internal/action"
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/factory"
	"spireward/internal/fov"
	"spireward/internal/gamemap"
	"spireward/internal/message"
	"spireward/internal/rng"
	"spireward/internal/spatial"
)

type stubLevels struct {
	w    *ecs.World
	maps map[int]ecs.EntityID
}

func (s *stubLevels) MapEntity(floor int) ecs.EntityID { return s.maps[floor] }

func (s *stubLevels) UpdateFOV(viewer ecs.EntityID, clear bool) {
	mapID, ok := s.w.GetRelation(viewer, component.RelIsIn)
	if !ok {
		return
	}
	mc := s.w.Get(mapID, gamemap.CMap)
	if mc == nil {
		return
	}
	fov.Update(s.w, mapID, mc.(gamemap.MapComponent).Map, viewer, 10, clear)
}

type fixture struct {
	ctx    *action.Context
	world  *ecs.World
	player ecs.EntityID
	mapID  ecs.EntityID
	gmap   *gamemap.GameMap
}

func newFixture(seed int64) *fixture {
	world := ecs.NewWorld()
	world.RegisterCascadeRelation(component.RelAffecting)
	idx := spatial.New()
	idx.Attach(world)
	cat := content.DefaultCatalog()
	log := message.NewLog(100)
	reg := factory.NewRegistry(world, cat)

	gm := gamemap.New(25, 25)
	for y := 1; y < 24; y++ {
		for x := 1; x < 24; x++ {
			gm.Set(x, y, gamemap.MakeFloor())
		}
	}
	mapID := world.CreateEntity()
	world.AddTag(mapID, component.TagIsMap)
	world.Add(mapID, gamemap.MapComponent{Map: gm, Floor: 1})

	levels := &stubLevels{w: world, maps: map[int]ecs.EntityID{1: mapID}}
	ctx := &action.Context{
		World:    world,
		Catalog:  cat,
		RNG:      rng.New(seed),
		Log:      log,
		Index:    idx,
		Registry: reg,
		Levels:   levels,
	}
	player := reg.SpawnPlayer(world, cat, log, mapID, 12, 12)
	levels.UpdateFOV(player, false)
	return &fixture{ctx: ctx, world: world, player: player, mapID: mapID, gmap: gm}
}

func TestHostileAdjacentAttacks(t *testing.T) {
	f := newFixture(1)
	rat := f.ctx.Registry.SpawnActor(f.world, f.ctx.Catalog, f.ctx.Log, "rat", f.mapID, 13, 12)

	act := NextAction(f.ctx, rat)
	if act.Kind != action.KindMelee || act.DX != -1 || act.DY != 0 {
		t.Fatalf("adjacent hostile chose %+v, want Melee(-1,0)", act)
	}
}

func TestHostileAtRangePathsTowardPlayer(t *testing.T) {
	f := newFixture(1)
	rat := f.ctx.Registry.SpawnActor(f.world, f.ctx.Catalog, f.ctx.Log, "rat", f.mapID, 6, 12)

	act := NextAction(f.ctx, rat)
	if act.Kind != action.KindFollowPath {
		t.Fatalf("ranged hostile chose %+v, want FollowPath", act)
	}
	path := f.world.Get(rat, component.CAI).(component.AI).Path
	if len(path) == 0 {
		t.Fatal("no path stored")
	}
	last := path[len(path)-1]
	if last != [2]int{12, 12} {
		t.Fatalf("path ends at %v, want the player tile", last)
	}
}

// Losing sight keeps the stored path alive until it runs out.
func TestHostilePathPersistsOutOfSight(t *testing.T) {
	f := newFixture(1)
	rat := f.ctx.Registry.SpawnActor(f.world, f.ctx.Catalog, f.ctx.Log, "rat", f.mapID, 6, 12)

	if act := NextAction(f.ctx, rat); act.Kind != action.KindFollowPath {
		t.Fatalf("setup: want FollowPath, got %+v", act)
	}
	// Zero all visibility: the rat can no longer see the player's tile.
	for y := 0; y < f.gmap.Height; y++ {
		for x := 0; x < f.gmap.Width; x++ {
			f.gmap.At(x, y).Visible = false
		}
	}
	if act := NextAction(f.ctx, rat); act.Kind != action.KindFollowPath {
		t.Fatalf("out of sight with a stored path: want FollowPath, got %+v", act)
	}

	aiComp := f.world.Get(rat, component.CAI).(component.AI)
	aiComp.Path = nil
	f.world.Add(rat, aiComp)
	if act := NextAction(f.ctx, rat); act.Kind != action.KindWait {
		t.Fatalf("out of sight with no path: want Wait, got %+v", act)
	}
}

func TestConfusedBumpsRandomlyThenRestores(t *testing.T) {
	f := newFixture(1)
	orc := f.ctx.Registry.SpawnActor(f.world, f.ctx.Catalog, f.ctx.Log, "goblin", f.mapID, 6, 6)
	f.world.Add(orc, component.AI{
		Kind: component.AIConfused, TurnsRemaining: 3,
		RestoreKind: component.AIHostile, RestoreSightRange: 8,
	})

	for i := 0; i < 3; i++ {
		act := NextAction(f.ctx, orc)
		if act.Kind != action.KindBump {
			t.Fatalf("confused turn %d chose %+v, want Bump", i, act)
		}
		if act.DX == 0 && act.DY == 0 {
			t.Fatal("confused bump picked the center direction")
		}
	}
	act := NextAction(f.ctx, orc)
	if act.Kind != action.KindWait {
		t.Fatalf("expiry turn chose %+v, want Wait", act)
	}
	restored := f.world.Get(orc, component.CAI).(component.AI)
	if restored.Kind != component.AIHostile || restored.SightRange != 8 {
		t.Fatalf("AI not restored: %+v", restored)
	}
	found := false
	for _, e := range f.ctx.Log.Entries() {
		if strings.Contains(e.Text, "no longer confused") {
			found = true
		}
	}
	if !found {
		t.Fatal("restore message missing")
	}
}

func TestSpawnerLatchesOnVisibility(t *testing.T) {
	f := newFixture(1)
	// Out of the player's sight radius: stays dormant.
	pod := f.ctx.Registry.SpawnActor(f.world, f.ctx.Catalog, f.ctx.Log, "spore_pod", f.mapID, 2, 2)
	if act := NextAction(f.ctx, pod); act.Kind != action.KindWait {
		t.Fatalf("unseen spawner chose %+v, want Wait", act)
	}

	// Step the player next to it and refresh FOV: the latch sets.
	f.world.Add(f.player, component.Position{X: 4, Y: 4})
	f.ctx.Levels.UpdateFOV(f.player, false)
	if act := NextAction(f.ctx, pod); act.Kind != action.KindSpawnEntity {
		t.Fatalf("seen spawner chose %+v, want SpawnEntity", act)
	}

	// Look away again: initiated stays latched.
	f.world.Add(f.player, component.Position{X: 22, Y: 22})
	f.ctx.Levels.UpdateFOV(f.player, false)
	if act := NextAction(f.ctx, pod); act.Kind != action.KindSpawnEntity {
		t.Fatalf("latched spawner chose %+v, want SpawnEntity", act)
	}
}
