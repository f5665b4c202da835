package save

import (
	"os"
	"path/filepath"
	"testing"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/gamemap"
	"spireward/internal/message"
)

func buildWorld() (*ecs.World, ecs.EntityID, ecs.EntityID) {
	w := ecs.NewWorld()
	w.RegisterCascadeRelation(component.RelAffecting)

	gm := gamemap.New(10, 10)
	gm.Set(5, 5, gamemap.MakeFloor())
	mapID := w.CreateEntity()
	w.AddTag(mapID, component.TagIsMap)
	w.Add(mapID, gamemap.MapComponent{Map: gm, Floor: 3})

	player := w.CreateEntity()
	w.AddTag(player, component.TagIsPlayer)
	w.AddTag(player, component.TagIsActor)
	w.AddTag(player, component.TagIsAlive)
	w.Add(player, component.Actor{
		Name: "player", AttackDice: "1d6", Level: 2, XP: 40,
		Resistances: map[component.DamageType]component.ResistanceLevel{component.DamageFire: component.ResHigh},
	})
	w.Add(player, component.Health{Current: 11, Max: 25})
	w.Add(player, component.Inventory{
		Slots:    map[rune]component.Item{'a': {Name: "healing potion", Count: 2, MaxCount: 5, AssignedKey: 'a'}},
		Capacity: 26,
	})
	w.SetRelation(player, component.RelIsIn, mapID)
	w.Add(player, component.Position{X: 5, Y: 5})

	eff := w.CreateEntity()
	w.AddTag(eff, component.TagIsEffect)
	w.SetRelation(eff, component.RelAffecting, player)
	w.Add(eff, component.EffectInstance{Kind: component.EffectPoison, Magnitude: 1, TurnsRemaining: 3, SourceID: player})

	return w, player, mapID
}

func TestRoundTrip(t *testing.T) {
	w, player, mapID := buildWorld()
	path := filepath.Join(t.TempDir(), "test.sav")

	snap := &Snapshot{
		RunID:   NewRunID(),
		Seed:    42,
		Floor:   3,
		Records: w.Snapshot(),
		Messages: []message.Entry{
			{Text: "You wait.", FG: message.ColorNeutral, Count: 3},
		},
	}
	if err := Write(path, snap); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 42 || got.Floor != 3 || got.RunID != snap.RunID {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Count != 3 {
		t.Fatalf("messages mismatch: %+v", got.Messages)
	}

	restored := ecs.RestoreWorld(got.Records)
	if !restored.HasTag(player, component.TagIsPlayer) {
		t.Fatal("player tag lost")
	}
	actor := restored.Get(player, component.CActor).(component.Actor)
	if actor.Level != 2 || actor.Resistances[component.DamageFire] != component.ResHigh {
		t.Fatalf("actor mismatch: %+v", actor)
	}
	inv := restored.Get(player, component.CInventory).(component.Inventory)
	if inv.Slots['a'].Count != 2 {
		t.Fatalf("inventory mismatch: %+v", inv.Slots)
	}
	if target, ok := restored.GetRelation(player, component.RelIsIn); !ok || target != mapID {
		t.Fatal("IsIn relation lost")
	}
	mc := restored.Get(mapID, gamemap.CMap).(gamemap.MapComponent)
	if mc.Floor != 3 || mc.Map.At(5, 5).Kind != gamemap.TileFloor {
		t.Fatal("map grid lost")
	}

	// Cascade still works after a restore once re-registered.
	restored.RegisterCascadeRelation(component.RelAffecting)
	effects := restored.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{component.TagIsEffect},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelAffecting: player},
	})
	if len(effects) != 1 {
		t.Fatalf("%d effects after restore, want 1", len(effects))
	}
	restored.DestroyEntity(player)
	if restored.Alive(effects[0]) {
		t.Fatal("cascade delete broken after restore")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.sav")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.sav")
	if err := os.WriteFile(path, []byte("not a snappy stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("corrupt file should error, not crash")
	}
}

func TestWriteIsAtomic(t *testing.T) {
	w, _, _ := buildWorld()
	path := filepath.Join(t.TempDir(), "atomic.sav")
	snap := &Snapshot{RunID: NewRunID(), Records: w.Snapshot()}
	if err := Write(path, snap); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
}
