package game

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/factory"
	"spireward/internal/fov"
	"spireward/internal/gamemap"
	"spireward/internal/mapexport"
	"spireward/internal/mapgen"
)

// MaxFloors bounds the spire; the bottom floor has no down-stair.
const MaxFloors = 10

// fovRadius is the player's sight range in tiles.
const fovRadius = 10

// levelStore generates floors on demand and caches the map entity per
// floor, implementing action.LevelStore. Floors scale with depth: bigger
// maps, tighter rooms, heavier enemy budgets.
type levelStore struct {
	app  *App
	maps map[int]ecs.EntityID
}

// MapEntity returns the cached map entity for a floor, generating and
// populating it on first visit. Floors outside [1, MaxFloors] don't
// exist.
func (ls *levelStore) MapEntity(floor int) ecs.EntityID {
	if floor < 1 || floor > MaxFloors {
		return ecs.NilEntity
	}
	if id, ok := ls.maps[floor]; ok {
		return id
	}

	a := ls.app
	cfg := levelConfig(floor, a)
	gmap, _, _ := mapgen.Generate(cfg)

	mapID := a.world.CreateEntity()
	a.world.AddTag(mapID, component.TagIsMap)
	a.world.Add(mapID, gamemap.MapComponent{Map: gmap, Floor: floor})
	ls.maps[floor] = mapID

	if x, y, ok := mapgen.StairPositions(gmap, gamemap.TileStairsUp); ok {
		dest := floor - 1 // floor 1's up-stair leads nowhere
		if floor == 1 {
			dest = 0
		}
		factory.SpawnStairs(a.world, false, dest, mapID, x, y)
	}
	if x, y, ok := mapgen.StairPositions(gmap, gamemap.TileStairsDown); ok && floor < MaxFloors {
		factory.SpawnStairs(a.world, true, floor+1, mapID, x, y)
	}

	pop := mapgen.Populate(gmap, cfg, populateConfig(floor, a))
	for _, es := range pop.Enemies {
		a.registry.SpawnActor(a.world, a.catalog, a.log, es.TemplateKey, mapID, es.X, es.Y)
	}
	for _, is := range pop.Items {
		a.registry.SpawnItem(a.world, is.TemplateKey, mapID, is.X, is.Y)
	}
	for _, es := range pop.Equipment {
		a.registry.SpawnItem(a.world, es.TemplateKey, mapID, es.X, es.Y)
	}
	for _, ins := range pop.Inscriptions {
		factory.SpawnInscription(a.world, ins.Text, mapID, ins.X, ins.Y)
	}
	placeFurnishings(a, gmap, mapID)

	if a.debug {
		if err := mapexport.WriteSVG(fmt.Sprintf("floor-%02d.svg", floor), gmap); err != nil {
			a.logger.Warn("map export failed", zap.Int("floor", floor), zap.Error(err))
		}
	}
	a.logger.Info("generated floor", zap.Int("floor", floor), zap.Int("rooms", len(gmap.Rooms)))
	return mapID
}

// UpdateFOV recomputes (or clears) the viewer's visibility on its
// current floor and keeps tile memory and ghosts in sync.
func (ls *levelStore) UpdateFOV(viewer ecs.EntityID, clear bool) {
	w := ls.app.world
	mapID, ok := w.GetRelation(viewer, component.RelIsIn)
	if !ok {
		return
	}
	mc := w.Get(mapID, gamemap.CMap)
	if mc == nil {
		return
	}
	fov.Update(w, mapID, mc.(gamemap.MapComponent).Map, viewer, fovRadius, clear)
}

// startPosition is where a fresh player lands on a floor: its up-stair.
func (ls *levelStore) startPosition(floor int) (int, int) {
	mapID := ls.MapEntity(floor)
	if mapID == ecs.NilEntity {
		return 1, 1
	}
	gmap := ls.app.world.Get(mapID, gamemap.CMap).(gamemap.MapComponent).Map
	if x, y, ok := mapgen.StairPositions(gmap, gamemap.TileStairsUp); ok {
		return x, y
	}
	if len(gmap.Rooms) > 0 {
		return gmap.Rooms[0].Center()
	}
	return 1, 1
}

// floorOf reports which floor an entity stands on, defaulting to 1.
func (ls *levelStore) floorOf(id ecs.EntityID) int {
	w := ls.app.world
	mapID, ok := w.GetRelation(id, component.RelIsIn)
	if !ok {
		return 1
	}
	mc := w.Get(mapID, gamemap.CMap)
	if mc == nil {
		return 1
	}
	return mc.(gamemap.MapComponent).Floor
}

// rebuildCache re-derives the floor cache from a restored world's map
// entities.
func (ls *levelStore) rebuildCache() {
	w := ls.app.world
	for _, id := range w.EntitiesWithTag(component.TagIsMap) {
		if mc := w.Get(id, gamemap.CMap); mc != nil {
			ls.maps[mc.(gamemap.MapComponent).Floor] = id
		}
	}
}

// levelConfig scales generation with depth: the first floor is a small
// warren, the last a sprawling one.
func levelConfig(floor int, a *App) *mapgen.Config {
	t := float64(floor-1) / float64(MaxFloors-1)
	return &mapgen.Config{
		MapWidth:      lerpi(50, 90, t),
		MapHeight:     lerpi(28, 50, t),
		MinLeafSize:   8,
		MaxLeafSize:   lerpi(20, 12, t),
		MinRoomSize:   4,
		RoomPadding:   1,
		CorridorStyle: mapgen.CorridorLShaped,
		FloorNumber:   floor,
		NoiseScatter:  0.15,
		NoiseSeed:     a.seed + int64(floor),
		Rand:          a.stream.Fork().Underlying(),
	}
}

func populateConfig(floor int, a *App) *mapgen.PopulateConfig {
	t := float64(floor-1) / float64(MaxFloors-1)
	return &mapgen.PopulateConfig{
		EnemyBudget:      lerpi(6, 48, t),
		EnemyTable:       a.catalog.Enemies,
		ItemCount:        lerpi(3, 7, t),
		ItemTable:        a.catalog.ItemSpawns,
		EquipCount:       lerpi(1, 3, t),
		EquipTable:       a.catalog.EquipSpawns,
		InscriptionTexts: a.catalog.Inscriptions,
		InscriptionCount: 2,
	}
}

// placeFurnishings scatters a couple of one-time bonus pieces in random
// rooms, skipping the stair rooms.
func placeFurnishings(a *App, gmap *gamemap.GameMap, mapID ecs.EntityID) {
	if len(gmap.Rooms) < 3 {
		return
	}
	pieces := []component.Furniture{
		{Glyph: "&", Name: "mossy shrine", HealHP: 6},
		{Glyph: "&", Name: "whetstone block", BonusATK: 1},
		{Glyph: "&", Name: "ancient bulwark", BonusDEF: 1},
		{Glyph: "&", Name: "spring of vigor", BonusMaxHP: 3},
	}
	count := 1 + a.stream.Intn(2)
	for i := 0; i < count; i++ {
		room := gmap.Rooms[1+a.stream.Intn(len(gmap.Rooms)-2)]
		cx, cy := room.Center()
		if !gmap.IsWalkable(cx, cy) {
			continue
		}
		piece := pieces[a.stream.Pick(len(pieces))]
		factory.SpawnFurnishing(a.world, piece, mapID, cx, cy)
	}
}

func lerpi(a, b int, t float64) int {
	return int(math.Round(float64(a) + t*float64(b-a)))
}
