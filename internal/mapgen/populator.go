package mapgen

import (
	"spireward/internal/component"
	"spireward/internal/gamemap"
)

// EnemyEntry references a catalog actor template, with a threat cost
// spent against Config.EnemyBudget and a floor-scaled spawn weight.
type EnemyEntry struct {
	TemplateKey string
	ThreatCost  int
	SpawnWeight []component.SpawnWeightStep
}

// ItemEntry references a catalog item template with a floor-scaled weight.
type ItemEntry struct {
	TemplateKey string
	SpawnWeight []component.SpawnWeightStep
}

// PopulateConfig adds the population tables to a generated floor's Config.
type PopulateConfig struct {
	EnemyBudget      int
	EnemyTable       []EnemyEntry
	ItemCount        int
	ItemTable        []ItemEntry
	EquipCount       int
	EquipTable       []ItemEntry
	InscriptionTexts []string
	InscriptionCount int
}

type spawnPoint struct{ X, Y int }

// EnemySpawn, ItemSpawn, EquipSpawn, InscriptionSpawn name a catalog
// template and the tile it should appear on.
type EnemySpawn struct {
	TemplateKey string
	X, Y        int
}
type ItemSpawn struct {
	TemplateKey string
	X, Y        int
}
type InscriptionSpawn struct {
	Text string
	X, Y int
}

// PopulateResult collects everything Populate decided to place.
type PopulateResult struct {
	Enemies      []EnemySpawn
	Items        []ItemSpawn
	Equipment    []ItemSpawn
	Inscriptions []InscriptionSpawn
}

// Populate spends EnemyBudget on a weighted selection of EnemyTable
// entries (filtered to those with nonzero weight at this floor),
// guarantees at least one enemy per non-spawn/non-stairs room when
// affordable, then scatters items, equipment, and inscriptions.
func Populate(gmap *gamemap.GameMap, cfg *Config, pop *PopulateConfig) PopulateResult {
	var result PopulateResult
	rooms := gmap.Rooms
	if len(rooms) <= 2 {
		return result
	}
	placeable := rooms[1 : len(rooms)-1]

	occupied := make(map[spawnPoint]bool)
	pick := func(room gamemap.Rect) (int, int) {
		return pickFreeInRoom(room, cfg, occupied)
	}
	claim := func(x, y int) { occupied[spawnPoint{x, y}] = true }

	budget := pop.EnemyBudget
	for _, room := range placeable {
		entry, ok := cheapestAffordable(pop.EnemyTable, budget, cfg.FloorNumber)
		if !ok {
			break
		}
		x, y := pick(room)
		claim(x, y)
		result.Enemies = append(result.Enemies, EnemySpawn{TemplateKey: entry.TemplateKey, X: x, Y: y})
		budget -= entry.ThreatCost
	}
	for budget > 0 {
		entry, ok := weightedAffordable(cfg.Rand, pop.EnemyTable, budget, cfg.FloorNumber)
		if !ok {
			break
		}
		room := placeable[cfg.Rand.Intn(len(placeable))]
		x, y := pick(room)
		claim(x, y)
		result.Enemies = append(result.Enemies, EnemySpawn{TemplateKey: entry.TemplateKey, X: x, Y: y})
		budget -= entry.ThreatCost
	}

	for i := 0; i < pop.ItemCount; i++ {
		entry, ok := weightedItem(cfg.Rand, pop.ItemTable, cfg.FloorNumber)
		if !ok {
			break
		}
		room := rooms[cfg.Rand.Intn(len(rooms))]
		x, y := pick(room)
		claim(x, y)
		result.Items = append(result.Items, ItemSpawn{TemplateKey: entry.TemplateKey, X: x, Y: y})
	}
	for i := 0; i < pop.EquipCount; i++ {
		entry, ok := weightedItem(cfg.Rand, pop.EquipTable, cfg.FloorNumber)
		if !ok {
			break
		}
		room := rooms[cfg.Rand.Intn(len(rooms))]
		x, y := pick(room)
		claim(x, y)
		result.Equipment = append(result.Equipment, ItemSpawn{TemplateKey: entry.TemplateKey, X: x, Y: y})
	}

	pool := make([]string, len(pop.InscriptionTexts))
	copy(pool, pop.InscriptionTexts)
	cfg.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	count := pop.InscriptionCount
	if count > len(pool) {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		room := rooms[cfg.Rand.Intn(len(rooms))]
		x, y := pick(room)
		claim(x, y)
		result.Inscriptions = append(result.Inscriptions, InscriptionSpawn{Text: pool[i], X: x, Y: y})
	}

	return result
}

func cheapestAffordable(table []EnemyEntry, budget, floor int) (EnemyEntry, bool) {
	var best EnemyEntry
	found := false
	for _, e := range table {
		if component.WeightAt(e.SpawnWeight, floor) <= 0 || e.ThreatCost > budget {
			continue
		}
		if !found || e.ThreatCost < best.ThreatCost {
			best, found = e, true
		}
	}
	return best, found
}

func weightedAffordable(rnd randIntner, table []EnemyEntry, budget, floor int) (EnemyEntry, bool) {
	var candidates []EnemyEntry
	var weights []int
	total := 0
	for _, e := range table {
		w := component.WeightAt(e.SpawnWeight, floor)
		if w <= 0 || e.ThreatCost > budget {
			continue
		}
		candidates = append(candidates, e)
		weights = append(weights, w)
		total += w
	}
	if total <= 0 {
		return EnemyEntry{}, false
	}
	roll := rnd.Intn(total)
	for i, w := range weights {
		if roll < w {
			return candidates[i], true
		}
		roll -= w
	}
	return candidates[len(candidates)-1], true
}

func weightedItem(rnd randIntner, table []ItemEntry, floor int) (ItemEntry, bool) {
	var candidates []ItemEntry
	var weights []int
	total := 0
	for _, e := range table {
		w := component.WeightAt(e.SpawnWeight, floor)
		if w <= 0 {
			continue
		}
		candidates = append(candidates, e)
		weights = append(weights, w)
		total += w
	}
	if total <= 0 {
		return ItemEntry{}, false
	}
	roll := rnd.Intn(total)
	for i, w := range weights {
		if roll < w {
			return candidates[i], true
		}
		roll -= w
	}
	return candidates[len(candidates)-1], true
}

// randIntner is satisfied by *rand.Rand; named so the weighted pickers
// don't need to import math/rand just to spell out the parameter type.
type randIntner interface{ Intn(int) int }

func pickFreeInRoom(room gamemap.Rect, cfg *Config, occupied map[spawnPoint]bool) (int, int) {
	const maxAttempts = 20
	for i := 0; i < maxAttempts; i++ {
		x, y := randomInRoom(room, cfg)
		if !occupied[spawnPoint{x, y}] {
			return x, y
		}
	}
	return randomInRoom(room, cfg)
}

func randomInRoom(room gamemap.Rect, cfg *Config) (int, int) {
	x1, y1 := room.X1+1, room.Y1+1
	x2, y2 := room.X2-1, room.Y2-1
	if x1 > x2 || y1 > y2 {
		x1, y1 = room.X1, room.Y1
		x2, y2 = room.X2, room.Y2
	}
	w := x2 - x1 + 1
	h := y2 - y1 + 1
	x := x1 + cfg.Rand.Intn(max(1, w))
	y := y1 + cfg.Rand.Intn(max(1, h))
	return x, y
}
