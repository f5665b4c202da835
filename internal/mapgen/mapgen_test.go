package mapgen

import (
	"math/rand"
	"testing"

	"spireward/internal/component"
	"spireward/internal/gamemap"
)

func testConfig(seed int64) *Config {
	return &Config{
		MapWidth:      60,
		MapHeight:     30,
		MinLeafSize:   8,
		MaxLeafSize:   20,
		MinRoomSize:   4,
		RoomPadding:   1,
		CorridorStyle: CorridorLShaped,
		FloorNumber:   1,
		Rand:          rand.New(rand.NewSource(seed)),
	}
}

// Every walkable tile must be reachable from the player start: rooms and
// corridors form one connected component.
func TestGenerateAllFloorConnected(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		cfg := testConfig(seed)
		gm, px, py := Generate(cfg)

		if !gm.IsWalkable(px, py) {
			t.Fatalf("seed %d: start (%d,%d) not walkable", seed, px, py)
		}

		reached := floodFill(gm, px, py)
		for y := 0; y < gm.Height; y++ {
			for x := 0; x < gm.Width; x++ {
				if gm.IsWalkable(x, y) && !reached[[2]int{x, y}] {
					t.Fatalf("seed %d: walkable tile (%d,%d) unreachable from start", seed, x, y)
				}
			}
		}
	}
}

func floodFill(gm *gamemap.GameMap, sx, sy int) map[[2]int]bool {
	reached := map[[2]int]bool{{sx, sy}: true}
	queue := [][2]int{{sx, sy}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
			next := [2]int{cur[0] + d[0], cur[1] + d[1]}
			if reached[next] || !gm.IsWalkable(next[0], next[1]) {
				continue
			}
			reached[next] = true
			queue = append(queue, next)
		}
	}
	return reached
}

func TestGeneratePlacesBothStairs(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		gm, px, py := Generate(testConfig(seed))
		ux, uy, ok := StairPositions(gm, gamemap.TileStairsUp)
		if !ok {
			t.Fatalf("seed %d: no up-stair", seed)
		}
		if ux != px || uy != py {
			t.Fatalf("seed %d: start (%d,%d) is not the up-stair (%d,%d)", seed, px, py, ux, uy)
		}
		if _, _, ok := StairPositions(gm, gamemap.TileStairsDown); !ok {
			t.Fatalf("seed %d: no down-stair", seed)
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, ax, ay := Generate(testConfig(99))
	b, bx, by := Generate(testConfig(99))
	if ax != bx || ay != by {
		t.Fatal("start position diverged for equal seeds")
	}
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if a.At(x, y).Kind != b.At(x, y).Kind {
				t.Fatalf("tile (%d,%d) diverged for equal seeds", x, y)
			}
		}
	}
}

func TestPopulateRespectsBudgetAndBounds(t *testing.T) {
	cfg := testConfig(5)
	gm, _, _ := Generate(cfg)

	pop := &PopulateConfig{
		EnemyBudget: 20,
		EnemyTable: []EnemyEntry{
			{TemplateKey: "rat", ThreatCost: 2, SpawnWeight: weightAlways(10)},
			{TemplateKey: "troll", ThreatCost: 12, SpawnWeight: weightAlways(3)},
		},
		ItemCount:        4,
		ItemTable:        []ItemEntry{{TemplateKey: "healing_potion", SpawnWeight: weightAlways(10)}},
		InscriptionTexts: []string{"one", "two", "three"},
		InscriptionCount: 2,
	}
	result := Populate(gm, cfg, pop)

	spent := 0
	for _, e := range result.Enemies {
		if !gm.IsWalkable(e.X, e.Y) {
			t.Fatalf("enemy on unwalkable tile (%d,%d)", e.X, e.Y)
		}
		switch e.TemplateKey {
		case "rat":
			spent += 2
		case "troll":
			spent += 12
		default:
			t.Fatalf("unknown template %q", e.TemplateKey)
		}
	}
	if spent > 20 {
		// Both pickers skip entries that cost more than the remaining
		// budget, so the spend never goes past it.
		t.Fatalf("threat spend %d exceeds budget", spent)
	}
	if len(result.Items) == 0 || len(result.Items) > 4 {
		t.Fatalf("%d items placed, want 1..4", len(result.Items))
	}
	if len(result.Inscriptions) != 2 {
		t.Fatalf("%d inscriptions, want 2", len(result.Inscriptions))
	}
}

func weightAlways(w int) []component.SpawnWeightStep {
	return []component.SpawnWeightStep{{MinFloor: 0, Weight: w}}
}
