// Package mapgen procedurally generates a dungeon floor: a BSP room tree,
// corridors connecting it, noise-scattered terrain inside large rooms, and
// a weighted/budgeted population pass. Population tables reference catalog
// keys, so internal/content owns the numbers and this package owns the
// shapes.
package mapgen

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"spireward/internal/gamemap"
)

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

// Config drives procedural generation for one floor.
type Config struct {
	MapWidth, MapHeight int
	MinLeafSize         int
	MaxLeafSize         int
	MinRoomSize         int
	RoomPadding         int
	CorridorStyle       CorridorStyle

	FloorNumber int

	// NoiseScatter, when > 0, is the fraction (0..1) of tiles in rooms
	// of at least 8x8 that get turned into grass/water via simplex noise
	// instead of plain floor — cosmetic terrain variety.
	NoiseScatter float64
	NoiseSeed    int64

	Rand *rand.Rand
}

type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

func (l *bspLeaf) split(cfg *Config) bool {
	if l.left != nil || l.right != nil {
		return false
	}
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	maxSize := l.H
	if !splitH {
		maxSize = l.W
	}
	if maxSize <= cfg.MinLeafSize*2 {
		return false
	}

	lo := cfg.MinLeafSize
	hi := maxSize - cfg.MinLeafSize
	if lo >= hi {
		return false
	}
	split := lo + cfg.Rand.Intn(hi-lo+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: split}
		l.right = &bspLeaf{X: l.X, Y: l.Y + split, W: l.W, H: l.H - split}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: split, H: l.H}
		l.right = &bspLeaf{X: l.X + split, Y: l.Y, W: l.W - split, H: l.H}
	}
	return true
}

func (l *bspLeaf) createRooms(gmap *gamemap.GameMap, cfg *Config) {
	if l.left != nil || l.right != nil {
		if l.left != nil {
			l.left.createRooms(gmap, cfg)
		}
		if l.right != nil {
			l.right.createRooms(gmap, cfg)
		}
		return
	}
	pad := cfg.RoomPadding
	minW, minH := cfg.MinRoomSize, cfg.MinRoomSize

	availW := l.W - 2*pad
	availH := l.H - 2*pad
	if availW < minW {
		availW = minW
	}
	if availH < minH {
		availH = minH
	}

	rw := minW + cfg.Rand.Intn(max(1, availW-minW+1))
	rh := minH + cfg.Rand.Intn(max(1, availH-minH+1))
	if rw > l.W-2*pad {
		rw = l.W - 2*pad
	}
	if rh > l.H-2*pad {
		rh = l.H - 2*pad
	}
	if rw < 3 {
		rw = 3
	}
	if rh < 3 {
		rh = 3
	}

	rx := l.X + pad + cfg.Rand.Intn(max(1, l.W-rw-2*pad+1))
	ry := l.Y + pad + cfg.Rand.Intn(max(1, l.H-rh-2*pad+1))
	if rx < 1 {
		rx = 1
	}
	if ry < 1 {
		ry = 1
	}
	if rx+rw >= gmap.Width {
		rw = gmap.Width - rx - 1
	}
	if ry+rh >= gmap.Height {
		rh = gmap.Height - ry - 1
	}
	if rw < 3 || rh < 3 {
		return
	}

	room := gamemap.Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			gmap.Set(x, y, gamemap.MakeFloor())
		}
	}
	gmap.Rooms = append(gmap.Rooms, room)
}

func (l *bspLeaf) getRoom() *gamemap.Rect {
	if l.room != nil {
		return l.room
	}
	var lRoom, rRoom *gamemap.Rect
	if l.left != nil {
		lRoom = l.left.getRoom()
	}
	if l.right != nil {
		rRoom = l.right.getRoom()
	}
	if lRoom == nil {
		return rRoom
	}
	return lRoom
}

func (l *bspLeaf) connectChildren(gmap *gamemap.GameMap, cfg *Config) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(gmap, cfg)
	l.right.connectChildren(gmap, cfg)

	lRoom, rRoom := l.left.getRoom(), l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	lCX, lCY := lRoom.Center()
	rCX, rCY := rRoom.Center()
	carveCorridor(gmap, lCX, lCY, rCX, rCY, cfg)
}

// Generate runs BSP generation, scatters terrain, and returns the map plus
// the player start position.
func Generate(cfg *Config) (*gamemap.GameMap, int, int) {
	gmap := gamemap.New(cfg.MapWidth, cfg.MapHeight)
	root := &bspLeaf{X: 0, Y: 0, W: cfg.MapWidth, H: cfg.MapHeight}

	leaves := []*bspLeaf{root}
	splitAny := true
	for splitAny {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil || leaf.right != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > cfg.MaxLeafSize || leaf.H > cfg.MaxLeafSize || cfg.Rand.Float64() > 0.25 {
				if leaf.split(cfg) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	root.createRooms(gmap, cfg)
	root.connectChildren(gmap, cfg)
	scatterTerrain(gmap, cfg)

	px, py := 1, 1
	if len(gmap.Rooms) > 0 {
		px, py = gmap.Rooms[0].Center()
		gmap.Set(px, py, gamemap.MakeStairsUp())
	}
	if len(gmap.Rooms) > 1 {
		last := gmap.Rooms[len(gmap.Rooms)-1]
		sx, sy := last.Center()
		gmap.Set(sx, sy, gamemap.MakeStairsDown())
	}
	return gmap, px, py
}

// StairPositions returns the coordinates of the first tile of the given
// stair kind (rows scanned top to bottom), or ok=false when the map has
// none.
func StairPositions(gmap *gamemap.GameMap, kind gamemap.TileKind) (x, y int, ok bool) {
	for ty := 0; ty < gmap.Height; ty++ {
		for tx := 0; tx < gmap.Width; tx++ {
			if gmap.At(tx, ty).Kind == kind {
				return tx, ty, true
			}
		}
	}
	return 0, 0, false
}

// scatterTerrain turns a fraction of floor tiles in large rooms into
// grass or water using 2D simplex noise, so big rooms aren't uniform
// floor. Small rooms (<8x8) are left alone — this is cosmetic, not a
// gameplay obstacle course.
func scatterTerrain(gmap *gamemap.GameMap, cfg *Config) {
	if cfg.NoiseScatter <= 0 {
		return
	}
	noise := opensimplex.NewNormalized(cfg.NoiseSeed)
	for _, room := range gmap.Rooms {
		w := room.X2 - room.X1 + 1
		h := room.Y2 - room.Y1 + 1
		if w < 8 || h < 8 {
			continue
		}
		for y := room.Y1; y <= room.Y2; y++ {
			for x := room.X1; x <= room.X2; x++ {
				n := noise.Eval2(float64(x)*0.15, float64(y)*0.15)
				if n > 1-cfg.NoiseScatter/2 {
					gmap.Set(x, y, gamemap.MakeWater())
				} else if n < cfg.NoiseScatter/2 {
					gmap.Set(x, y, gamemap.MakeGrass())
				}
			}
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
