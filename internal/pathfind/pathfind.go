// Package pathfind implements 8-directional (Chebyshev) A* pathing over a
// generated floor, with a per-tile cost penalty for cells another blocking
// actor currently occupies so AI prefers to route around allies.
package pathfind

import (
	"container/heap"

	"spireward/internal/gamemap"
)

const blockerPenalty = 5

// Point is a tile coordinate.
type Point struct{ X, Y int }

var neighborOffsets = [8]Point{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Blocked reports whether (x, y) should be treated as occupied for this
// search — used to apply blockerPenalty rather than a hard wall, so a
// path through a crowded corridor is still found when nothing else works.
type Blocked func(x, y int) bool

// Find returns the path from start to goal (exclusive of start, inclusive
// of goal), or nil if unreachable. Diagonal moves cost 1, same as
// cardinal — Chebyshev distance, matching how movement is priced.
func Find(gmap *gamemap.GameMap, start, goal Point, blocked Blocked) []Point {
	if !gmap.IsWalkable(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return nil
	}

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &node{p: start, g: 0, f: heuristic(start, goal)})

	cameFrom := map[Point]Point{}
	bestG := map[Point]int{start: 0}
	visited := map[Point]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if visited[cur.p] {
			continue
		}
		visited[cur.p] = true
		if cur.p == goal {
			return reconstruct(cameFrom, start, goal)
		}

		for _, off := range neighborOffsets {
			np := Point{cur.p.X + off.X, cur.p.Y + off.Y}
			if !gmap.IsWalkable(np.X, np.Y) {
				continue
			}
			cost := 1
			if blocked != nil && blocked(np.X, np.Y) && np != goal {
				cost += blockerPenalty
			}
			g := cur.g + cost
			if prev, ok := bestG[np]; ok && prev <= g {
				continue
			}
			bestG[np] = g
			cameFrom[np] = cur.p
			heap.Push(open, &node{p: np, g: g, f: g + heuristic(np, goal)})
		}
	}
	return nil
}

func heuristic(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func reconstruct(cameFrom map[Point]Point, start, goal Point) []Point {
	var path []Point
	cur := goal
	for cur != start {
		path = append([]Point{cur}, path...)
		cur = cameFrom[cur]
	}
	return path
}

type node struct {
	p    Point
	g, f int
}

type frontier []*node

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].f < f[j].f }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*node)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
