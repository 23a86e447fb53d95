package engine

import (
	"container/heap"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/station"
)

// neighborOffsets is the fixed expansion order for grid neighbors: north,
// east, south, west. The order is part of the determinism contract; changing
// it changes path selection for equal-cost routes.
var neighborOffsets = [4][2]int{
	{0, -1},
	{1, 0},
	{0, 1},
	{-1, 0},
}

type pathNode struct {
	pos        agent.Position
	f          int // g + heuristic
	g          int // steps from start
	dirChanges int // direction changes along the path so far
	dir        int // index into neighborOffsets, -1 at start and vent exits
	seq        int // insertion order, final tiebreak
	index      int // heap bookkeeping
}

type pathQueue []*pathNode

func (q pathQueue) Len() int { return len(q) }

// Less orders by f cost, then fewer direction changes, then insertion order.
// The last tier makes pop order total, so equal-cost frontiers expand
// identically on every run.
func (q pathQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].dirChanges != q[j].dirChanges {
		return q[i].dirChanges < q[j].dirChanges
	}
	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pathQueue) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

func manhattan(a, b agent.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// FindPath runs A* from start to goal on the station grid, unit cost per
// step, maintenance ducts included when useVents is set. Returns the tile
// sequence excluding the start, or nil when the goal is unreachable. Each
// tile is expanded at most once; a tile already settled is never revisited
// even if a later route ties its cost, which keeps the search deterministic.
func FindPath(m *station.Map, start, goal agent.Position, useVents bool) []agent.Position {
	if start == goal {
		return []agent.Position{}
	}
	if !m.Walkable(goal.X, goal.Y) {
		return nil
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	startNode := &pathNode{pos: start, f: manhattan(start, goal), dir: -1, seq: seq}
	heap.Push(open, startNode)

	cameFrom := make(map[agent.Position]agent.Position)
	settled := make(map[agent.Position]bool)
	inOpen := map[agent.Position]*pathNode{start: startNode}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		delete(inOpen, cur.pos)
		if settled[cur.pos] {
			continue
		}
		settled[cur.pos] = true

		if cur.pos == goal {
			return rebuildPath(cameFrom, start, goal)
		}

		expand := func(next agent.Position, dir int) {
			if settled[next] {
				return
			}
			changes := cur.dirChanges
			if dir != cur.dir && cur.dir != -1 {
				changes++
			}
			g := cur.g + 1
			if existing, ok := inOpen[next]; ok {
				if g > existing.g || (g == existing.g && changes >= existing.dirChanges) {
					return
				}
			}
			seq++
			node := &pathNode{
				pos:        next,
				g:          g,
				f:          g + manhattan(next, goal),
				dirChanges: changes,
				dir:        dir,
				seq:        seq,
			}
			cameFrom[next] = cur.pos
			inOpen[next] = node
			heap.Push(open, node)
		}

		for dir, off := range neighborOffsets {
			next := agent.Position{X: cur.pos.X + off[0], Y: cur.pos.Y + off[1]}
			if !m.Walkable(next.X, next.Y) {
				continue
			}
			expand(next, dir)
		}
		if useVents {
			if ex, ey, ok := m.VentExit(cur.pos.X, cur.pos.Y); ok {
				next := agent.Position{X: ex, Y: ey}
				if m.Walkable(next.X, next.Y) {
					// A duct traversal resets heading.
					expand(next, -1)
				}
			}
		}
	}
	return nil
}

func rebuildPath(cameFrom map[agent.Position]agent.Position, start, goal agent.Position) []agent.Position {
	var rev []agent.Position
	for at := goal; at != start; at = cameFrom[at] {
		rev = append(rev, at)
	}
	path := make([]agent.Position, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// PathToRoom finds a path from start to the center of the named room.
func PathToRoom(m *station.Map, start agent.Position, room string, useVents bool) []agent.Position {
	r, ok := m.Room(room)
	if !ok {
		return nil
	}
	cx, cy := r.Bounds.Center()
	return FindPath(m, start, agent.Position{X: cx, Y: cy}, useVents)
}
