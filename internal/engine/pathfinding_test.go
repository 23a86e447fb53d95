package engine

import (
	"testing"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/station"
)

// bfsDistance is the reference shortest-path length used to cross-check the
// search. Returns -1 when the goal is unreachable.
func bfsDistance(m *station.Map, start, goal agent.Position, useVents bool) int {
	if start == goal {
		return 0
	}
	dist := map[agent.Position]int{start: 0}
	queue := []agent.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var nexts []agent.Position
		for _, off := range neighborOffsets {
			nexts = append(nexts, agent.Position{X: cur.X + off[0], Y: cur.Y + off[1]})
		}
		if useVents {
			if ex, ey, ok := m.VentExit(cur.X, cur.Y); ok {
				nexts = append(nexts, agent.Position{X: ex, Y: ey})
			}
		}
		for _, next := range nexts {
			if !m.Walkable(next.X, next.Y) {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			if next == goal {
				return dist[next]
			}
			queue = append(queue, next)
		}
	}
	return -1
}

func TestFindPathMatchesShortestDistance(t *testing.T) {
	m := station.DefaultLayout()
	cases := []struct {
		name        string
		start, goal agent.Position
	}{
		{"across the station", agent.Position{X: 0, Y: 0}, agent.Position{X: 19, Y: 19}},
		{"room to room", agent.Position{X: 7, Y: 7}, agent.Position{X: 12, Y: 2}},
		{"corridor hop", agent.Position{X: 10, Y: 14}, agent.Position{X: 14, Y: 10}},
		{"one step", agent.Position{X: 5, Y: 5}, agent.Position{X: 5, Y: 6}},
	}

	for _, tc := range cases {
		want := bfsDistance(m, tc.start, tc.goal, false)
		path := FindPath(m, tc.start, tc.goal, false)
		if path == nil {
			t.Fatalf("%s: expected a path, got nil", tc.name)
		}
		if len(path) != want {
			t.Errorf("%s: expected path length %d, got %d", tc.name, want, len(path))
		}
		if path[len(path)-1] != tc.goal {
			t.Errorf("%s: path does not end at the goal", tc.name)
		}

		// Every step must be a walkable single tile move.
		prev := tc.start
		for i, step := range path {
			if !m.Walkable(step.X, step.Y) {
				t.Errorf("%s: step %d lands on a sealed tile", tc.name, i)
			}
			if manhattan(prev, step) != 1 {
				t.Errorf("%s: step %d is not adjacent to the previous tile", tc.name, i)
			}
			prev = step
		}
	}
}

func TestFindPathSameStartAndGoal(t *testing.T) {
	m := station.DefaultLayout()
	path := FindPath(m, agent.Position{X: 7, Y: 7}, agent.Position{X: 7, Y: 7}, false)
	if path == nil {
		t.Fatalf("Expected empty path, got nil")
	}
	if len(path) != 0 {
		t.Errorf("Expected zero steps, got %d", len(path))
	}
}

func TestFindPathUnreachableGoal(t *testing.T) {
	m := station.DefaultLayout()
	m.Barricade("Lab", 3)

	goal := agent.Position{X: 12, Y: 12} // inside the sealed Lab
	if path := FindPath(m, agent.Position{X: 0, Y: 0}, goal, false); path != nil {
		t.Errorf("Expected nil path into a barricaded room, got %v", path)
	}
	if path := FindPath(m, agent.Position{X: 0, Y: 0}, agent.Position{X: -1, Y: 5}, false); path != nil {
		t.Errorf("Expected nil path off the grid, got %v", path)
	}
}

func TestFindPathDeterministic(t *testing.T) {
	m := station.DefaultLayout()
	start := agent.Position{X: 2, Y: 2}
	goal := agent.Position{X: 17, Y: 17}

	first := FindPath(m, start, goal, true)
	for run := 0; run < 5; run++ {
		again := FindPath(m, start, goal, true)
		if len(again) != len(first) {
			t.Fatalf("Run %d: path length changed from %d to %d", run, len(first), len(again))
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("Run %d: path diverged at step %d: %v vs %v", run, i, first[i], again[i])
			}
		}
	}
}

func TestFindPathUsesVents(t *testing.T) {
	m := station.DefaultLayout()
	// The Infirmary crawlspace links (4,4) directly to the Generator at (15,15).
	start := agent.Position{X: 4, Y: 4}
	goal := agent.Position{X: 15, Y: 15}

	withVents := FindPath(m, start, goal, true)
	if withVents == nil || len(withVents) != 1 {
		t.Fatalf("Expected a single duct traversal, got %v", withVents)
	}
	if withVents[0] != goal {
		t.Errorf("Duct traversal must land on the far side, got %v", withVents[0])
	}

	onFoot := FindPath(m, start, goal, false)
	if onFoot == nil {
		t.Fatalf("Expected a walking route")
	}
	if len(onFoot) <= 1 {
		t.Errorf("Walking route should be longer than the duct, got %d steps", len(onFoot))
	}
	if want := bfsDistance(m, start, goal, false); len(onFoot) != want {
		t.Errorf("Expected walking route of %d steps, got %d", want, len(onFoot))
	}
}

func TestPathToRoomReachesCenter(t *testing.T) {
	m := station.DefaultLayout()
	path := PathToRoom(m, agent.Position{X: 0, Y: 0}, "Rec Room", false)
	if path == nil || len(path) == 0 {
		t.Fatalf("Expected a path to the Rec Room")
	}
	end := path[len(path)-1]
	if m.RoomNameAt(end.X, end.Y) != "Rec Room" {
		t.Errorf("Path must end inside the Rec Room, ended at %v", end)
	}

	if path := PathToRoom(m, agent.Position{X: 0, Y: 0}, "Sauna", false); path != nil {
		t.Errorf("Expected nil path to an unknown room")
	}
}
