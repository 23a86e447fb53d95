// Package station defines the station layout and per-room environmental state.
// This package is PURE and must NOT import any infrastructure packages.
package station

// Rect is an inclusive bounding box on the station grid.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Contains reports whether the point lies inside the box.
func (r Rect) Contains(x, y int) bool {
	return r.X1 <= x && x <= r.X2 && r.Y1 <= y && y <= r.Y2
}

// Center returns the middle tile of the box.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// VentLink is a maintenance-duct shortcut between two tiles. Ducts are
// bidirectional and ignore intervening walls.
type VentLink struct {
	AX, AY int
	BX, BY int
}

// Room is an immutable named region of the station.
type Room struct {
	Name   string
	Bounds Rect
}

// Map is the station layout: immutable geometry plus mutable per-room state.
// Geometry is shared read-only by every system; room state is written only
// by the environment and sabotage systems.
type Map struct {
	Width  int
	Height int
	rooms  []Room // fixed iteration order, set at construction
	byName map[string]Room
	vents  []VentLink

	states map[string]*RoomState
}

// NewMap builds a station from an ordered room list. Room order is
// load-bearing: iteration over rooms must be reproducible.
func NewMap(width, height int, rooms []Room, vents []VentLink) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		rooms:  rooms,
		byName: make(map[string]Room, len(rooms)),
		vents:  vents,
		states: make(map[string]*RoomState, len(rooms)),
	}
	for _, r := range rooms {
		m.byName[r.Name] = r
		m.states[r.Name] = &RoomState{}
	}
	return m
}

// DefaultLayout returns the standard 20x20 nine-room station.
func DefaultLayout() *Map {
	rooms := []Room{
		{Name: "Rec Room", Bounds: Rect{5, 5, 10, 10}},
		{Name: "Infirmary", Bounds: Rect{0, 0, 4, 4}},
		{Name: "Generator", Bounds: Rect{15, 15, 19, 19}},
		{Name: "Kennel", Bounds: Rect{0, 15, 4, 19}},
		{Name: "Radio Room", Bounds: Rect{11, 0, 14, 4}},
		{Name: "Storage", Bounds: Rect{15, 0, 19, 4}},
		{Name: "Lab", Bounds: Rect{11, 11, 14, 14}},
		{Name: "Sleeping Quarters", Bounds: Rect{0, 6, 4, 10}},
		{Name: "Mess Hall", Bounds: Rect{5, 0, 9, 4}},
	}
	vents := []VentLink{
		{AX: 4, AY: 4, BX: 15, BY: 15},  // Infirmary crawlspace to Generator
		{AX: 19, AY: 4, BX: 14, BY: 11}, // Storage duct to Lab
	}
	return NewMap(20, 20, rooms, vents)
}

// Rooms returns the rooms in their fixed construction order.
func (m *Map) Rooms() []Room { return m.rooms }

// Room looks up a room by name.
func (m *Map) Room(name string) (Room, bool) {
	r, ok := m.byName[name]
	return r, ok
}

// RoomNameAt returns the room containing the tile, or "" for corridor tiles.
func (m *Map) RoomNameAt(x, y int) string {
	for _, r := range m.rooms {
		if r.Bounds.Contains(x, y) {
			return r.Name
		}
	}
	return ""
}

// InBounds reports whether the tile lies on the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Walkable reports whether an agent may occupy the tile. Tiles inside a
// barricaded room are sealed off.
func (m *Map) Walkable(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	if room := m.RoomNameAt(x, y); room != "" {
		if st := m.states[room]; st != nil && st.Barricaded {
			return false
		}
	}
	return true
}

// VentExit returns the far side of a duct starting at the tile, if any.
func (m *Map) VentExit(x, y int) (int, int, bool) {
	for _, v := range m.vents {
		if v.AX == x && v.AY == y {
			return v.BX, v.BY, true
		}
		if v.BX == x && v.BY == y {
			return v.AX, v.AY, true
		}
	}
	return 0, 0, false
}

// Vents returns the duct links.
func (m *Map) Vents() []VentLink { return m.vents }
