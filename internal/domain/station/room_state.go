package station

// RoomState is the mutable environmental state of a room. Lighting, frost
// and barricades are written only by the environment/sabotage systems;
// everything else reads.
type RoomState struct {
	Dark              bool `json:"dark"`
	Frozen            bool `json:"frozen"`
	Barricaded        bool `json:"barricaded"`
	BarricadeStrength int  `json:"barricade_strength"`
}

// State returns the mutable state record for a room. Unknown rooms return
// nil; callers treat that as a lit, intact room.
func (m *Map) State(room string) *RoomState {
	return m.states[room]
}

// IsDark reports whether the room (or corridor, when power is out) is
// unlit. Corridor tiles have no room record and follow station power only,
// which the caller folds in via powerOn.
func (m *Map) IsDark(room string, powerOn bool) bool {
	if !powerOn {
		return true
	}
	if st := m.states[room]; st != nil {
		return st.Dark
	}
	return false
}

// SetDark toggles room lighting.
func (m *Map) SetDark(room string, dark bool) {
	if st := m.states[room]; st != nil {
		st.Dark = dark
	}
}

// SetFrozen toggles room frost.
func (m *Map) SetFrozen(room string, frozen bool) {
	if st := m.states[room]; st != nil {
		st.Frozen = frozen
	}
}

// Barricade seals a room with the given strength. Strength 0 tears the
// barricade down.
func (m *Map) Barricade(room string, strength int) {
	st := m.states[room]
	if st == nil {
		return
	}
	st.Barricaded = strength > 0
	st.BarricadeStrength = strength
}

// WeakenBarricade reduces barricade strength, clearing it at zero.
// Returns the remaining strength.
func (m *Map) WeakenBarricade(room string, amount int) int {
	st := m.states[room]
	if st == nil || !st.Barricaded {
		return 0
	}
	st.BarricadeStrength -= amount
	if st.BarricadeStrength <= 0 {
		st.BarricadeStrength = 0
		st.Barricaded = false
	}
	return st.BarricadeStrength
}
