package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/item"
)

// ActionType identifies a player-visible verb. The set is closed; transports
// reject unknown types before they reach the engine.
type ActionType string

const (
	ActionMove         ActionType = "MOVE"
	ActionWait         ActionType = "WAIT"
	ActionSetPosture   ActionType = "SET_POSTURE"
	ActionAttack       ActionType = "ATTACK"
	ActionTestBlood    ActionType = "TEST_BLOOD"
	ActionInterrogate  ActionType = "INTERROGATE"
	ActionAccuse       ActionType = "ACCUSE"
	ActionTagEvidence  ActionType = "TAG_EVIDENCE"
	ActionCraft        ActionType = "CRAFT"
	ActionAbandonCraft ActionType = "ABANDON_CRAFT"
	ActionBarricade    ActionType = "BARRICADE"
	ActionUseItem      ActionType = "USE_ITEM"
	ActionSendSOS      ActionType = "SEND_SOS"
)

// Action is one agent-issued command. Fields beyond Type are used per verb;
// unused fields are ignored during validation.
type Action struct {
	Type     ActionType `json:"type"`
	TargetID string     `json:"target_id,omitempty"`
	X        int        `json:"x,omitempty"`
	Y        int        `json:"y,omitempty"`
	Posture  string     `json:"posture,omitempty"`
	Item     string     `json:"item,omitempty"`
	Recipe   string     `json:"recipe,omitempty"`
	Room     string     `json:"room,omitempty"`
	Note     string     `json:"note,omitempty"`
}

// validate checks an action against current world state without mutating
// anything. A nil return means the action may execute; execution must then
// succeed unconditionally.
func (s *Simulation) validate(actor *agent.Agent, a Action) *RejectionError {
	switch a.Type {
	case ActionWait:
		return nil

	case ActionMove:
		return s.validateMove(actor, a)

	case ActionSetPosture:
		switch agent.Posture(a.Posture) {
		case agent.PostureStanding, agent.PostureCrouching, agent.PostureCrawling, agent.PostureHiding:
			return nil
		}
		return reject(KindInvalidTarget, a.Type, "unknown posture %q", a.Posture)

	case ActionAttack:
		target, err := s.validTarget(a, actor)
		if err != nil {
			return err
		}
		if !s.coLocated(actor, target) {
			return reject(KindPreconditionFailed, a.Type, "target %s is out of reach", target.ID)
		}
		if a.Item != "" && !actor.HasItem(a.Item) {
			return reject(KindResourceExhausted, a.Type, "no %s in inventory", a.Item)
		}
		return nil

	case ActionTestBlood:
		target, err := s.validTarget(a, actor)
		if err != nil {
			return err
		}
		if !s.coLocated(actor, target) {
			return reject(KindPreconditionFailed, a.Type, "subject %s is not here", target.ID)
		}
		if s.sabotage.bloodDestroyed {
			return reject(KindPreconditionFailed, a.Type, "the serum stock is contaminated")
		}
		if !actor.HasItem(string(item.ItemTestKit)) {
			return reject(KindResourceExhausted, a.Type, "no blood test kit")
		}
		return nil

	case ActionInterrogate:
		target, err := s.validTarget(a, actor)
		if err != nil {
			return err
		}
		if !s.coLocated(actor, target) {
			return reject(KindPreconditionFailed, a.Type, "subject %s is not here", target.ID)
		}
		return nil

	case ActionAccuse:
		if _, err := s.validTarget(a, actor); err != nil {
			return err
		}
		return nil

	case ActionTagEvidence:
		if _, err := s.validTarget(a, actor); err != nil {
			return err
		}
		if a.Note == "" {
			return reject(KindPreconditionFailed, a.Type, "evidence needs a description")
		}
		return nil

	case ActionCraft:
		recipe, ok := s.crafting.Recipe(a.Recipe)
		if !ok {
			return reject(KindInvalidTarget, a.Type, "unknown recipe %q", a.Recipe)
		}
		for _, ing := range recipe.Ingredients {
			if countItems(actor.Inventory, ing) < countItems(recipe.Ingredients, ing) {
				return reject(KindResourceExhausted, a.Type, "missing ingredient %s", ing)
			}
		}
		return nil

	case ActionAbandonCraft:
		if !s.crafting.HasJob(actor.ID, a.Recipe) {
			return reject(KindInvalidTarget, a.Type, "no active %q job to abandon", a.Recipe)
		}
		return nil

	case ActionBarricade:
		room := s.station.RoomNameAt(actor.Position.X, actor.Position.Y)
		if room == "" {
			return reject(KindPreconditionFailed, a.Type, "corridors cannot be barricaded")
		}
		if st := s.station.State(room); st != nil && st.Barricaded {
			return reject(KindIllegalTransition, a.Type, "%s is already barricaded", room)
		}
		if !actor.HasItem(string(item.ItemBarricade)) {
			return reject(KindResourceExhausted, a.Type, "no barricade kit")
		}
		return nil

	case ActionUseItem:
		if !actor.HasItem(a.Item) {
			return reject(KindResourceExhausted, a.Type, "no %s in inventory", a.Item)
		}
		switch item.ItemType(a.Item) {
		case item.ItemMedKit:
			if actor.Health >= agent.MaxHealth {
				return reject(KindPreconditionFailed, a.Type, "already at full health")
			}
			return nil
		case item.ItemFlare:
			return nil
		}
		return reject(KindInvalidTarget, a.Type, "%s cannot be used directly", a.Item)

	case ActionSendSOS:
		if s.sosCountdown >= 0 {
			return reject(KindIllegalTransition, a.Type, "SOS already transmitted")
		}
		if s.station.RoomNameAt(actor.Position.X, actor.Position.Y) != "Radio Room" {
			return reject(KindPreconditionFailed, a.Type, "transmitter is in the Radio Room")
		}
		if s.sabotage.radioSmashed {
			return reject(KindPreconditionFailed, a.Type, "the transmitter is smashed beyond repair")
		}
		if !s.powerOn {
			return reject(KindPreconditionFailed, a.Type, "no power to the transmitter")
		}
		if !actor.HasItem(string(item.ItemRadioParts)) {
			return reject(KindResourceExhausted, a.Type, "transmitter needs radio components")
		}
		return nil
	}

	return reject(KindInvalidTarget, a.Type, "unknown action type")
}

// validTarget resolves a.TargetID to a living agent other than the actor.
func (s *Simulation) validTarget(a Action, actor *agent.Agent) (*agent.Agent, *RejectionError) {
	if a.TargetID == "" || a.TargetID == actor.ID {
		return nil, reject(KindInvalidTarget, a.Type, "invalid target %q", a.TargetID)
	}
	target, ok := s.byID[a.TargetID]
	if !ok {
		return nil, reject(KindInvalidTarget, a.Type, "no such agent %q", a.TargetID)
	}
	if !target.Alive {
		return nil, reject(KindPreconditionFailed, a.Type, "%s is dead", target.ID)
	}
	return target, nil
}

func (s *Simulation) validateMove(actor *agent.Agent, a Action) *RejectionError {
	if !s.station.InBounds(a.X, a.Y) {
		return reject(KindInvalidTarget, a.Type, "tile (%d,%d) is off the station", a.X, a.Y)
	}
	if !s.station.Walkable(a.X, a.Y) {
		return reject(KindPreconditionFailed, a.Type, "tile (%d,%d) is sealed", a.X, a.Y)
	}
	// A move is one adjacent step or a duct traversal from the current tile.
	dx := a.X - actor.Position.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - actor.Position.Y
	if dy < 0 {
		dy = -dy
	}
	if dx+dy == 1 {
		return nil
	}
	if ex, ey, ok := s.station.VentExit(actor.Position.X, actor.Position.Y); ok && ex == a.X && ey == a.Y {
		return nil
	}
	return reject(KindPreconditionFailed, a.Type, "tile (%d,%d) is not adjacent", a.X, a.Y)
}

// coLocated reports whether both agents stand in the same room, or within
// one tile of each other in a corridor.
func (s *Simulation) coLocated(a, b *agent.Agent) bool {
	ra := s.station.RoomNameAt(a.Position.X, a.Position.Y)
	rb := s.station.RoomNameAt(b.Position.X, b.Position.Y)
	if ra != "" && ra == rb {
		return true
	}
	dx := a.Position.X - b.Position.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Position.Y - b.Position.Y
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1
}

func countItems(items []string, id string) int {
	n := 0
	for _, it := range items {
		if it == id {
			n++
		}
	}
	return n
}
