package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/station"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/resolution"
)

// MoveSpeed is how many tiles an agent covers per turn.
const MoveSpeed = 2

// InvestigateNoiseFloor is the room noise level that pulls a human off its
// schedule to go look.
const InvestigateNoiseFloor = 3

// AISystem drives every non-player agent. Agents act in roster order, which
// is fixed at scenario load, so the draw sequence is identical across runs.
type AISystem struct {
	sim *Simulation
}

// NewAISystem creates the system.
func NewAISystem(sim *Simulation) *AISystem {
	return &AISystem{sim: sim}
}

// OnTurn runs the AI phase: pair cooldowns tick, the infected coordinate,
// every NPC acts, then the detection sweep runs over the new positions.
func (ai *AISystem) OnTurn(ev events.GameEvent) {
	ai.sim.stealth.TickCooldowns()
	ai.coordinateAmbush()

	_, hour := ai.sim.clock.Time()
	for _, a := range ai.sim.agents {
		if !a.Alive || a.ID == ai.sim.playerID {
			continue
		}
		ai.act(a, hour)
	}

	ai.sim.stealth.Sweep()
}

// coordinateAmbush has the masked infected converge on an isolated human
// while the station alert is up. One broadcast per alert window.
func (ai *AISystem) coordinateAmbush() {
	if !ai.sim.alert.Active() {
		return
	}
	var flankers []*agent.Agent
	for _, a := range ai.sim.agents {
		if a.Alive && a.Infected && !a.Revealed && a.Mode == agent.ModeSchedule {
			flankers = append(flankers, a)
		}
	}
	if len(flankers) < 2 {
		return
	}
	var target *agent.Agent
	for _, a := range ai.sim.agents {
		if a.Alive && !a.Infected && ai.isAlone(a) {
			target = a
			break
		}
	}
	if target == nil {
		return
	}
	if ai.sim.alert.MarkCoordinated() {
		return
	}

	// Alternate flankers over the entry tiles so the approach comes through
	// two different doorways instead of one corridor.
	entries := ai.flankEntries(target)
	ids := make([]string, 0, len(flankers))
	for i, f := range flankers {
		f.Mode = agent.ModeFlanking
		f.AmbushTarget = target.ID
		f.AmbushEntry = entries[i%len(entries)]
		f.AmbushStaged = false
		ids = append(ids, f.ID)
	}
	ai.sim.emit(events.EventTypeAmbushCoordinated, flankers[0].ID, target.ID, events.AmbushPayload{
		TargetID: target.ID,
		Flankers: ids,
	})
}

// act runs one agent's turn.
func (ai *AISystem) act(a *agent.Agent, hour int) {
	if a.FrozenTurns > 0 {
		a.FrozenTurns--
		return
	}

	// A revealed infected abandons every pretense and hunts.
	if a.Revealed {
		ai.hunt(a)
		return
	}

	switch a.Mode {
	case agent.ModeFleeing:
		ai.flee(a)
	case agent.ModeFlanking:
		ai.flank(a)
	case agent.ModePursuing:
		ai.pursue(a)
	case agent.ModeSearching:
		ai.search(a)
	default:
		ai.followSchedule(a, hour)
	}
}

// hunt chases and attacks the nearest living human. Prey holed up behind a
// barricade gets its barricade torn down a point per turn.
func (ai *AISystem) hunt(a *agent.Agent) {
	target := ai.nearestHuman(a)
	if target == nil {
		return
	}
	if ai.sim.coLocated(a, target) {
		ai.sim.combat.Resolve(a, target, strongestWeapon(a))
		return
	}
	if ai.stepToward(a, target.Position, true) {
		return
	}

	room := ai.sim.roomOf(target)
	st := ai.sim.station.State(room)
	if st == nil || !st.Barricaded {
		return
	}
	r, _ := ai.sim.station.Room(room)
	if !adjacentToRoom(a.Position, r.Bounds) {
		// Walk up to a doorway tile first; the tearing starts next turn.
		for _, e := range ai.flankEntries(target) {
			if ai.stepToward(a, e, true) {
				return
			}
		}
		return
	}
	left := ai.sim.station.WeakenBarricade(room, 1)
	ai.sim.emit(events.EventTypeBarricadeAction, a.ID, "", events.BarricadePayload{
		Room:     room,
		Strength: left,
		Raised:   false,
	})
	ai.sim.noise.Record(a.ID, room, 2)
}

// adjacentToRoom reports whether the tile touches the room's bounding box.
func adjacentToRoom(p agent.Position, r station.Rect) bool {
	return r.X1-1 <= p.X && p.X <= r.X2+1 && r.Y1-1 <= p.Y && p.Y <= r.Y2+1
}

// flee runs for company: the room holding the most living humans. The mode
// expires after a few turns and the schedule reasserts.
func (ai *AISystem) flee(a *agent.Agent) {
	a.SearchTurnsLeft--
	if a.SearchTurnsLeft <= 0 {
		a.Mode = agent.ModeSchedule
		return
	}
	room := ai.mostPopulatedRoom(a)
	if room == "" || room == ai.sim.roomOf(a) {
		return
	}
	ai.stepToRoom(a, room, false)
}

// flank closes on the broadcast ambush target in two legs: reach the
// assigned entry tile first, then converge, so paired flankers arrive
// through different doorways. On contact the infected attempts a quiet
// assimilation; a failed grab blows the approach.
func (ai *AISystem) flank(a *agent.Agent) {
	target, ok := ai.sim.byID[a.AmbushTarget]
	if !ok || !target.Alive || target.Infected {
		ai.resetAmbush(a)
		return
	}

	if !a.AmbushStaged && a.Position != a.AmbushEntry {
		if ai.stepToward(a, a.AmbushEntry, true) {
			if a.Position == a.AmbushEntry {
				a.AmbushStaged = true
			}
			return
		}
		// No route to the entry; close directly.
	}
	a.AmbushStaged = true

	if !ai.sim.coLocated(a, target) {
		ai.stepToward(a, target.Position, true)
		return
	}

	grab := a.Pool(agent.AttrProwess, agent.SkillStealth)
	resist := target.Pool(agent.AttrResolve, "")
	if ai.sim.rng.Contest(grab, resist) == resolution.WinnerA {
		ai.sim.infection.Assimilate(a, target)
	} else {
		// The target wrestles free and raises the station.
		ai.sim.noise.Record(target.ID, ai.sim.roomOf(target), 3)
		ai.sim.alert.Trigger("STRUGGLE")
		target.AddStress(2)
	}
	ai.resetAmbush(a)
}

// resetAmbush clears flanking state and returns the agent to its schedule.
func (ai *AISystem) resetAmbush(a *agent.Agent) {
	a.Mode = agent.ModeSchedule
	a.AmbushTarget = ""
	a.AmbushEntry = agent.Position{}
	a.AmbushStaged = false
}

// flankEntries returns up to two walkable staging tiles on opposite sides of
// the target's room. Corridor targets stage on neighboring tiles instead.
func (ai *AISystem) flankEntries(target *agent.Agent) []agent.Position {
	var candidates []agent.Position
	if r, ok := ai.sim.station.Room(ai.sim.roomOf(target)); ok {
		cx, cy := r.Bounds.Center()
		candidates = []agent.Position{
			{X: r.Bounds.X1 - 1, Y: cy},
			{X: r.Bounds.X2 + 1, Y: cy},
			{X: cx, Y: r.Bounds.Y1 - 1},
			{X: cx, Y: r.Bounds.Y2 + 1},
		}
	} else {
		candidates = []agent.Position{
			{X: target.Position.X - 1, Y: target.Position.Y},
			{X: target.Position.X + 1, Y: target.Position.Y},
		}
	}
	entries := make([]agent.Position, 0, 2)
	for _, c := range candidates {
		if ai.sim.station.Walkable(c.X, c.Y) {
			entries = append(entries, c)
			if len(entries) == 2 {
				break
			}
		}
	}
	if len(entries) == 0 {
		entries = append(entries, target.Position)
	}
	return entries
}

// pursue moves to the last seen position; losing the trail starts a search.
func (ai *AISystem) pursue(a *agent.Agent) {
	if a.Position == a.LastSeenTargetPos {
		a.Mode = agent.ModeSearching
		a.SearchTurnsLeft = 3
		return
	}
	if !ai.stepToward(a, a.LastSeenTargetPos, false) {
		a.Mode = agent.ModeSchedule
	}
}

// search sweeps toward noise until the timer runs out.
func (ai *AISystem) search(a *agent.Agent) {
	a.SearchTurnsLeft--
	if a.SearchTurnsLeft <= 0 {
		a.Mode = agent.ModeSchedule
		return
	}
	if loud := ai.sim.noise.LoudestRoom(); loud != "" {
		ai.stepToRoom(a, loud, false)
		return
	}
	// Nothing to hear; pick a room to check at random.
	rooms := ai.sim.station.Rooms()
	ai.stepToRoom(a, rooms[ai.sim.rng.PickIndex(len(rooms))].Name, false)
}

// followSchedule is the default loop: react to mobs and noise, take
// opportunistic infected actions, otherwise keep the daily routine.
func (ai *AISystem) followSchedule(a *agent.Agent, hour int) {
	if !a.Infected && ai.lynchMobAttack(a) {
		return
	}

	if a.Infected && !a.Revealed {
		if ai.opportunisticInfected(a) {
			return
		}
	}

	if !a.Infected {
		if loud := ai.sim.noise.LoudestRoom(); loud != "" &&
			ai.sim.noise.Level(loud) >= InvestigateNoiseFloor && loud != ai.sim.roomOf(a) {
			ai.stepToRoom(a, loud, false)
			return
		}
	}

	room := a.ScheduledRoom(hour)
	if room == "" && len(a.Habitat) > 0 {
		room = a.Habitat[0]
	}
	if room == "" || room == ai.sim.roomOf(a) {
		return
	}
	// Unreachable rooms (barricaded, sealed) mean waiting in place.
	ai.stepToRoom(a, room, a.Infected)
}

// lynchMobAttack has a human turn on any co-located agent the station has
// collectively condemned. Returns true when an attack happened.
func (ai *AISystem) lynchMobAttack(a *agent.Agent) bool {
	for _, subject := range ai.sim.agents {
		if subject.ID == a.ID || !subject.Alive {
			continue
		}
		if !ai.sim.coLocated(a, subject) {
			continue
		}
		if !ai.sim.trust.CheckLynchMob(subject.ID) {
			continue
		}
		ai.sim.combat.Resolve(a, subject, strongestWeapon(a))
		return true
	}
	return false
}

// opportunisticInfected covers quiet sabotage and lone-victim grabs.
// Returns true when the agent spent its turn.
func (ai *AISystem) opportunisticInfected(a *agent.Agent) bool {
	room := ai.sim.roomOf(a)

	if ai.unobserved(a) {
		switch room {
		case "Generator":
			ai.sim.sabotage.AttemptSabotage(a.ID)
			return true
		case "Radio Room":
			if ai.sim.sabotage.SmashRadio(a.ID) {
				return true
			}
		case "Storage":
			if ai.sim.sabotage.WreckHelicopter(a.ID) {
				return true
			}
		case "Infirmary":
			if ai.sim.sabotage.SabotageBlood(a.ID) {
				return true
			}
		}
	}

	victim := ai.loneVictim(a)
	if victim == nil {
		return false
	}
	grab := a.Pool(agent.AttrProwess, agent.SkillStealth)
	resist := victim.Pool(agent.AttrResolve, "")
	if ai.sim.rng.Contest(grab, resist) == resolution.WinnerA {
		ai.sim.infection.Assimilate(a, victim)
	} else {
		ai.sim.noise.Record(victim.ID, room, 3)
		ai.sim.alert.Trigger("STRUGGLE")
		victim.AddStress(2)
	}
	return true
}

// loneVictim returns the single human sharing the agent's room, or nil when
// the room holds anyone else.
func (ai *AISystem) loneVictim(a *agent.Agent) *agent.Agent {
	room := ai.sim.roomOf(a)
	if room == "" {
		return nil
	}
	var victim *agent.Agent
	for _, other := range ai.sim.agents {
		if other.ID == a.ID || !other.Alive {
			continue
		}
		if ai.sim.roomOf(other) != room {
			continue
		}
		if other.Infected || victim != nil {
			return nil
		}
		victim = other
	}
	return victim
}

// unobserved reports whether no living human shares the agent's room.
func (ai *AISystem) unobserved(a *agent.Agent) bool {
	room := ai.sim.roomOf(a)
	for _, other := range ai.sim.agents {
		if other.ID == a.ID || !other.Alive || other.Infected {
			continue
		}
		if ai.sim.roomOf(other) == room {
			return false
		}
	}
	return true
}

// isAlone reports whether no other living agent shares the agent's room.
func (ai *AISystem) isAlone(a *agent.Agent) bool {
	room := ai.sim.roomOf(a)
	if room == "" {
		return false
	}
	for _, other := range ai.sim.agents {
		if other.ID == a.ID || !other.Alive {
			continue
		}
		if ai.sim.roomOf(other) == room {
			return false
		}
	}
	return true
}

// nearestHuman returns the closest living uninfected agent by Manhattan
// distance, roster order breaking ties.
func (ai *AISystem) nearestHuman(a *agent.Agent) *agent.Agent {
	var best *agent.Agent
	bestDist := 0
	for _, other := range ai.sim.agents {
		if !other.Alive || other.Infected {
			continue
		}
		d := manhattan(a.Position, other.Position)
		if best == nil || d < bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}

// mostPopulatedRoom returns the room holding the most living humans, room
// order breaking ties.
func (ai *AISystem) mostPopulatedRoom(a *agent.Agent) string {
	best := ""
	bestCount := 0
	for _, r := range ai.sim.station.Rooms() {
		count := 0
		for _, other := range ai.sim.agents {
			if other.ID == a.ID || !other.Alive || other.Infected {
				continue
			}
			if ai.sim.roomOf(other) == r.Name {
				count++
			}
		}
		if count > bestCount {
			best = r.Name
			bestCount = count
		}
	}
	return best
}

// stepToward walks up to MoveSpeed tiles along the A* path to the goal.
// Returns false when no path exists; the agent then waits in place.
func (ai *AISystem) stepToward(a *agent.Agent, goal agent.Position, useVents bool) bool {
	path := FindPath(ai.sim.station, a.Position, goal, useVents)
	if path == nil {
		return false
	}
	if len(path) == 0 {
		return true
	}
	steps := MoveSpeed
	if steps > len(path) {
		steps = len(path)
	}
	from := a.Position
	a.Position = path[steps-1]
	room := ai.sim.roomOf(a)
	ai.sim.emit(events.EventTypeAgentMoved, a.ID, "", events.MovePayload{
		FromX: from.X, FromY: from.Y,
		ToX: a.Position.X, ToY: a.Position.Y,
		Room: room,
	})
	if a.Posture == agent.PostureStanding {
		ai.sim.noise.Record(a.ID, room, 1)
	}
	return true
}

// stepToRoom walks toward the center of a named room.
func (ai *AISystem) stepToRoom(a *agent.Agent, room string, useVents bool) bool {
	r, ok := ai.sim.station.Room(room)
	if !ok {
		return false
	}
	cx, cy := r.Bounds.Center()
	if a.Position.X == cx && a.Position.Y == cy {
		return true
	}
	return ai.stepToward(a, agent.Position{X: cx, Y: cy}, useVents)
}
