package engine

import (
	"time"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/item"
	"github.com/polarnight-games/outpost31/internal/domain/rules"
	"github.com/polarnight-games/outpost31/internal/domain/station"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/config"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
	"github.com/polarnight-games/outpost31/internal/platform/metrics"
	"github.com/polarnight-games/outpost31/internal/resolution"
)

// Simulation is the central orchestrator. It owns the agent roster, the
// station map, the single randomness stream, and the event bus the
// subsystems hang off. All mutation enters through ApplyAction and
// AdvanceTurn; both are synchronous and the Simulation is not safe for
// concurrent use, callers serialize.
type Simulation struct {
	log      *logger.Logger
	bus      *events.Bus
	rng      *resolution.Engine
	clock    *Clock
	station  *station.Map
	scenario *config.Scenario

	// agents holds the roster in scenario order. Every system iterates this
	// slice, never the byID map, so event sequences replay identically.
	agents []*agent.Agent
	byID   map[string]*agent.Agent

	playerID string

	trust *TrustLedger
	noise *NoiseField

	paranoia     int // station-wide dread, 0-100
	powerOn      bool
	sosCountdown int // turns until rescue, -1 while no SOS is out

	ended  bool
	result string

	// Sub-systems, in subscription order.
	weather    *WeatherSystem
	sabotage   *SabotageSystem
	alert      *AlertSystem
	crafting   *CraftingSystem
	infection  *InfectionSystem
	psychology *PsychologySystem
	ai         *AISystem
	stealth    *StealthSystem
	combat     *CombatSystem
	endgame    *EndgameSystem
}

// NewSimulation builds a simulation from a scenario. The persister may be
// nil for in-memory runs. Handler subscription order here IS the turn phase
// order: environment, infection, psychology, AI, endgame.
func NewSimulation(scn *config.Scenario, seed int64, persister events.EventPersister, log *logger.Logger) (*Simulation, error) {
	s := &Simulation{
		log:          log,
		bus:          events.NewBus(persister),
		rng:          resolution.NewEngine(seed),
		clock:        NewClock(scn.StartHour),
		station:      station.DefaultLayout(),
		scenario:     scn,
		byID:         make(map[string]*agent.Agent),
		powerOn:      true,
		sosCountdown: -1,
	}

	for _, ac := range scn.Agents {
		a, err := buildAgent(ac)
		if err != nil {
			return nil, err
		}
		s.agents = append(s.agents, a)
		s.byID[a.ID] = a
		if ac.IsPlayer {
			s.playerID = a.ID
		}
	}

	s.trust = NewTrustLedger(s)
	s.noise = NewNoiseField(s)

	s.weather = NewWeatherSystem(s, seed)
	s.sabotage = NewSabotageSystem(s)
	s.alert = NewAlertSystem(s, scn.AlertDuration)
	s.crafting = NewCraftingSystem(s, scn.Recipes)
	s.infection = NewInfectionSystem(s)
	s.psychology = NewPsychologySystem(s)
	s.ai = NewAISystem(s)
	s.stealth = NewStealthSystem(s, scn.DetectionCooldown)
	s.combat = NewCombatSystem(s)
	s.endgame = NewEndgameSystem(s)

	// Phase order. Registration order is dispatch order; do not reorder.
	s.bus.Subscribe(s.weather.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.sabotage.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.alert.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.crafting.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.infection.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.psychology.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.ai.OnTurn, events.EventTypeTurnAdvance)
	s.bus.Subscribe(s.endgame.OnTurn, events.EventTypeTurnAdvance)

	log.Info("simulation initialized",
		"scenario", scn.Name,
		"agents", len(s.agents),
		"seed", seed)
	return s, nil
}

func buildAgent(ac config.AgentConfig) (*agent.Agent, error) {
	nature := agent.NatureHuman
	if ac.Nature == string(agent.NatureInfected) {
		nature = agent.NatureInfected
	}
	a := agent.New(ac.ID, ac.Name, ac.Role, nature)
	a.Position = agent.Position{X: ac.Position.X, Y: ac.Position.Y}
	for attr, v := range ac.Attributes {
		a.Attributes[agent.Attribute(attr)] = v
	}
	for skill, v := range ac.Skills {
		a.Skills[agent.Skill(skill)] = v
	}
	for _, e := range ac.Schedule {
		a.Schedule = append(a.Schedule, agent.ScheduleEntry{Start: e.Start, End: e.End, Room: e.Room})
	}
	a.Habitat = append(a.Habitat, ac.Habitat...)
	a.Inventory = append(a.Inventory, ac.Inventory...)
	return a, nil
}

// emit publishes an event stamped with the current turn. The in-memory log
// stays authoritative when the persister fails; the failure is logged and
// counted so operators see the divergence.
func (s *Simulation) emit(typ events.EventType, actorID, targetID string, payload interface{}) {
	_, err := s.bus.Publish(s.clock.Turn(), typ, actorID, targetID, payload)
	if err != nil {
		s.log.Warn("event persistence failed", "type", typ, "error", err)
	}
	metrics.Get().RecordEvent(err)
}

// bumpParanoia raises station dread, clamped to [0, 100].
func (s *Simulation) bumpParanoia(delta int) {
	s.paranoia += delta
	if s.paranoia > 100 {
		s.paranoia = 100
	}
	if s.paranoia < 0 {
		s.paranoia = 0
	}
}

// roomOf returns the room name the agent stands in, "" for corridors.
func (s *Simulation) roomOf(a *agent.Agent) string {
	return s.station.RoomNameAt(a.Position.X, a.Position.Y)
}

// ApplyAction validates and executes one agent action. Validation runs to
// completion before any mutation: a rejected action changes nothing except
// appending an ActionRejected event to the audit log.
func (s *Simulation) ApplyAction(actorID string, a Action) error {
	if s.ended {
		return s.rejectAction(actorID, a,
			reject(KindIllegalTransition, a.Type, "simulation has ended"))
	}
	actor, ok := s.byID[actorID]
	if !ok {
		return s.rejectAction(actorID, a,
			reject(KindInvalidTarget, a.Type, "no such agent %q", actorID))
	}
	if !actor.Alive {
		return s.rejectAction(actorID, a,
			reject(KindPreconditionFailed, a.Type, "%s is dead", actorID))
	}
	if actor.FrozenTurns > 0 {
		return s.rejectAction(actorID, a,
			reject(KindPreconditionFailed, a.Type, "%s cannot act this turn", actorID))
	}
	if err := s.validate(actor, a); err != nil {
		return s.rejectAction(actorID, a, err)
	}
	s.execute(actor, a)
	return nil
}

func (s *Simulation) rejectAction(actorID string, a Action, err *RejectionError) error {
	metrics.Get().RecordRejection()
	s.emit(events.EventTypeActionRejected, actorID, a.TargetID, events.ActionRejectedPayload{
		Action: string(a.Type),
		Kind:   string(err.Kind),
		Reason: err.Reason,
	})
	return err
}

// execute applies a validated action. It must not fail.
func (s *Simulation) execute(actor *agent.Agent, a Action) {
	switch a.Type {
	case ActionWait:
		// Deliberate no-op.

	case ActionMove:
		from := actor.Position
		viaVent := manhattan(from, agent.Position{X: a.X, Y: a.Y}) > 1
		actor.Position = agent.Position{X: a.X, Y: a.Y}
		room := s.roomOf(actor)
		s.emit(events.EventTypeAgentMoved, actor.ID, "", events.MovePayload{
			FromX: from.X, FromY: from.Y,
			ToX: a.X, ToY: a.Y,
			Room:    room,
			ViaVent: viaVent,
		})
		if actor.Posture == agent.PostureStanding {
			s.noise.Record(actor.ID, room, 1)
		}

	case ActionSetPosture:
		actor.Posture = agent.Posture(a.Posture)
		s.emit(events.EventTypePostureChanged, actor.ID, "", events.PosturePayload{
			Posture: a.Posture,
		})

	case ActionAttack:
		s.combat.Resolve(actor, s.byID[a.TargetID], a.Item)

	case ActionTestBlood:
		s.executeBloodTest(actor, s.byID[a.TargetID])

	case ActionInterrogate:
		s.executeInterrogate(actor, s.byID[a.TargetID])

	case ActionAccuse:
		s.executeAccuse(actor, s.byID[a.TargetID])

	case ActionTagEvidence:
		target := s.byID[a.TargetID]
		s.emit(events.EventTypeEvidenceTagged, actor.ID, target.ID, events.EvidencePayload{
			Description: a.Note,
		})
		s.trust.AdjustAll(target.ID, TrustDeltaEvidence, "EVIDENCE")
		s.trust.CheckLynchMob(target.ID)

	case ActionCraft:
		s.crafting.Queue(actor.ID, a.Recipe)

	case ActionAbandonCraft:
		s.crafting.Abandon(actor.ID, a.Recipe)

	case ActionBarricade:
		room := s.roomOf(actor)
		actor.RemoveItem(string(item.ItemBarricade))
		s.station.Barricade(room, 3)
		s.emit(events.EventTypeBarricadeAction, actor.ID, "", events.BarricadePayload{
			Room:     room,
			Strength: 3,
			Raised:   true,
		})
		s.noise.Record(actor.ID, room, 2)

	case ActionUseItem:
		s.executeUseItem(actor, a.Item)

	case ActionSendSOS:
		actor.RemoveItem(string(item.ItemRadioParts))
		s.sosCountdown = s.scenario.RescueCountdown
		if s.sosCountdown <= 0 {
			s.sosCountdown = 12
		}
		// No helicopter means the relief team comes overland.
		if s.sabotage.helicopterWrecked {
			s.sosCountdown += HelicopterWreckDelay
		}
		s.emit(events.EventTypeSOSSent, actor.ID, "", events.SOSPayload{
			TurnsToRescue: s.sosCountdown,
		})
	}
}

// executeBloodTest burns a kit on a co-located subject. A hot needle in
// infected blood is unambiguous: a positive result is a terminal reveal.
func (s *Simulation) executeBloodTest(actor, target *agent.Agent) {
	actor.RemoveItem(string(item.ItemTestKit))
	positive := target.Infected
	s.emit(events.EventTypeTestResult, actor.ID, target.ID, events.TestResultPayload{
		Positive: positive,
		Room:     s.roomOf(target),
	})
	if positive {
		s.infection.Reveal(target, "POSITIVE_TEST")
	} else {
		// A clean result vouches for the subject.
		s.trust.AdjustAll(target.ID, TrustDeltaHonest, "CLEAN_TEST")
	}
}

// SlipMaskCost is the disguise integrity a verbal slip tears away. The
// imitation holds its story together only while nobody pulls at the seams.
const SlipMaskCost = 12.0

// executeInterrogate runs an influence contest. The infected bluff with
// Deception; losing the contest is a verbal slip the questioner notices.
func (s *Simulation) executeInterrogate(actor, target *agent.Agent) {
	ask := actor.Pool(agent.AttrInfluence, agent.SkillPersuasion)
	bluff := target.Pool(agent.AttrInfluence, agent.SkillDeception)
	actorWon := s.rng.Contest(ask, bluff) == resolution.WinnerA

	if target.Infected && !target.Revealed && actorWon {
		s.emit(events.EventTypeInterrogation, actor.ID, target.ID, events.InterrogationPayload{
			Honest:  false,
			Slipped: true,
		})
		s.trust.Adjust(actor.ID, target.ID, TrustDeltaEvidence, "VERBAL_SLIP")
		target.MaskIntegrity = rules.ClampMask(target.MaskIntegrity - SlipMaskCost)
		if target.MaskIntegrity <= 0 {
			s.infection.Reveal(target, "MASK_ZERO")
		}
		s.trust.CheckLynchMob(target.ID)
		return
	}

	// Stress reads as evasion even from honest crew.
	evasive := target.Stress > 6
	s.emit(events.EventTypeInterrogation, actor.ID, target.ID, events.InterrogationPayload{
		Honest:  !evasive,
		Slipped: false,
	})
	if evasive {
		s.trust.Adjust(actor.ID, target.ID, TrustDeltaEvasive, "EVASIVE")
	} else {
		s.trust.Adjust(actor.ID, target.ID, TrustDeltaHonest, "HONEST")
	}
}

// executeAccuse runs a formal accusation vote. Every living agent except the
// pair votes; low trust in the accused is a vote for. A failed accusation
// costs the accuser dearly.
func (s *Simulation) executeAccuse(actor, target *agent.Agent) {
	var votesFor int
	var voters []string
	var backers []string
	for _, v := range s.agents {
		if !v.Alive || v.ID == actor.ID || v.ID == target.ID {
			continue
		}
		voters = append(voters, v.ID)
		if s.trust.Get(v.ID, target.ID) < AccuseVoteCutoff {
			votesFor++
			backers = append(backers, v.ID)
		}
	}
	upheld := len(voters) > 0 && votesFor*2 > len(voters)

	s.emit(events.EventTypeAccusation, actor.ID, target.ID, events.AccusationPayload{
		Upheld:     upheld,
		VotesFor:   votesFor,
		VotesTotal: len(voters),
		Voters:     voters,
	})

	if !upheld {
		s.trust.AdjustAll(actor.ID, TrustDeltaFalseAccuser, "FALSE_ACCUSATION")
		s.trust.CheckLynchMob(actor.ID)
		return
	}

	// The accused is restrained. If anyone brought a kit, the needle settles it.
	target.FrozenTurns = 4
	target.AddStress(2)

	// No serum stock, no proof: the restraint is all the vote buys.
	if s.sabotage.bloodDestroyed {
		return
	}

	var tester *agent.Agent
	for _, a := range s.agents {
		if a.Alive && a.HasItem(string(item.ItemTestKit)) {
			tester = a
			break
		}
	}
	if tester == nil {
		return
	}
	tester.RemoveItem(string(item.ItemTestKit))
	positive := target.Infected
	s.emit(events.EventTypeTestResult, tester.ID, target.ID, events.TestResultPayload{
		Positive: positive,
		Room:     s.roomOf(target),
	})
	if positive {
		s.infection.Reveal(target, "POSITIVE_TEST")
		s.trust.AdjustAll(actor.ID, TrustDeltaVindicated, "VINDICATED")
		return
	}
	s.trust.AdjustAll(actor.ID, TrustDeltaFalseAccuser, "FALSE_ACCUSATION")
	for _, b := range backers {
		s.trust.AdjustAll(b, TrustDeltaBadVoter, "BACKED_FALSE_ACCUSATION")
	}
}

func (s *Simulation) executeUseItem(actor *agent.Agent, id string) {
	switch item.ItemType(id) {
	case item.ItemMedKit:
		actor.RemoveItem(id)
		actor.Health++
		if actor.Health > agent.MaxHealth {
			actor.Health = agent.MaxHealth
		}
		s.emit(events.EventTypeItemUsed, actor.ID, "", events.ItemUsedPayload{
			Item:   id,
			Effect: "HEAL",
		})
	case item.ItemFlare:
		actor.RemoveItem(id)
		room := s.roomOf(actor)
		s.station.SetDark(room, false)
		s.emit(events.EventTypeItemUsed, actor.ID, "", events.ItemUsedPayload{
			Item:   id,
			Effect: "LIGHT",
		})
	}
}

// AdvanceTurn moves the world forward one turn. The TurnAdvance event fans
// out synchronously to every system in phase order; the returned slice is
// everything that happened this pass, in publication order.
func (s *Simulation) AdvanceTurn() ([]events.GameEvent, error) {
	if s.ended {
		return nil, reject(KindIllegalTransition, "ADVANCE_TURN", "simulation has ended")
	}
	started := time.Now()
	mark := s.bus.Len()

	s.noise.Decay()
	turn := s.clock.Advance()
	day, hour := s.clock.Time()
	_, err := s.bus.Publish(turn, events.EventTypeTurnAdvance, "", "", events.TurnAdvancePayload{
		Turn:    turn,
		Day:     day,
		Hour:    hour,
		IsNight: s.clock.IsNight(),
	})
	if err != nil {
		s.log.Warn("event persistence failed", "type", events.EventTypeTurnAdvance, "error", err)
	}
	metrics.Get().RecordEvent(err)

	metrics.Get().RecordTurn(time.Since(started))
	return s.bus.Since(mark), nil
}

// Bus exposes the event backbone for transports and replays.
func (s *Simulation) Bus() *events.Bus { return s.bus }

// Agents returns the roster in its fixed order.
func (s *Simulation) Agents() []*agent.Agent { return s.agents }

// Agent looks an agent up by ID.
func (s *Simulation) Agent(id string) (*agent.Agent, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Station exposes the map for read access.
func (s *Simulation) Station() *station.Map { return s.station }

// Trust exposes the trust ledger for read access.
func (s *Simulation) Trust() *TrustLedger { return s.trust }

// Turn returns the current turn number.
func (s *Simulation) Turn() int { return s.clock.Turn() }

// Time returns the current in-game day and hour.
func (s *Simulation) Time() (int, int) { return s.clock.Time() }

// Paranoia returns the station-wide dread level.
func (s *Simulation) Paranoia() int { return s.paranoia }

// PowerOn reports whether the generator is running.
func (s *Simulation) PowerOn() bool { return s.powerOn }

// Ended reports whether a terminal report has been published.
func (s *Simulation) Ended() bool { return s.ended }

// Result returns the ending result, "" while the game is live.
func (s *Simulation) Result() string { return s.result }

// PlayerID returns the scenario's player agent ID, "" for headless runs.
func (s *Simulation) PlayerID() string { return s.playerID }
