package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/rules"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/metrics"
)

// StealthSystem resolves opposed observation contests between co-located
// agents. A per-pair cooldown stops the same observer from re-rolling the
// same subject every turn.
type StealthSystem struct {
	sim       *Simulation
	cooldown  int
	cooldowns map[string]int // "observer|subject" -> turns left
}

// NewStealthSystem creates the system.
func NewStealthSystem(sim *Simulation, cooldown int) *StealthSystem {
	if cooldown <= 0 {
		cooldown = 3
	}
	return &StealthSystem{
		sim:       sim,
		cooldown:  cooldown,
		cooldowns: make(map[string]int),
	}
}

func pairKey(observer, subject string) string {
	return observer + "|" + subject
}

// TickCooldowns decrements every active pair cooldown. Called once per turn
// from the AI phase before the sweep.
func (st *StealthSystem) TickCooldowns() {
	for k, v := range st.cooldowns {
		v--
		if v <= 0 {
			delete(st.cooldowns, k)
			continue
		}
		st.cooldowns[k] = v
	}
}

// Sweep runs the detection pass: every living observer against every
// co-located suspicious subject, in roster order for both sides. A subject
// is suspicious when sneaking (non-standing posture) or when it is a masked
// infected in an aggressive mode.
func (st *StealthSystem) Sweep() {
	for _, observer := range st.sim.agents {
		if !observer.Alive || observer.FrozenTurns > 0 {
			continue
		}
		for _, subject := range st.sim.agents {
			if subject.ID == observer.ID || !subject.Alive {
				continue
			}
			if !st.suspicious(subject) {
				continue
			}
			if !st.sim.coLocated(observer, subject) {
				continue
			}
			if _, waiting := st.cooldowns[pairKey(observer.ID, subject.ID)]; waiting {
				continue
			}
			st.Contest(observer, subject)
		}
	}
}

func (st *StealthSystem) suspicious(subject *agent.Agent) bool {
	if subject.Posture != agent.PostureStanding {
		return true
	}
	if subject.Infected && !subject.Revealed {
		return subject.Mode == agent.ModeFlanking || subject.Mode == agent.ModeHunting
	}
	return false
}

// Contest rolls one opposed observation check and applies the consequences.
// Both outcomes start the pair cooldown. Returns whether the subject was
// spotted.
func (st *StealthSystem) Contest(observer, subject *agent.Agent) bool {
	room := st.sim.roomOf(subject)
	obsPool, subjPool := rules.DetectionPools(rules.DetectionParams{
		ObserverPool:  observer.Pool(agent.AttrLogic, agent.SkillObservation),
		SubjectPool:   subject.Pool(agent.AttrProwess, agent.SkillStealth),
		PostureBonus:  subject.Posture.StealthBonus(),
		Dark:          st.sim.station.IsDark(room, st.sim.powerOn),
		NoiseUnits:    st.sim.noise.Level(room),
		ObserverAlert: st.sim.alert.ObservationBonus(),
	})
	chance := rules.DetectionChance(obsPool, subjPool)
	metrics.Get().RecordDetection()

	detected := st.sim.rng.Chance(chance)
	st.cooldowns[pairKey(observer.ID, subject.ID)] = st.cooldown

	if !detected {
		return false
	}

	st.sim.emit(events.EventTypeDetectionReport, observer.ID, subject.ID, events.DetectionPayload{
		Room:         room,
		Detected:     true,
		ObserverPool: obsPool,
		SubjectPool:  subjPool,
		Chance:       chance,
	})

	// Catching a disguised infected mid-stalk is hard evidence.
	if subject.Infected && !subject.Revealed {
		st.sim.trust.Adjust(observer.ID, subject.ID, TrustDeltaEvidence, "CAUGHT_SNEAKING")
		st.sim.trust.CheckLynchMob(subject.ID)
		st.sim.alert.Trigger("SIGHTING")
	}

	// Observers remember where the subject was; pursuit starts next pass.
	if !observer.Infected && subject.Revealed {
		observer.Mode = agent.ModePursuing
		observer.LastSeenTargetPos = subject.Position
	}
	return true
}
