package engine

import (
	"sort"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/station"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/config"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
	"github.com/polarnight-games/outpost31/internal/resolution"
)

// SnapshotVersion guards against loading saves from incompatible builds.
const SnapshotVersion = 1

// Snapshot is the full primitive-only state of a simulation. Nothing in
// here is a pointer, channel, or generator internals: randomness is the
// (seed, draws) pair and is rebuilt by fast-forwarding on restore.
type Snapshot struct {
	Version int `json:"version"`

	Seed  int64  `json:"seed"`
	Draws uint64 `json:"draws"`

	Turn     int    `json:"turn"`
	Day      int    `json:"day"`
	Hour     int    `json:"hour"`
	EventSeq uint64 `json:"event_seq"`

	Paranoia         int    `json:"paranoia"`
	PowerOn          bool   `json:"power_on"`
	OutageTurns      int    `json:"outage_turns"`
	SabotageCooldown int    `json:"sabotage_cooldown"`
	SOSCountdown     int    `json:"sos_countdown"`
	Ended            bool   `json:"ended"`
	Result           string `json:"result,omitempty"`

	RadioSmashed      bool `json:"radio_smashed,omitempty"`
	HelicopterWrecked bool `json:"helicopter_wrecked,omitempty"`
	BloodDestroyed    bool `json:"blood_destroyed,omitempty"`

	AlertActive      bool `json:"alert_active"`
	AlertTurnsLeft   int  `json:"alert_turns_left"`
	AlertCoordinated bool `json:"alert_coordinated"`

	Agents     []agent.Agent                `json:"agents"`
	Rooms      map[string]station.RoomState `json:"rooms"`
	Trust      map[string]map[string]int    `json:"trust"`
	Noise      map[string]int               `json:"noise,omitempty"`
	CraftQueue []CraftJob                   `json:"craft_queue,omitempty"`
	Cooldowns  map[string]int               `json:"detection_cooldowns,omitempty"`
	MobFired   []string                     `json:"mob_fired,omitempty"`
}

// SnapshotState captures the complete current state. The copy is deep:
// mutating the live simulation afterwards never changes the snapshot.
func (s *Simulation) SnapshotState() *Snapshot {
	day, hour := s.clock.Time()
	snap := &Snapshot{
		Version:           SnapshotVersion,
		Seed:              s.rng.Seed(),
		Draws:             s.rng.Draws(),
		Turn:              s.clock.Turn(),
		Day:               day,
		Hour:              hour,
		EventSeq:          s.bus.Seq(),
		Paranoia:          s.paranoia,
		PowerOn:           s.powerOn,
		OutageTurns:       s.sabotage.outageTurns,
		SabotageCooldown:  s.sabotage.cooldown,
		RadioSmashed:      s.sabotage.radioSmashed,
		HelicopterWrecked: s.sabotage.helicopterWrecked,
		BloodDestroyed:    s.sabotage.bloodDestroyed,
		SOSCountdown:      s.sosCountdown,
		Ended:             s.ended,
		Result:            s.result,
		AlertActive:       s.alert.active,
		AlertTurnsLeft:    s.alert.turnsLeft,
		AlertCoordinated:  s.alert.coordinated,
		Rooms:             make(map[string]station.RoomState),
		Trust:             s.trust.snapshot(),
		Noise:             s.noise.snapshot(),
		CraftQueue:        s.crafting.Jobs(),
		Cooldowns:         make(map[string]int, len(s.stealth.cooldowns)),
	}

	for _, a := range s.agents {
		snap.Agents = append(snap.Agents, copyAgent(a))
	}
	for _, r := range s.station.Rooms() {
		if st := s.station.State(r.Name); st != nil {
			snap.Rooms[r.Name] = *st
		}
	}
	for k, v := range s.stealth.cooldowns {
		snap.Cooldowns[k] = v
	}
	for subject, fired := range s.trust.mobFired {
		if fired {
			snap.MobFired = append(snap.MobFired, subject)
		}
	}
	sort.Strings(snap.MobFired)
	return snap
}

// RestoreSimulation rebuilds a simulation from a snapshot and its scenario.
// The scenario supplies the static pieces a snapshot does not carry (recipe
// table, tunables); everything dynamic comes from the snapshot, including
// the randomness cursor.
func RestoreSimulation(scn *config.Scenario, snap *Snapshot, persister events.EventPersister, log *logger.Logger) (*Simulation, error) {
	if snap.Version != SnapshotVersion {
		return nil, reject(KindPreconditionFailed, "RESTORE",
			"snapshot version %d, want %d", snap.Version, SnapshotVersion)
	}
	s, err := NewSimulation(scn, snap.Seed, persister, log)
	if err != nil {
		return nil, err
	}

	s.rng = resolution.Restore(snap.Seed, snap.Draws)
	s.clock.SetTime(snap.Turn, snap.Day, snap.Hour)
	s.bus.ResumeSeq(snap.EventSeq)

	s.agents = s.agents[:0]
	s.byID = make(map[string]*agent.Agent, len(snap.Agents))
	for i := range snap.Agents {
		a := copyAgent(&snap.Agents[i])
		s.agents = append(s.agents, &a)
		s.byID[a.ID] = &a
	}

	for room, st := range snap.Rooms {
		if live := s.station.State(room); live != nil {
			*live = st
		}
	}

	s.paranoia = snap.Paranoia
	s.powerOn = snap.PowerOn
	s.sabotage.outageTurns = snap.OutageTurns
	s.sabotage.cooldown = snap.SabotageCooldown
	s.sabotage.radioSmashed = snap.RadioSmashed
	s.sabotage.helicopterWrecked = snap.HelicopterWrecked
	s.sabotage.bloodDestroyed = snap.BloodDestroyed
	s.sosCountdown = snap.SOSCountdown
	s.ended = snap.Ended
	s.result = snap.Result

	s.alert.active = snap.AlertActive
	s.alert.turnsLeft = snap.AlertTurnsLeft
	s.alert.coordinated = snap.AlertCoordinated

	s.trust.restore(snap.Trust)
	for _, subject := range snap.MobFired {
		s.trust.mobFired[subject] = true
	}
	s.noise.restore(snap.Noise)
	s.crafting.restore(snap.CraftQueue)
	s.stealth.cooldowns = make(map[string]int, len(snap.Cooldowns))
	for k, v := range snap.Cooldowns {
		s.stealth.cooldowns[k] = v
	}

	// Weather is a pure function of seed and turn; recompute and realign the
	// crossing edge detector.
	s.weather.compute(snap.Turn)
	s.weather.belowFreeze = s.weather.temperature < FreezingThreshold

	return s, nil
}

// copyAgent deep-copies an agent so snapshot and live state never alias.
func copyAgent(a *agent.Agent) agent.Agent {
	cp := *a
	cp.Attributes = make(map[agent.Attribute]int, len(a.Attributes))
	for k, v := range a.Attributes {
		cp.Attributes[k] = v
	}
	cp.Skills = make(map[agent.Skill]int, len(a.Skills))
	for k, v := range a.Skills {
		cp.Skills[k] = v
	}
	cp.Schedule = append([]agent.ScheduleEntry(nil), a.Schedule...)
	cp.Habitat = append([]string(nil), a.Habitat...)
	cp.Inventory = append([]string(nil), a.Inventory...)
	return cp
}
