package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
)

// Incident names carried on SABOTAGE events.
const (
	IncidentGenerator  = "GENERATOR_FAILURE"
	IncidentRadio      = "RADIO_SMASHED"
	IncidentHelicopter = "HELICOPTER_WRECKED"
	IncidentBlood      = "BLOOD_SABOTAGE"
)

// HelicopterWreckDelay is the extra rescue turns the relief team needs once
// the helicopter is scrap and the trip has to happen overland.
const HelicopterWreckDelay = 6

// SabotageSystem owns station power and infected sabotage incidents. It is
// the single writer of the powerOn flag; everything else reads. Power
// outages are repairable and cooldown-gated; the radio, the helicopter and
// the serum stock are one-shot incidents that stay destroyed for the rest
// of the run.
type SabotageSystem struct {
	sim *Simulation

	outageTurns int // turns until power returns, 0 when lit or unrepaired
	cooldown    int // turns before another generator attempt

	radioSmashed      bool
	helicopterWrecked bool
	bloodDestroyed    bool
}

// NewSabotageSystem creates the system with power on and everything intact.
func NewSabotageSystem(sim *Simulation) *SabotageSystem {
	return &SabotageSystem{sim: sim}
}

// PowerFailure cuts station power for duration turns. Idempotent while the
// power is already out: a second incident extends the outage instead of
// publishing twice.
func (sb *SabotageSystem) PowerFailure(actorID, cause string, duration int) {
	if duration < 1 {
		duration = 1
	}
	if !sb.sim.powerOn {
		if duration > sb.outageTurns {
			sb.outageTurns = duration
		}
		return
	}
	sb.sim.powerOn = false
	sb.outageTurns = duration
	sb.sim.emit(events.EventTypePowerFailure, actorID, "", events.PowerPayload{
		Cause:    cause,
		Duration: duration,
	})
	sb.sim.bumpParanoia(10)
}

// AttemptSabotage is called from the AI phase when a masked infected stands
// unobserved in the Generator room. One attempt per cooldown window.
func (sb *SabotageSystem) AttemptSabotage(actorID string) {
	if sb.cooldown > 0 || !sb.sim.powerOn {
		return
	}
	sb.cooldown = 5
	if !sb.sim.rng.Chance(0.5) {
		return
	}
	sb.sim.emit(events.EventTypeSabotage, actorID, "", events.SabotagePayload{
		Incident: IncidentGenerator,
		Room:     "Generator",
	})
	sb.PowerFailure(actorID, "SABOTAGE", 4)
}

// SmashRadio destroys the transmitter for good: no SOS goes out afterwards.
// Reports whether the incident fired; a dead radio cannot die twice.
func (sb *SabotageSystem) SmashRadio(actorID string) bool {
	if sb.radioSmashed {
		return false
	}
	sb.radioSmashed = true
	sb.sim.emit(events.EventTypeSabotage, actorID, "", events.SabotagePayload{
		Incident: IncidentRadio,
		Room:     "Radio Room",
	})
	sb.sim.noise.Record(actorID, "Radio Room", 2)
	sb.sim.bumpParanoia(10)
	return true
}

// WreckHelicopter disables the airframe on the pad behind Storage. A rescue
// already inbound is pushed back by the overland delay; one sent later picks
// the delay up at transmission time.
func (sb *SabotageSystem) WreckHelicopter(actorID string) bool {
	if sb.helicopterWrecked {
		return false
	}
	sb.helicopterWrecked = true
	sb.sim.emit(events.EventTypeSabotage, actorID, "", events.SabotagePayload{
		Incident: IncidentHelicopter,
		Room:     "Storage",
	})
	if sb.sim.sosCountdown > 0 {
		sb.sim.sosCountdown += HelicopterWreckDelay
	}
	sb.sim.bumpParanoia(10)
	return true
}

// SabotageBlood contaminates the serum stock in the Infirmary. Diagnostics
// are impossible afterwards: accusations can still restrain a suspect but
// never prove anything.
func (sb *SabotageSystem) SabotageBlood(actorID string) bool {
	if sb.bloodDestroyed {
		return false
	}
	sb.bloodDestroyed = true
	sb.sim.emit(events.EventTypeSabotage, actorID, "", events.SabotagePayload{
		Incident: IncidentBlood,
		Room:     "Infirmary",
	})
	sb.sim.bumpParanoia(10)
	return true
}

// OnTurn runs in the environment phase: tick outage and attempt cooldowns.
func (sb *SabotageSystem) OnTurn(ev events.GameEvent) {
	if sb.cooldown > 0 {
		sb.cooldown--
	}
	if sb.sim.powerOn || sb.outageTurns <= 0 {
		return
	}
	sb.outageTurns--
	if sb.outageTurns == 0 {
		sb.sim.powerOn = true
		sb.sim.emit(events.EventTypePowerRestored, "", "", events.PowerPayload{})
	}
}
