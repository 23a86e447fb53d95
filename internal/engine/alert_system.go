package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
)

// AlertObservationBonus is added to observer pools while the station alert
// is active.
const AlertObservationBonus = 2

// AlertSystem tracks the station-wide alert raised by reveals, screams and
// confirmed sightings. While active, observers roll bigger pools and the
// infected coordinate openly.
type AlertSystem struct {
	sim *Simulation

	active      bool
	turnsLeft   int
	duration    int
	coordinated bool // one ambush broadcast per alert window
}

// NewAlertSystem creates an inactive alert tracker.
func NewAlertSystem(sim *Simulation, duration int) *AlertSystem {
	if duration <= 0 {
		duration = 10
	}
	return &AlertSystem{sim: sim, duration: duration}
}

// Trigger raises (or refreshes) the alert.
func (as *AlertSystem) Trigger(trigger string) {
	refreshed := as.active
	as.active = true
	as.turnsLeft = as.duration
	if refreshed {
		return
	}
	as.coordinated = false
	as.sim.emit(events.EventTypeStationAlert, "", "", events.StationAlertPayload{
		Active:   true,
		Duration: as.duration,
		Trigger:  trigger,
	})
}

// OnTurn decays the alert. Runs in the environment phase.
func (as *AlertSystem) OnTurn(ev events.GameEvent) {
	if !as.active {
		return
	}
	as.turnsLeft--
	if as.turnsLeft > 0 {
		return
	}
	as.active = false
	as.sim.emit(events.EventTypeStationAlert, "", "", events.StationAlertPayload{
		Active: false,
	})
}

// Active reports whether the alert is up.
func (as *AlertSystem) Active() bool { return as.active }

// ObservationBonus returns the observer-pool bonus for the current state.
func (as *AlertSystem) ObservationBonus() int {
	if as.active {
		return AlertObservationBonus
	}
	return 0
}

// MarkCoordinated records that the infected already broadcast an ambush
// during this alert window, and reports whether they had before.
func (as *AlertSystem) MarkCoordinated() bool {
	if as.coordinated {
		return true
	}
	as.coordinated = true
	return false
}
