package engine

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/polarnight-games/outpost31/internal/events"
)

// FreezingThreshold is the station temperature below which disguises decay
// faster and generators strain.
const FreezingThreshold = -30.0

// Storm bounds.
const (
	maxStormIntensity = 10
	stormTimeScale    = 0.05 // noise-field step per turn
	baseTemperature   = -12.0
	stormChillFactor  = 3.5 // degrees lost per intensity point
)

var windDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WeatherSystem drives the antarctic storm. Intensity and temperature are a
// pure function of the seed and the turn number via a smooth noise field, so
// weather replays exactly without consuming randomness draws.
type WeatherSystem struct {
	sim   *Simulation
	field opensimplex.Noise

	intensity   int
	temperature float64
	wind        string
	belowFreeze bool
}

// NewWeatherSystem creates the storm model seeded from the simulation seed.
func NewWeatherSystem(sim *Simulation, seed int64) *WeatherSystem {
	w := &WeatherSystem{
		sim:   sim,
		field: opensimplex.NewNormalized(seed),
		wind:  windDirections[0],
	}
	w.compute(0)
	return w
}

// compute derives the storm state for a turn from the noise field.
func (w *WeatherSystem) compute(turn int) {
	t := float64(turn) * stormTimeScale
	w.intensity = int(w.field.Eval2(t, 0) * float64(maxStormIntensity+1))
	if w.intensity > maxStormIntensity {
		w.intensity = maxStormIntensity
	}
	w.temperature = baseTemperature - float64(w.intensity)*stormChillFactor +
		(w.field.Eval2(t, 37.0)-0.5)*8.0
	w.wind = windDirections[int(w.field.Eval2(t, 71.0)*float64(len(windDirections)))%len(windDirections)]
}

// OnTurn runs in the environment phase: advance the storm, publish the
// shift, and fire a crossing event when the freeze line is passed.
func (w *WeatherSystem) OnTurn(ev events.GameEvent) {
	w.compute(ev.Turn)

	w.sim.emit(events.EventTypeWeatherShift, "", "", events.WeatherPayload{
		StormIntensity: w.intensity,
		WindDirection:  w.wind,
		Temperature:    w.temperature,
		Visibility:     w.Visibility(),
	})

	below := w.temperature < FreezingThreshold
	if below != w.belowFreeze {
		w.belowFreeze = below
		w.sim.emit(events.EventTypeTemperatureCrossing, "", "", events.TemperatureCrossingPayload{
			Threshold:   FreezingThreshold,
			Temperature: w.temperature,
			Below:       below,
		})
	}

	// A whiteout at full force can knock the generator out.
	if w.intensity >= 9 && w.sim.powerOn {
		if w.sim.rng.Chance(0.15) {
			w.sim.sabotage.PowerFailure("", "STORM", 3)
		}
	}

	w.applyFrost()
}

// applyFrost syncs per-room frost with the freeze line and station power.
// Deep cold creeps indoors only while the generator is down; frost clears as
// soon as either lifts.
func (w *WeatherSystem) applyFrost() {
	frozen := w.belowFreeze && !w.sim.powerOn
	for _, r := range w.sim.station.Rooms() {
		w.sim.station.SetFrozen(r.Name, frozen)
	}
}

// Intensity returns the current storm strength, 0-10.
func (w *WeatherSystem) Intensity() int { return w.intensity }

// Temperature returns the current station-wide temperature in Celsius.
func (w *WeatherSystem) Temperature() float64 { return w.temperature }

// Wind returns the current wind direction.
func (w *WeatherSystem) Wind() string { return w.wind }

// Visibility returns the outdoor visibility modifier in [0,1]; 1 is clear.
func (w *WeatherSystem) Visibility() float64 {
	return 1.0 - float64(w.intensity)/float64(maxStormIntensity)*0.9
}

// ExtremeCold reports whether the station sits below the freeze line.
func (w *WeatherSystem) ExtremeCold() bool { return w.belowFreeze }
