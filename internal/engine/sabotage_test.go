package engine

import (
	"testing"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
)

func TestSmashedRadioBlocksSOS(t *testing.T) {
	sim := newTestSim(t, 1)
	h2, _ := sim.Agent("H2")
	h2.Position = agent.Position{X: 12, Y: 2} // Radio Room

	if !sim.sabotage.SmashRadio("M1") {
		t.Fatalf("First smash must fire")
	}

	err := sim.ApplyAction("H2", Action{Type: ActionSendSOS})
	if re, ok := err.(*RejectionError); !ok || re.Kind != KindPreconditionFailed {
		t.Errorf("Expected %s with a smashed radio, got %v", KindPreconditionFailed, err)
	}
	if sim.sosCountdown != -1 {
		t.Errorf("A dead radio must not start the countdown")
	}
}

func TestWreckedHelicopterDelaysInboundRescue(t *testing.T) {
	sim := newTestSim(t, 1)
	h2, _ := sim.Agent("H2")
	h2.Position = agent.Position{X: 12, Y: 2}

	if err := sim.ApplyAction("H2", Action{Type: ActionSendSOS}); err != nil {
		t.Fatalf("SOS rejected: %v", err)
	}
	if sim.sosCountdown != 6 {
		t.Fatalf("Expected rescue countdown 6, got %d", sim.sosCountdown)
	}

	if !sim.sabotage.WreckHelicopter("M1") {
		t.Fatalf("First wreck must fire")
	}
	if sim.sosCountdown != 6+HelicopterWreckDelay {
		t.Errorf("Expected the rescue pushed to %d, got %d", 6+HelicopterWreckDelay, sim.sosCountdown)
	}

	// A second wreck is a no-op: no further delay, no second event.
	if sim.sabotage.WreckHelicopter("M1") {
		t.Errorf("A wrecked helicopter cannot be wrecked twice")
	}
	if sim.sosCountdown != 6+HelicopterWreckDelay {
		t.Errorf("A repeated wreck must not delay again, got %d", sim.sosCountdown)
	}
}

func TestHelicopterWreckDelaysLaterSOS(t *testing.T) {
	sim := newTestSim(t, 1)
	h2, _ := sim.Agent("H2")
	h2.Position = agent.Position{X: 12, Y: 2}

	sim.sabotage.WreckHelicopter("M1")
	if err := sim.ApplyAction("H2", Action{Type: ActionSendSOS}); err != nil {
		t.Fatalf("SOS rejected: %v", err)
	}
	if sim.sosCountdown != 6+HelicopterWreckDelay {
		t.Errorf("Expected the overland delay at send, got %d", sim.sosCountdown)
	}
}

func TestBloodSabotageStopsDiagnostics(t *testing.T) {
	sim := newTestSim(t, 1)
	m1, _ := sim.Agent("M1")
	m1.Position = agent.Position{X: 7, Y: 8} // in reach of H1's kit

	sim.sabotage.SabotageBlood("M1")

	err := sim.ApplyAction("H1", Action{Type: ActionTestBlood, TargetID: "M1"})
	if re, ok := err.(*RejectionError); !ok || re.Kind != KindPreconditionFailed {
		t.Errorf("Expected %s with the serum gone, got %v", KindPreconditionFailed, err)
	}
	if m1.Revealed {
		t.Errorf("No serum, no reveal")
	}
}

func TestBloodSabotageSkipsForcedTestOnAccusation(t *testing.T) {
	sim := newTestSim(t, 1)
	m1, _ := sim.Agent("M1")
	h1, _ := sim.Agent("H1")

	sim.sabotage.SabotageBlood("M1")
	sim.trust.Adjust("H2", "M1", -20, "SETUP") // the lone voter backs the accusation

	if err := sim.ApplyAction("H1", Action{Type: ActionAccuse, TargetID: "M1"}); err != nil {
		t.Fatalf("Accusation rejected: %v", err)
	}

	// The restraint holds but nothing can be proven.
	if m1.FrozenTurns != 4 {
		t.Errorf("The accused must still be restrained, got %d", m1.FrozenTurns)
	}
	if m1.Revealed {
		t.Errorf("Without serum an upheld accusation proves nothing")
	}
	if !h1.HasItem("TEST_KIT") {
		t.Errorf("No test ran, so no kit was spent")
	}
}

func TestSabotageIncidentsAreOneShot(t *testing.T) {
	sim := newTestSim(t, 1)

	if !sim.sabotage.SmashRadio("M1") || sim.sabotage.SmashRadio("M1") {
		t.Errorf("Radio smashing must fire exactly once")
	}
	if !sim.sabotage.SabotageBlood("M1") || sim.sabotage.SabotageBlood("M1") {
		t.Errorf("Blood sabotage must fire exactly once")
	}
	if !sim.sabotage.WreckHelicopter("M1") || sim.sabotage.WreckHelicopter("M1") {
		t.Errorf("Helicopter wrecking must fire exactly once")
	}
	if got := countEvents(sim, events.EventTypeSabotage); got != 3 {
		t.Errorf("Expected 3 SABOTAGE events, got %d", got)
	}
}

func TestInfectedSmashesRadioWhenAlone(t *testing.T) {
	sim := newTestSim(t, 1)
	m1, _ := sim.Agent("M1")
	m1.Position = agent.Position{X: 12, Y: 2} // alone in the Radio Room

	if !sim.ai.opportunisticInfected(m1) {
		t.Fatalf("An unobserved infected must take the opportunity")
	}
	if !sim.sabotage.radioSmashed {
		t.Errorf("Expected the radio smashed")
	}

	// With the radio already dead the room offers nothing; the turn falls
	// through to ordinary behavior.
	if sim.ai.opportunisticInfected(m1) {
		t.Errorf("A dead radio is no longer an opportunity")
	}
}

func TestSnapshotCarriesSabotageFlags(t *testing.T) {
	sim := newTestSim(t, 1)
	sim.sabotage.SmashRadio("M1")
	sim.sabotage.WreckHelicopter("M1")
	sim.sabotage.SabotageBlood("M1")

	snap := sim.SnapshotState()
	restored, err := RestoreSimulation(testScenario(), snap, nil, logger.NewNop())
	if err != nil {
		t.Fatalf("RestoreSimulation failed: %v", err)
	}

	if !restored.sabotage.radioSmashed || !restored.sabotage.helicopterWrecked || !restored.sabotage.bloodDestroyed {
		t.Errorf("One-shot incidents must survive a snapshot round trip")
	}
}
