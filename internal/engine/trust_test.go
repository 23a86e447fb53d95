package engine

import (
	"testing"

	"github.com/polarnight-games/outpost31/internal/events"
)

func TestTrustDefaultsAndClamps(t *testing.T) {
	sim := newTestSim(t, 1)

	if got := sim.trust.Get("H1", "M1"); got != TrustDefault {
		t.Errorf("Unrecorded pairs read as %d, got %d", TrustDefault, got)
	}

	sim.trust.Adjust("H1", "M1", +500, "TEST")
	if got := sim.trust.Get("H1", "M1"); got != TrustMax {
		t.Errorf("Expected clamp at %d, got %d", TrustMax, got)
	}

	sim.trust.Adjust("H1", "M1", -500, "TEST")
	if got := sim.trust.Get("H1", "M1"); got != TrustMin {
		t.Errorf("Expected clamp at %d, got %d", TrustMin, got)
	}
}

func TestTrustIsAsymmetric(t *testing.T) {
	sim := newTestSim(t, 1)

	sim.trust.Adjust("H1", "M1", -30, "TEST")

	if got := sim.trust.Get("H1", "M1"); got != 20 {
		t.Errorf("Expected 20, got %d", got)
	}
	if got := sim.trust.Get("M1", "H1"); got != TrustDefault {
		t.Errorf("The reverse direction must stay untouched, got %d", got)
	}
}

func TestSelfTrustIgnored(t *testing.T) {
	sim := newTestSim(t, 1)
	before := sim.bus.Len()

	sim.trust.Adjust("H1", "H1", -50, "TEST")

	if sim.bus.Len() != before {
		t.Errorf("Self-trust adjustments must publish nothing")
	}
}

func TestAdjustAllSkipsDeadAndSubject(t *testing.T) {
	sim := newTestSim(t, 1)
	h2, _ := sim.Agent("H2")
	h2.Alive = false

	sim.trust.AdjustAll("M1", -10, "TEST")

	if got := sim.trust.Get("H1", "M1"); got != 40 {
		t.Errorf("Living observers adjust, got %d", got)
	}
	if got := sim.trust.Get("H2", "M1"); got != TrustDefault {
		t.Errorf("Dead observers must not adjust, got %d", got)
	}
	if got := sim.trust.Get("M1", "M1"); got != TrustDefault {
		t.Errorf("The subject never adjusts itself")
	}
}

func TestMeanTrustExcludesDeadObservers(t *testing.T) {
	sim := newTestSim(t, 1)
	sim.trust.Adjust("H1", "M1", -40, "TEST") // 10
	sim.trust.Adjust("H2", "M1", -20, "TEST") // 30

	if got := sim.trust.MeanTrust("M1"); got != 20.0 {
		t.Errorf("Expected mean 20.0, got %f", got)
	}

	h2, _ := sim.Agent("H2")
	h2.Alive = false
	if got := sim.trust.MeanTrust("M1"); got != 10.0 {
		t.Errorf("Expected mean 10.0 with the second observer dead, got %f", got)
	}
}

func TestLynchMobFiresOnce(t *testing.T) {
	sim := newTestSim(t, 1)

	if sim.trust.CheckLynchMob("M1") {
		t.Fatalf("Default trust must not trip the mob")
	}

	sim.trust.Adjust("H1", "M1", -45, "TEST") // 5
	sim.trust.Adjust("H2", "M1", -40, "TEST") // 10, mean 7.5

	if !sim.trust.CheckLynchMob("M1") {
		t.Fatalf("Mean trust below %v must trip the mob", LynchMobThreshold)
	}
	if !sim.trust.CheckLynchMob("M1") {
		t.Errorf("The condition keeps reporting true while trust stays low")
	}
	if countEvents(sim, events.EventTypeLynchMob) != 1 {
		t.Errorf("LYNCH_MOB must be published exactly once per subject")
	}
}
