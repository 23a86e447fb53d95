package engine

import (
	"testing"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/rules"
)

func TestSweepIgnoresInnocentStanders(t *testing.T) {
	sim := newTestSim(t, 1)

	before := sim.rng.Draws()
	sim.stealth.Sweep()

	// Two standing humans and a scheduled masked infected: nothing to roll.
	if sim.rng.Draws() != before {
		t.Errorf("No contest should run without a suspicious subject")
	}
	if len(sim.stealth.cooldowns) != 0 {
		t.Errorf("No cooldowns without contests")
	}
}

func TestSweepContestsSneakingSubject(t *testing.T) {
	sim := newTestSim(t, 1)
	h2, _ := sim.Agent("H2")
	h2.Posture = agent.PostureCrawling

	sim.stealth.Sweep()

	// H1 shares the room and must have rolled against H2; the pair is now
	// cooling down either way.
	if _, ok := sim.stealth.cooldowns[pairKey("H1", "H2")]; !ok {
		t.Errorf("Expected a cooldown for the H1|H2 pair after the contest")
	}
}

func TestContestCooldownBlocksRerolls(t *testing.T) {
	sim := newTestSim(t, 1)
	h1, _ := sim.Agent("H1")
	h2, _ := sim.Agent("H2")
	h2.Posture = agent.PostureHiding

	sim.stealth.Contest(h1, h2)
	before := sim.rng.Draws()

	sim.stealth.Sweep()
	if sim.rng.Draws() != before {
		t.Errorf("A cooling pair must not re-contest during the sweep")
	}

	// Three ticks later the pair is live again.
	sim.stealth.TickCooldowns()
	sim.stealth.TickCooldowns()
	sim.stealth.TickCooldowns()
	if len(sim.stealth.cooldowns) != 0 {
		t.Errorf("Cooldowns must expire after %d ticks", sim.stealth.cooldown)
	}

	sim.stealth.Sweep()
	if sim.rng.Draws() == before {
		t.Errorf("An expired cooldown must allow a fresh contest")
	}
}

func TestDetectionRateTracksPoolRatio(t *testing.T) {
	sim := newTestSim(t, 42)
	h1, _ := sim.Agent("H1")
	h2, _ := sim.Agent("H2")
	h2.Posture = agent.PostureCrawling

	obsPool, subjPool := rules.DetectionPools(rules.DetectionParams{
		ObserverPool: h1.Pool(agent.AttrLogic, agent.SkillObservation),
		SubjectPool:  h2.Pool(agent.AttrProwess, agent.SkillStealth),
		PostureBonus: h2.Posture.StealthBonus(),
	})
	want := rules.DetectionChance(obsPool, subjPool)

	const trials = 10000
	detections := 0
	for i := 0; i < trials; i++ {
		if sim.stealth.Contest(h1, h2) {
			detections++
		}
	}

	got := float64(detections) / trials
	if got < want-0.02 || got > want+0.02 {
		t.Errorf("Detection rate drifted from the pool ratio: want %.4f, got %.4f over %d contests", want, got, trials)
	}
}

func TestDetectionSetsPursuit(t *testing.T) {
	sim := newTestSim(t, 1)
	h1, _ := sim.Agent("H1")
	m1, _ := sim.Agent("M1")

	m1.Revealed = true
	m1.Position = agent.Position{X: 7, Y: 8}
	m1.Posture = agent.PostureCrouching

	// Retry across cooldown windows until the contest lands a detection;
	// the chance is near even, so a handful of windows is plenty.
	detected := false
	for i := 0; i < 40 && !detected; i++ {
		detected = sim.stealth.Contest(h1, m1)
		for j := 0; j < sim.stealth.cooldown; j++ {
			sim.stealth.TickCooldowns()
		}
	}
	if !detected {
		t.Fatalf("Expected a detection within 40 near-even contests")
	}

	if h1.Mode != agent.ModePursuing {
		t.Errorf("A human spotting a revealed infected must pursue, got %s", h1.Mode)
	}
	if h1.LastSeenTargetPos != m1.Position {
		t.Errorf("The observer must remember where the subject was")
	}
}
