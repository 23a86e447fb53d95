package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
)

// Trust score bounds and anchors.
const (
	TrustDefault      = 50
	TrustMin          = 0
	TrustMax          = 100
	LynchMobThreshold = 20.0
	AccuseVoteCutoff  = 40 // a voter below this trust backs the accusation
)

// Standard trust deltas. Additive, applied through Adjust which clamps.
const (
	TrustDeltaEvidence     = -10
	TrustDeltaFalseAccuser = -20
	TrustDeltaBadVoter     = -5
	TrustDeltaHonest       = +2
	TrustDeltaEvasive      = -3
	TrustDeltaVindicated   = +10
)

// TrustLedger holds asymmetric pairwise trust scores. Storage is sparse:
// unrecorded pairs read as TrustDefault. Scores only move through Adjust so
// every change lands in the audit log.
type TrustLedger struct {
	sim      *Simulation
	scores   map[string]map[string]int
	mobFired map[string]bool // lynch-mob event already published for subject
}

// NewTrustLedger creates an empty ledger.
func NewTrustLedger(sim *Simulation) *TrustLedger {
	return &TrustLedger{
		sim:      sim,
		scores:   make(map[string]map[string]int),
		mobFired: make(map[string]bool),
	}
}

// Get returns observer's trust in subject.
func (t *TrustLedger) Get(observer, subject string) int {
	if row, ok := t.scores[observer]; ok {
		if v, ok := row[subject]; ok {
			return v
		}
	}
	return TrustDefault
}

// Adjust applies an additive delta to observer's trust in subject, clamped
// to [TrustMin, TrustMax], and publishes the change. Self-trust is ignored.
func (t *TrustLedger) Adjust(observer, subject string, delta int, cause string) {
	if observer == subject || delta == 0 {
		return
	}
	score := t.Get(observer, subject) + delta
	if score < TrustMin {
		score = TrustMin
	}
	if score > TrustMax {
		score = TrustMax
	}
	row, ok := t.scores[observer]
	if !ok {
		row = make(map[string]int)
		t.scores[observer] = row
	}
	row[subject] = score

	t.sim.emit(events.EventTypeTrustChange, observer, subject, events.TrustChangePayload{
		Delta:    delta,
		NewScore: score,
		Cause:    cause,
	})
}

// AdjustAll applies the same delta from every living agent except the
// subject. Roster order keeps the event sequence reproducible.
func (t *TrustLedger) AdjustAll(subject string, delta int, cause string) {
	for _, a := range t.sim.agents {
		if !a.Alive || a.ID == subject {
			continue
		}
		t.Adjust(a.ID, subject, delta, cause)
	}
}

// MeanTrust is the derived mob reading: the mean of every living agent's
// trust in the subject. Dead observers drop out of the average.
func (t *TrustLedger) MeanTrust(subject string) float64 {
	sum, n := 0, 0
	for _, a := range t.sim.agents {
		if !a.Alive || a.ID == subject {
			continue
		}
		sum += t.Get(a.ID, subject)
		n++
	}
	if n == 0 {
		return TrustDefault
	}
	return float64(sum) / float64(n)
}

// CheckLynchMob publishes a LynchMob event the first time a subject's mean
// trust sinks below the threshold. The event is a derived read, not a state
// change; the AI system reacts to it.
func (t *TrustLedger) CheckLynchMob(subject string) bool {
	mean := t.MeanTrust(subject)
	if mean >= LynchMobThreshold {
		return false
	}
	if !t.mobFired[subject] {
		t.mobFired[subject] = true
		t.sim.emit(events.EventTypeLynchMob, "", subject, events.LynchMobPayload{
			MeanTrust: mean,
			Threshold: LynchMobThreshold,
		})
	}
	return true
}

// snapshot returns a deep copy of the score table.
func (t *TrustLedger) snapshot() map[string]map[string]int {
	out := make(map[string]map[string]int, len(t.scores))
	for obs, row := range t.scores {
		cp := make(map[string]int, len(row))
		for subj, v := range row {
			cp[subj] = v
		}
		out[obs] = cp
	}
	return out
}

// restore replaces the score table from a snapshot.
func (t *TrustLedger) restore(scores map[string]map[string]int) {
	t.scores = make(map[string]map[string]int, len(scores))
	for obs, row := range scores {
		cp := make(map[string]int, len(row))
		for subj, v := range row {
			cp[subj] = v
		}
		t.scores[obs] = cp
	}
}
