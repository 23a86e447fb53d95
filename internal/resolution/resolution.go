// Package resolution provides the shared probabilistic primitives for the
// simulation. Every stochastic decision in the engine routes through one
// seeded Engine instance owned by the simulation root; no subsystem creates
// its own randomness or re-implements probability math.
package resolution

import (
	"math/rand"
)

// SuccessFace is the die face counted as a success in pool checks.
const SuccessFace = 6

// Winner identifies the outcome of an opposed contest.
type Winner int

const (
	Tie Winner = iota
	WinnerA
	WinnerB
)

func (w Winner) String() string {
	switch w {
	case WinnerA:
		return "A"
	case WinnerB:
		return "B"
	default:
		return "TIE"
	}
}

// Engine is the single seeded randomness stream. Identical seed plus
// identical draw order yields identical outcomes, which save/replay relies
// on. State decomposes to two primitive fields (seed, draws) so snapshots
// never serialize the generator's internal representation.
type Engine struct {
	seed  int64
	draws uint64
	rng   *rand.Rand
}

// NewEngine creates a seeded engine at draw position zero.
func NewEngine(seed int64) *Engine {
	return &Engine{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Restore rebuilds an engine at a saved cursor position by reseeding and
// fast-forwarding. Cost is linear in draws, which stays small at game scale.
func Restore(seed int64, draws uint64) *Engine {
	e := NewEngine(seed)
	for i := uint64(0); i < draws; i++ {
		e.rng.Int63()
	}
	e.draws = draws
	return e
}

// Seed returns the seed the stream was created with.
func (e *Engine) Seed() int64 { return e.seed }

// Draws returns the cursor position: how many base draws have been consumed.
func (e *Engine) Draws() uint64 { return e.draws }

// next is the single point every randomness consumer funnels through, so
// the draw counter stays exact.
func (e *Engine) next() int64 {
	e.draws++
	return e.rng.Int63()
}

// intn returns a uniform int in [0, n).
func (e *Engine) intn(n int) int {
	return int(e.next() % int64(n))
}

// RollDie rolls a single d6.
func (e *Engine) RollDie() int {
	return e.intn(6) + 1
}

// RollPool rolls poolSize independent dice and counts successes, then
// subtracts difficulty (floor 0). Pool sizes below zero are clamped to zero.
// Never mutates caller state: the result is a pure function of the
// arguments and the stream position.
func (e *Engine) RollPool(poolSize, difficulty int) int {
	if poolSize < 0 {
		poolSize = 0
	}
	successes := 0
	for i := 0; i < poolSize; i++ {
		if e.RollDie() == SuccessFace {
			successes++
		}
	}
	successes -= difficulty
	if successes < 0 {
		return 0
	}
	return successes
}

// Chance performs a direct percentage check. p is clamped to [0, 1].
func (e *Engine) Chance(p float64) bool {
	if p <= 0 {
		// Still consume a draw so call sequences stay aligned across
		// branches that compute p differently.
		e.next()
		return false
	}
	if p >= 1 {
		e.next()
		return true
	}
	return e.Float() < p
}

// Float returns a uniform float64 in [0, 1).
func (e *Engine) Float() float64 {
	return float64(e.next()) / (1 << 63)
}

// Contest rolls two pools against each other and compares success counts.
func (e *Engine) Contest(poolA, poolB int) Winner {
	a := e.RollPool(poolA, 0)
	b := e.RollPool(poolB, 0)
	switch {
	case a > b:
		return WinnerA
	case b > a:
		return WinnerB
	default:
		return Tie
	}
}

// PickIndex returns a uniform index in [0, n). n must be positive.
func (e *Engine) PickIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return e.intn(n)
}
