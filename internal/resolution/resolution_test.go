package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := NewEngine(42)
	b := NewEngine(42)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.RollDie(), b.RollDie(), "streams diverged at draw %d", i)
	}
	assert.Equal(t, a.Draws(), b.Draws())
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewEngine(1)
	b := NewEngine(2)
	same := true
	for i := 0; i < 100; i++ {
		if a.RollDie() != b.RollDie() {
			same = false
		}
	}
	assert.False(t, same, "two different seeds produced identical 100-roll sequences")
}

func TestRestoreFastForward(t *testing.T) {
	a := NewEngine(7)
	// Burn a mixed draw pattern, the way a real turn does.
	a.RollPool(5, 1)
	a.Chance(0.3)
	a.PickIndex(5)
	a.Contest(3, 4)
	cursor := a.Draws()

	b := Restore(7, cursor)
	require.Equal(t, cursor, b.Draws())
	for i := 0; i < 200; i++ {
		require.Equal(t, a.RollDie(), b.RollDie(), "restored stream diverged at draw %d", i)
	}
}

func TestRollDieRange(t *testing.T) {
	e := NewEngine(3)
	for i := 0; i < 1000; i++ {
		v := e.RollDie()
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
	}
}

func TestRollPoolBounds(t *testing.T) {
	e := NewEngine(11)

	assert.Equal(t, 0, e.RollPool(-3, 0), "negative pool clamps to zero dice")
	assert.Equal(t, 0, e.RollPool(0, 0))
	assert.Equal(t, 0, e.RollPool(2, 10), "difficulty floors the result at zero, never negative")

	for i := 0; i < 500; i++ {
		v := e.RollPool(4, 0)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 4)
	}
}

func TestRollPoolConsumesOneDrawPerDie(t *testing.T) {
	e := NewEngine(5)
	before := e.Draws()
	e.RollPool(5, 2)
	assert.Equal(t, before+5, e.Draws())

	before = e.Draws()
	e.RollPool(0, 0)
	assert.Equal(t, before, e.Draws(), "an empty pool rolls nothing")
}

func TestChanceClampsAndAlwaysDraws(t *testing.T) {
	e := NewEngine(9)

	before := e.Draws()
	assert.False(t, e.Chance(-0.5))
	assert.Equal(t, before+1, e.Draws(), "impossible check still consumes a draw")

	before = e.Draws()
	assert.True(t, e.Chance(1.5))
	assert.Equal(t, before+1, e.Draws(), "certain check still consumes a draw")

	before = e.Draws()
	e.Chance(0.5)
	assert.Equal(t, before+1, e.Draws())
}

func TestChanceFrequency(t *testing.T) {
	e := NewEngine(1)
	const trials = 10000
	const p = 0.3
	hits := 0
	for i := 0; i < trials; i++ {
		if e.Chance(p) {
			hits++
		}
	}
	assert.InDelta(t, p, float64(hits)/float64(trials), 0.02)
}

func TestFloatRange(t *testing.T) {
	e := NewEngine(13)
	for i := 0; i < 1000; i++ {
		v := e.Float()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestContestZeroPoolNeverWins(t *testing.T) {
	e := NewEngine(17)
	for i := 0; i < 200; i++ {
		w := e.Contest(4, 0)
		require.NotEqual(t, WinnerB, w, "an empty pool rolled a success")
	}
}

func TestContestConsumesBothPools(t *testing.T) {
	e := NewEngine(19)
	before := e.Draws()
	e.Contest(3, 5)
	assert.Equal(t, before+8, e.Draws())
}

func TestPickIndexBounds(t *testing.T) {
	e := NewEngine(23)
	for i := 0; i < 1000; i++ {
		v := e.PickIndex(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
	assert.Equal(t, 0, e.PickIndex(0))
	assert.Equal(t, 0, e.PickIndex(-1))
}

func TestWinnerString(t *testing.T) {
	assert.Equal(t, "A", WinnerA.String())
	assert.Equal(t, "B", WinnerB.String())
	assert.Equal(t, "TIE", Tie.String())
}
