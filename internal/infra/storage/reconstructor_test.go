package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarnight-games/outpost31/internal/events"
)

func TestGenerateRecapFiltersForObserver(t *testing.T) {
	repo, _ := newTestRepos(t)
	bus := events.NewBus(NewBusPersister(repo, "game-1"))

	bus.Publish(1, events.EventTypeWeatherShift, "", "", nil)                // ambient noise, dropped
	bus.Publish(1, events.EventTypeCombatLog, "A1", "A2", nil)               // observer acted
	bus.Publish(2, events.EventTypeCombatLog, "A3", "A4", nil)               // strangers, dropped
	bus.Publish(2, events.EventTypeReveal, "A3", "", nil)                    // station-wide, kept
	bus.Publish(3, events.EventTypeTrustChange, "A2", "A1", nil)             // observer targeted, kept
	bus.Publish(4, events.EventTypePowerFailure, "", "", nil)                // station-wide, kept
	bus.Publish(5, events.EventTypeAgentDeath, "A3", "A4", nil)              // station-wide, kept
	bus.Publish(6, events.EventTypeDetectionReport, "A4", "A3", nil)         // private contest, dropped

	rec := NewReconstructor(repo)
	recap, err := rec.GenerateRecap(context.Background(), "game-1", "A1", 0)
	require.NoError(t, err)

	var types []string
	for _, r := range recap {
		types = append(types, r.EventType)
	}
	assert.Equal(t, []string{"COMBAT_LOG", "REVEAL", "TRUST_CHANGE", "POWER_FAILURE", "AGENT_DEATH"}, types)
}

func TestGenerateRecapSinceTurn(t *testing.T) {
	repo, _ := newTestRepos(t)
	bus := events.NewBus(NewBusPersister(repo, "game-1"))

	bus.Publish(1, events.EventTypeReveal, "A3", "", nil)
	bus.Publish(8, events.EventTypeAgentDeath, "A1", "A3", nil)

	rec := NewReconstructor(repo)
	recap, err := rec.GenerateRecap(context.Background(), "game-1", "A1", 5)
	require.NoError(t, err)

	require.Len(t, recap, 1)
	assert.Equal(t, 8, recap[0].Turn)
	assert.Equal(t, "A3 died.", recap[0].Summary)
	assert.Equal(t, "NEGATIVE", recap[0].Impact)
}

func TestRecapSummariesAddressTheObserver(t *testing.T) {
	repo, _ := newTestRepos(t)
	bus := events.NewBus(NewBusPersister(repo, "game-1"))
	bus.Publish(1, events.EventTypeCombatLog, "A1", "A2", nil)

	rec := NewReconstructor(repo)

	mine, err := rec.GenerateRecap(context.Background(), "game-1", "A1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "You attacked A2.", mine[0].Summary)

	theirs, err := rec.GenerateRecap(context.Background(), "game-1", "A2", 0)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "A1 attacked A2.", theirs[0].Summary)
}
