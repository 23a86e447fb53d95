package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarnight-games/outpost31/internal/engine"
	"github.com/polarnight-games/outpost31/internal/platform/config"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	sim, err := engine.NewSimulation(config.Default(), 1, nil, logger.NewNop())
	require.NoError(t, err)
	return NewHub(sim, logger.NewNop())
}

func TestHubForwardsActions(t *testing.T) {
	hub := newTestHub(t)

	assert.NoError(t, hub.ApplyAction("A01", engine.Action{Type: engine.ActionWait}))
	assert.Error(t, hub.ApplyAction("NOBODY", engine.Action{Type: engine.ActionWait}))
}

func TestHubAdvancesTurns(t *testing.T) {
	hub := newTestHub(t)

	require.NoError(t, hub.AdvanceTurn())
	snap := hub.Snapshot()
	assert.Equal(t, 1, snap.Turn)
}

func TestHubBroadcastsPublishedEvents(t *testing.T) {
	hub := newTestHub(t)

	require.NoError(t, hub.AdvanceTurn())

	// Every event published during the turn lands on the broadcast channel
	// as a serialized frame; a full buffer drops rather than blocks.
	assert.Greater(t, len(hub.broadcast), 0, "expected broadcast frames after a turn")
}

func TestHubSnapshotIsConsistent(t *testing.T) {
	hub := newTestHub(t)
	require.NoError(t, hub.AdvanceTurn())

	snap := hub.Snapshot()
	assert.Equal(t, engine.SnapshotVersion, snap.Version)
	assert.NotEmpty(t, snap.Agents)
	assert.Equal(t, int64(1), snap.Seed)
}
