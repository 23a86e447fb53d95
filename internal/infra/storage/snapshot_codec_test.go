package storage

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/station"
	"github.com/polarnight-games/outpost31/internal/engine"
)

func validSnapshot() *engine.Snapshot {
	crew := agent.New("A1", "Vance", "Commander", agent.NatureHuman)
	crew.Position = agent.Position{X: 7, Y: 7}
	return &engine.Snapshot{
		Version:      engine.SnapshotVersion,
		Seed:         7,
		Draws:        42,
		Turn:         10,
		Day:          1,
		Hour:         22,
		EventSeq:     120,
		Paranoia:     35,
		PowerOn:      true,
		SOSCountdown: -1,
		Agents:       []agent.Agent{*crew},
		Rooms:        map[string]station.RoomState{"Lab": {Dark: true}},
		Trust:        map[string]map[string]int{"A1": {"A2": 35}},
	}
}

func TestSnapshotCodecRoundTrip(t *testing.T) {
	codec, err := NewSnapshotCodec()
	require.NoError(t, err)

	snap := validSnapshot()
	blob, err := codec.Encode(snap)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	got, err := codec.Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, snap.Seed, got.Seed)
	assert.Equal(t, snap.Draws, got.Draws)
	assert.Equal(t, snap.Turn, got.Turn)
	assert.Equal(t, snap.EventSeq, got.EventSeq)
	require.Len(t, got.Agents, 1)
	assert.Equal(t, "A1", got.Agents[0].ID)
	assert.True(t, got.Rooms["Lab"].Dark)
	assert.Equal(t, 35, got.Trust["A1"]["A2"])
}

func TestEncodeRejectsSchemaViolations(t *testing.T) {
	codec, err := NewSnapshotCodec()
	require.NoError(t, err)

	snap := validSnapshot()
	snap.Paranoia = 250 // outside the documented [0,100] bound

	_, err = codec.Encode(snap)
	assert.Error(t, err, "an out-of-range snapshot must never reach disk")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec, err := NewSnapshotCodec()
	require.NoError(t, err)

	_, err = codec.Decode([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestDecodeFailsClosedOnTamperedBlob(t *testing.T) {
	codec, err := NewSnapshotCodec()
	require.NoError(t, err)

	// Well-formed zstd and JSON, but missing the required fields: the codec
	// must refuse it rather than hand a hollow snapshot to the engine.
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	blob := enc.EncodeAll([]byte(`{"version": 1}`), nil)

	_, err = codec.Decode(blob)
	assert.Error(t, err)
}
