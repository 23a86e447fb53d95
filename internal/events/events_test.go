package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovePayloadRoundTripsAllCoordinates(t *testing.T) {
	payload := MovePayload{
		FromX: 3, FromY: 4,
		ToX: 5, ToY: 6,
		Room:    "Lab",
		ViaVent: true,
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"from_x", "from_y", "to_x", "to_y"} {
		assert.Contains(t, raw, key, "coordinate %s must survive marshaling", key)
	}

	var back MovePayload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, payload, back)
}

func TestGameEventMarshalKeepsMovePayload(t *testing.T) {
	event := GameEvent{
		Seq:     1,
		Turn:    2,
		Type:    EventTypeAgentMoved,
		ActorID: "A1",
		Payload: MovePayload{FromX: 7, FromY: 7, ToX: 8, ToY: 7, Room: "Rec Room"},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw struct {
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(7), raw.Payload["from_x"])
	assert.Equal(t, float64(7), raw.Payload["from_y"])
	assert.Equal(t, float64(8), raw.Payload["to_x"])
	assert.Equal(t, float64(7), raw.Payload["to_y"])
}
