package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/polarnight-games/outpost31/internal/engine"
)

// snapshotSchema is the structural contract for persisted snapshots.
// Decoding fails closed: a blob that does not validate is never handed to
// the engine, however it got into the table.
const snapshotSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["version", "seed", "draws", "turn", "day", "hour", "agents", "rooms", "trust"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"seed": {"type": "integer"},
		"draws": {"type": "integer", "minimum": 0},
		"turn": {"type": "integer", "minimum": 0},
		"day": {"type": "integer", "minimum": 1},
		"hour": {"type": "integer", "minimum": 0, "maximum": 23},
		"event_seq": {"type": "integer", "minimum": 0},
		"paranoia": {"type": "integer", "minimum": 0, "maximum": 100},
		"power_on": {"type": "boolean"},
		"sos_countdown": {"type": "integer", "minimum": -1},
		"ended": {"type": "boolean"},
		"agents": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "position", "health", "alive", "infected", "mask_integrity", "revealed"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"health": {"type": "integer", "minimum": 0},
					"mask_integrity": {"type": "number", "minimum": 0, "maximum": 100},
					"stress": {"type": "integer", "minimum": 0, "maximum": 10}
				}
			}
		},
		"rooms": {"type": "object"},
		"trust": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
			}
		}
	}
}`

var compiledSnapshotSchema = jsonschema.MustCompileString("snapshot.json", snapshotSchema)

// SnapshotCodec converts engine snapshots to and from the compressed blob
// format stored in the snapshots table.
type SnapshotCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewSnapshotCodec builds a codec. Construction only fails on invalid zstd
// options, so failure here is a bug.
func NewSnapshotCodec() (*SnapshotCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &SnapshotCodec{enc: enc, dec: dec}, nil
}

// Encode validates the snapshot against the schema, then compresses it.
// Validating on the way in catches engine bugs before they hit disk.
func (c *SnapshotCodec) Encode(snap *engine.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.validateRaw(raw); err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, nil), nil
}

// Decode decompresses and validates a stored blob. Any schema violation is
// a hard error; a partially plausible snapshot is worse than none.
func (c *SnapshotCodec) Decode(blob []byte) (*engine.Snapshot, error) {
	raw, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if err := c.validateRaw(raw); err != nil {
		return nil, err
	}
	var snap engine.Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (c *SnapshotCodec) validateRaw(raw []byte) error {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := compiledSnapshotSchema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot failed schema validation: %w", err)
	}
	return nil
}
