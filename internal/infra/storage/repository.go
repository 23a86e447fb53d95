// Package storage provides the persistence layer for the simulation server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// StoredEvent mirrors the domain event structure for persistence. The
// domain package does NOT import this; the bus sees an EventPersister.
type StoredEvent struct {
	Seq       uint64    `json:"seq" db:"seq"`
	GameID    string    `json:"game_id" db:"game_id"`
	Turn      int       `json:"turn" db:"turn"`
	EventType string    `json:"event_type" db:"event_type"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	TargetID  string    `json:"target_id" db:"target_id"`
	Payload   string    `json:"payload" db:"payload"` // JSON-encoded payload
	StoredAt  time.Time `json:"stored_at" db:"stored_at"`
}

// EventRepository is the immutable ledger behind the bus. Reads exist for
// replay, recap and audit; there are no updates or deletes.
type EventRepository interface {
	Append(ctx context.Context, event StoredEvent) error
	GetByGameID(ctx context.Context, gameID string) ([]StoredEvent, error)
	GetByTurn(ctx context.Context, gameID string, turn int) ([]StoredEvent, error)
	GetByEventType(ctx context.Context, gameID, eventType string) ([]StoredEvent, error)
	GetByActorID(ctx context.Context, gameID, actorID string) ([]StoredEvent, error)
}

// StoredSnapshot is one compressed simulation snapshot row.
type StoredSnapshot struct {
	GameID   string    `db:"game_id"`
	Turn     int       `db:"turn"`
	Blob     []byte    `db:"blob"` // zstd-compressed snapshot JSON
	StoredAt time.Time `db:"stored_at"`
}

// SnapshotRepository stores and retrieves compressed snapshots. Load
// returns the latest snapshot at or before the requested turn.
type SnapshotRepository interface {
	Save(ctx context.Context, gameID string, turn int, blob []byte) error
	LoadLatest(ctx context.Context, gameID string) (*StoredSnapshot, error)
	LoadAtTurn(ctx context.Context, gameID string, turn int) (*StoredSnapshot, error)
}
