package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/polarnight-games/outpost31/internal/events"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sqlx.DB
}

func NewSQLiteEventRepository(db *sqlx.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	query := `
		INSERT INTO events (seq, game_id, turn, event_type, actor_id, target_id, payload, stored_at)
		VALUES (:seq, :game_id, :turn, :event_type, :actor_id, :target_id, :payload, :stored_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	var out []StoredEvent
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

const eventColumns = `seq, game_id, turn, event_type, actor_id, target_id, payload, stored_at`

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]StoredEvent, error) {
	return r.getMany(ctx,
		`SELECT `+eventColumns+` FROM events WHERE game_id = ? ORDER BY seq ASC`, gameID)
}

func (r *SQLiteEventRepository) GetByTurn(ctx context.Context, gameID string, turn int) ([]StoredEvent, error) {
	return r.getMany(ctx,
		`SELECT `+eventColumns+` FROM events WHERE game_id = ? AND turn = ? ORDER BY seq ASC`, gameID, turn)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID, eventType string) ([]StoredEvent, error) {
	return r.getMany(ctx,
		`SELECT `+eventColumns+` FROM events WHERE game_id = ? AND event_type = ? ORDER BY seq ASC`, gameID, eventType)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, gameID, actorID string) ([]StoredEvent, error) {
	return r.getMany(ctx,
		`SELECT `+eventColumns+` FROM events WHERE game_id = ? AND actor_id = ? ORDER BY seq ASC`, gameID, actorID)
}

// BusPersister adapts the repository to the bus's EventPersister interface
// for one game. Persistence is synchronous with Publish; the stored_at
// column is bookkeeping only and never flows back into the simulation.
type BusPersister struct {
	repo   EventRepository
	gameID string
}

// NewBusPersister binds the repository to a game ID.
func NewBusPersister(repo EventRepository, gameID string) *BusPersister {
	return &BusPersister{repo: repo, gameID: gameID}
}

// Append implements events.EventPersister.
func (p *BusPersister) Append(event events.GameEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return p.repo.Append(context.Background(), StoredEvent{
		Seq:       event.Seq,
		GameID:    p.gameID,
		Turn:      event.Turn,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   string(payload),
		StoredAt:  time.Now().UTC(),
	})
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sqlx.DB
}

func NewSQLiteSnapshotRepository(db *sqlx.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Save(ctx context.Context, gameID string, turn int, blob []byte) error {
	query := `
		INSERT INTO snapshots (game_id, turn, blob, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, turn) DO UPDATE SET
			blob=excluded.blob,
			stored_at=excluded.stored_at
	`
	_, err := r.db.ExecContext(ctx, query, gameID, turn, blob, time.Now().UTC())
	return err
}

func (r *SQLiteSnapshotRepository) LoadLatest(ctx context.Context, gameID string) (*StoredSnapshot, error) {
	var s StoredSnapshot
	err := r.db.GetContext(ctx, &s,
		`SELECT game_id, turn, blob, stored_at FROM snapshots WHERE game_id = ? ORDER BY turn DESC LIMIT 1`,
		gameID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSnapshotRepository) LoadAtTurn(ctx context.Context, gameID string, turn int) (*StoredSnapshot, error) {
	var s StoredSnapshot
	err := r.db.GetContext(ctx, &s,
		`SELECT game_id, turn, blob, stored_at FROM snapshots WHERE game_id = ? AND turn <= ? ORDER BY turn DESC LIMIT 1`,
		gameID, turn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
