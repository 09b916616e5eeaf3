package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/varsonalia/internal/game"
)

// SQLiteStore keeps the game state as a single JSONB document in the
// game_state table. The schema comes from the migrations package.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (*game.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM game_state WHERE id = 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return &game.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading game state: %w", game.ErrStorage, err)
	}

	st := &game.State{}
	if err := json.Unmarshal([]byte(data), st); err != nil {
		return nil, fmt.Errorf("%w: decoding game state: %w", game.ErrStorage, err)
	}
	return st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st *game.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: encoding game state: %w", game.ErrStorage, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_state (id, data, updated_at) VALUES (1, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: writing game state: %w", game.ErrStorage, err)
	}
	return nil
}

// Check implements health.Checker.
func (s *SQLiteStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
