// Package store implements game.Repository on top of a JSON file or a
// libSQL database.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playperu/varsonalia/internal/database"
	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/migrations"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a game.Repository that can report its own health.
type Store interface {
	game.Repository
	Check(ctx context.Context) error
}

// Open returns the repository for backend rooted at dataDir, plus a close
// function for any resources it holds.
func Open(ctx context.Context, backend, dataDir string) (Store, func() error, error) {
	switch backend {
	case BackendFile:
		fs, err := NewFileStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil

	case BackendSQLite:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("%w: creating data directory: %w", game.ErrStorage, err)
		}
		db, err := database.Open(ctx, filepath.Join(dataDir, "varsonalia.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return NewSQLiteStore(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
