package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/playperu/varsonalia/internal/game"
)

// FileName is the state file inside the data directory.
const FileName = "gameData.json"

// FileStore keeps the game state in one JSON file. Saves write a temporary
// file next to it and rename it into place, so readers never see a torn
// write.
type FileStore struct {
	path string
}

// NewFileStore creates dir if needed and returns a store for dir/gameData.json.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", game.ErrStorage, err)
	}
	return &FileStore{path: filepath.Join(dir, FileName)}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (*game.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &game.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading state file: %w", game.ErrStorage, err)
	}

	st := &game.State{}
	if len(bytes.TrimSpace(data)) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: decoding state file: %w", game.ErrStorage, err)
	}
	return st, nil
}

func (s *FileStore) Save(_ context.Context, st *game.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding game state: %w", game.ErrStorage, err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString())
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: writing state file: %w", game.ErrStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing state file: %w", game.ErrStorage, err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Check implements health.Checker by confirming the data directory is there.
func (s *FileStore) Check(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(s.path))
	}
	return nil
}
