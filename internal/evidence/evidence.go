// Package evidence stores bingo photo uploads on disk under
// <dir>/{teamId}/task_{taskId}{ext} and serves them back as /uploads/... paths.
package evidence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/playperu/varsonalia/internal/game"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads"

var (
	ErrTooLarge        = errors.New("evidence file too large")
	ErrUnsupportedType = errors.New("unsupported evidence file type")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Store struct {
	dir      string
	maxBytes int64
}

// New returns a store rooted at dir, creating it if needed. Files larger
// than maxBytes are rejected.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save stores r as the evidence for (team, task) and returns its public
// reference. A previous file for the same task is replaced, including one
// stored with a different extension.
func (s *Store) Save(ctx context.Context, team game.TeamID, task game.TaskID, r io.Reader, ext string) (string, error) {
	u, err := s.Stage(ctx, team, task, r, ext)
	if err != nil {
		return "", err
	}
	if err := u.Commit(); err != nil {
		return "", err
	}
	return u.Ref(), nil
}

// Upload is evidence written to disk but not yet visible under its public
// reference. Exactly one of Commit or Discard must be called.
type Upload struct {
	teamDir string
	tmp     string
	base    string
	ext     string
	ref     string
}

// Stage validates r and writes it next to the team's evidence without
// touching any file already stored for the task.
func (s *Store) Stage(_ context.Context, team game.TeamID, task game.TaskID, r io.Reader, ext string) (*Upload, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("team %d: %w", team, game.ErrNotFound)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	ext = strings.ToLower(ext)
	if !allowedExt[ext] {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	if ct := http.DetectContentType(head); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: content is %s", ErrUnsupportedType, ct)
	}

	teamDir := filepath.Join(s.dir, strconv.Itoa(int(team)))
	if err := os.MkdirAll(teamDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating team directory: %w", err)
	}

	tmp := filepath.Join(teamDir, ".upload-"+uuid.NewString())
	if err := s.writeLimited(tmp, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		os.Remove(tmp)
		return nil, err
	}

	base := "task_" + string(task)
	return &Upload{
		teamDir: teamDir,
		tmp:     tmp,
		base:    base,
		ext:     ext,
		ref:     path.Join(URLPrefix, strconv.Itoa(int(team)), base+ext),
	}, nil
}

// Ref is the public reference the upload has once committed.
func (u *Upload) Ref() string { return u.ref }

// Commit moves the upload to its final name, then removes files stored for
// the same task under other extensions.
func (u *Upload) Commit() error {
	final := filepath.Join(u.teamDir, u.base+u.ext)
	if err := os.Rename(u.tmp, final); err != nil {
		os.Remove(u.tmp)
		return fmt.Errorf("storing upload: %w", err)
	}
	return removeSiblings(u.teamDir, u.base, final)
}

// Discard drops the staged file; stored evidence is left as it was.
func (u *Upload) Discard() error {
	if err := os.Remove(u.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discarding upload: %w", err)
	}
	return nil
}

func (s *Store) writeLimited(name string, r io.Reader) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating upload file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		f.Close()
		return fmt.Errorf("writing upload: %w", err)
	}
	if written > s.maxBytes {
		f.Close()
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	return f.Close()
}

// removeSiblings deletes the files stored for one task except keep.
func removeSiblings(teamDir, base, keep string) error {
	matches, err := filepath.Glob(filepath.Join(teamDir, base+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing previous upload: %w", err)
		}
	}
	return nil
}

// PurgeAll removes the stored evidence of every team. It keeps going after a
// failure and returns all failures joined.
func (s *Store) PurgeAll(_ context.Context) error {
	var errs []error
	for id := 1; id <= game.TeamCount; id++ {
		teamDir := filepath.Join(s.dir, strconv.Itoa(id))
		entries, err := os.ReadDir(teamDir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("listing %s: %w", teamDir, err))
			continue
		}
		for _, e := range entries {
			p := filepath.Join(teamDir, e.Name())
			if err := os.RemoveAll(p); err != nil {
				errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Check implements health.Checker: the uploads directory must be writable.
func (s *Store) Check(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
