package game

import (
	"context"
	"fmt"
	"sync"
)

// Repository persists the whole game state as a single blob.
type Repository interface {
	// Load returns the last saved state, or an empty state if nothing has
	// been saved yet.
	Load(ctx context.Context) (*State, error)
	// Save replaces the persisted state.
	Save(ctx context.Context, s *State) error
}

// EvidencePurger deletes every stored evidence file.
type EvidencePurger interface {
	PurgeAll(ctx context.Context) error
}

// ResetResult describes a completed reset. PurgeErr is set when some
// evidence files could not be removed; the reset itself still succeeded.
type ResetResult struct {
	State    *State
	PurgeErr error
}

type Option func(*Engine)

// WithPurger sets the collaborator that removes evidence on reset.
func WithPurger(p EvidencePurger) Option {
	return func(e *Engine) { e.purger = p }
}

// WithTaskCatalog restricts bingo completions to the given task ids.
// Without it any well-formed task id is accepted.
func WithTaskCatalog(ids []TaskID) Option {
	return func(e *Engine) {
		if len(ids) == 0 {
			return
		}
		e.tasks = make(map[TaskID]struct{}, len(ids))
		for _, k := range ids {
			e.tasks[k] = struct{}{}
		}
	}
}

// WithSerializedWrites controls whether load-mutate-save units are run under
// a mutex. It is on by default. With it off, two overlapping units can lose
// an update: the later save overwrites the earlier one.
func WithSerializedWrites(on bool) Option {
	return func(e *Engine) {
		if on {
			e.mu = &sync.Mutex{}
		} else {
			e.mu = noLock{}
		}
	}
}

// Engine applies scoring operations to the persisted game state.
type Engine struct {
	repo   Repository
	creds  Credentials
	purger EvidencePurger
	tasks  map[TaskID]struct{}
	mu     sync.Locker
}

func NewEngine(repo Repository, creds Credentials, opts ...Option) *Engine {
	e := &Engine{
		repo:  repo,
		creds: creds,
		mu:    &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Credentials() Credentials { return e.creds }

// load reads the state and initializes it on first use. fresh reports
// whether the returned state was just built and is not yet persisted.
func (e *Engine) load(ctx context.Context) (s *State, fresh bool, err error) {
	s, err = e.repo.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("loading state: %w", err)
	}
	if s.Empty() {
		return NewState(), true, nil
	}
	return s, false, nil
}

// update runs one unit of work: load, mutate, recompute totals, save.
// Nothing is saved when fn fails.
func (e *Engine) update(ctx context.Context, fn func(*State) error) (*State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, _, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.RecomputeAll()
	if err := e.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}
	return s, nil
}

// State returns the current game state, initializing and saving the
// canonical state the first time it is requested.
func (e *Engine) State(ctx context.Context) (*State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, fresh, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if fresh {
		if err := e.repo.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("saving initial state: %w", err)
		}
	}
	return s, nil
}

// SetState replaces the whole game state. Derived totals in s are ignored
// and recomputed.
func (e *Engine) SetState(ctx context.Context, s *State) (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no state", ErrInvalidInput)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	next := s.Clone()
	next.RecomputeAll()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}
	return next, nil
}

// ValidateStation records the points a station awards a team. The secret is
// checked before the state is touched. A repeated validation of the same
// station overwrites the previous value.
func (e *Engine) ValidateStation(ctx context.Context, secret string, team TeamID, station StationID, points int) (*Team, error) {
	if err := e.creds.AuthorizeStation(station, secret); err != nil {
		return nil, err
	}
	if !team.Valid() {
		return nil, fmt.Errorf("team %d: %w", team, ErrNotFound)
	}

	var updated *Team
	_, err := e.update(ctx, func(s *State) error {
		t, err := s.Team(team)
		if err != nil {
			return err
		}
		t.CompletedStations[station] = points
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// MarkBingo marks a bingo task done for a team and records its evidence
// reference, replacing any earlier one. An empty ref marks the task without
// evidence.
func (e *Engine) MarkBingo(ctx context.Context, team TeamID, task TaskID, ref string) (*Team, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("team %d: %w", team, ErrNotFound)
	}
	if err := e.CheckTask(task); err != nil {
		return nil, err
	}

	var updated *Team
	_, err := e.update(ctx, func(s *State) error {
		t, err := s.Team(team)
		if err != nil {
			return err
		}
		t.BingoMarked[task] = true
		if ref == "" {
			delete(t.BingoPhotos, task)
		} else {
			t.BingoPhotos[task] = ref
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// CheckTask reports whether task is a well-formed id from the configured
// catalog. Upload handlers call it before storing evidence.
func (e *Engine) CheckTask(task TaskID) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if e.tasks == nil {
		return nil
	}
	if _, ok := e.tasks[task]; !ok {
		return fmt.Errorf("%w: task %q is not in the catalog", ErrInvalidInput, string(task))
	}
	return nil
}

// Reset replaces the game with the canonical initial state and then purges
// stored evidence. The caller must have authorized the admin. Purge failures
// are reported in the result and do not fail the reset.
func (e *Engine) Reset(ctx context.Context) (ResetResult, error) {
	s := NewState()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.repo.Save(ctx, s); err != nil {
		return ResetResult{}, fmt.Errorf("saving reset state: %w", err)
	}
	res := ResetResult{State: s}
	if e.purger != nil {
		if err := e.purger.PurgeAll(ctx); err != nil {
			res.PurgeErr = fmt.Errorf("%w: %w", ErrEvidencePurge, err)
		}
	}
	return res, nil
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}
