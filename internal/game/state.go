package game

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Team is the progress record of a single team.
type Team struct {
	Name              string            `json:"name"`
	Color             string            `json:"color"`
	CompletedStations map[StationID]int `json:"completedStations"`
	BingoMarked       map[TaskID]bool   `json:"bingoMarked"`
	BingoPhotos       map[TaskID]string `json:"bingoPhotos"`
	TotalPoints       int               `json:"totalPoints"`
	StationOrder      []StationID       `json:"stationOrder"`
}

type rosterEntry struct {
	Name  string
	Color string
}

var roster = [TeamCount]rosterEntry{
	{Name: "Red", Color: "#e53935"},
	{Name: "Blue", Color: "#1e88e5"},
	{Name: "Green", Color: "#43a047"},
	{Name: "Yellow", Color: "#fdd835"},
	{Name: "Purple", Color: "#8e24aa"},
	{Name: "Orange", Color: "#fb8c00"},
}

// NewTeam returns the initial record for a team: fixed name and color,
// no progress and its rotated route.
func NewTeam(id TeamID) *Team {
	r := roster[id-1]
	return &Team{
		Name:              r.Name,
		Color:             r.Color,
		CompletedStations: map[StationID]int{},
		BingoMarked:       map[TaskID]bool{},
		BingoPhotos:       map[TaskID]string{},
		StationOrder:      RouteFor(id),
	}
}

func (t *Team) Clone() *Team {
	c := *t
	c.CompletedStations = maps.Clone(t.CompletedStations)
	c.BingoMarked = maps.Clone(t.BingoMarked)
	c.BingoPhotos = maps.Clone(t.BingoPhotos)
	c.StationOrder = slices.Clone(t.StationOrder)
	return &c
}

// normalize replaces nil maps with empty ones so the JSON form is stable.
func (t *Team) normalize() {
	if t.CompletedStations == nil {
		t.CompletedStations = map[StationID]int{}
	}
	if t.BingoMarked == nil {
		t.BingoMarked = map[TaskID]bool{}
	}
	if t.BingoPhotos == nil {
		t.BingoPhotos = map[TaskID]string{}
	}
}

func (t *Team) validate() error {
	for s := range t.CompletedStations {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown station %d", ErrInvalidInput, s)
		}
	}
	for k := range t.BingoMarked {
		if err := k.Validate(); err != nil {
			return err
		}
	}
	for k := range t.BingoPhotos {
		if err := k.Validate(); err != nil {
			return err
		}
	}
	if !isRoute(t.StationOrder) {
		return fmt.Errorf("%w: station order %v is not a route over all stations", ErrInvalidInput, t.StationOrder)
	}
	return nil
}

// State is the whole game: one slot per team id. A nil slot means the team
// is absent, which only happens before the first initialization.
type State struct {
	teams [TeamCount]*Team
}

// NewState builds the canonical initial game state.
func NewState() *State {
	s := &State{}
	for i := range s.teams {
		s.teams[i] = NewTeam(TeamID(i + 1))
	}
	return s
}

// Team returns the live record of a team; callers mutate it in place.
func (s *State) Team(id TeamID) (*Team, error) {
	if !id.Valid() || s.teams[id-1] == nil {
		return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	return s.teams[id-1], nil
}

// Put stores t under id. It panics on an invalid id.
func (s *State) Put(id TeamID, t *Team) {
	if !id.Valid() {
		panic(fmt.Sprintf("game: team id %d out of range", id))
	}
	s.teams[id-1] = t
}

// All iterates the present teams in id order.
func (s *State) All() iter.Seq2[TeamID, *Team] {
	return func(yield func(TeamID, *Team) bool) {
		for i, t := range s.teams {
			if t == nil {
				continue
			}
			if !yield(TeamID(i+1), t) {
				return
			}
		}
	}
}

func (s *State) Len() int {
	n := 0
	for _, t := range s.teams {
		if t != nil {
			n++
		}
	}
	return n
}

func (s *State) Empty() bool { return s.Len() == 0 }

func (s *State) Clone() *State {
	c := &State{}
	for id, t := range s.All() {
		c.teams[id-1] = t.Clone()
	}
	return c
}

// Validate checks that all six teams are present and well formed.
func (s *State) Validate() error {
	for i, t := range s.teams {
		if t == nil {
			return fmt.Errorf("%w: team %d missing", ErrInvalidInput, i+1)
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("team %d: %w", i+1, err)
		}
	}
	return nil
}

// RecomputeAll refreshes the derived totals of every team.
func (s *State) RecomputeAll() {
	for _, t := range s.All() {
		t.Recompute()
	}
}

// MarshalJSON encodes the state as an object keyed by team id ("1".."6").
func (s *State) MarshalJSON() ([]byte, error) {
	m := make(map[TeamID]*Team, TeamCount)
	for id, t := range s.All() {
		m[id] = t
	}
	return json.Marshal(m)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var m map[string]*Team
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	var teams [TeamCount]*Team
	for key, t := range m {
		id, err := ParseTeamID(key)
		if err != nil {
			return fmt.Errorf("%w: unknown team key %q", ErrInvalidInput, key)
		}
		if t == nil {
			continue
		}
		t.normalize()
		teams[id-1] = t
	}
	s.teams = teams
	return nil
}
