package game_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/varsonalia/internal/game"
)

func TestNewState(t *testing.T) {
	s := game.NewState()
	require.Equal(t, game.TeamCount, s.Len())
	for id, team := range s.All() {
		assert.NotEmpty(t, team.Name)
		assert.NotEmpty(t, team.Color)
		assert.Empty(t, team.CompletedStations)
		assert.Empty(t, team.BingoMarked)
		assert.Empty(t, team.BingoPhotos)
		assert.Zero(t, team.TotalPoints)
		assert.Equal(t, game.RouteFor(id), team.StationOrder)
	}
	require.NoError(t, s.Validate())
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := game.NewState()
	red, err := s.Team(1)
	require.NoError(t, err)
	red.CompletedStations[2] = 7
	red.BingoMarked["A"] = true
	red.BingoPhotos["A"] = "/uploads/1/task_A.png"
	red.Recompute()

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, game.TeamCount)
	assert.Contains(t, raw["1"], "completedStations")
	assert.Equal(t, float64(8), raw["1"]["totalPoints"])

	var back game.State
	require.NoError(t, json.Unmarshal(data, &back))
	again, err := json.Marshal(&back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestStateUnmarshalRejectsUnknownTeam(t *testing.T) {
	var s game.State
	err := json.Unmarshal([]byte(`{"7": {"name": "Ghost"}}`), &s)
	assert.ErrorIs(t, err, game.ErrInvalidInput)

	err = json.Unmarshal([]byte(`[1, 2]`), &s)
	assert.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestStateValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *game.State)
	}{
		{
			name: "missing team",
			mutate: func(s *game.State) {
				s.Put(3, nil)
			},
		},
		{
			name: "unknown station key",
			mutate: func(s *game.State) {
				team, _ := s.Team(2)
				team.CompletedStations[9] = 4
			},
		},
		{
			name: "route repeats a station",
			mutate: func(s *game.State) {
				team, _ := s.Team(4)
				team.StationOrder = []game.StationID{1, 1, 2, 3, 4, 5}
			},
		},
		{
			name: "route too short",
			mutate: func(s *game.State) {
				team, _ := s.Team(5)
				team.StationOrder = team.StationOrder[:3]
			},
		},
		{
			name: "malformed task id",
			mutate: func(s *game.State) {
				team, _ := s.Team(6)
				team.BingoMarked["../etc"] = true
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := game.NewState()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), game.ErrInvalidInput)
		})
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	s := game.NewState()
	c := s.Clone()
	team, _ := c.Team(1)
	team.CompletedStations[1] = 5
	team.StationOrder[0] = 6

	orig, _ := s.Team(1)
	assert.Empty(t, orig.CompletedStations)
	assert.Equal(t, game.StationID(1), orig.StationOrder[0])
}

func TestParseIDs(t *testing.T) {
	id, err := game.ParseTeamID("4")
	require.NoError(t, err)
	assert.Equal(t, game.TeamID(4), id)

	_, err = game.ParseTeamID("0")
	assert.ErrorIs(t, err, game.ErrNotFound)
	_, err = game.ParseTeamID("x")
	assert.ErrorIs(t, err, game.ErrInvalidInput)

	_, err = game.ParseStationID("7")
	assert.ErrorIs(t, err, game.ErrNotFound)
}
