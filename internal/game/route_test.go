package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playperu/varsonalia/internal/game"
)

func TestRouteFor(t *testing.T) {
	tests := []struct {
		team game.TeamID
		want []game.StationID
	}{
		{team: 1, want: []game.StationID{1, 2, 3, 4, 5, 6}},
		{team: 2, want: []game.StationID{2, 3, 4, 5, 6, 1}},
		{team: 3, want: []game.StationID{3, 4, 5, 6, 1, 2}},
		{team: 4, want: []game.StationID{4, 5, 6, 1, 2, 3}},
		{team: 5, want: []game.StationID{5, 6, 1, 2, 3, 4}},
		{team: 6, want: []game.StationID{6, 1, 2, 3, 4, 5}},
		{team: 7, want: []game.StationID{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, game.RouteFor(tt.team), "team %d", tt.team)
	}
}

func TestRouteForVisitsEveryStationOnce(t *testing.T) {
	starts := map[game.StationID]bool{}
	for id := game.TeamID(1); id <= game.TeamCount; id++ {
		route := game.RouteFor(id)
		assert.Equal(t, game.StationID((int(id)-1)%6+1), route[0])
		assert.ElementsMatch(t, []game.StationID{1, 2, 3, 4, 5, 6}, route)
		starts[route[0]] = true
	}
	assert.Len(t, starts, game.TeamCount, "every team starts at a distinct station")
}
