package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playperu/varsonalia/internal/game"
)

func TestTotalPoints(t *testing.T) {
	tests := []struct {
		name string
		team game.Team
		want int
	}{
		{name: "empty", team: game.Team{}, want: 0},
		{
			name: "stations only",
			team: game.Team{CompletedStations: map[game.StationID]int{1: 7, 4: 3}},
			want: 10,
		},
		{
			name: "negative station points count",
			team: game.Team{CompletedStations: map[game.StationID]int{1: 5, 2: -8}},
			want: -3,
		},
		{
			name: "only true bingo marks count",
			team: game.Team{BingoMarked: map[game.TaskID]bool{"A": true, "B": false, "C": true}},
			want: 2,
		},
		{
			name: "mixed",
			team: game.Team{
				CompletedStations: map[game.StationID]int{3: 10},
				BingoMarked:       map[game.TaskID]bool{"A": true},
			},
			want: 11,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.TotalPoints(&tt.team))
			tt.team.TotalPoints = 999
			tt.team.Recompute()
			assert.Equal(t, tt.want, tt.team.TotalPoints)
		})
	}
}
