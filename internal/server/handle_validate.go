package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/metrics"
)

// ValidateStationRequest is sent by station staff to award points.
type ValidateStationRequest struct {
	Password  string         `json:"password"`
	TeamID    game.TeamID    `json:"teamId"`
	StationID game.StationID `json:"stationId"`
	Points    int            `json:"points"`
}

// TeamResponse acknowledges a change and returns the updated team.
type TeamResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	TeamID  game.TeamID `json:"teamId"`
	Team    *game.Team  `json:"team"`
}

func handleValidateStation(logger *slog.Logger, engine *game.Engine, broker *Broker, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateStationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		team, err := engine.ValidateStation(r.Context(), req.Password, req.TeamID, req.StationID, req.Points)
		rec.StationValidated(err)
		if err != nil {
			writeOpError(w, r, logger, err)
			return
		}

		logger.Info("station validated",
			"team", req.TeamID,
			"station", req.StationID,
			"points", req.Points,
			"total", team.TotalPoints,
		)
		rec.ObserveTeam(req.TeamID, team)
		broker.Publish(Event{Type: EventStateUpdated, TeamID: req.TeamID, Team: team})
		writeJSON(w, http.StatusOK, TeamResponse{
			Success: true,
			Message: "station validated",
			TeamID:  req.TeamID,
			Team:    team,
		})
	}
}
