package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/metrics"
)

// SuccessResponse acknowledges a change that returns no team.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func handleGetGameData(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := engine.State(r.Context())
		if err != nil {
			writeOpError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleSetGameData(logger *slog.Logger, engine *game.Engine, broker *Broker, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st game.State
		if err := readJSON(r, &st); err != nil {
			writeError(w, http.StatusBadRequest, "invalid game data")
			return
		}

		saved, err := engine.SetState(r.Context(), &st)
		if err != nil {
			writeOpError(w, r, logger, err)
			return
		}

		rec.ObserveState(saved)
		broker.Publish(Event{Type: EventStateUpdated})
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "game data saved"})
	}
}
