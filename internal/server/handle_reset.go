package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/metrics"
)

type ResetRequest struct {
	AdminPassword string `json:"adminPassword"`
}

func handleResetGame(logger *slog.Logger, engine *game.Engine, broker *Broker, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := engine.Credentials().AuthorizeAdmin(req.AdminPassword); err != nil {
			logger.Warn("rejected game reset", "remote", r.RemoteAddr)
			writeOpError(w, r, logger, err)
			return
		}

		res, err := engine.Reset(r.Context())
		if err != nil {
			writeOpError(w, r, logger, err)
			return
		}
		if res.PurgeErr != nil {
			logger.Warn("evidence purge incomplete", "error", res.PurgeErr)
		}

		logger.Info("game reset")
		rec.GameReset(res.PurgeErr)
		rec.ObserveState(res.State)
		broker.Publish(Event{Type: EventGameReset})
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "game reset"})
	}
}
