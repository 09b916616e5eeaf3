package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/playperu/varsonalia/internal/evidence"
	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/metrics"
)

const (
	// multipartOverhead covers the form fields and part headers that come
	// with the photo.
	multipartOverhead = 1 << 20
	multipartMemory   = 4 << 20
)

func handleUploadBingo(logger *slog.Logger, engine *game.Engine, store *evidence.Store, broker *Broker, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, store.MaxBytes()+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer r.MultipartForm.RemoveAll()

		teamID, err := game.ParseTeamID(strings.TrimSpace(r.FormValue("teamId")))
		if err != nil {
			rec.BingoMarked(err)
			writeOpError(w, r, logger, err)
			return
		}
		task := game.TaskID(strings.TrimSpace(r.FormValue("taskId")))
		if err := engine.CheckTask(task); err != nil {
			rec.BingoMarked(err)
			writeOpError(w, r, logger, err)
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			err = fmt.Errorf("photo is required: %w", game.ErrInvalidInput)
			rec.BingoMarked(err)
			writeOpError(w, r, logger, err)
			return
		}
		defer file.Close()

		upload, err := store.Stage(r.Context(), teamID, task, file, filepath.Ext(header.Filename))
		if err != nil {
			rec.BingoMarked(err)
			writeOpError(w, r, logger, err)
			return
		}

		// The previous evidence stays in place until the state points at the
		// new reference.
		team, err := engine.MarkBingo(r.Context(), teamID, task, upload.Ref())
		rec.BingoMarked(err)
		if err != nil {
			if derr := upload.Discard(); derr != nil {
				logger.Warn("discarding upload failed", "error", derr)
			}
			writeOpError(w, r, logger, err)
			return
		}
		if err := upload.Commit(); err != nil {
			logger.Error("committing upload failed", "team", teamID, "task", task, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("bingo task completed", "team", teamID, "task", task, "evidence", upload.Ref())
		rec.ObserveTeam(teamID, team)
		broker.Publish(Event{Type: EventStateUpdated, TeamID: teamID, Team: team})
		writeJSON(w, http.StatusOK, TeamResponse{
			Success: true,
			Message: "bingo task completed",
			TeamID:  teamID,
			Team:    team,
		})
	}
}
