package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/varsonalia/internal/evidence"
	"github.com/playperu/varsonalia/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, broker *Broker) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Varsonalia API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/game-data", handleGetGameData(logger, deps.Engine))
		r.Post("/game-data", handleSetGameData(logger, deps.Engine, broker, deps.Metrics))
		r.Post("/validate-station", handleValidateStation(logger, deps.Engine, broker, deps.Metrics))
		r.Post("/upload-bingo", handleUploadBingo(logger, deps.Engine, deps.Evidence, broker, deps.Metrics))
		r.Post("/reset-game", handleResetGame(logger, deps.Engine, broker, deps.Metrics))
		r.Get("/events", handleEvents(broker))
	})
	r.Get("/ws/scoreboard", handleScoreboard(logger, deps.Engine, broker))

	r.Handle(evidence.URLPrefix+"/*", handleUploads(deps.Evidence.Dir()))

	if deps.PublicDir != "" {
		if info, err := os.Stat(deps.PublicDir); err == nil && info.IsDir() {
			logger.Info("serving static files", "dir", deps.PublicDir)
			r.NotFound(handleStatic(deps.PublicDir))
		}
	}
}
