package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/varsonalia/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BingoUploadForm documents the multipart body of POST /api/upload-bingo.
type BingoUploadForm struct {
	TeamID int    `formData:"teamId" required:"true" minimum:"1" maximum:"6"`
	TaskID string `formData:"taskId" required:"true" pattern:"^[A-Za-z0-9_-]{1,32}$"`
	Photo  []byte `formData:"photo" required:"true" format:"binary"`
}

// gameDataDoc stands in for game.State, which marshals itself as an object
// keyed by team id.
type gameDataDoc map[string]teamDoc

type teamDoc struct {
	Name              string            `json:"name"`
	Color             string            `json:"color"`
	CompletedStations map[string]int    `json:"completedStations"`
	BingoMarked       map[string]bool   `json:"bingoMarked"`
	BingoPhotos       map[string]string `json:"bingoPhotos"`
	TotalPoints       int               `json:"totalPoints"`
	StationOrder      []int             `json:"stationOrder"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Varsonalia API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Live scoring for the Varsonalia scavenger hunt.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Checks the state store and the uploads directory.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/game-data
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game-data")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns all six teams keyed by team id. The first call initializes the game.")
	getState.AddRespStructure(gameDataDoc{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(getState)

	// POST /api/game-data
	setState, _ := r.NewOperationContext(http.MethodPost, "/api/game-data")
	setState.SetSummary("Replace game state")
	setState.SetDescription("Replaces the whole state. All six teams must be present; totals are recomputed.")
	setState.AddReqStructure(gameDataDoc{})
	setState.AddRespStructure(SuccessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	setState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(setState)

	// POST /api/validate-station
	validate, _ := r.NewOperationContext(http.MethodPost, "/api/validate-station")
	validate.SetSummary("Validate station")
	validate.SetDescription("Station staff award points to a team. Repeating a station overwrites its points.")
	validate.AddReqStructure(ValidateStationRequest{})
	validate.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	validate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	validate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(validate)

	// POST /api/upload-bingo
	upload, _ := r.NewOperationContext(http.MethodPost, "/api/upload-bingo")
	upload.SetSummary("Complete bingo task")
	upload.SetDescription("Uploads a photo as evidence and marks the task done. Re-uploading replaces the photo.")
	upload.AddReqStructure(BingoUploadForm{})
	upload.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	upload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	upload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	upload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusRequestEntityTooLarge))
	upload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnsupportedMediaType))
	_ = r.AddOperation(upload)

	// POST /api/reset-game
	reset, _ := r.NewOperationContext(http.MethodPost, "/api/reset-game")
	reset.SetSummary("Reset game")
	reset.SetDescription("Restores every team to its initial state and deletes uploaded evidence. Requires the admin password.")
	reset.AddReqStructure(ResetRequest{})
	reset.AddRespStructure(SuccessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	reset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(reset)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events announcing state changes and resets.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/scoreboard
	getScoreboard, _ := r.NewOperationContext(http.MethodGet, "/ws/scoreboard")
	getScoreboard.SetSummary("Live scoreboard")
	getScoreboard.SetDescription("Upgrades to a WebSocket that sends the ranked scoreboard on every change.")
	getScoreboard.AddRespStructure([]ScoreboardEntry{}, openapi.WithHTTPStatus(http.StatusSwitchingProtocols))
	_ = r.AddOperation(getScoreboard)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
