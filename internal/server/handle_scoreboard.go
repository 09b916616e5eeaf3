package server

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/varsonalia/internal/game"
)

// ScoreboardEntry is one team's line on the live scoreboard.
type ScoreboardEntry struct {
	TeamID       game.TeamID      `json:"teamId"`
	Name         string           `json:"name"`
	Color        string           `json:"color"`
	TotalPoints  int              `json:"totalPoints"`
	StationsDone int              `json:"stationsDone"`
	BingoDone    int              `json:"bingoDone"`
	NextStation  game.StationID   `json:"nextStation,omitempty"`
	StationOrder []game.StationID `json:"stationOrder"`
}

// Scoreboard ranks teams by total points, ties broken by team id.
func Scoreboard(s *game.State) []ScoreboardEntry {
	var out []ScoreboardEntry
	for id, t := range s.All() {
		e := ScoreboardEntry{
			TeamID:       id,
			Name:         t.Name,
			Color:        t.Color,
			TotalPoints:  t.TotalPoints,
			StationsDone: len(t.CompletedStations),
			StationOrder: t.StationOrder,
		}
		for _, done := range t.BingoMarked {
			if done {
				e.BingoDone++
			}
		}
		for _, st := range t.StationOrder {
			if _, ok := t.CompletedStations[st]; !ok {
				e.NextStation = st
				break
			}
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b ScoreboardEntry) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	return out
}

// handleScoreboard streams the scoreboard over a websocket: once on connect
// and again after every published change.
func handleScoreboard(logger *slog.Logger, engine *game.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		// Clients only listen; CloseRead handles their close frames.
		ctx := conn.CloseRead(r.Context())

		if err := sendScoreboard(ctx, conn, engine); err != nil {
			logger.Debug("scoreboard write failed", "error", err)
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				if err := sendScoreboard(ctx, conn, engine); err != nil {
					logger.Debug("scoreboard write failed", "error", err)
					return
				}
			}
		}
	}
}

func sendScoreboard(ctx context.Context, conn *websocket.Conn, engine *game.Engine) error {
	st, err := engine.State(ctx)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "state unavailable")
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return wsjson.Write(ctx, conn, Scoreboard(st))
}
