// Package metrics exposes Prometheus collectors for scoring activity.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/playperu/varsonalia/internal/game"
)

const namespace = "varsonalia"

type Recorder struct {
	registry          *prometheus.Registry
	stationValidation *prometheus.CounterVec
	bingoMarks        *prometheus.CounterVec
	resets            prometheus.Counter
	purgeFailures     prometheus.Counter
	teamPoints        *prometheus.GaugeVec
}

// New registers the collectors on a private registry, together with the
// standard Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		stationValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_validations_total",
			Help:      "Station point submissions by outcome.",
		}, []string{"result"}),
		bingoMarks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bingo_marks_total",
			Help:      "Bingo task completions by outcome.",
		}, []string{"result"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_resets_total",
			Help:      "Completed game resets.",
		}),
		purgeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evidence_purge_failures_total",
			Help:      "Resets whose evidence purge did not fully succeed.",
		}),
		teamPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "team_points",
			Help:      "Current total points per team.",
		}, []string{"team"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.stationValidation,
		r.bingoMarks,
		r.resets,
		r.purgeFailures,
		r.teamPoints,
	)
	return r
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Result maps an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, game.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, game.ErrNotFound):
		return "not_found"
	case errors.Is(err, game.ErrStorage):
		return "storage_error"
	case errors.Is(err, game.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func (r *Recorder) StationValidated(err error) {
	r.stationValidation.WithLabelValues(Result(err)).Inc()
}

func (r *Recorder) BingoMarked(err error) {
	r.bingoMarks.WithLabelValues(Result(err)).Inc()
}

func (r *Recorder) GameReset(purgeErr error) {
	r.resets.Inc()
	if purgeErr != nil {
		r.purgeFailures.Inc()
	}
}

// ObserveTeam publishes one team's current total.
func (r *Recorder) ObserveTeam(id game.TeamID, t *game.Team) {
	r.teamPoints.WithLabelValues(strconv.Itoa(int(id))).Set(float64(t.TotalPoints))
}

// ObserveState publishes the totals of every team in s.
func (r *Recorder) ObserveState(s *game.State) {
	for id, t := range s.All() {
		r.ObserveTeam(id, t)
	}
}
