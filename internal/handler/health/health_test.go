package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/varsonalia/internal/handler/health"
)

func okCheck(context.Context) error { return nil }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   health.Response
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"store":   health.CheckerFunc(okCheck),
				"uploads": health.CheckerFunc(okCheck),
			},
			wantStatus: http.StatusOK,
			wantBody: health.Response{
				Status: "ok",
				Checks: map[string]string{"store": "ok", "uploads": "ok"},
			},
		},
		{
			name: "store down",
			checks: map[string]health.Checker{
				"store":   health.CheckerFunc(func(context.Context) error { return errors.New("locked") }),
				"uploads": health.CheckerFunc(okCheck),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: health.Response{
				Status: "degraded",
				Checks: map[string]string{"store": "error", "uploads": "ok"},
			},
		},
		{
			name: "uploads not writable",
			checks: map[string]health.Checker{
				"store":   health.CheckerFunc(okCheck),
				"uploads": health.CheckerFunc(func(context.Context) error { return errors.New("read-only") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: health.Response{
				Status: "degraded",
				Checks: map[string]string{"store": "ok", "uploads": "error"},
			},
		},
		{
			name:       "no checks",
			checks:     map[string]health.Checker{},
			wantStatus: http.StatusOK,
			wantBody:   health.Response{Status: "ok", Checks: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body.Status != tt.wantBody.Status {
				t.Errorf("status field = %q, want %q", body.Status, tt.wantBody.Status)
			}
			if len(body.Checks) != len(tt.wantBody.Checks) {
				t.Errorf("checks = %v, want %v", body.Checks, tt.wantBody.Checks)
			}
			for name, want := range tt.wantBody.Checks {
				if got := body.Checks[name]; got != want {
					t.Errorf("%s = %q, want %q", name, got, want)
				}
			}
		})
	}
}
