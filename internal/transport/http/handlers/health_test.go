package http_handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okPing(context.Context) error   { return nil }
func downPing(context.Context) error { return errors.New("down") }

func readHealth(t *testing.T, rr *httptest.ResponseRecorder) healthBody {
	t.Helper()
	var b healthBody
	if err := json.Unmarshal(rr.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	return b
}

func TestHealthz_AlwaysOK(t *testing.T) {
	h := NewHealthHandler(HealthCheck{Name: "db", Ping: downPing})

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK || readHealth(t, rr).Status != "ok" {
		t.Fatalf("unexpected healthz %d %s", rr.Code, rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	cases := []struct {
		name   string
		checks []HealthCheck
		status int
		want   map[string]string
	}{
		{"no checks", nil, http.StatusOK, map[string]string{}},
		{"db ok", []HealthCheck{{Name: "db", Ping: okPing}}, http.StatusOK, map[string]string{"db": "ok"}},
		{"db down", []HealthCheck{{Name: "db", Ping: downPing}}, http.StatusServiceUnavailable, map[string]string{"db": "unavailable"}},
		{
			"optional redis down",
			[]HealthCheck{{Name: "db", Ping: okPing}, {Name: "redis", Ping: downPing, Optional: true}},
			http.StatusOK,
			map[string]string{"db": "ok", "redis": "unavailable"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.checks...)
			rr := httptest.NewRecorder()
			h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			got := readHealth(t, rr).Checks
			if len(got) != len(tc.want) {
				t.Fatalf("expected checks %v, got %v", tc.want, got)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Fatalf("check %s: expected %s, got %s", k, v, got[k])
				}
			}
		})
	}
}
