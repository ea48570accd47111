package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandleAdminConfig_Get(t *testing.T) {
	sm := NewSessionManager(DefaultConfig())
	rec := httptest.NewRecorder()
	sm.HandleAdminConfig(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["gridSize"] != 15 || got["tickMs"] != 200 || got["cellSize"] != 40 {
		t.Errorf("unexpected config %v", got)
	}
}

func TestHandleAdminConfig_Post(t *testing.T) {
	sm := NewSessionManager(DefaultConfig())
	cases := []struct {
		body string
		code int
	}{
		{`{"gridSize":20,"tickMs":100}`, http.StatusOK},
		{`{"gridSize":1}`, http.StatusBadRequest},
		{`{"tickMs":0}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		sm.HandleAdminConfig(rec, httptest.NewRequest(http.MethodPost, "/admin/config", strings.NewReader(tc.body)))
		if rec.Code != tc.code {
			t.Errorf("POST %s: status %d, want %d", tc.body, rec.Code, tc.code)
		}
	}
	cfg := sm.Settings().Get()
	if cfg.GridSize != 20 || cfg.TickPeriod != 100*time.Millisecond || cfg.CellSize != 40 {
		t.Errorf("unexpected stored config %+v", cfg)
	}
}

func TestHandleAdminConfig_MethodNotAllowed(t *testing.T) {
	sm := NewSessionManager(DefaultConfig())
	rec := httptest.NewRecorder()
	sm.HandleAdminConfig(rec, httptest.NewRequest(http.MethodDelete, "/admin/config", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d", rec.Code)
	}
}

func TestHandleSessionsAndMetrics(t *testing.T) {
	sm := NewSessionManager(DefaultConfig())
	s, err := sm.Open(newChanSink())
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	sm.HandleSessions(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	var list []struct {
		ID         string `json:"id"`
		StatusLine string `json:"statusLine"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != s.ID {
		t.Fatalf("unexpected sessions %+v", list)
	}
	if list[0].StatusLine != "Snake length: 1, Food position: None" {
		t.Errorf("unexpected status line %q", list[0].StatusLine)
	}

	rec = httptest.NewRecorder()
	sm.HandleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var payload struct {
		Sessions int            `json:"sessions"`
		Metrics  map[string]any `json:"metrics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Sessions != 1 || payload.Metrics["sessions_started"].(float64) != 1 {
		t.Errorf("unexpected metrics payload %+v", payload)
	}
}
