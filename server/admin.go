package server

import (
	"encoding/json"
	"net/http"
	"time"

	"gridsnake/game"
)

type configPayload struct {
	GridSize *int   `json:"gridSize,omitempty"`
	TickMs   *int64 `json:"tickMs,omitempty"`
	CellSize *int   `json:"cellSize,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleAdminConfig 新会话默认配置的读取与更新（已运行的会话不受影响）
// GET /admin/config   返回当前配置
// POST /admin/config  以 JSON 载荷更新部分字段
func (m *SessionManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cur := m.settings.Get()
		tickMs := cur.TickPeriod.Milliseconds()
		writeJSON(w, http.StatusOK, configPayload{
			GridSize: &cur.GridSize,
			TickMs:   &tickMs,
			CellSize: &cur.CellSize,
		})
	case http.MethodPost:
		var body configPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		next := m.settings.Get()
		if body.GridSize != nil {
			next.GridSize = *body.GridSize
		}
		if body.TickMs != nil {
			next.TickPeriod = time.Duration(*body.TickMs) * time.Millisecond
		}
		if body.CellSize != nil {
			next.CellSize = *body.CellSize
		}
		if err := m.settings.Set(next); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		Log.Infof("config updated: grid=%d tick=%v cell=%d", next.GridSize, next.TickPeriod, next.CellSize)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出累计运行指标
// GET /metrics
func (m *SessionManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": len(m.List()),
		"metrics":  m.metrics.Snapshot(),
	})
}

type sessionInfo struct {
	ID      string    `json:"id"`
	Started time.Time `json:"started"`
	Status  string    `json:"statusLine"`
	View    game.View `json:"view"`
}

// HandleSessions 列出存活会话及其最近一次状态
// GET /sessions
func (m *SessionManager) HandleSessions(w http.ResponseWriter, r *http.Request) {
	list := m.List()
	out := make([]sessionInfo, 0, len(list))
	for _, s := range list {
		v := s.Latest()
		out = append(out, sessionInfo{ID: s.ID, Started: s.Started, Status: v.StatusLine(), View: v})
	}
	writeJSON(w, http.StatusOK, out)
}
