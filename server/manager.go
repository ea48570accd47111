package server

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// SessionManager 管理所有存活会话的生命周期
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	settings *Settings
	metrics  *Metrics

	ctx    context.Context // 所有会话的父 context，Shutdown 时取消
	cancel context.CancelFunc
}

// NewSessionManager 以 cfg 作为新会话的默认配置
func NewSessionManager(cfg Config) *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		sessions: make(map[string]*Session),
		settings: NewSettings(cfg),
		metrics:  &Metrics{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m *SessionManager) Settings() *Settings { return m.settings }
func (m *SessionManager) Metrics() *Metrics { return m.metrics }

// Open 按当前默认配置创建并登记会话
func (m *SessionManager) Open(out Sink) (*Session, error) {
	return m.OpenWith(m.settings.Get(), out)
}

// OpenWith 以指定配置创建并登记会话
func (m *SessionManager) OpenWith(cfg Config, out Sink) (*Session, error) {
	s, err := NewSession(uuid.New().String(), cfg, out, m.metrics)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.metrics.SessionOpened()
	return s, nil
}

// Close 注销会话（重复调用无副作用）
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		m.metrics.SessionClosed()
	}
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List 按创建时间排序的存活会话
func (m *SessionManager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}

// Context 会话应从此派生 context，以便 Shutdown 统一停止
func (m *SessionManager) Context() context.Context { return m.ctx }

// Shutdown 停止所有会话的主循环
func (m *SessionManager) Shutdown() { m.cancel() }
