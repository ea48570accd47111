package server

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"gridsnake/game"
)

// Sink 渲染端的发送队列（ClientConn 实现；测试可替换）
type Sink interface {
	Enqueue(b []byte)
}

// Session 一个页面连接对应的一局游戏：权威状态维护在内存，单协程推进
type Session struct {
	ID      string
	Started time.Time

	cfg       Config
	engine    *game.Engine
	inputChan chan game.Direction
	out       Sink
	metrics   *Metrics
	log       *zap.SugaredLogger

	latest atomic.Pointer[game.View] // 最近一次推送的状态，供管理接口跨协程读取
}

// NewSession 创建会话；引擎只在 Run 所在协程中被访问
func NewSession(id string, cfg Config, out Sink, metrics *Metrics) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := game.NewGrid(cfg.GridSize)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	s := &Session{
		ID:        id,
		Started:   time.Now(),
		cfg:       cfg,
		engine:    game.NewEngine(grid, rng),
		inputChan: make(chan game.Direction, 64), // 足够缓冲，避免网络读阻塞影响 Tick
		out:       out,
		metrics:   metrics,
		log:       Log.With("session", id),
	}
	v := s.engine.View()
	s.latest.Store(&v)
	return s, nil
}

func (s *Session) Config() Config { return s.cfg }

// Latest 返回最近一次推送的状态（并发安全）
func (s *Session) Latest() game.View {
	return *s.latest.Load()
}

// OnInput 入站输入（不立即改变方向），交给会话协程处理
func (s *Session) OnInput(d game.Direction) {
	select {
	case s.inputChan <- d:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		s.metrics.IncChanFullDiscarded()
	}
}

// applyInput 在会话协程内执行方向更新
func (s *Session) applyInput(d game.Direction) {
	if s.engine.Status() != game.StatusRunning {
		return
	}
	if s.engine.SetDirection(d) {
		s.metrics.IncAccepted()
		return
	}
	s.metrics.IncReversalRejected()
	s.log.Debugf("rejected %s while moving %s", d, s.engine.Direction())
}

// step 一次 Tick：移动 → 补充食物 → 推送
func (s *Session) step() {
	if s.engine.Status() != game.StatusRunning {
		return
	}
	switch out := s.engine.Tick(); out {
	case game.OutcomeAte:
		s.metrics.IncFoodEaten()
		s.log.Debugf("ate food, length=%d", s.engine.Len())
	case game.OutcomeHitWall:
		s.metrics.IncGameOver()
		s.log.Infow("game over", "length", s.engine.Len(), "head", s.engine.Head().String(), "ticks", s.engine.Ticks())
	}
	s.evaluate()
	s.publish()
}

// evaluate 食物缺失时补充；网格已满则结束本局
func (s *Session) evaluate() {
	if s.engine.Status() != game.StatusRunning {
		return
	}
	s.engine.EnsureFood()
	if s.engine.Status() == game.StatusWon {
		s.metrics.IncWon()
		s.log.Infow("grid full", "length", s.engine.Len())
	}
}

func (s *Session) sendHello() {
	b, _ := json.Marshal(helloMessage{
		Type:     "hello",
		Session:  s.ID,
		GridSize: s.cfg.GridSize,
		CellSize: s.cfg.CellSize,
		TickMs:   s.cfg.TickPeriod.Milliseconds(),
	})
	s.out.Enqueue(b)
}

// publish 将当前状态推送给渲染端（文本 JSON）
func (s *Session) publish() {
	v := s.engine.View()
	s.latest.Store(&v)
	b, _ := json.Marshal(stateMessage{Type: "state", View: v})
	s.out.Enqueue(b)
}
