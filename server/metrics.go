package server

import (
	"sync/atomic"
)

// Metrics 全部会话累计的运行指标（用于监控与调试）
type Metrics struct {
	SessionsStarted   int64 // 累计创建的会话
	SessionsActive    int64 // 当前存活的会话
	TickCount         int64 // 统计的 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	InputsAccepted    int64 // 被接受的方向输入
	ReversalsRejected int64 // 因反向保护被丢弃的输入
	InputsUnknown     int64 // 无法解析的指令
	ChanFullDiscarded int64 // 因通道满被丢弃的输入
	FoodEaten         int64
	GamesOver         int64 // 撞墙结束
	GamesWon          int64 // 网格填满结束
}

func (m *Metrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *Metrics) IncReversalRejected() { atomic.AddInt64(&m.ReversalsRejected, 1) }
func (m *Metrics) IncUnknown() { atomic.AddInt64(&m.InputsUnknown, 1) }
func (m *Metrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *Metrics) IncFoodEaten() { atomic.AddInt64(&m.FoodEaten, 1) }
func (m *Metrics) IncGameOver() { atomic.AddInt64(&m.GamesOver, 1) }
func (m *Metrics) IncWon() { atomic.AddInt64(&m.GamesWon, 1) }

func (m *Metrics) SessionOpened() {
	atomic.AddInt64(&m.SessionsStarted, 1)
	atomic.AddInt64(&m.SessionsActive, 1)
}

func (m *Metrics) SessionClosed() { atomic.AddInt64(&m.SessionsActive, -1) }

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"sessions_started":    atomic.LoadInt64(&m.SessionsStarted),
		"sessions_active":     atomic.LoadInt64(&m.SessionsActive),
		"tick_count":          tick,
		"avg_tick_ms":         avgMs,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"reversals_rejected":  atomic.LoadInt64(&m.ReversalsRejected),
		"inputs_unknown":      atomic.LoadInt64(&m.InputsUnknown),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"food_eaten":          atomic.LoadInt64(&m.FoodEaten),
		"games_over":          atomic.LoadInt64(&m.GamesOver),
		"games_won":           atomic.LoadInt64(&m.GamesWon),
	}
}
