package server

import (
	"context"
	"time"
)

// Run 会话主循环，阻塞到 ctx 取消。
// 定时器在此创建并在任何退出路径上停止；输入与 Tick 在同一协程串行处理。
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickPeriod)
	defer ticker.Stop()

	s.log.Infow("session started", "grid", s.cfg.GridSize, "tick", s.cfg.TickPeriod)
	defer func() {
		v := s.Latest()
		s.log.Infow("session ended", "status", v.Status, "length", v.Length, "ticks", v.Tick)
	}()

	s.evaluate()
	s.sendHello()
	s.publish()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.inputChan:
			s.applyInput(d)
		case <-ticker.C:
			// 核心循环：移动 → 补充食物 → 推送结果
			start := time.Now()
			s.step()
			s.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}
