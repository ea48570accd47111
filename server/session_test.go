package server

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"gridsnake/game"
)

// chanSink 收集推送给渲染端的消息
type chanSink struct {
	ch chan []byte
}

func newChanSink() *chanSink { return &chanSink{ch: make(chan []byte, 256)} }

func (c *chanSink) Enqueue(b []byte) {
	select {
	case c.ch <- b:
	default:
	}
}

type wireMessage struct {
	Type     string       `json:"type"`
	Session  string       `json:"session"`
	GridSize int          `json:"gridSize"`
	CellSize int          `json:"cellSize"`
	TickMs   int64        `json:"tickMs"`
	Snake    []game.Coord `json:"snake"`
	Food     *game.Coord  `json:"food"`
	GameOver bool         `json:"gameOver"`
	Status   string       `json:"status"`
	Length   int          `json:"length"`
}

func (c *chanSink) next(t *testing.T) wireMessage {
	t.Helper()
	select {
	case b := <-c.ch:
		var m wireMessage
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("bad message %s: %v", b, err)
		}
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return wireMessage{}
}

func testConfig(grid int, tick time.Duration) Config {
	return Config{GridSize: grid, TickPeriod: tick, CellSize: 10}
}

func TestNewSession_InvalidConfig(t *testing.T) {
	if _, err := NewSession("x", testConfig(1, time.Second), newChanSink(), &Metrics{}); err == nil {
		t.Error("expected error for grid size 1")
	}
	if _, err := NewSession("x", testConfig(5, 0), newChanSink(), &Metrics{}); err == nil {
		t.Error("expected error for zero tick")
	}
}

func TestSession_StepUntilWall(t *testing.T) {
	m := &Metrics{}
	sink := newChanSink()
	s, err := NewSession("s1", testConfig(15, time.Second), sink, m)
	if err != nil {
		t.Fatal(err)
	}
	s.evaluate()
	if s.engine.Len() != 1 {
		t.Fatalf("expected length 1, got %d", s.engine.Len())
	}
	if _, ok := s.engine.Food(); !ok {
		t.Fatal("expected food after first evaluation")
	}

	s.applyInput(game.DirLeft)
	if atomic.LoadInt64(&m.ReversalsRejected) != 1 {
		t.Errorf("expected one rejected reversal, got %d", m.ReversalsRejected)
	}

	for i := 0; i < 20 && !s.engine.GameOver(); i++ {
		s.step()
	}
	if !s.engine.GameOver() {
		t.Fatal("expected wall collision moving right")
	}
	if atomic.LoadInt64(&m.GamesOver) != 1 {
		t.Errorf("expected games_over=1, got %d", m.GamesOver)
	}

	frozen := s.Latest()
	if !frozen.GameOver || frozen.Status != "game_over" {
		t.Errorf("latest view not game over: %+v", frozen)
	}
	s.applyInput(game.DirUp)
	s.step()
	if after := s.Latest(); after.Tick != frozen.Tick || after.Length != frozen.Length {
		t.Errorf("view changed after game over: %+v", after)
	}
	if atomic.LoadInt64(&m.InputsAccepted) != 0 {
		t.Errorf("input accepted after game over")
	}
}

func TestSession_OnInputDropsWhenFull(t *testing.T) {
	m := &Metrics{}
	s, err := NewSession("s2", testConfig(15, time.Second), newChanSink(), m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < cap(s.inputChan)+5; i++ {
		s.OnInput(game.DirUp)
	}
	if got := atomic.LoadInt64(&m.ChanFullDiscarded); got != 5 {
		t.Errorf("expected 5 discarded, got %d", got)
	}
}

func TestSession_Run(t *testing.T) {
	m := &Metrics{}
	sink := newChanSink()
	s, err := NewSession("s3", testConfig(41, 10*time.Millisecond), sink, m)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	hello := sink.next(t)
	if hello.Type != "hello" || hello.Session != "s3" || hello.GridSize != 41 || hello.TickMs != 10 || hello.CellSize != 10 {
		t.Fatalf("unexpected hello %+v", hello)
	}
	first := sink.next(t)
	if first.Type != "state" || first.Length != 1 || first.Food == nil {
		t.Fatalf("unexpected first state %+v", first)
	}
	if first.Snake[0] != (game.Coord{X: 20, Y: 20}) {
		t.Fatalf("expected start at center, got %v", first.Snake[0])
	}

	s.OnInput(game.DirDown)
	deadline := time.After(2 * time.Second)
	for {
		msg := sink.next(t)
		if len(msg.Snake) > 0 && msg.Snake[0].Y > 20 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("snake never turned down")
		default:
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if atomic.LoadInt64(&m.TickCount) == 0 {
		t.Error("expected ticks to be counted")
	}
}
