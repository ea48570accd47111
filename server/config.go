package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gridsnake/game"
)

var (
	ErrBadTickPeriod = errors.New("tick period must be positive")
	ErrBadCellSize   = errors.New("cell size must be positive")
)

// Config 单局游戏的配置；CellSize 只影响前端渲染
type Config struct {
	GridSize   int
	TickPeriod time.Duration
	CellSize   int
}

// DefaultConfig 15×15 网格，200ms 一步，每格 40px
func DefaultConfig() Config {
	return Config{
		GridSize:   15,
		TickPeriod: 200 * time.Millisecond,
		CellSize:   40,
	}
}

// Validate 检查配置是否可用于新建会话
func (c Config) Validate() error {
	if _, err := game.NewGrid(c.GridSize); err != nil {
		return err
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("%w: got %v", ErrBadTickPeriod, c.TickPeriod)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadCellSize, c.CellSize)
	}
	return nil
}

// Settings 新会话使用的默认配置，可经 /admin/config 热更新；已运行的会话不受影响
type Settings struct {
	mu  sync.RWMutex
	cfg Config
}

func NewSettings(cfg Config) *Settings {
	return &Settings{cfg: cfg}
}

func (s *Settings) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set 校验通过才替换
func (s *Settings) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
