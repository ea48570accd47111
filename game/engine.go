package game

// Status 会话内的游戏状态，离开 Running 后不再回退
type Status int

const (
	StatusRunning Status = iota
	StatusGameOver
	StatusWon // 网格已满，无处放置食物
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game_over"
	case StatusWon:
		return "won"
	default:
		return "unknown"
	}
}

// Outcome 单次 Tick 的结果
type Outcome int

const (
	OutcomeIdle    Outcome = iota // 已结束，Tick 为空操作
	OutcomeMoved                  // 平移：头部前进、尾部移除
	OutcomeAte                    // 吃到食物，长度 +1
	OutcomeHitWall                // 撞墙，进入 GameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeHitWall:
		return "hit_wall"
	default:
		return "idle"
	}
}

// Engine 一局游戏的全部权威状态。
// 不做任何加锁：调用方保证同一时刻只有一个协程在操作它。
type Engine struct {
	grid Grid
	rng  Intner

	snake     []Coord
	direction Direction // 上一次 Tick 实际采用的方向
	pending   Direction // 下一次 Tick 将采用的方向（后写覆盖）
	food      Coord
	hasFood   bool
	status    Status
	ticks     int64
}

// NewEngine 蛇位于网格中心，朝右，食物延迟到第一次 EnsureFood 才生成
func NewEngine(grid Grid, rng Intner) *Engine {
	return &Engine{
		grid:      grid,
		rng:       rng,
		snake:     []Coord{grid.Center()},
		direction: DirRight,
		pending:   DirRight,
		status:    StatusRunning,
	}
}

func (e *Engine) Grid() Grid { return e.grid }
func (e *Engine) Status() Status { return e.status }
func (e *Engine) GameOver() bool { return e.status == StatusGameOver }
func (e *Engine) Direction() Direction { return e.direction }
func (e *Engine) Pending() Direction { return e.pending }
func (e *Engine) Len() int { return len(e.snake) }
func (e *Engine) Head() Coord { return e.snake[0] }
func (e *Engine) Ticks() int64 { return e.ticks }
func (e *Engine) Food() (Coord, bool) { return e.food, e.hasFood }
func (e *Engine) running() bool { return e.status == StatusRunning }

// SetDirection 记录方向意图，等下一次 Tick 生效。
// 与当前运动方向相反的输入被丢弃；返回是否被接受。
func (e *Engine) SetDirection(d Direction) bool {
	if !e.running() || d == DirNone {
		return false
	}
	if d == e.direction.Opposite() {
		return false
	}
	e.pending = d
	return true
}

// Tick 推进一步。只检测撞墙，不检测撞到自身。
func (e *Engine) Tick() Outcome {
	if !e.running() {
		return OutcomeIdle
	}
	e.ticks++
	e.direction = e.pending
	head := e.snake[0].Step(e.direction)

	if !e.grid.InBounds(head) {
		e.status = StatusGameOver
		return OutcomeHitWall
	}

	if e.hasFood && head == e.food {
		e.snake = append([]Coord{head}, e.snake...)
		e.hasFood = false
		return OutcomeAte
	}

	next := make([]Coord, len(e.snake))
	next[0] = head
	copy(next[1:], e.snake[:len(e.snake)-1])
	e.snake = next
	return OutcomeMoved
}

// EnsureFood 食物缺失时在空闲格生成新食物。
// 网格已无空闲格时进入 StatusWon。返回本次是否生成了食物。
func (e *Engine) EnsureFood() bool {
	if !e.running() || e.hasFood {
		return false
	}
	c, ok := e.grid.RandomFreeCell(e.occupied(), e.rng)
	if !ok {
		e.status = StatusWon
		return false
	}
	e.food = c
	e.hasFood = true
	return true
}

func (e *Engine) occupied() map[Coord]struct{} {
	occ := make(map[Coord]struct{}, len(e.snake))
	for _, c := range e.snake {
		occ[c] = struct{}{}
	}
	return occ
}

// View 返回只读快照，供渲染端使用
func (e *Engine) View() View {
	segs := make([]Coord, len(e.snake))
	copy(segs, e.snake)
	v := View{
		GridSize: e.grid.Size,
		Snake:    segs,
		GameOver: e.GameOver(),
		Status:   e.status.String(),
		Length:   len(segs),
		Tick:     e.ticks,
	}
	if e.hasFood {
		f := e.food
		v.Food = &f
	}
	return v
}
