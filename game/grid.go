package game

import (
	"errors"
	"fmt"
)

// ErrGridTooSmall 网格边长小于 2 时返回
var ErrGridTooSmall = errors.New("grid size must be at least 2")

// Coord 网格坐标，X 向右递增，Y 向下递增（屏幕坐标）
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Step 返回沿方向 d 移动一格后的坐标
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Intner 随机数来源（x/exp/rand.Rand 满足该接口；测试可注入固定序列）
type Intner interface {
	Intn(n int) int
}

// Grid N×N 的离散坐标空间
type Grid struct {
	Size int
}

// NewGrid 创建边长为 size 的网格
func NewGrid(size int) (Grid, error) {
	if size < 2 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrGridTooSmall, size)
	}
	return Grid{Size: size}, nil
}

// InBounds 当且仅当 0 <= x < N 且 0 <= y < N
func (g Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Size && c.Y >= 0 && c.Y < g.Size
}

// Center 蛇的出生点
func (g Grid) Center() Coord {
	return Coord{X: g.Size / 2, Y: g.Size / 2}
}

// Cells 网格总格数
func (g Grid) Cells() int {
	return g.Size * g.Size
}

// maxSampleAttempts 拒绝采样的次数上限，超过后改为扫描空闲格
func (g Grid) maxSampleAttempts() int {
	return g.Cells() * 4
}

// RandomFreeCell 在未被占用的格子中均匀取一个。
// 先做有上限的拒绝采样；用尽后扫描所有空闲格再随机挑选。
// 网格已满时返回 false。
func (g Grid) RandomFreeCell(occupied map[Coord]struct{}, rng Intner) (Coord, bool) {
	if len(occupied) >= g.Cells() && g.allOccupied(occupied) {
		return Coord{}, false
	}
	for i := 0; i < g.maxSampleAttempts(); i++ {
		c := Coord{X: rng.Intn(g.Size), Y: rng.Intn(g.Size)}
		if _, taken := occupied[c]; !taken {
			return c, true
		}
	}

	free := make([]Coord, 0, max(g.Cells()-len(occupied), 0))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := Coord{X: x, Y: y}
			if _, taken := occupied[c]; !taken {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return Coord{}, false
	}
	return free[rng.Intn(len(free))], true
}

// allOccupied occupied 里可能混有越界坐标，不能只比较长度
func (g Grid) allOccupied(occupied map[Coord]struct{}) bool {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if _, taken := occupied[Coord{X: x, Y: y}]; !taken {
				return false
			}
		}
	}
	return true
}
