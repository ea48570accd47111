package game

import (
	"fmt"
	"strings"
)

// View 渲染端读取的只读状态（同时作为 JSON 广播载荷）
type View struct {
	GridSize int     `json:"gridSize"`
	Snake    []Coord `json:"snake"`
	Food     *Coord  `json:"food"`
	GameOver bool    `json:"gameOver"`
	Status   string  `json:"status"`
	Length   int     `json:"length"`
	Tick     int64   `json:"tick"`
}

// StatusLine 页面左上角的状态文字
func (v View) StatusLine() string {
	food := "None"
	if v.Food != nil {
		food = v.Food.String()
	}
	return fmt.Sprintf("Snake length: %d, Food position: %s", v.Length, food)
}

// Render 以字符画输出网格：H 蛇头，o 蛇身，* 食物，. 空格。
// 越界坐标说明引擎不变量被破坏，直接 panic。
func (v View) Render() string {
	rows := make([][]byte, v.GridSize)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", v.GridSize))
	}
	put := func(c Coord, ch byte) {
		if c.X < 0 || c.X >= v.GridSize || c.Y < 0 || c.Y >= v.GridSize {
			panic(fmt.Sprintf("game: cell %s outside %dx%d grid", c, v.GridSize, v.GridSize))
		}
		rows[c.Y][c.X] = ch
	}
	if v.Food != nil {
		put(*v.Food, '*')
	}
	for i := len(v.Snake) - 1; i >= 0; i-- {
		ch := byte('o')
		if i == 0 {
			ch = 'H'
		}
		put(v.Snake[i], ch)
	}

	var b strings.Builder
	for _, r := range rows {
		b.Write(r)
		b.WriteByte('\n')
	}
	return b.String()
}
