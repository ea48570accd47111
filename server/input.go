package server

import (
	"encoding/json"
	"errors"
	"strings"

	"gridsnake/game"
)

var (
	errNotMove        = errors.New("not a move message")
	errUnknownCommand = errors.New("unknown move command")
)

// 入站输入的简单 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"move","command":"up"} 或 {"type":"move","command":"ArrowUp"}
type InputMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Seq     int64  `json:"seq,omitempty"`
}

// 出站消息
type helloMessage struct {
	Type     string `json:"type"`
	Session  string `json:"session"`
	GridSize int    `json:"gridSize"`
	CellSize int    `json:"cellSize"`
	TickMs   int64  `json:"tickMs"`
}

type stateMessage struct {
	Type string `json:"type"`
	game.View
}

// decodeInput 解析一条入站消息为方向
func decodeInput(payload []byte) (game.Direction, error) {
	var im InputMessage
	if err := json.Unmarshal(payload, &im); err != nil {
		return game.DirNone, err
	}
	if strings.ToLower(im.Type) != "move" {
		return game.DirNone, errNotMove
	}
	dir := game.ParseDirection(im.Command)
	if dir == game.DirNone {
		return game.DirNone, errUnknownCommand
	}
	return dir, nil
}
