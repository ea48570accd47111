package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃新消息（防止阻塞 Tick）；下一帧会带上完整状态
	}
}

// Close 关闭发送队列；写协程发完剩余消息后关闭连接
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump(send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.ws.Close()
	for {
		select {
		case msg, ok := <-send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端按键，转换为方向注入会话；退出时调用 done
func (c *ClientConn) readPump(s *Session, done func()) {
	defer done()
	c.ws.SetReadLimit(4 << 10)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debugf("read: %v", err)
			}
			return
		}
		dir, err := decodeInput(payload)
		if err != nil {
			if err == errUnknownCommand {
				s.metrics.IncUnknown()
			}
			s.log.Debugf("skip input %q: %v", payload, err)
			continue
		}
		s.OnInput(dir)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：/ws?cell=40
// 一个连接就是一局游戏，连接断开即结束会话。
func (m *SessionManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	cfg := m.settings.Get()
	if v := r.URL.Query().Get("cell"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid cell size", http.StatusBadRequest)
			return
		}
		cfg.CellSize = n
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	s, err := m.OpenWith(cfg, client)
	if err != nil {
		Log.Errorf("open session: %v", err)
		_ = ws.Close()
		return
	}
	defer m.Close(s.ID)

	ctx, cancel := context.WithCancel(m.ctx)
	defer cancel()

	go client.writePump(client.send)
	defer client.Close()
	go client.readPump(s, cancel)

	s.Run(ctx)
}
