// conn.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 建立 WebSocket 连接 (Upgrade)
// 2. 封装 UserConn 对象，管理读写协程 (Read/Write Loop)
// 3. 对接前端：从 Hub 接收事件帧 -> 推送给前端
package realtime

import (
	"net/http"
	"staync_chat_server/pkg/constants"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// UserConn 单个用户的 WebSocket 连接
type UserConn struct {
	Conn *websocket.Conn
	Uuid string
	// SendBack 待推送给前端的事件帧
	SendBack chan []byte

	hub       *Hub
	closeOnce sync.Once
}

// closeSend 关闭写通道，让 Write 协程退出
// 只能由 Hub 主循环在摘除连接后调用
func (c *UserConn) closeSend() {
	c.closeOnce.Do(func() {
		close(c.SendBack)
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Read 读取websocket消息，保持连接存活
// 事件下发走 HTTP 接口，入站内容只做丢弃处理，读错误即断开
func (c *UserConn) Read() {
	zap.L().Info("ws read goroutine start", zap.String("user_uuid", c.Uuid))
	defer func() {
		c.hub.UnregisterClient(c)
		if err := c.Conn.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil { // 阻塞状态
			zap.L().Info("ws连接断开",
				zap.String("user_uuid", c.Uuid), zap.Error(err))
			return
		}
	}
}

// Write 从SendBack通道读取事件帧发送给websocket
func (c *UserConn) Write() {
	zap.L().Info("ws write goroutine start", zap.String("user_uuid", c.Uuid))
	for frame := range c.SendBack { // 阻塞状态
		if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			zap.L().Error(err.Error())
			return // 直接断开websocket
		}
	}
}

// NewClientInit 前端建立订阅连接时调用
func NewClientInit(c *gin.Context, hub *Hub, clientId string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	client := &UserConn{
		Conn:     conn,
		Uuid:     clientId,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		hub:      hub,
	}
	hub.RegisterClient(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功", zap.String("user_uuid", clientId))
}
