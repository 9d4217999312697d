// 本文件处理 WebSocket 订阅连接的 API 请求
package handler

import (
	"net/http"

	"staync_chat_server/internal/realtime"
	"staync_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// wsHub 事件分发中心，由 InitWsHandler 注入
var wsHub *realtime.Hub

// InitWsHandler 注入事件分发中心
// 应在 main.go 中调用，在路由注册之前
func InitWsHandler(hub *realtime.Hub) {
	wsHub = hub
}

// WsSubscribeHandler 订阅房间事件（升级 HTTP 连接为 WebSocket）
// GET /ws/subscribe?client_id=xxx
// 连接建立后，该用户所在房间的全部事件都会推送到此连接
func WsSubscribeHandler(c *gin.Context) {
	clientId := c.Query("client_id")
	if clientId == "" {
		zap.L().Error("clientId获取失败")
		c.JSON(http.StatusOK, gin.H{
			"code": errorx.CodeInvalidParam,
			"msg":  "clientId获取失败",
		})
		return
	}
	realtime.NewClientInit(c, wsHub, clientId)
}

// WsUnsubscribeHandler 断开订阅连接
// POST /ws/unsubscribe
func WsUnsubscribeHandler(c *gin.Context) {
	var req struct {
		ClientId string `json:"clientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	client := wsHub.GetClient(req.ClientId)
	if client != nil {
		wsHub.UnregisterClient(client)
		if err := client.Conn.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
	HandleSuccess(c, nil)
}
