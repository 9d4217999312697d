// 本文件定义 WebSocket 相关的路由
package router

import (
	"staync_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 订阅路由
func RegisterWebSocketRoutes(r *gin.Engine) {
	wsGroup := r.Group("/ws")
	{
		wsGroup.GET("/subscribe", handler.WsSubscribeHandler)      // 订阅房间事件
		wsGroup.POST("/unsubscribe", handler.WsUnsubscribeHandler) // 断开订阅
	}
}
