// 本文件定义消息相关的路由
package router

import (
	"staync_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由
// 包括消息发送、SSE 流式发送、历史查询、已读回执和输入信号
func RegisterMessageRoutes(r *gin.Engine) {
	messageGroup := r.Group("/message")
	{
		messageGroup.POST("/send", handler.SendMessageHandler)         // 发送消息（AI 回复后台推进）
		messageGroup.POST("/stream", handler.SendMessageStreamHandler) // 发送消息并以 SSE 返回回复事件流
		messageGroup.GET("/list", handler.GetMessageListHandler)       // 获取房间消息列表
		messageGroup.POST("/read", handler.MarkReadHandler)            // 标记已读
		messageGroup.POST("/typing", handler.TypingHandler)            // 正在输入信号
	}
}
