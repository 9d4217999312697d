// Package handler 提供 HTTP 请求处理器
// 本文件处理消息相关的 API 请求
package handler

import (
	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/service"
	"staync_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// SendMessageHandler 发送消息
// POST /message/send
// 消息入库并广播后立即返回，AI 回复在后台异步推进
func SendMessageHandler(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Message.SendMessage(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageListHandler 获取房间消息列表
// GET /message/list?roomId=xxx
func GetMessageListHandler(c *gin.Context) {
	roomId := c.Query("roomId")
	if roomId == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "roomId 不能为空"))
		return
	}
	data, err := service.Svc.Message.GetMessageList(roomId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkReadHandler 标记已读
// POST /message/read
func MarkReadHandler(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	count, err := service.Svc.Message.MarkRead(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"count": count})
}

// TypingHandler 转发正在输入信号
// POST /message/typing
func TypingHandler(c *gin.Context) {
	var req request.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := service.Svc.Message.RelayTyping(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
