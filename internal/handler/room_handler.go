// 本文件处理房间相关的 API 请求
package handler

import (
	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/service"
	"staync_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// CreateRoomHandler 创建与 AI 顾问的单聊房间
// POST /room/create
func CreateRoomHandler(c *gin.Context) {
	var req request.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Room.CreateDirectRoom(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetRoomListHandler 获取用户的房间列表
// GET /room/list?userId=xxx
func GetRoomListHandler(c *gin.Context) {
	userId := c.Query("userId")
	if userId == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "userId 不能为空"))
		return
	}
	data, err := service.Svc.Room.GetRoomList(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListAdvisorsHandler 列出全部 AI 顾问
// GET /room/advisors
func ListAdvisorsHandler(c *gin.Context) {
	HandleSuccess(c, service.Svc.Room.ListAdvisors())
}
