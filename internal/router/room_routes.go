// 本文件定义房间相关的路由
package router

import (
	"staync_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterRoomRoutes 注册房间相关路由
func RegisterRoomRoutes(r *gin.Engine) {
	roomGroup := r.Group("/room")
	{
		roomGroup.POST("/create", handler.CreateRoomHandler)    // 创建与 AI 顾问的单聊房间
		roomGroup.GET("/list", handler.GetRoomListHandler)      // 获取房间列表
		roomGroup.GET("/advisors", handler.ListAdvisorsHandler) // 顾问目录
	}
}
