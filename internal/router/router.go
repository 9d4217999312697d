// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 按模块分别注册各个路由组
func RegisterRoutes(r *gin.Engine) {
	RegisterMessageRoutes(r)   // 消息路由
	RegisterRoomRoutes(r)      // 房间路由
	RegisterWebSocketRoutes(r) // WebSocket 路由
}
