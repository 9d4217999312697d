// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"staync_chat_server/internal/dao/mysql/repository"
	myredis "staync_chat_server/internal/dao/redis"
	"staync_chat_server/internal/realtime"
	"staync_chat_server/internal/service/ai"
	"staync_chat_server/internal/service/message"
	"staync_chat_server/internal/service/room"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Message MessageService // 消息 Service
	Room    RoomService    // 房间 Service
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// cache: Redis 缓存服务
// publisher: 实时事件发布器
// dispatcher: AI 回复调度器
func NewServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	publisher realtime.EventPublisher,
	dispatcher *ai.Dispatcher,
) *Services {
	messageSvc := message.NewMessageService(repos, cache, publisher, dispatcher)
	roomSvc := room.NewRoomService(repos, cache)

	return &Services{
		Message: messageSvc,
		Room:    roomSvc,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Message.SendMessage() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, publisher realtime.EventPublisher, dispatcher *ai.Dispatcher) {
	Svc = NewServices(repos, cache, publisher, dispatcher)
}
