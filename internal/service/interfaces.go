// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/dto/respond"
	"staync_chat_server/internal/service/ai"
)

// MessageService 消息业务接口
// 处理消息发送、历史查询、已读回执和输入信号转发
type MessageService interface {
	// SendMessage 发送消息并在后台触发 AI 回复
	SendMessage(req request.SendMessageRequest) (*respond.MessageRespond, error)
	// SendMessageStream 发送消息并同步执行 AI 回复
	// 回复过程中的事件同时推送给 observer（SSE 模式）；
	// 消息已入库后返回值 MessageRespond 一定非 nil，error 为回复阶段的错误
	SendMessageStream(ctx context.Context, req request.SendMessageRequest, observer ai.TurnObserver) (*respond.MessageRespond, error)
	// GetMessageList 获取房间消息列表（带缓存）
	GetMessageList(roomId string) ([]respond.MessageRespond, error)
	// MarkRead 标记房间内他人消息为已读，返回影响条数
	MarkRead(req request.MarkReadRequest) (int64, error)
	// RelayTyping 转发正在输入信号
	RelayTyping(req request.TypingRequest) error
}

// RoomService 房间业务接口
// 处理单聊房间创建、房间列表和顾问目录
type RoomService interface {
	// CreateDirectRoom 创建与 AI 顾问的单聊房间（幂等，已有房间直接返回）
	CreateDirectRoom(req request.CreateRoomRequest) (*respond.RoomRespond, error)
	// GetRoomList 获取用户的房间列表，按最近活跃排序
	GetRoomList(userId string) ([]respond.RoomRespond, error)
	// ListAdvisors 列出全部 AI 顾问
	ListAdvisors() []respond.AdvisorRespond
	// EnsureAdvisorUsers 补齐顾问在 user 表中的账号（启动自愈）
	EnsureAdvisorUsers() error
}
