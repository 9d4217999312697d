// Package message 实现消息业务逻辑
// service.go
// 核心职责：消息发送与查询
// 1. 用户消息入库后立即广播，AI 回复在后台异步触发
// 2. 房间消息列表走 Redis 缓存，未命中回源数据库
// 3. 已读回执和输入信号只做校验与转发，不落库内容
package message

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"staync_chat_server/internal/dao/mysql/repository"
	myredis "staync_chat_server/internal/dao/redis"
	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/dto/respond"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/realtime"
	"staync_chat_server/internal/service/ai"
	"staync_chat_server/pkg/constants"
	"staync_chat_server/pkg/errorx"
	"staync_chat_server/pkg/util/snowflake"
)

// messageService 消息业务逻辑实现
type messageService struct {
	repos      *repository.Repositories
	cache      myredis.AsyncCacheService
	publisher  realtime.EventPublisher
	dispatcher *ai.Dispatcher
}

// NewMessageService 构造函数
func NewMessageService(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	publisher realtime.EventPublisher,
	dispatcher *ai.Dispatcher,
) *messageService {
	return &messageService{
		repos:      repos,
		cache:      cache,
		publisher:  publisher,
		dispatcher: dispatcher,
	}
}

// SendMessage 发送消息并在后台触发 AI 回复
func (m *messageService) SendMessage(req request.SendMessageRequest) (*respond.MessageRespond, error) {
	rsp, err := m.persistAndBroadcast(req)
	if err != nil {
		return nil, err
	}
	m.dispatcher.HandleAIResponse(req.RoomId, req.SenderId)
	return rsp, nil
}

// SendMessageStream 发送消息并同步执行 AI 回复（SSE 模式）
func (m *messageService) SendMessageStream(ctx context.Context, req request.SendMessageRequest, observer ai.TurnObserver) (*respond.MessageRespond, error) {
	rsp, err := m.persistAndBroadcast(req)
	if err != nil {
		return nil, err
	}
	if err := m.dispatcher.RunTurn(ctx, req.RoomId, req.SenderId, observer); err != nil {
		return rsp, err
	}
	return rsp, nil
}

// persistAndBroadcast 校验、入库并广播一条用户消息
func (m *messageService) persistAndBroadcast(req request.SendMessageRequest) (*respond.MessageRespond, error) {
	sender, err := m.repos.User.FindByUuid(req.SenderId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "发送者不存在")
		}
		return nil, err
	}

	if _, err := m.repos.Room.FindByUuid(req.RoomId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "房间不存在")
		}
		return nil, err
	}

	isMember, err := m.repos.RoomMember.IsMember(req.RoomId, req.SenderId)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errorx.ErrForbidden
	}

	msgType := req.Type
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if msgType != model.MessageTypeText && msgType != model.MessageTypeImage {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的消息类型: %s", msgType)
	}

	msg := &model.Message{
		Uuid:     snowflake.GenerateID(),
		RoomUuid: req.RoomId,
		SenderId: req.SenderId,
		Content:  req.Content,
		Type:     msgType,
		Role:     model.MessageRoleUser,
	}
	if err := m.repos.Message.Create(msg); err != nil {
		return nil, err
	}

	// 广播失败只记日志，消息已入库即视为发送成功
	payload := realtime.NewMessagePayload{
		Id:       strconv.FormatInt(msg.Uuid, 10),
		Content:  msg.Content,
		SenderId: sender.Uuid,
		Sender: realtime.Sender{
			Name:  sender.Nickname,
			Image: sender.AvatarUrl,
		},
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		Type:      msg.Type,
	}
	if err := m.publisher.Publish(context.Background(), realtime.RoomChannel(req.RoomId), realtime.EventNewMessage, payload); err != nil {
		zap.L().Warn("新消息广播失败",
			zap.String("room_uuid", req.RoomId), zap.Error(err))
	}

	if err := m.repos.Room.Touch(req.RoomId); err != nil {
		zap.L().Warn("刷新房间活跃时间失败",
			zap.String("room_uuid", req.RoomId), zap.Error(err))
	}

	m.invalidateCaches(req.RoomId)

	return toMessageRespond(msg, sender), nil
}

// GetMessageList 获取房间消息列表
func (m *messageService) GetMessageList(roomId string) ([]respond.MessageRespond, error) {
	if _, err := m.repos.Room.FindByUuid(roomId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "房间不存在")
		}
		return nil, err
	}

	cacheKey := myredis.MessageListKey(roomId)
	if cached, err := m.cache.GetOrError(context.Background(), cacheKey); err == nil {
		var rsp []respond.MessageRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
		zap.L().Error("消息列表缓存解析失败", zap.Error(err))
	}

	messageList, err := m.repos.Message.FindByRoomUuid(roomId)
	if err != nil {
		zap.L().Error("查询房间消息失败",
			zap.String("room_uuid", roomId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 发送者信息按需联查，同一发送者只查一次
	senders := make(map[string]*model.User)
	rspList := make([]respond.MessageRespond, 0, len(messageList))
	for i := range messageList {
		msg := &messageList[i]
		sender, ok := senders[msg.SenderId]
		if !ok {
			sender, err = m.repos.User.FindByUuid(msg.SenderId)
			if err != nil {
				if !errorx.IsNotFound(err) {
					return nil, err
				}
				sender = &model.User{Uuid: msg.SenderId}
			}
			senders[msg.SenderId] = sender
		}
		rspList = append(rspList, *toMessageRespond(msg, sender))
	}

	// 更新缓存
	m.cache.SubmitTask(func() {
		jsonBytes, err := json.Marshal(rspList)
		if err != nil {
			zap.L().Error("消息列表序列化失败", zap.Error(err))
			return
		}
		if err := m.cache.Set(context.Background(), cacheKey, string(jsonBytes), time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
			zap.L().Error("消息列表写缓存失败", zap.Error(err))
		}
	})

	return rspList, nil
}

// MarkRead 标记房间内他人消息为已读并广播回执
func (m *messageService) MarkRead(req request.MarkReadRequest) (int64, error) {
	isMember, err := m.repos.RoomMember.IsMember(req.RoomId, req.UserId)
	if err != nil {
		return 0, err
	}
	if !isMember {
		return 0, errorx.ErrForbidden
	}

	count, err := m.repos.Message.MarkReadByRoom(req.RoomId, req.UserId)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		payload := realtime.ReadReceiptPayload{
			UserId: req.UserId,
			RoomId: req.RoomId,
			Count:  count,
		}
		if err := m.publisher.Publish(context.Background(), realtime.RoomChannel(req.RoomId), realtime.EventReadReceipt, payload); err != nil {
			zap.L().Warn("已读回执广播失败",
				zap.String("room_uuid", req.RoomId), zap.Error(err))
		}
		m.invalidateCaches(req.RoomId)
	}
	return count, nil
}

// RelayTyping 转发正在输入信号，不做任何持久化
func (m *messageService) RelayTyping(req request.TypingRequest) error {
	isMember, err := m.repos.RoomMember.IsMember(req.RoomId, req.UserId)
	if err != nil {
		return err
	}
	if !isMember {
		return errorx.ErrForbidden
	}

	payload := realtime.TypingPayload{
		UserId:   req.UserId,
		UserName: req.UserName,
		IsTyping: req.IsTyping,
	}
	return m.publisher.Publish(context.Background(), realtime.RoomChannel(req.RoomId), realtime.EventUserTyping, payload)
}

// invalidateCaches 异步失效房间相关缓存
func (m *messageService) invalidateCaches(roomUuid string) {
	m.cache.SubmitTask(func() {
		ctx := context.Background()
		if err := m.cache.Delete(ctx, myredis.MessageListKey(roomUuid)); err != nil {
			zap.L().Warn("失效消息列表缓存失败", zap.Error(err))
		}
		if err := m.cache.DeleteByPattern(ctx, "room_list_*"); err != nil {
			zap.L().Warn("失效房间列表缓存失败", zap.Error(err))
		}
	})
}

// toMessageRespond 模型转响应
func toMessageRespond(msg *model.Message, sender *model.User) *respond.MessageRespond {
	return &respond.MessageRespond{
		Id:           strconv.FormatInt(msg.Uuid, 10),
		RoomId:       msg.RoomUuid,
		SenderId:     msg.SenderId,
		SenderName:   sender.Nickname,
		SenderAvatar: sender.AvatarUrl,
		Content:      msg.Content,
		Type:         msg.Type,
		Role:         msg.Role,
		CreatedAt:    msg.CreatedAt.Format(time.RFC3339),
	}
}
