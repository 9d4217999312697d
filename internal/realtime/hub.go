// hub.go
// 核心职责：单机模式下的房间事件分发中心
// 1. 维护在线用户连接 (Channel 模式)
// 2. 按房间成员关系扇出事件
// 3. 管理用户登录/登出事件
// 4. 不依赖外部消息队列，适合单节点或开发环境
package realtime

import (
	"context"
	"encoding/json"
	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/pkg/constants"
	"sync"

	"go.uber.org/zap"
)

// Hub 定义了房间事件分发的核心结构
type Hub struct {
	// Clients 存储所有在线客户端的映射表，Key 为 UserUUID，Value 为 *UserConn
	// 使用 sync.Map 实现并发安全，无需手动加锁
	Clients sync.Map
	// Deliver 事件投递通道，Publish 写入，Start 循环消费
	Deliver chan *Envelope
	// Login 客户端登录通道，当有新连接建立时写入此通道
	Login chan *UserConn
	// Logout 客户端登出通道，当连接断开时写入此通道
	Logout chan *UserConn

	// done 关闭信号；通道本身从不 close，
	// 停机后进行中的发布和连接读写经由 done 分支退出而不是 panic
	done      chan struct{}
	closeOnce sync.Once

	memberRepo repository.RoomMemberRepository
}

// NewHub 创建 Hub 实例（依赖注入）
func NewHub(memberRepo repository.RoomMemberRepository) *Hub {
	return &Hub{
		Deliver:    make(chan *Envelope, constants.CHANNEL_SIZE),
		Login:      make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:     make(chan *UserConn, constants.CHANNEL_SIZE),
		done:       make(chan struct{}),
		memberRepo: memberRepo,
	}
}

// Start 启动 Hub 主循环
// 1. 事件消费循环 (Deliver channel): 解析频道 -> 查询房间成员 -> 扇出
// 2. 客户端管理循环 (Login/Logout channels): 维护 Clients 映射表
// 3. 收到关闭信号后在本循环内摘除全部连接再退出，
//    与扇出写入同协程执行，不会和 closeSend 竞争
func (h *Hub) Start() {
	for {
		select {
		// 处理客户端登录事件
		case client := <-h.Login:
			if client == nil {
				continue
			}
			h.Clients.Store(client.Uuid, client)
			zap.L().Debug("客户端上线", zap.String("user_uuid", client.Uuid))

		// 处理客户端登出事件
		case client := <-h.Logout:
			if client == nil {
				continue
			}
			h.Clients.Delete(client.Uuid)
			client.closeSend()
			zap.L().Info("客户端下线", zap.String("user_uuid", client.Uuid))

		// 处理事件投递（核心分发循环）
		case env := <-h.Deliver:
			if env == nil {
				continue
			}
			h.fanOut(env)

		case <-h.done:
			h.Clients.Range(func(key, value any) bool {
				client := value.(*UserConn)
				h.Clients.Delete(key)
				client.closeSend()
				if err := client.Conn.Close(); err != nil {
					zap.L().Debug(err.Error())
				}
				return true
			})
			return
		}
	}
}

// fanOut 将事件按房间成员关系推送到各在线连接
// 成员查询失败只记日志，事件分发是尽力送达语义
func (h *Hub) fanOut(env *Envelope) {
	roomUuid := RoomFromChannel(env.Channel)
	if roomUuid == "" {
		zap.L().Warn("无法识别的事件频道", zap.String("channel", env.Channel))
		return
	}

	frame, err := json.Marshal(env)
	if err != nil {
		zap.L().Error("事件序列化失败", zap.Error(err))
		return
	}

	members, err := h.memberRepo.FindByRoomUuid(roomUuid)
	if err != nil {
		zap.L().Error("查询房间成员失败",
			zap.String("room_uuid", roomUuid), zap.Error(err))
		return
	}

	for _, m := range members {
		value, ok := h.Clients.Load(m.UserUuid)
		if !ok {
			continue
		}
		client := value.(*UserConn)
		select {
		case client.SendBack <- frame:
		default:
			// 写缓冲已满说明该连接消费太慢，丢弃而不是阻塞整个分发循环
			zap.L().Warn("客户端写缓冲已满，事件被丢弃",
				zap.String("user_uuid", m.UserUuid),
				zap.String("event", env.Event))
		}
	}
}

// Publish 实现 EventPublisher 接口：投递事件到 Deliver 通道
func (h *Hub) Publish(ctx context.Context, channel, event string, payload any) error {
	env, err := NewEnvelope(channel, event, payload)
	if err != nil {
		return err
	}
	select {
	case h.Deliver <- env:
		return nil
	case <-h.done:
		// 停机窗口内到达的事件直接丢弃
		zap.L().Debug("hub 已关闭，事件被丢弃", zap.String("event", event))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue 直接投递已构造好的信封（供 Kafka 消费循环使用）
func (h *Hub) Enqueue(env *Envelope) {
	select {
	case h.Deliver <- env:
	default:
		zap.L().Warn("事件投递通道已满，事件被丢弃", zap.String("event", env.Event))
	}
}

// RegisterClient 注册客户端连接
func (h *Hub) RegisterClient(client *UserConn) {
	select {
	case h.Login <- client:
	case <-h.done:
	}
}

// UnregisterClient 注销客户端连接
func (h *Hub) UnregisterClient(client *UserConn) {
	select {
	case h.Logout <- client:
	case <-h.done:
	}
}

// GetClient 获取指定用户的连接
func (h *Hub) GetClient(userId string) *UserConn {
	value, ok := h.Clients.Load(userId)
	if !ok {
		return nil
	}
	return value.(*UserConn)
}

// Close 发出关闭信号，幂等
// 通道保持打开，与停机赛跑的发布走 done 分支被丢弃
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	return nil
}
