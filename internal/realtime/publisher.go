// publisher.go
// 核心职责：定义事件发布接口
// 发布是尽力送达语义，调用方记录失败即可，不中断业务流程
package realtime

import "context"

// EventPublisher 房间事件发布接口
// channel 形如 room-{roomId}，payload 会被序列化后下发
type EventPublisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
	Close() error
}
