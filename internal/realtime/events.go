// Package realtime 实现房间事件的实时分发
// events.go
// 核心职责：定义房间频道命名和各事件的线上载荷结构
// 事件协议（频道 room-{roomId}）：
//   - user-typing   正在输入指示
//   - new-message   新消息入库后的广播
//   - ai-streaming  AI 气泡逐字输出的增量内容
//   - read-receipt  已读回执
package realtime

import (
	"encoding/json"
	"strings"
)

// 事件名称常量
const (
	EventUserTyping  = "user-typing"
	EventNewMessage  = "new-message"
	EventAIStreaming = "ai-streaming"
	EventReadReceipt = "read-receipt"
)

// roomChannelPrefix 房间频道前缀
const roomChannelPrefix = "room-"

// RoomChannel 根据房间 UUID 构造频道名
func RoomChannel(roomUuid string) string {
	return roomChannelPrefix + roomUuid
}

// RoomFromChannel 从频道名解析房间 UUID
// 非房间频道返回空串
func RoomFromChannel(channel string) string {
	if !strings.HasPrefix(channel, roomChannelPrefix) {
		return ""
	}
	return strings.TrimPrefix(channel, roomChannelPrefix)
}

// Sender 事件载荷里的发送者摘要
type Sender struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// TypingPayload user-typing 事件载荷
type TypingPayload struct {
	UserId   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// NewMessagePayload new-message 事件载荷
// Id 使用字符串形式的雪花 ID，避免 JavaScript 精度丢失
type NewMessagePayload struct {
	Id        string `json:"id"`
	Content   string `json:"content"`
	SenderId  string `json:"senderId"`
	Sender    Sender `json:"sender"`
	CreatedAt string `json:"createdAt"`
	Type      string `json:"type"`
}

// StreamingPayload ai-streaming 事件载荷
// Id 为 {turnId}-{气泡序号}，同一气泡的重复发送是内容更新而非新气泡，
// 下游按 Id 去重/覆盖
type StreamingPayload struct {
	Id       string `json:"id"`
	Content  string `json:"content"`
	SenderId string `json:"senderId"`
	Sender   Sender `json:"sender"`
}

// ReadReceiptPayload read-receipt 事件载荷
type ReadReceiptPayload struct {
	UserId string `json:"userId"`
	RoomId string `json:"roomId"`
	Count  int64  `json:"count"`
}

// Envelope 事件信封，Hub 投递和 Kafka 跨节点传输的统一格式
type Envelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope 序列化载荷并构造信封
func NewEnvelope(channel, event string, payload any) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Channel: channel, Event: event, Payload: raw}, nil
}
