// Package model 定义数据库实体模型
// 本文件定义消息模型，用于存储聊天消息
package model

import (
	"gorm.io/gorm"
)

// 消息类型
const (
	MessageTypeText   = "TEXT"   // 文本消息
	MessageTypeImage  = "IMAGE"  // 图片消息（外部媒体托管，仅存链接）
	MessageTypeSystem = "SYSTEM" // 系统消息（如开场问候）
)

// 消息角色
const (
	MessageRoleUser      = "user"      // 真人发送
	MessageRoleAssistant = "assistant" // AI 顾问发送，每个气泡一行记录
	MessageRoleSystem    = "system"    // 系统生成
)

// Message 消息模型
// 对应数据库 message 表
// 消息一经创建不可修改（核心路径无编辑/删除）
// 顺序不变量：同一房间内 CreatedAt 随插入顺序单调不减，AI 气泡按分段顺序逐条入库
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64 类型 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// RoomUuid 房间 UUID
	RoomUuid string `gorm:"column:room_uuid;index;type:char(36);not null;comment:房间uuid"`

	// SenderId 发送者用户 UUID
	// AI 气泡的 SenderId 为顾问对应的 User.Uuid
	SenderId string `gorm:"column:sender_id;index;type:char(36);not null;comment:发送者uuid"`

	// Content 消息文本内容
	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// Type 消息类型：TEXT / IMAGE / SYSTEM
	Type string `gorm:"column:type;type:char(10);not null;comment:消息类型"`

	// Role 消息角色：user / assistant / system
	Role string `gorm:"column:role;type:char(10);not null;comment:消息角色"`

	// Read 是否已读
	// 已读回执把对方发来的未读消息批量置为 true
	Read bool `gorm:"column:read;default:false;comment:是否已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
