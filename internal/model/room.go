// Package model 定义数据库实体模型
// 本文件定义房间模型，一个房间代表一场对话
package model

import (
	"gorm.io/gorm"
)

// 房间类型
const (
	RoomTypeDirect = "DIRECT" // 1对1 对话
	RoomTypeGroup  = "GROUP"  // 群聊
)

// Room 房间模型
// 对应数据库 room 表
// UpdatedAt 由 gorm.Model 提供，作为会话列表排序的新近度游标，每收到新消息就被触碰
type Room struct {
	gorm.Model

	// Uuid 房间唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:房间uuid"`

	// Name 房间名称，1对1 房间可为空，显示时回退为对方昵称
	Name string `gorm:"column:name;type:varchar(50);comment:房间名称"`

	// Type 房间类型：DIRECT 或 GROUP
	// DIRECT 房间恒有且仅有两名成员
	Type string `gorm:"column:type;type:char(10);not null;comment:房间类型"`
}

// TableName 指定表名
func (Room) TableName() string {
	return "room"
}
