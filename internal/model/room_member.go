// Package model 定义数据库实体模型
// 本文件定义房间成员模型（房间与用户的关联表）
package model

import (
	"gorm.io/gorm"
)

// 成员角色
const (
	MemberRoleOwner  = "OWNER"  // 创建者
	MemberRoleMember = "MEMBER" // 普通成员
)

// RoomMember 房间成员模型
// 对应数据库 room_member 表
// 核心路径中成员关系建房后不可变（无加人/踢人流程）
type RoomMember struct {
	gorm.Model

	// RoomUuid 房间 UUID
	RoomUuid string `gorm:"column:room_uuid;index;type:char(36);not null;comment:房间uuid"`

	// UserUuid 成员用户 UUID
	UserUuid string `gorm:"column:user_uuid;index;type:char(36);not null;comment:用户uuid"`

	// Role 成员角色：OWNER 或 MEMBER
	Role string `gorm:"column:role;type:char(10);not null;comment:成员角色"`
}

// TableName 指定表名
func (RoomMember) TableName() string {
	return "room_member"
}
