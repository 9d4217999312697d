// Package model 定义数据库实体模型
// 本文件定义用户模型，真人账号与 AI 顾问共用同一张表
package model

import (
	"gorm.io/gorm"
)

// 用户在线状态
const (
	UserStatusOnline  = "ONLINE"
	UserStatusOffline = "OFFLINE"
)

// User 用户模型
// 对应数据库 user 表
// AI 顾问也是一行 User 记录，是否为顾问由 persona 注册表判定，而非邮箱后缀散落比较
type User struct {
	gorm.Model

	// Uuid 用户唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:用户uuid"`

	// Email 邮箱，登录与顾问识别的业务键
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`

	// Nickname 昵称
	Nickname string `gorm:"column:nickname;type:varchar(50);not null;comment:昵称"`

	// AvatarUrl 头像链接
	AvatarUrl string `gorm:"column:avatar_url;type:varchar(255);comment:头像链接"`

	// Status 在线状态
	// ONLINE / OFFLINE，AI 顾问恒为 ONLINE
	Status string `gorm:"column:status;type:char(10);default:OFFLINE;comment:在线状态"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}
