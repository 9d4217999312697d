package repository

import (
	"gorm.io/gorm"
)

// NewRepositories 创建 Repository 聚合实例
// 将 GORM 数据库实例注入到所有 Repository
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Room:       NewRoomRepository(db),
		RoomMember: NewRoomMemberRepository(db),
		Message:    NewMessageRepository(db),
	}
}
