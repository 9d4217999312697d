// Package repository 定义数据访问层接口和聚合结构
package repository

import (
	"staync_chat_server/internal/model"
)

// MemberUser 房间成员与其用户记录的联查结果
// AI Guard 依赖成员携带的邮箱来判定房间里是否有 AI 顾问
type MemberUser struct {
	Member model.RoomMember
	User   model.User
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.User, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.User, error)
	// Create 创建新用户
	Create(user *model.User) error
	// UpdateStatus 更新用户在线状态
	UpdateStatus(uuid string, status string) error
}

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	// FindByUuid 根据 UUID 查找房间
	FindByUuid(uuid string) (*model.Room, error)
	// FindByUserUuid 查找用户所在的全部房间，按新近度倒序
	FindByUserUuid(userUuid string) ([]model.Room, error)
	// FindDirectRoomByMembers 查找两名用户共同所在的 DIRECT 房间（防止重复建房）
	FindDirectRoomByMembers(userOneUuid, userTwoUuid string) (*model.Room, error)
	// CreateWithMembers 在一个事务内创建房间及其成员
	CreateWithMembers(room *model.Room, members []model.RoomMember) error
	// Touch 触碰房间新近度游标（updated_at）
	Touch(uuid string) error
}

// RoomMemberRepository 房间成员数据访问接口
type RoomMemberRepository interface {
	// FindByRoomUuid 查找房间的全部成员
	FindByRoomUuid(roomUuid string) ([]model.RoomMember, error)
	// FindMembersWithUsers 查找房间成员并联查用户记录，保持稳定的成员顺序
	FindMembersWithUsers(roomUuid string) ([]MemberUser, error)
	// IsMember 判断用户是否为房间成员
	IsMember(roomUuid, userUuid string) (bool, error)
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 创建消息
	Create(message *model.Message) error
	// FindByRoomUuid 按房间查找全部消息，时间升序
	FindByRoomUuid(roomUuid string) ([]model.Message, error)
	// FindRecentByRoom 按房间查找最近 limit 条消息，时间降序
	FindRecentByRoom(roomUuid string, limit int) ([]model.Message, error)
	// FindLastByRoom 查找房间最新一条消息（会话列表预览用）
	FindLastByRoom(roomUuid string) (*model.Message, error)
	// MarkReadByRoom 把房间内他人发来的未读消息批量置为已读，返回影响行数
	MarkReadByRoom(roomUuid, readerUuid string) (int64, error)
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问各个 Repository
type Repositories struct {
	User       UserRepository
	Room       RoomRepository
	RoomMember RoomMemberRepository
	Message    MessageRepository
}
