package repository

import (
	"staync_chat_server/internal/model"

	"gorm.io/gorm"
)

type roomMemberRepository struct {
	db *gorm.DB
}

// NewRoomMemberRepository 创建房间成员 Repository
func NewRoomMemberRepository(db *gorm.DB) RoomMemberRepository {
	return &roomMemberRepository{db: db}
}

// FindByRoomUuid 查找房间的全部成员
func (r *roomMemberRepository) FindByRoomUuid(roomUuid string) ([]model.RoomMember, error) {
	var members []model.RoomMember
	if err := r.db.Where("room_uuid = ?", roomUuid).Order("id ASC").Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员 room=%s", roomUuid)
	}
	return members, nil
}

// FindMembersWithUsers 查找房间成员并联查用户记录
// 按成员记录主键升序排列，保证 AI Guard 扫描顺序稳定
func (r *roomMemberRepository) FindMembersWithUsers(roomUuid string) ([]MemberUser, error) {
	members, err := r.FindByRoomUuid(roomUuid)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	uuids := make([]string, 0, len(members))
	for _, m := range members {
		uuids = append(uuids, m.UserUuid)
	}
	var users []model.User
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员用户 room=%s", roomUuid)
	}
	byUuid := make(map[string]model.User, len(users))
	for _, u := range users {
		byUuid[u.Uuid] = u
	}

	result := make([]MemberUser, 0, len(members))
	for _, m := range members {
		u, ok := byUuid[m.UserUuid]
		if !ok {
			// 用户记录缺失时跳过该成员，昵称等只是展示装饰，不构成硬错误
			continue
		}
		result = append(result, MemberUser{Member: m, User: u})
	}
	return result, nil
}

// IsMember 判断用户是否为房间成员
func (r *roomMemberRepository) IsMember(roomUuid, userUuid string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.RoomMember{}).
		Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).
		Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "查询成员资格 room=%s user=%s", roomUuid, userUuid)
	}
	return count > 0, nil
}
