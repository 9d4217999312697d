package repository

import (
	"time"

	"staync_chat_server/internal/model"

	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间 Repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// FindByUuid 根据 UUID 查找房间
func (r *roomRepository) FindByUuid(uuid string) (*model.Room, error) {
	var room model.Room
	if err := r.db.Where("uuid = ?", uuid).First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 uuid=%s", uuid)
	}
	return &room, nil
}

// FindByUserUuid 查找用户所在的全部房间，按新近度倒序
func (r *roomRepository) FindByUserUuid(userUuid string) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.
		Joins("JOIN room_member ON room_member.room_uuid = room.uuid").
		Where("room_member.user_uuid = ? AND room_member.deleted_at IS NULL", userUuid).
		Order("room.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户房间列表 user=%s", userUuid)
	}
	return rooms, nil
}

// FindDirectRoomByMembers 查找两名用户共同所在的 DIRECT 房间
// 找不到时返回 CodeNotFound 错误
func (r *roomRepository) FindDirectRoomByMembers(userOneUuid, userTwoUuid string) (*model.Room, error) {
	var room model.Room
	err := r.db.
		Joins("JOIN room_member m1 ON m1.room_uuid = room.uuid AND m1.user_uuid = ?", userOneUuid).
		Joins("JOIN room_member m2 ON m2.room_uuid = room.uuid AND m2.user_uuid = ?", userTwoUuid).
		Where("room.type = ?", model.RoomTypeDirect).
		First(&room).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询 DIRECT 房间 user1=%s user2=%s", userOneUuid, userTwoUuid)
	}
	return &room, nil
}

// CreateWithMembers 在一个事务内创建房间及其成员
// 保证房间与成员关系的原子性，避免出现无成员的孤儿房间
func (r *roomRepository) CreateWithMembers(room *model.Room, members []model.RoomMember) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].RoomUuid = room.Uuid
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return wrapDBError(err, "创建房间")
	}
	return nil
}

// Touch 触碰房间新近度游标
func (r *roomRepository) Touch(uuid string) error {
	if err := r.db.Model(&model.Room{}).Where("uuid = ?", uuid).
		Update("updated_at", time.Now()).Error; err != nil {
		return wrapDBErrorf(err, "更新房间新近度 uuid=%s", uuid)
	}
	return nil
}
