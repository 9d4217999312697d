package repository

import (
	"staync_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindByRoomUuid 按房间查找全部消息，时间升序
func (r *messageRepository) FindByRoomUuid(roomUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("room_uuid = ?", roomUuid).
		Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 room=%s", roomUuid)
	}
	return messages, nil
}

// FindRecentByRoom 按房间查找最近 limit 条消息，时间降序
// 调用方负责反转为时间升序后再投喂补全接口
func (r *messageRepository) FindRecentByRoom(roomUuid string, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("room_uuid = ?", roomUuid).
		Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最近消息 room=%s limit=%d", roomUuid, limit)
	}
	return messages, nil
}

// FindLastByRoom 查找房间最新一条消息
func (r *messageRepository) FindLastByRoom(roomUuid string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("room_uuid = ?", roomUuid).
		Order("created_at DESC, id DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 room=%s", roomUuid)
	}
	return &message, nil
}

// MarkReadByRoom 把房间内他人发来的未读消息批量置为已读
// 返回影响行数，0 行时调用方不应广播已读回执
func (r *messageRepository) MarkReadByRoom(roomUuid, readerUuid string) (int64, error) {
	res := r.db.Model(&model.Message{}).
		Where("room_uuid = ? AND sender_id <> ? AND `read` = ?", roomUuid, readerUuid, false).
		Update("read", true)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "批量已读 room=%s reader=%s", roomUuid, readerUuid)
	}
	return res.RowsAffected, nil
}
