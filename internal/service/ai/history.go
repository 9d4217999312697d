// history.go
// 核心职责：加载房间近期消息作为补全上下文
// 按时间倒序取最近 N 条再反转为正序，角色按发送者归属映射
package ai

import (
	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/infrastructure/llm"
)

// ContextLoader 对话上下文加载器
type ContextLoader struct {
	messageRepo repository.MessageRepository
	limit       int
}

// NewContextLoader 创建上下文加载器
func NewContextLoader(messageRepo repository.MessageRepository, limit int) *ContextLoader {
	return &ContextLoader{messageRepo: messageRepo, limit: limit}
}

// Load 加载房间最近消息并映射为补全轮次
// 顾问发出的消息（含系统开场白）映射为 assistant，其余映射为 user
func (l *ContextLoader) Load(roomUuid, aiUserUuid string) ([]llm.Turn, error) {
	recent, err := l.messageRepo.FindRecentByRoom(roomUuid, l.limit)
	if err != nil {
		return nil, err
	}

	// FindRecentByRoom 返回倒序，这里反转为时间正序
	turns := make([]llm.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		msg := recent[i]
		if msg.Content == "" {
			continue
		}
		role := llm.RoleUser
		if msg.SenderId == aiUserUuid {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Turn{Role: role, Content: msg.Content})
	}
	return turns, nil
}
