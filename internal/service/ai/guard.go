// Package ai 实现 AI 顾问回复的编排流水线
// guard.go
// 核心职责：回复前置判定
// 1. 在房间成员中定位 AI 顾问（以人设注册表命中为准）
// 2. 发送者本身是 AI 时跳过，防止自回复死循环
package ai

import (
	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/service/persona"

	"go.uber.org/zap"
)

// GuardDecision 判定结果：该房间应由哪位顾问回复
type GuardDecision struct {
	Advisor *persona.Advisor
	AIUser  *model.User
}

// Guard AI 回复判定器
type Guard struct {
	memberRepo repository.RoomMemberRepository
}

// NewGuard 创建判定器
func NewGuard(memberRepo repository.RoomMemberRepository) *Guard {
	return &Guard{memberRepo: memberRepo}
}

// Decide 判定房间是否需要 AI 回复
// 返回 ok=false 表示本次静默跳过（普通房间或 AI 自己发的消息），
// 错误仅在成员查询失败时返回
func (g *Guard) Decide(roomUuid, senderUuid string) (*GuardDecision, bool, error) {
	members, err := g.memberRepo.FindMembersWithUsers(roomUuid)
	if err != nil {
		return nil, false, err
	}

	for _, mu := range members {
		advisor := persona.ByEmail(mu.User.Email)
		if advisor == nil {
			continue
		}
		if mu.User.Uuid == senderUuid {
			// 顾问自己发的消息不触发回复
			zap.L().Debug("发送者为 AI 顾问，跳过回复",
				zap.String("room_uuid", roomUuid),
				zap.String("advisor_id", advisor.Id))
			return nil, false, nil
		}
		user := mu.User
		return &GuardDecision{Advisor: advisor, AIUser: &user}, true, nil
	}

	zap.L().Debug("房间内无 AI 顾问，跳过回复", zap.String("room_uuid", roomUuid))
	return nil, false, nil
}
