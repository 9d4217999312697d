package ai

import (
	"errors"
	"testing"

	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/model"
)

// stubMemberRepo 固定返回预设成员列表
type stubMemberRepo struct {
	members []repository.MemberUser
	err     error
}

func (s *stubMemberRepo) FindByRoomUuid(roomUuid string) ([]model.RoomMember, error) {
	out := make([]model.RoomMember, 0, len(s.members))
	for _, mu := range s.members {
		out = append(out, mu.Member)
	}
	return out, s.err
}

func (s *stubMemberRepo) FindMembersWithUsers(roomUuid string) ([]repository.MemberUser, error) {
	return s.members, s.err
}

func (s *stubMemberRepo) IsMember(roomUuid, userUuid string) (bool, error) {
	for _, mu := range s.members {
		if mu.User.Uuid == userUuid {
			return true, nil
		}
	}
	return false, s.err
}

func memberUser(uuid, email string) repository.MemberUser {
	return repository.MemberUser{
		Member: model.RoomMember{RoomUuid: "room-1", UserUuid: uuid},
		User:   model.User{Uuid: uuid, Email: email, Nickname: uuid},
	}
}

func TestGuardFindsAdvisor(t *testing.T) {
	repo := &stubMemberRepo{members: []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("ai-japan", "ai-japan@staync.com"),
	}}
	guard := NewGuard(repo)

	decision, ok, err := guard.Decide("room-1", "user-1")
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok")
	}
	if decision.Advisor.Id != "ai-japan" {
		t.Errorf("advisor = %s, want ai-japan", decision.Advisor.Id)
	}
	if decision.AIUser.Uuid != "ai-japan" {
		t.Errorf("ai user = %s", decision.AIUser.Uuid)
	}
}

func TestGuardSkipsRoomWithoutAdvisor(t *testing.T) {
	repo := &stubMemberRepo{members: []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("user-2", "other@example.com"),
	}}
	guard := NewGuard(repo)

	_, ok, err := guard.Decide("room-1", "user-1")
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if ok {
		t.Fatal("expected skip for room without advisor")
	}
}

func TestGuardSkipsAdvisorOwnMessage(t *testing.T) {
	repo := &stubMemberRepo{members: []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("ai-france", "ai-france@staync.com"),
	}}
	guard := NewGuard(repo)

	_, ok, err := guard.Decide("room-1", "ai-france")
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if ok {
		t.Fatal("expected skip when sender is the advisor")
	}
}

func TestGuardIgnoresLookalikeEmail(t *testing.T) {
	// 邮箱域名相同但不在注册表内的用户不是 AI 顾问
	repo := &stubMemberRepo{members: []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("user-2", "support@staync.com"),
	}}
	guard := NewGuard(repo)

	_, ok, err := guard.Decide("room-1", "user-1")
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if ok {
		t.Fatal("expected skip, registry lookup should not match unknown email")
	}
}

func TestGuardPropagatesRepoError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &stubMemberRepo{err: repoErr}
	guard := NewGuard(repo)

	_, ok, err := guard.Decide("room-1", "user-1")
	if ok {
		t.Fatal("expected not ok on repo error")
	}
	if !errors.Is(err, repoErr) {
		t.Errorf("err = %v, want %v", err, repoErr)
	}
}
