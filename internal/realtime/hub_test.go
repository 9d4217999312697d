package realtime

import (
	"context"
	"testing"
	"time"

	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/model"
)

// emptyMemberRepo 无成员的房间仓库
type emptyMemberRepo struct{}

func (emptyMemberRepo) FindByRoomUuid(roomUuid string) ([]model.RoomMember, error) {
	return nil, nil
}

func (emptyMemberRepo) FindMembersWithUsers(roomUuid string) ([]repository.MemberUser, error) {
	return nil, nil
}

func (emptyMemberRepo) IsMember(roomUuid, userUuid string) (bool, error) {
	return false, nil
}

func TestHubPublishAfterCloseIsDropped(t *testing.T) {
	hub := NewHub(emptyMemberRepo{})
	go hub.Start()

	if err := hub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// 与停机赛跑的发布必须被丢弃而不是 panic 或阻塞
	done := make(chan error, 1)
	go func() {
		done <- hub.Publish(context.Background(), RoomChannel("room-1"), EventNewMessage, NewMessagePayload{Id: "1"})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Publish after close = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after close")
	}
}

func TestHubCloseIsIdempotent(t *testing.T) {
	hub := NewHub(emptyMemberRepo{})
	if err := hub.Close(); err != nil {
		t.Fatalf("first Close error: %v", err)
	}
	if err := hub.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
	// 停机后注册/注销直接返回，不阻塞调用方
	hub.RegisterClient(nil)
	hub.UnregisterClient(nil)
}
