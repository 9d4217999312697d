package ai

import (
	"testing"

	"staync_chat_server/internal/infrastructure/llm"
	"staync_chat_server/internal/model"
	"staync_chat_server/pkg/errorx"
)

// stubMessageRepo 预设最近消息（倒序），并记录入库的消息
// failCall 非零时只有第 failCall 次 Create 返回 saveErr
type stubMessageRepo struct {
	recent      []model.Message
	created     []*model.Message
	findErr     error
	saveErr     error
	failCall    int
	createCalls int
}

func (s *stubMessageRepo) Create(message *model.Message) error {
	s.createCalls++
	if s.saveErr != nil && (s.failCall == 0 || s.failCall == s.createCalls) {
		return s.saveErr
	}
	s.created = append(s.created, message)
	return nil
}

func (s *stubMessageRepo) FindByRoomUuid(roomUuid string) ([]model.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) FindRecentByRoom(roomUuid string, limit int) ([]model.Message, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *stubMessageRepo) FindLastByRoom(roomUuid string) (*model.Message, error) {
	return nil, errorx.New(errorx.CodeNotFound, "not found")
}

func (s *stubMessageRepo) MarkReadByRoom(roomUuid, readerUuid string) (int64, error) {
	return 0, nil
}

func TestContextLoaderReversesAndMapsRoles(t *testing.T) {
	// 仓库返回倒序：最新的在前
	repo := &stubMessageRepo{recent: []model.Message{
		{SenderId: "user-1", Content: "третий"},
		{SenderId: "ai-japan", Content: "second"},
		{SenderId: "user-1", Content: "first"},
	}}
	loader := NewContextLoader(repo, 15)

	turns, err := loader.Load("room-1", "ai-japan")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	want := []llm.Turn{
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleAssistant, Content: "second"},
		{Role: llm.RoleUser, Content: "третий"},
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turns[%d] = %+v, want %+v", i, turns[i], want[i])
		}
	}
}

func TestContextLoaderSkipsEmptyContent(t *testing.T) {
	repo := &stubMessageRepo{recent: []model.Message{
		{SenderId: "user-1", Content: "hello"},
		{SenderId: "user-1", Content: ""},
	}}
	loader := NewContextLoader(repo, 15)

	turns, err := loader.Load("room-1", "ai-japan")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("len = %d, want 1", len(turns))
	}
	if turns[0].Content != "hello" {
		t.Errorf("content = %q", turns[0].Content)
	}
}

func TestContextLoaderHonorsLimit(t *testing.T) {
	recent := make([]model.Message, 20)
	for i := range recent {
		recent[i] = model.Message{SenderId: "user-1", Content: "m"}
	}
	repo := &stubMessageRepo{recent: recent}
	loader := NewContextLoader(repo, 15)

	turns, err := loader.Load("room-1", "ai-japan")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(turns) != 15 {
		t.Errorf("len = %d, want 15", len(turns))
	}
}
