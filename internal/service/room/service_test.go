package room

import (
	"testing"

	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/service/persona"
	"staync_chat_server/pkg/errorx"
)

// stubUserRepo 以邮箱为主索引的内存用户表
type stubUserRepo struct {
	byEmail       map[string]*model.User
	created       []*model.User
	statusUpdates map[string]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:       map[string]*model.User{},
		statusUpdates: map[string]string{},
	}
}

func (s *stubUserRepo) FindByUuid(uuid string) (*model.User, error) {
	for _, u := range s.byEmail {
		if u.Uuid == uuid {
			return u, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "not found")
}

func (s *stubUserRepo) FindByEmail(email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "not found")
}

func (s *stubUserRepo) Create(user *model.User) error {
	s.created = append(s.created, user)
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubUserRepo) UpdateStatus(uuid string, status string) error {
	s.statusUpdates[uuid] = status
	return nil
}

func TestEnsureAdvisorUsersCreatesMissingAccounts(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewRoomService(&repository.Repositories{User: userRepo}, nil)

	if err := svc.EnsureAdvisorUsers(); err != nil {
		t.Fatalf("EnsureAdvisorUsers error: %v", err)
	}

	advisors := persona.All()
	if len(userRepo.created) != len(advisors) {
		t.Fatalf("created = %d, want %d", len(userRepo.created), len(advisors))
	}
	for _, advisor := range advisors {
		user, ok := userRepo.byEmail[advisor.Email]
		if !ok {
			t.Fatalf("advisor %s missing from user table", advisor.Id)
		}
		if user.Uuid != advisor.Id || user.Status != model.UserStatusOnline {
			t.Errorf("advisor row = %+v", user)
		}
	}
}

func TestEnsureAdvisorUsersRepairsOfflineStatus(t *testing.T) {
	userRepo := newStubUserRepo()
	for _, advisor := range persona.All() {
		userRepo.byEmail[advisor.Email] = &model.User{
			Uuid:   advisor.Id,
			Email:  advisor.Email,
			Status: model.UserStatusOnline,
		}
	}
	// 一名顾问被历史数据标成了离线
	userRepo.byEmail["ai-japan@staync.com"].Status = model.UserStatusOffline

	svc := NewRoomService(&repository.Repositories{User: userRepo}, nil)
	if err := svc.EnsureAdvisorUsers(); err != nil {
		t.Fatalf("EnsureAdvisorUsers error: %v", err)
	}

	if len(userRepo.created) != 0 {
		t.Errorf("created = %d, want 0", len(userRepo.created))
	}
	if got := userRepo.statusUpdates["ai-japan"]; got != model.UserStatusOnline {
		t.Errorf("status update = %q, want ONLINE", got)
	}
	if len(userRepo.statusUpdates) != 1 {
		t.Errorf("status updates = %d, want 1", len(userRepo.statusUpdates))
	}
}
