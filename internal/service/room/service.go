// Package room 实现房间业务逻辑
// service.go
// 核心职责：与 AI 顾问的单聊房间管理
// 1. 建房幂等：同一用户与同一顾问只会有一个 DIRECT 房间
// 2. 顾问账号自愈：建房时顾问在 user 表缺失则现场补建
// 3. 新房间以顾问开场白落一条系统消息
package room

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staync_chat_server/internal/dao/mysql/repository"
	myredis "staync_chat_server/internal/dao/redis"
	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/dto/respond"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/service/persona"
	"staync_chat_server/pkg/constants"
	"staync_chat_server/pkg/errorx"
	"staync_chat_server/pkg/util/snowflake"
)

// roomService 房间业务逻辑实现
type roomService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewRoomService 构造函数
func NewRoomService(repos *repository.Repositories, cache myredis.AsyncCacheService) *roomService {
	return &roomService{repos: repos, cache: cache}
}

// EnsureAdvisorUsers 补齐全部顾问在 user 表中的账号
// 服务启动时调用一次，缺失的顾问账号现场创建
func (r *roomService) EnsureAdvisorUsers() error {
	for _, advisor := range persona.All() {
		if _, err := r.ensureAdvisorUser(&advisor); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdvisorUser 查找顾问账号，缺失时自愈创建
func (r *roomService) ensureAdvisorUser(advisor *persona.Advisor) (*model.User, error) {
	user, err := r.repos.User.FindByEmail(advisor.Email)
	if err == nil {
		// 顾问账号常驻在线，历史数据里的离线状态在这里纠正
		if user.Status != model.UserStatusOnline {
			if err := r.repos.User.UpdateStatus(user.Uuid, model.UserStatusOnline); err != nil {
				return nil, err
			}
			user.Status = model.UserStatusOnline
		}
		return user, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	user = &model.User{
		Uuid:      advisor.Id,
		Email:     advisor.Email,
		Nickname:  advisor.Name,
		AvatarUrl: advisor.AvatarUrl,
		Status:    model.UserStatusOnline,
	}
	if err := r.repos.User.Create(user); err != nil {
		return nil, err
	}
	zap.L().Info("已创建顾问账号",
		zap.String("advisor_id", advisor.Id),
		zap.String("email", advisor.Email))
	return user, nil
}

// CreateDirectRoom 创建与 AI 顾问的单聊房间
// 已存在房间时直接返回，不重复建房、不重复落开场白
func (r *roomService) CreateDirectRoom(req request.CreateRoomRequest) (*respond.RoomRespond, error) {
	advisorId := req.AdvisorId
	if advisorId == "" {
		advisorId = persona.DefaultAdvisorId
	}
	advisor := persona.ById(advisorId)
	if advisor == nil {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的顾问: %s", advisorId)
	}

	owner, err := r.repos.User.FindByUuid(req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}

	aiUser, err := r.ensureAdvisorUser(advisor)
	if err != nil {
		return nil, err
	}

	// 幂等：已有共同 DIRECT 房间直接返回
	existing, err := r.repos.Room.FindDirectRoomByMembers(owner.Uuid, aiUser.Uuid)
	if err == nil {
		return r.toRoomRespond(existing, owner.Uuid)
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	newRoom := &model.Room{
		Uuid: uuid.NewString(),
		Name: advisor.Name,
		Type: model.RoomTypeDirect,
	}
	members := []model.RoomMember{
		{RoomUuid: newRoom.Uuid, UserUuid: owner.Uuid, Role: model.MemberRoleOwner},
		{RoomUuid: newRoom.Uuid, UserUuid: aiUser.Uuid, Role: model.MemberRoleMember},
	}
	if err := r.repos.Room.CreateWithMembers(newRoom, members); err != nil {
		return nil, err
	}

	// 开场白，以顾问身份落一条系统消息
	greeting := &model.Message{
		Uuid:     snowflake.GenerateID(),
		RoomUuid: newRoom.Uuid,
		SenderId: aiUser.Uuid,
		Content:  advisor.Greeting,
		Type:     model.MessageTypeSystem,
		Role:     model.MessageRoleAssistant,
	}
	if err := r.repos.Message.Create(greeting); err != nil {
		zap.L().Warn("开场白入库失败",
			zap.String("room_uuid", newRoom.Uuid), zap.Error(err))
	}

	r.cache.SubmitTask(func() {
		if err := r.cache.Delete(context.Background(), myredis.RoomListKey(owner.Uuid)); err != nil {
			zap.L().Warn("失效房间列表缓存失败", zap.Error(err))
		}
	})

	zap.L().Info("已创建单聊房间",
		zap.String("room_uuid", newRoom.Uuid),
		zap.String("user_uuid", owner.Uuid),
		zap.String("advisor_id", advisor.Id))
	return r.toRoomRespond(newRoom, owner.Uuid)
}

// GetRoomList 获取用户的房间列表，按最近活跃倒序
func (r *roomService) GetRoomList(userId string) ([]respond.RoomRespond, error) {
	cacheKey := myredis.RoomListKey(userId)
	if cached, err := r.cache.GetOrError(context.Background(), cacheKey); err == nil {
		var rsp []respond.RoomRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
		zap.L().Error("房间列表缓存解析失败", zap.Error(err))
	}

	rooms, err := r.repos.Room.FindByUserUuid(userId)
	if err != nil {
		zap.L().Error("查询用户房间失败",
			zap.String("user_uuid", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rspList := make([]respond.RoomRespond, 0, len(rooms))
	for i := range rooms {
		rsp, err := r.toRoomRespond(&rooms[i], userId)
		if err != nil {
			zap.L().Warn("房间信息组装失败",
				zap.String("room_uuid", rooms[i].Uuid), zap.Error(err))
			continue
		}
		rspList = append(rspList, *rsp)
	}

	// 更新缓存
	r.cache.SubmitTask(func() {
		jsonBytes, err := json.Marshal(rspList)
		if err != nil {
			zap.L().Error("房间列表序列化失败", zap.Error(err))
			return
		}
		if err := r.cache.Set(context.Background(), cacheKey, string(jsonBytes), time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
			zap.L().Error("房间列表写缓存失败", zap.Error(err))
		}
	})

	return rspList, nil
}

// ListAdvisors 列出全部 AI 顾问
func (r *roomService) ListAdvisors() []respond.AdvisorRespond {
	advisors := persona.All()
	rspList := make([]respond.AdvisorRespond, 0, len(advisors))
	for _, a := range advisors {
		rspList = append(rspList, toAdvisorRespond(&a))
	}
	return rspList
}

// toRoomRespond 组装房间列表项：对端成员、顾问信息、最新消息预览
func (r *roomService) toRoomRespond(room *model.Room, viewerUuid string) (*respond.RoomRespond, error) {
	members, err := r.repos.RoomMember.FindMembersWithUsers(room.Uuid)
	if err != nil {
		return nil, err
	}

	rsp := &respond.RoomRespond{
		RoomId:      room.Uuid,
		Title:       room.Name,
		Type:        room.Type,
		UpdatedAt:   room.UpdatedAt.Format(time.RFC3339),
		MemberCount: len(members),
	}

	for _, mu := range members {
		if mu.User.Uuid == viewerUuid {
			continue
		}
		if rsp.Title == "" {
			rsp.Title = mu.User.Nickname
		}
		if rsp.Image == "" {
			rsp.Image = mu.User.AvatarUrl
		}
		if advisor := persona.ByEmail(mu.User.Email); advisor != nil && rsp.Advisor == nil {
			advisorRsp := toAdvisorRespond(advisor)
			rsp.Advisor = &advisorRsp
		}
	}

	last, err := r.repos.Message.FindLastByRoom(room.Uuid)
	if err == nil {
		rsp.LastMessage = last.Content
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}
	return rsp, nil
}

// toAdvisorRespond 人设转响应
func toAdvisorRespond(a *persona.Advisor) respond.AdvisorRespond {
	return respond.AdvisorRespond{
		Id:          a.Id,
		Name:        a.Name,
		Email:       a.Email,
		CountryCode: a.CountryCode,
		Flag:        a.Flag,
		AvatarUrl:   a.AvatarUrl,
		Greeting:    a.Greeting,
		Specialties: a.Specialties,
	}
}
