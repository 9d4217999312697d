package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"staync_chat_server/internal/dao/mysql/repository"
	"staync_chat_server/internal/infrastructure/llm"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/realtime"
	"staync_chat_server/pkg/errorx"
)

// scriptedStreamer 按脚本输出增量，可在流末尾注入错误
type scriptedStreamer struct {
	chunks []string
	err    error
	gotReq llm.CompletionRequest
}

func (s *scriptedStreamer) Stream(ctx context.Context, req llm.CompletionRequest) (<-chan string, <-chan error) {
	s.gotReq = req
	chunks := make(chan string, len(s.chunks)+1)
	errs := make(chan error, 1)
	for _, c := range s.chunks {
		chunks <- c
	}
	close(chunks)
	if s.err != nil {
		errs <- s.err
	}
	close(errs)
	return chunks, errs
}

// recordedEvent 一次事件发布记录
type recordedEvent struct {
	channel string
	event   string
	payload any
}

// recordingPublisher 记录所有发布的事件
type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	p.events = append(p.events, recordedEvent{channel: channel, event: event, payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byEvent(event string) []recordedEvent {
	var out []recordedEvent
	for _, e := range p.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

// stubRoomRepo 记录 Touch 调用
type stubRoomRepo struct {
	touched []string
}

func (s *stubRoomRepo) FindByUuid(uuid string) (*model.Room, error) {
	return nil, errorx.New(errorx.CodeNotFound, "not found")
}
func (s *stubRoomRepo) FindByUserUuid(userUuid string) ([]model.Room, error) { return nil, nil }
func (s *stubRoomRepo) FindDirectRoomByMembers(userOneUuid, userTwoUuid string) (*model.Room, error) {
	return nil, errorx.New(errorx.CodeNotFound, "not found")
}
func (s *stubRoomRepo) CreateWithMembers(room *model.Room, members []model.RoomMember) error {
	return nil
}
func (s *stubRoomRepo) Touch(uuid string) error {
	s.touched = append(s.touched, uuid)
	return nil
}

// fakeCache 同步执行异步任务，记录删除的键
type fakeCache struct {
	deleted []string
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (f *fakeCache) Get(ctx context.Context, key string) (string, error)                 { return "", nil }
func (f *fakeCache) GetOrError(ctx context.Context, key string) (string, error) {
	return "", errorx.New(errorx.CodeCacheError, "miss")
}
func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	return nil
}
func (f *fakeCache) SubmitTask(action func()) { action() }

func advisorRoomMembers() []repository.MemberUser {
	return []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("ai-japan", "ai-japan@staync.com"),
	}
}

func newTestDispatcher(members []repository.MemberUser, recent []model.Message, streamer llm.Streamer) (*Dispatcher, *recordingPublisher, *stubMessageRepo, *stubRoomRepo) {
	memberRepo := &stubMemberRepo{members: members}
	messageRepo := &stubMessageRepo{recent: recent}
	roomRepo := &stubRoomRepo{}
	publisher := &recordingPublisher{}
	d := NewDispatcher(
		NewGuard(memberRepo),
		NewContextLoader(messageRepo, 15),
		streamer,
		publisher,
		messageRepo,
		roomRepo,
		&fakeCache{},
		NewPacerWith(0, 0, 0, func(time.Duration) {}),
	)
	return d, publisher, messageRepo, roomRepo
}

func TestRunTurnStreamsTwoBubbles(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"Hel", "lo!\n---\nSecon", "d part"}}
	recent := []model.Message{{SenderId: "user-1", Content: "plan a trip"}}
	d, publisher, messageRepo, roomRepo := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}

	// 两个气泡各入库一条 assistant 消息，顺序与生成一致
	if len(messageRepo.created) != 2 {
		t.Fatalf("created = %d, want 2", len(messageRepo.created))
	}
	if messageRepo.created[0].Content != "Hello!" || messageRepo.created[1].Content != "Second part" {
		t.Errorf("bubbles = %q, %q", messageRepo.created[0].Content, messageRepo.created[1].Content)
	}
	for _, msg := range messageRepo.created {
		if msg.Role != model.MessageRoleAssistant {
			t.Errorf("role = %s, want assistant", msg.Role)
		}
		if msg.SenderId != "ai-japan" {
			t.Errorf("sender = %s, want ai-japan", msg.SenderId)
		}
	}

	// 正在输入：开 1 次、关 1 次，关必须发生在第一个流式事件之前
	typing := publisher.byEvent(realtime.EventUserTyping)
	if len(typing) != 2 {
		t.Fatalf("typing events = %d, want 2", len(typing))
	}
	if !typing[0].payload.(realtime.TypingPayload).IsTyping {
		t.Error("first typing event should be on")
	}
	if typing[1].payload.(realtime.TypingPayload).IsTyping {
		t.Error("second typing event should be off")
	}
	offSeen := false
	for _, e := range publisher.events {
		if e.event == realtime.EventUserTyping {
			if p := e.payload.(realtime.TypingPayload); !p.IsTyping {
				offSeen = true
			}
		}
		if e.event == realtime.EventAIStreaming && !offSeen {
			t.Fatal("streaming event before typing off")
		}
	}

	// 流式事件：气泡 0 的所有事件先于气泡 1，内容单调增长
	streaming := publisher.byEvent(realtime.EventAIStreaming)
	if len(streaming) == 0 {
		t.Fatal("no streaming events")
	}
	turnId := strings.TrimSuffix(streaming[0].payload.(realtime.StreamingPayload).Id, "-0")
	seenSecond := false
	prevLen := map[string]int{}
	for _, e := range streaming {
		p := e.payload.(realtime.StreamingPayload)
		switch p.Id {
		case BubbleId(turnId, 0):
			if seenSecond {
				t.Fatal("bubble 0 event after bubble 1 started")
			}
		case BubbleId(turnId, 1):
			seenSecond = true
		default:
			t.Fatalf("unexpected bubble id %s", p.Id)
		}
		if len(p.Content) < prevLen[p.Id] {
			t.Errorf("content shrank for %s", p.Id)
		}
		prevLen[p.Id] = len(p.Content)
	}
	last0 := publisher.lastStreaming(t, BubbleId(turnId, 0))
	if last0 != "Hello!" {
		t.Errorf("bubble 0 final content = %q", last0)
	}
	last1 := publisher.lastStreaming(t, BubbleId(turnId, 1))
	if last1 != "Second part" {
		t.Errorf("bubble 1 final content = %q", last1)
	}

	// 每个气泡一条 new-message 广播
	newMessages := publisher.byEvent(realtime.EventNewMessage)
	if len(newMessages) != 2 {
		t.Fatalf("new-message events = %d, want 2", len(newMessages))
	}

	if len(roomRepo.touched) != 1 {
		t.Errorf("room touched %d times, want 1", len(roomRepo.touched))
	}
}

func (p *recordingPublisher) lastStreaming(t *testing.T, bubbleId string) string {
	t.Helper()
	last := ""
	for _, e := range p.byEvent(realtime.EventAIStreaming) {
		payload := e.payload.(realtime.StreamingPayload)
		if payload.Id == bubbleId {
			last = payload.Content
		}
	}
	return last
}

func TestRunTurnIdsDistinctAcrossTurns(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"hi"}}
	recent := []model.Message{{SenderId: "user-1", Content: "hello"}}
	d, publisher, _, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	for i := 0; i < 2; i++ {
		if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
			t.Fatalf("RunTurn #%d error: %v", i, err)
		}
	}

	// 背靠背两轮回复的气泡 ID 不得相同，否则下游按 ID 去重会把两轮合并
	ids := map[string]bool{}
	for _, e := range publisher.byEvent(realtime.EventAIStreaming) {
		ids[e.payload.(realtime.StreamingPayload).Id] = true
	}
	if len(ids) != 2 {
		t.Errorf("distinct bubble ids = %d, want 2", len(ids))
	}
}

func TestRunTurnPersistsPartialOnStreamError(t *testing.T) {
	streamErr := errorx.New(errorx.CodeLLMError, "upstream reset")
	streamer := &scriptedStreamer{chunks: []string{"Partial ans"}, err: streamErr}
	recent := []model.Message{{SenderId: "user-1", Content: "hi"}}
	d, publisher, messageRepo, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	err := d.RunTurn(context.Background(), "room-1", "user-1", nil)
	if !errors.Is(err, streamErr) {
		t.Fatalf("err = %v, want %v", err, streamErr)
	}

	// 已到达的内容保留为气泡
	if len(messageRepo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(messageRepo.created))
	}
	if messageRepo.created[0].Content != "Partial ans" {
		t.Errorf("content = %q", messageRepo.created[0].Content)
	}

	// 正在输入指示不能悬挂
	typing := publisher.byEvent(realtime.EventUserTyping)
	offCount := 0
	for _, e := range typing {
		if !e.payload.(realtime.TypingPayload).IsTyping {
			offCount++
		}
	}
	if offCount != 1 {
		t.Errorf("typing off count = %d, want 1", offCount)
	}
}

func TestRunTurnClearsTypingWhenNothingStreamed(t *testing.T) {
	streamErr := errorx.New(errorx.CodeLLMError, "api error")
	streamer := &scriptedStreamer{err: streamErr}
	recent := []model.Message{{SenderId: "user-1", Content: "hi"}}
	d, publisher, messageRepo, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(messageRepo.created) != 0 {
		t.Errorf("created = %d, want 0", len(messageRepo.created))
	}
	if len(publisher.byEvent(realtime.EventAIStreaming)) != 0 {
		t.Error("no streaming events expected")
	}
	typing := publisher.byEvent(realtime.EventUserTyping)
	if len(typing) != 2 {
		t.Fatalf("typing events = %d, want 2", len(typing))
	}
	if typing[1].payload.(realtime.TypingPayload).IsTyping {
		t.Error("last typing event should be off")
	}
}

func TestRunTurnSkipsRoomWithoutAdvisor(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"should not run"}}
	members := []repository.MemberUser{
		memberUser("user-1", "someone@example.com"),
		memberUser("user-2", "other@example.com"),
	}
	d, publisher, messageRepo, _ := newTestDispatcher(members, nil, streamer)

	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Errorf("events = %d, want 0", len(publisher.events))
	}
	if len(messageRepo.created) != 0 {
		t.Errorf("created = %d, want 0", len(messageRepo.created))
	}
}

func TestRunTurnSkipsAdvisorOwnMessage(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"should not run"}}
	d, publisher, messageRepo, _ := newTestDispatcher(advisorRoomMembers(), nil, streamer)

	if err := d.RunTurn(context.Background(), "room-1", "ai-japan", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Errorf("events = %d, want 0", len(publisher.events))
	}
	if len(messageRepo.created) != 0 {
		t.Errorf("created = %d, want 0", len(messageRepo.created))
	}
}

func TestRunTurnBuildsRequestFromHistoryAndPersona(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"ok"}}
	recent := []model.Message{
		{SenderId: "ai-japan", Content: "reply"},
		{SenderId: "user-1", Content: "question"},
	}
	d, _, _, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}

	req := streamer.gotReq
	if !strings.Contains(req.SystemInstruction, "You are Yuki") {
		t.Error("system instruction should embed the advisor persona")
	}
	if len(req.Turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(req.Turns))
	}
	if req.Turns[0].Role != llm.RoleUser || req.Turns[0].Content != "question" {
		t.Errorf("turns[0] = %+v", req.Turns[0])
	}
	if req.Turns[1].Role != llm.RoleAssistant || req.Turns[1].Content != "reply" {
		t.Errorf("turns[1] = %+v", req.Turns[1])
	}
}

func TestRunTurnForwardsEventsToObserver(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"Hi\n---\nBye"}}
	recent := []model.Message{{SenderId: "user-1", Content: "hello"}}
	d, _, _, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	var observed []string
	observer := func(event string, payload any) error {
		observed = append(observed, event)
		return nil
	}
	if err := d.RunTurn(context.Background(), "room-1", "user-1", observer); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}

	if len(observed) == 0 {
		t.Fatal("observer received no events")
	}
	if observed[0] != realtime.EventUserTyping {
		t.Errorf("first observed = %s", observed[0])
	}
	hasStreaming, hasNewMessage := false, false
	for _, e := range observed {
		if e == realtime.EventAIStreaming {
			hasStreaming = true
		}
		if e == realtime.EventNewMessage {
			hasNewMessage = true
		}
	}
	if !hasStreaming || !hasNewMessage {
		t.Errorf("observer missing events: streaming=%v newMessage=%v", hasStreaming, hasNewMessage)
	}
}

func TestRunTurnIsolatesBubblePersistFailure(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{"one\n---\ntwo\n---\nthree"}}
	recent := []model.Message{{SenderId: "user-1", Content: "hello"}}
	d, publisher, messageRepo, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)
	messageRepo.saveErr = errorx.New(errorx.CodeDBError, "insert failed")
	messageRepo.failCall = 2 // 只有中间气泡入库失败

	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}

	// 中间气泡失败不阻断后续气泡，前后两泡按序入库
	if len(messageRepo.created) != 2 {
		t.Fatalf("created = %d, want 2", len(messageRepo.created))
	}
	if messageRepo.created[0].Content != "one" || messageRepo.created[1].Content != "three" {
		t.Errorf("persisted = %q, %q", messageRepo.created[0].Content, messageRepo.created[1].Content)
	}

	// 入库失败的气泡不广播，数据库行是唯一事实来源
	newMessages := publisher.byEvent(realtime.EventNewMessage)
	if len(newMessages) != 2 {
		t.Fatalf("new-message events = %d, want 2", len(newMessages))
	}
	for _, e := range newMessages {
		if e.payload.(realtime.NewMessagePayload).Content == "two" {
			t.Error("failed bubble should not be broadcast")
		}
	}

	// 气泡序号照常推进，流式事件覆盖三个泡
	streaming := publisher.byEvent(realtime.EventAIStreaming)
	turnId := strings.TrimSuffix(streaming[0].payload.(realtime.StreamingPayload).Id, "-0")
	if got := publisher.lastStreaming(t, BubbleId(turnId, 2)); got != "three" {
		t.Errorf("bubble 2 final content = %q", got)
	}

	// 正在输入指示仍然只关一次
	offCount := 0
	for _, e := range publisher.byEvent(realtime.EventUserTyping) {
		if !e.payload.(realtime.TypingPayload).IsTyping {
			offCount++
		}
	}
	if offCount != 1 {
		t.Errorf("typing off count = %d, want 1", offCount)
	}
}

// hookStreamer 在发起补全前执行回调，用于在一轮回复进行中再触发一轮
type hookStreamer struct {
	inner *scriptedStreamer
	hook  func()
}

func (h *hookStreamer) Stream(ctx context.Context, req llm.CompletionRequest) (<-chan string, <-chan error) {
	if h.hook != nil {
		h.hook()
	}
	return h.inner.Stream(ctx, req)
}

func TestRunTurnSkipsOverlappingTurnInSameRoom(t *testing.T) {
	streamer := &hookStreamer{inner: &scriptedStreamer{chunks: []string{"answer"}}}
	recent := []model.Message{{SenderId: "user-1", Content: "hello"}}
	d, publisher, messageRepo, _ := newTestDispatcher(advisorRoomMembers(), recent, streamer)

	streamer.hook = func() {
		// 同房间已有进行中的回复，这一轮必须静默跳过
		if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
			t.Errorf("nested RunTurn error: %v", err)
		}
	}
	if err := d.RunTurn(context.Background(), "room-1", "user-1", nil); err != nil {
		t.Fatalf("RunTurn error: %v", err)
	}

	// 只有外层一轮产生事件与入库
	typing := publisher.byEvent(realtime.EventUserTyping)
	if len(typing) != 2 {
		t.Errorf("typing events = %d, want 2", len(typing))
	}
	if len(messageRepo.created) != 1 {
		t.Errorf("created = %d, want 1", len(messageRepo.created))
	}
}
