// dispatcher.go
// 核心职责：一轮 AI 回复的完整编排
// 判定 -> 正在输入 -> 加载上下文 -> 流式补全 -> 切泡逐字渲染 ->
// 逐泡入库与广播 -> 收尾
// 整个流程在后台协程执行，任何一步失败都不影响用户消息本身
package ai

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"staync_chat_server/internal/config"
	"staync_chat_server/internal/dao/mysql/repository"
	myredis "staync_chat_server/internal/dao/redis"
	"staync_chat_server/internal/infrastructure/llm"
	"staync_chat_server/internal/model"
	"staync_chat_server/internal/realtime"
	"staync_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// turnTimeout 单轮回复的总时限，含补全与逐字渲染
const turnTimeout = 3 * time.Minute

// TurnState 一轮回复的状态
type TurnState int32

const (
	TurnPending TurnState = iota
	TurnStreaming
	TurnCompleted
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnPending:
		return "pending"
	case TurnStreaming:
		return "streaming"
	case TurnCompleted:
		return "completed"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// turn 一轮回复的运行时记录
type turn struct {
	id       string
	roomUuid string
	state    atomic.Int32
}

func (t *turn) setState(s TurnState) {
	t.state.Store(int32(s))
}

func (t *turn) currentState() TurnState {
	return TurnState(t.state.Load())
}

// TurnObserver 观察一轮回复产生的事件流（供 SSE 同步模式使用）
// 返回错误表示观察者已断开，后续事件不再送达，本轮照常继续
type TurnObserver func(event string, payload any) error

// Dispatcher AI 回复调度器
type Dispatcher struct {
	guard       *Guard
	loader      *ContextLoader
	streamer    llm.Streamer
	publisher   realtime.EventPublisher
	messageRepo repository.MessageRepository
	roomRepo    repository.RoomRepository
	cache       myredis.AsyncCacheService
	pacer       *Pacer

	// active 进行中的回复轮次，Key 为房间 UUID
	// 同一房间同时只允许一轮回复，避免同频道上的气泡流交错
	active sync.Map
}

// NewDispatcher 创建调度器
func NewDispatcher(
	guard *Guard,
	loader *ContextLoader,
	streamer llm.Streamer,
	publisher realtime.EventPublisher,
	messageRepo repository.MessageRepository,
	roomRepo repository.RoomRepository,
	cache myredis.AsyncCacheService,
	pacer *Pacer,
) *Dispatcher {
	return &Dispatcher{
		guard:       guard,
		loader:      loader,
		streamer:    streamer,
		publisher:   publisher,
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		cache:       cache,
		pacer:       pacer,
	}
}

// HandleAIResponse 在后台触发一轮 AI 回复
// 用户消息的发送流程不等待本轮结果
func (d *Dispatcher) HandleAIResponse(roomUuid, senderUuid string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		if err := d.RunTurn(ctx, roomUuid, senderUuid, nil); err != nil {
			zap.L().Error("AI 回复处理失败",
				zap.String("room_uuid", roomUuid), zap.Error(err))
		}
	}()
}

// RunTurn 同步执行一轮 AI 回复
// observer 不为 nil 时，所有事件同时推送给观察者（SSE 模式）；
// 房间无顾问或发送者为顾问时静默返回 nil
func (d *Dispatcher) RunTurn(ctx context.Context, roomUuid, senderUuid string, observer TurnObserver) error {
	decision, ok, err := d.guard.Decide(roomUuid, senderUuid)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	advisor, aiUser := decision.Advisor, decision.AIUser

	t := &turn{
		id:       "ai-stream-" + snowflake.GenerateIDString(),
		roomUuid: roomUuid,
	}
	if _, loaded := d.active.LoadOrStore(roomUuid, t); loaded {
		zap.L().Info("房间已有进行中的回复，跳过本轮",
			zap.String("room_uuid", roomUuid))
		return nil
	}
	defer d.active.Delete(roomUuid)

	zap.L().Info("AI 回复开始",
		zap.String("turn_id", t.id),
		zap.String("room_uuid", roomUuid),
		zap.String("advisor_id", advisor.Id))

	r := &turnRenderer{
		d:        d,
		ctx:      ctx,
		observer: observer,
		channel:  realtime.RoomChannel(roomUuid),
		turn:     t,
		aiUser:   aiUser,
		sender:   realtime.Sender{Name: aiUser.Nickname, Image: aiUser.AvatarUrl},
	}

	// 正在输入指示，逐字渲染开始时自动关闭
	r.emit(realtime.EventUserTyping, realtime.TypingPayload{
		UserId:   aiUser.Uuid,
		UserName: aiUser.Nickname,
		IsTyping: true,
	})
	defer r.ensureTypingOff()

	turns, err := d.loader.Load(roomUuid, aiUser.Uuid)
	if err != nil {
		t.setState(TurnFailed)
		return err
	}

	llmConfig := config.GetConfig().LLMConfig
	req := llm.CompletionRequest{
		SystemInstruction: BuildInstruction(advisor),
		Turns:             turns,
		Temperature:       float32(llmConfig.Temperature),
		MaxOutputTokens:   int32(llmConfig.MaxOutputTokens),
	}

	t.setState(TurnStreaming)
	chunks, errs := d.streamer.Stream(ctx, req)
	for chunk := range chunks {
		r.feed(chunk)
	}
	streamErr := <-errs

	// 上游结束或出错后，把已到达的内容全部落泡
	r.finish()

	if r.persisted > 0 {
		if err := d.roomRepo.Touch(roomUuid); err != nil {
			zap.L().Warn("刷新房间活跃时间失败",
				zap.String("room_uuid", roomUuid), zap.Error(err))
		}
	}

	if streamErr != nil {
		t.setState(TurnFailed)
		zap.L().Error("AI 回复中断，已保留部分内容",
			zap.String("turn_id", t.id),
			zap.String("state", t.currentState().String()),
			zap.Int("bubbles", r.bubbleIndex),
			zap.Error(streamErr))
		return streamErr
	}

	t.setState(TurnCompleted)
	zap.L().Info("AI 回复完成",
		zap.String("turn_id", t.id),
		zap.String("state", t.currentState().String()),
		zap.Int("bubbles", r.bubbleIndex))
	return nil
}

// turnRenderer 一轮回复的流式渲染器
// 维护累计文本、已终结的段数和当前气泡的已发出内容
type turnRenderer struct {
	d        *Dispatcher
	ctx      context.Context
	observer TurnObserver
	channel  string
	turn     *turn
	aiUser   *model.User
	sender   realtime.Sender

	full          strings.Builder
	doneRaw       int
	bubbleIndex   int
	cur           []rune
	typingOffSent bool
	persisted     int
}

// feed 处理一个补全增量
func (r *turnRenderer) feed(chunk string) {
	r.full.WriteString(chunk)
	raw := SplitRaw(r.full.String())

	// 分隔符已出现的段逐一终结
	for r.doneRaw < len(raw)-1 {
		seg := strings.TrimSpace(raw[r.doneRaw])
		r.doneRaw++
		if seg == "" {
			continue
		}
		r.render(seg)
		r.finalize(seg, true)
	}

	// 未完成段先渲染安全前缀，扣住可能是分隔符开头的尾部
	partial := strings.TrimLeft(raw[len(raw)-1], " \t\r\n")
	r.render(holdback(partial))
}

// finish 上游结束后把剩余内容全部落泡
func (r *turnRenderer) finish() {
	raw := SplitRaw(r.full.String())
	for r.doneRaw < len(raw) {
		seg := strings.TrimSpace(raw[r.doneRaw])
		r.doneRaw++
		if seg == "" {
			continue
		}
		r.render(seg)
		r.finalize(seg, r.doneRaw < len(raw))
	}
}

// render 把当前气泡补齐到目标内容，逐字发出
func (r *turnRenderer) render(target string) {
	tr := []rune(target)
	if len(tr) < len(r.cur) || string(tr[:len(r.cur)]) != string(r.cur) {
		// 扣字回退的罕见场景，直接覆盖为最新内容
		r.cur = tr
		if len(tr) > 0 {
			r.publishStreaming(string(tr))
		}
		return
	}
	for _, ch := range tr[len(r.cur):] {
		r.cur = append(r.cur, ch)
		r.publishStreaming(string(r.cur))
		r.d.pacer.AfterChar()
	}
}

// publishStreaming 发出当前气泡的累计内容
// 首个字符发出前先关闭正在输入指示
func (r *turnRenderer) publishStreaming(content string) {
	if !r.typingOffSent {
		r.typingOffSent = true
		r.emit(realtime.EventUserTyping, realtime.TypingPayload{
			UserId:   r.aiUser.Uuid,
			IsTyping: false,
		})
	}
	r.emit(realtime.EventAIStreaming, realtime.StreamingPayload{
		Id:       BubbleId(r.turn.id, r.bubbleIndex),
		Content:  content,
		SenderId: r.aiUser.Uuid,
		Sender:   r.sender,
	})
}

// finalize 终结当前气泡：入库、广播、失效缓存，pause 控制泡间停顿
// 入库失败只记日志并跳过该气泡的广播（以数据库行为准），剩余气泡照常处理
func (r *turnRenderer) finalize(seg string, pause bool) {
	msg := &model.Message{
		Uuid:     snowflake.GenerateID(),
		RoomUuid: r.turn.roomUuid,
		SenderId: r.aiUser.Uuid,
		Content:  seg,
		Type:     model.MessageTypeText,
		Role:     model.MessageRoleAssistant,
	}
	if err := r.d.messageRepo.Create(msg); err != nil {
		zap.L().Error("AI 气泡入库失败",
			zap.String("turn_id", r.turn.id),
			zap.Int("bubble", r.bubbleIndex),
			zap.Error(err))
	} else {
		r.persisted++
		r.emit(realtime.EventNewMessage, realtime.NewMessagePayload{
			Id:        strconv.FormatInt(msg.Uuid, 10),
			Content:   seg,
			SenderId:  r.aiUser.Uuid,
			Sender:    r.sender,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
			Type:      model.MessageTypeText,
		})
		r.invalidateCache()
	}

	r.bubbleIndex++
	r.cur = nil
	if pause {
		r.d.pacer.BetweenBubbles()
	}
}

// ensureTypingOff 本轮没有渲染出任何字符时关闭正在输入指示
func (r *turnRenderer) ensureTypingOff() {
	if r.typingOffSent {
		return
	}
	r.typingOffSent = true
	r.emit(realtime.EventUserTyping, realtime.TypingPayload{
		UserId:   r.aiUser.Uuid,
		IsTyping: false,
	})
}

// emit 事件双写：实时发布器 + 观察者
// 发布失败只记日志，事件分发是尽力送达语义
func (r *turnRenderer) emit(event string, payload any) {
	if err := r.d.publisher.Publish(r.ctx, r.channel, event, payload); err != nil {
		zap.L().Warn("事件发布失败",
			zap.String("event", event),
			zap.String("channel", r.channel),
			zap.Error(err))
	}
	if r.observer != nil {
		if err := r.observer(event, payload); err != nil {
			zap.L().Debug("观察者已断开，停止同步事件", zap.Error(err))
			r.observer = nil
		}
	}
}

// invalidateCache 异步失效房间消息列表缓存
func (r *turnRenderer) invalidateCache() {
	if r.d.cache == nil {
		return
	}
	roomUuid := r.turn.roomUuid
	r.d.cache.SubmitTask(func() {
		if err := r.d.cache.Delete(context.Background(), myredis.MessageListKey(roomUuid)); err != nil {
			zap.L().Warn("失效消息列表缓存失败",
				zap.String("room_uuid", roomUuid), zap.Error(err))
		}
	})
}
