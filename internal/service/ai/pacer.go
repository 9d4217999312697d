// pacer.go
// 核心职责：控制气泡逐字输出的节奏
// 每个字符间隔基础延迟加随机抖动，气泡之间停顿更长，
// 模拟真人打字的不均匀节奏
package ai

import (
	"time"

	"staync_chat_server/internal/config"
	"staync_chat_server/pkg/util/random"
)

// Pacer 输出节奏控制器
type Pacer struct {
	charDelay   time.Duration
	charJitter  time.Duration
	bubblePause time.Duration
	sleep       func(time.Duration)
}

// NewPacer 按配置创建节奏控制器
func NewPacer() *Pacer {
	aiConfig := config.GetConfig().AIConfig
	return NewPacerWith(aiConfig.CharDelayMs, aiConfig.CharJitterMs, aiConfig.BubblePauseMs, time.Sleep)
}

// NewPacerWith 按给定参数创建节奏控制器，sleep 可注入便于测试
func NewPacerWith(charDelayMs, charJitterMs, bubblePauseMs int, sleep func(time.Duration)) *Pacer {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Pacer{
		charDelay:   time.Duration(charDelayMs) * time.Millisecond,
		charJitter:  time.Duration(charJitterMs) * time.Millisecond,
		bubblePause: time.Duration(bubblePauseMs) * time.Millisecond,
		sleep:       sleep,
	}
}

// AfterChar 单个字符发出后的停顿
func (p *Pacer) AfterChar() {
	delay := p.charDelay
	if jitterMs := int(p.charJitter / time.Millisecond); jitterMs > 0 {
		delay += time.Duration(random.GetRandomInt(jitterMs)) * time.Millisecond
	}
	if delay > 0 {
		p.sleep(delay)
	}
}

// BetweenBubbles 一个气泡结束到下一个气泡开始的停顿
func (p *Pacer) BetweenBubbles() {
	if p.bubblePause > 0 {
		p.sleep(p.bubblePause)
	}
}
