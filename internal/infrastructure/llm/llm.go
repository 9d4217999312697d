// Package llm 封装大模型补全的流式访问
// llm.go
// 核心职责：定义统一的流式补全接口，屏蔽具体厂商差异
package llm

import "context"

// 对话角色常量
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn 一轮历史对话
type Turn struct {
	Role    string
	Content string
}

// CompletionRequest 一次流式补全请求
type CompletionRequest struct {
	// SystemInstruction 系统指令，包含人设与输出规则
	SystemInstruction string
	// Turns 按时间正序排列的历史对话
	Turns []Turn
	// Temperature 采样温度
	Temperature float32
	// MaxOutputTokens 输出 token 上限
	MaxOutputTokens int32
}

// Streamer 流式补全接口
// 返回的 chunks 通道按生成顺序输出文本增量，生成结束后关闭；
// errs 通道容量为 1，上游出错时写入一个错误后关闭。
// 实现必须保证两个通道最终都会关闭，调用方可安全 range。
type Streamer interface {
	Stream(ctx context.Context, req CompletionRequest) (chunks <-chan string, errs <-chan error)
}
