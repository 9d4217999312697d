// provider.go
// 核心职责：根据配置选择补全厂商并创建 Streamer
package llm

import (
	"context"

	"staync_chat_server/internal/config"
	"staync_chat_server/pkg/errorx"
)

// NewStreamer 按配置创建流式补全客户端
// provider 为 "gemini" 或 "openai"，默认 gemini
func NewStreamer(ctx context.Context) (Streamer, error) {
	llmConfig := config.GetConfig().LLMConfig
	switch llmConfig.Provider {
	case "openai":
		return NewOpenAIStreamer(llmConfig.OpenaiApiKey, llmConfig.OpenaiModel)
	case "gemini", "":
		return NewGeminiStreamer(ctx, llmConfig.GeminiApiKey, llmConfig.GeminiModel)
	default:
		return nil, errorx.Newf(errorx.CodeConfigError, "不支持的补全厂商: %s", llmConfig.Provider)
	}
}
