// gemini.go
// 核心职责：基于 Google Gemini 的流式补全实现
package llm

import (
	"context"

	"staync_chat_server/pkg/constants"
	"staync_chat_server/pkg/errorx"

	"google.golang.org/genai"
)

// GeminiStreamer Gemini 流式补全客户端
type GeminiStreamer struct {
	client *genai.Client
	model  string
}

var _ Streamer = (*GeminiStreamer)(nil)

// NewGeminiStreamer 创建 Gemini 客户端
func NewGeminiStreamer(ctx context.Context, apiKey, model string) (*GeminiStreamer, error) {
	if apiKey == "" {
		return nil, errorx.New(errorx.CodeConfigError, "gemini api key 未配置")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeLLMError, "创建 gemini 客户端失败")
	}
	return &GeminiStreamer{client: client, model: model}, nil
}

// Stream 发起流式补全
func (g *GeminiStreamer) Stream(ctx context.Context, req CompletionRequest) (<-chan string, <-chan error) {
	chunks := make(chan string, constants.CHANNEL_SIZE)
	errs := make(chan error, 1)

	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	go func() {
		defer close(chunks)
		defer close(errs)
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
			if err != nil {
				errs <- errorx.Wrap(err, errorx.CodeLLMError, "gemini 流式生成失败")
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case chunks <- text:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return chunks, errs
}
