// openai.go
// 核心职责：基于 OpenAI 兼容接口的流式补全实现
package llm

import (
	"context"
	"errors"
	"io"

	"staync_chat_server/pkg/constants"
	"staync_chat_server/pkg/errorx"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIStreamer OpenAI 流式补全客户端
type OpenAIStreamer struct {
	client *openai.Client
	model  string
}

var _ Streamer = (*OpenAIStreamer)(nil)

// NewOpenAIStreamer 创建 OpenAI 客户端
func NewOpenAIStreamer(apiKey, model string) (*OpenAIStreamer, error) {
	if apiKey == "" {
		return nil, errorx.New(errorx.CodeConfigError, "openai api key 未配置")
	}
	return &OpenAIStreamer{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Stream 发起流式补全
func (o *OpenAIStreamer) Stream(ctx context.Context, req CompletionRequest) (<-chan string, <-chan error) {
	chunks := make(chan string, constants.CHANNEL_SIZE)
	errs := make(chan error, 1)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, turn := range req.Turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	go func() {
		defer close(chunks)
		defer close(errs)

		stream, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       o.model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   int(req.MaxOutputTokens),
			Stream:      true,
		})
		if err != nil {
			errs <- errorx.Wrap(err, errorx.CodeLLMError, "openai 流式请求失败")
			return
		}
		defer stream.Close()

		for {
			resp, recvErr := stream.Recv()
			if errors.Is(recvErr, io.EOF) {
				return
			}
			if recvErr != nil {
				errs <- errorx.Wrap(recvErr, errorx.CodeLLMError, "openai 流式接收失败")
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			content := resp.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			select {
			case chunks <- content:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return chunks, errs
}
