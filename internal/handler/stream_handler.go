// 本文件处理 SSE 同步流式接口
// 客户端发送消息后在同一连接上接收整轮 AI 回复的事件流，
// 适合不方便维持 WebSocket 的调用方
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"staync_chat_server/internal/dto/request"
	"staync_chat_server/internal/service"
	"staync_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendMessageStreamHandler 发送消息并以 SSE 返回 AI 回复事件流
// POST /message/stream
// 每帧为 data: {"event":..,"payload":..}，结束帧为 data: {"done":true}
func SendMessageStreamHandler(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeServerBusy, "当前连接不支持流式输出"))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeFrame := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	observer := func(event string, payload any) error {
		return writeFrame(gin.H{"event": event, "payload": payload})
	}

	rsp, err := service.Svc.Message.SendMessageStream(c.Request.Context(), req, observer)
	if err != nil {
		if rsp == nil {
			// 消息入库前失败，整个请求失败
			_ = writeFrame(gin.H{"error": errorx.GetCode(err), "done": true})
			return
		}
		// 消息已发出但 AI 回复中断，部分内容已按气泡保留
		zap.L().Warn("SSE 回复中断", zap.String("room_uuid", req.RoomId), zap.Error(err))
	}
	_ = writeFrame(gin.H{"done": true})
}
