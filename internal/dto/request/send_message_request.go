package request

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	RoomId   string `json:"roomId" binding:"required"`
	SenderId string `json:"senderId" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type"` // 为空时默认 TEXT
}
