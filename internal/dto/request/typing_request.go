package request

// TypingRequest 正在输入信号请求
type TypingRequest struct {
	RoomId   string `json:"roomId" binding:"required"`
	UserId   string `json:"userId" binding:"required"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}
