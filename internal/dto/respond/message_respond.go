package respond

// MessageRespond 消息响应
// Id 为字符串形式的雪花 ID，避免前端精度丢失
type MessageRespond struct {
	Id           string `json:"id"`
	RoomId       string `json:"roomId"`
	SenderId     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar"`
	Content      string `json:"content"`
	Type         string `json:"type"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}
