package request

// MarkReadRequest 标记已读请求
type MarkReadRequest struct {
	RoomId string `json:"roomId" binding:"required"`
	UserId string `json:"userId" binding:"required"`
}
