package request

// CreateRoomRequest 创建单聊房间请求
// AdvisorId 为空时默认匹配全球礼宾顾问
type CreateRoomRequest struct {
	UserId    string `json:"userId" binding:"required"`
	AdvisorId string `json:"advisorId"`
}
