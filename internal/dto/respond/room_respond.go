package respond

// RoomRespond 房间列表项响应
type RoomRespond struct {
	RoomId      string          `json:"roomId"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Type        string          `json:"type"`
	LastMessage string          `json:"lastMessage"`
	UpdatedAt   string          `json:"updatedAt"`
	MemberCount int             `json:"memberCount"`
	Advisor     *AdvisorRespond `json:"advisor,omitempty"`
}
