// keys.go
// 核心职责：集中定义缓存键的拼写规则
package redis

// MessageListKey 房间消息列表缓存键
func MessageListKey(roomUuid string) string {
	return "message_list_" + roomUuid
}

// RoomListKey 用户房间列表缓存键
func RoomListKey(userUuid string) string {
	return "room_list_" + userUuid
}
