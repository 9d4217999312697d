package constants

const (
	CHANNEL_SIZE    = 100 // 通道大小
	HISTORY_LIMIT   = 15  // AI 回复时加载的上下文历史消息条数上限
	REDIS_TIMEOUT   = 1   // redis timeout (分钟)
	CHAR_DELAY_MS   = 20  // 气泡逐字输出的基础延迟（毫秒）
	CHAR_JITTER_MS  = 15  // 逐字延迟的随机抖动上限（毫秒）
	BUBBLE_PAUSE_MS = 450 // 两个气泡之间的停顿（毫秒）
)
