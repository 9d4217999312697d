// segmenter.go
// 核心职责：把补全输出切分为聊天气泡
// 分隔符为独立或内联的 "---"，切分后去首尾空白、丢弃空段；
// 气泡 ID 形如 {turnId}-{序号}，序号只为非空气泡递增
package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// bubbleDelimiter 气泡分隔符，连续三个及以上短横线，连同两侧空白一起吃掉
var bubbleDelimiter = regexp.MustCompile(`\s*---+\s*`)

// SplitRaw 按分隔符切分，保留原始段落（不去空白、不丢空段）
// 最后一段视为未完成段，供流式渲染时增量处理
func SplitRaw(full string) []string {
	return bubbleDelimiter.Split(full, -1)
}

// SplitBubbles 按分隔符切分出最终气泡列表
// 各段去首尾空白，空段丢弃
func SplitBubbles(full string) []string {
	raw := SplitRaw(full)
	bubbles := make([]string, 0, len(raw))
	for _, seg := range raw {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		bubbles = append(bubbles, seg)
	}
	return bubbles
}

// BubbleId 构造气泡标识
func BubbleId(turnId string, index int) string {
	return fmt.Sprintf("%s-%d", turnId, index)
}

// holdback 截掉段尾可能是分隔符前缀的部分（短横线和空白）
// 流式渲染时分隔符可能跨块到达，先扣住这些字符避免闪烁
func holdback(partial string) string {
	return strings.TrimRight(partial, "- \t\r\n")
}
