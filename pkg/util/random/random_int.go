package random

import (
	"crypto/rand"
	"math/big"
)

// GetRandomInt 生成 [0, max) 范围内的安全随机整数
// 用于打字节奏的延迟抖动
func GetRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0 // fallback
	}
	return int(n.Int64())
}
