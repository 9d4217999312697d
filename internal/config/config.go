// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"staync_chat_server/pkg/constants"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"` // 无密码留空
	Db       int    `toml:"db"`
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 实时事件广播配置
// messageMode 为 "channel" 时事件只投递本机 Hub，为 "kafka" 时经 Kafka 跨节点分发
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 消息模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 房间事件主题
	Partition   int           `toml:"partition"`   // 分区数
	Timeout     time.Duration `toml:"timeout"`     // 超时时间
}

// LLMConfig 大模型补全接口配置
// provider 选择流式补全的后端实现
type LLMConfig struct {
	Provider        string  `toml:"provider"`        // "gemini"（默认）或 "openai"
	GeminiApiKey    string  `toml:"geminiApiKey"`    // Gemini API 密钥
	GeminiModel     string  `toml:"geminiModel"`     // 如 "gemini-2.0-flash"
	OpenaiApiKey    string  `toml:"openaiApiKey"`    // OpenAI API 密钥
	OpenaiModel     string  `toml:"openaiModel"`     // 如 "gpt-4o-mini"
	Temperature     float64 `toml:"temperature"`     // 采样温度，默认 0.8
	MaxOutputTokens int     `toml:"maxOutputTokens"` // 单次回复输出上限，默认 2048
}

// AIConfig AI 回复行为配置
type AIConfig struct {
	HistoryLimit  int `toml:"historyLimit"`  // 上下文历史消息条数，默认 15
	CharDelayMs   int `toml:"charDelayMs"`   // 逐字输出基础延迟（毫秒）
	CharJitterMs  int `toml:"charJitterMs"`  // 逐字延迟随机抖动上限（毫秒）
	BubblePauseMs int `toml:"bubblePauseMs"` // 气泡之间的停顿（毫秒）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023，分布式部署时每台机器需唯一
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	LLMConfig       `toml:"llmConfig"`
	AIConfig        `toml:"aiConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用零值加默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
		config.applyDefaults()
	}
	return config
}

// applyDefaults 填充未配置项的默认值
func (c *Config) applyDefaults() {
	if c.LLMConfig.Provider == "" {
		c.LLMConfig.Provider = "gemini"
	}
	if c.LLMConfig.GeminiModel == "" {
		c.LLMConfig.GeminiModel = "gemini-2.0-flash"
	}
	if c.LLMConfig.OpenaiModel == "" {
		c.LLMConfig.OpenaiModel = "gpt-4o-mini"
	}
	if c.LLMConfig.Temperature == 0 {
		c.LLMConfig.Temperature = 0.8
	}
	if c.LLMConfig.MaxOutputTokens == 0 {
		c.LLMConfig.MaxOutputTokens = 2048
	}
	if c.AIConfig.HistoryLimit == 0 {
		c.AIConfig.HistoryLimit = constants.HISTORY_LIMIT
	}
	if c.AIConfig.CharDelayMs == 0 {
		c.AIConfig.CharDelayMs = constants.CHAR_DELAY_MS
	}
	if c.AIConfig.CharJitterMs == 0 {
		c.AIConfig.CharJitterMs = constants.CHAR_JITTER_MS
	}
	if c.AIConfig.BubblePauseMs == 0 {
		c.AIConfig.BubblePauseMs = constants.BUBBLE_PAUSE_MS
	}
	if c.KafkaConfig.MessageMode == "" {
		c.KafkaConfig.MessageMode = "channel"
	}
	if c.KafkaConfig.EventTopic == "" {
		c.KafkaConfig.EventTopic = "room_events"
	}
}
