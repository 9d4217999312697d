package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"staync_chat_server/internal/config"
	dao "staync_chat_server/internal/dao/mysql"
	myredis "staync_chat_server/internal/dao/redis"
	"staync_chat_server/internal/handler"
	"staync_chat_server/internal/https_server"
	"staync_chat_server/internal/infrastructure/llm"
	"staync_chat_server/internal/infrastructure/logger"
	"staync_chat_server/internal/realtime"
	"staync_chat_server/internal/service"
	"staync_chat_server/internal/service/ai"
	"staync_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	cache := myredis.GetCacheService()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化雪花 ID 节点
	snowflake.Init()
	zap.L().Info("雪花节点初始化成功")

	// 6. 初始化参数翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}

	// 7. 初始化实时事件分发
	// Hub 负责本节点连接的成员扇出；kafka 模式下发布走 Kafka，
	// 各节点的消费循环再交回各自 Hub
	hub := realtime.NewHub(repos.RoomMember)
	go hub.Start()

	var publisher realtime.EventPublisher
	var kafkaPublisher *realtime.KafkaPublisher
	if conf.KafkaConfig.MessageMode == "kafka" {
		kafkaPublisher = realtime.NewKafkaPublisher(hub)
		kafkaPublisher.Start()
		publisher = kafkaPublisher
		zap.L().Info("实时事件分发初始化成功（kafka 模式）")
	} else {
		publisher = hub
		zap.L().Info("实时事件分发初始化成功（channel 模式）")
	}
	handler.InitWsHandler(hub)

	// 8. 初始化大模型客户端
	streamer, err := llm.NewStreamer(context.Background())
	if err != nil {
		zap.L().Fatal("大模型客户端初始化失败", zap.Error(err))
	}
	zap.L().Info("大模型客户端初始化成功", zap.String("provider", conf.LLMConfig.Provider))

	// 9. 组装 AI 回复调度器
	dispatcher := ai.NewDispatcher(
		ai.NewGuard(repos.RoomMember),
		ai.NewContextLoader(repos.Message, conf.AIConfig.HistoryLimit),
		streamer,
		publisher,
		repos.Message,
		repos.Room,
		cache,
		ai.NewPacer(),
	)

	// 10. 初始化 Service 层 (依赖注入)
	service.InitServices(repos, cache, publisher, dispatcher)
	zap.L().Info("Service 层初始化成功")

	// 11. 补齐顾问账号
	if err := service.Svc.Room.EnsureAdvisorUsers(); err != nil {
		zap.L().Fatal("顾问账号初始化失败", zap.Error(err))
	}
	zap.L().Info("顾问账号就绪")

	// 12. 初始化并启动 HTTP 服务器
	engine := https_server.Init()
	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("HTTP 服务器启动成功",
		zap.String("host", conf.MainConfig.Host),
		zap.Int("port", conf.MainConfig.Port))

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
	if err := hub.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	zap.L().Info("服务器已关闭")
}
