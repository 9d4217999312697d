// kafka.go
// 核心职责：Kafka 模式下的跨节点事件分发
// 1. 封装 Kafka 底层连接 (Writer/Reader)
// 2. 发布端把事件信封写入 Kafka
// 3. 消费端把信封交回本节点 Hub 做成员扇出
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"staync_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher Kafka 模式的事件发布器
// 本节点发布的事件先进 Kafka，再由各节点的消费循环推给各自的在线连接
type KafkaPublisher struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader

	hub    *Hub
	cancel context.CancelFunc
}

// NewKafkaPublisher 创建 Kafka 发布器实例
func NewKafkaPublisher(hub *Hub) *KafkaPublisher {
	kafkaConfig := config.GetConfig().KafkaConfig
	return &KafkaPublisher{
		Producer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: false,
		},
		Consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.EventTopic,
			CommitInterval: kafkaConfig.Timeout * time.Second,
			GroupID:        "room_events",
			StartOffset:    kafka.LastOffset,
		}),
		hub: hub,
	}
}

// Publish 实现 EventPublisher 接口：事件写入 Kafka
// 以频道名为 Key，保证同一房间的事件落到同一分区，维持顺序
func (k *KafkaPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	env, err := NewEnvelope(channel, event, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(channel),
		Value: value,
	})
}

// Start 启动消费循环，把 Kafka 里的事件交回本节点 Hub
func (k *KafkaPublisher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	go func() {
		zap.L().Info("kafka 事件消费循环启动",
			zap.String("topic", config.GetConfig().KafkaConfig.EventTopic),
			zap.String("partition", strconv.Itoa(config.GetConfig().KafkaConfig.Partition)))
		for {
			msg, err := k.Consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error("kafka 读取消息失败", zap.Error(err))
				continue
			}
			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				zap.L().Error("kafka 事件反序列化失败", zap.Error(err))
				continue
			}
			k.hub.Enqueue(&env)
		}
	}()
}

// Close 关闭 Kafka 资源
func (k *KafkaPublisher) Close() error {
	if k.cancel != nil {
		k.cancel()
	}
	if err := k.Producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := k.Consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	return nil
}
