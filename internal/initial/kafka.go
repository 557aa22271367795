package initial

import (
	"time"

	"SupportDesk/internal/config"
	"SupportDesk/internal/modules/notification/infrastructure/mq"
	"SupportDesk/internal/modules/notification/infrastructure/mq/kafka"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

// NewNotificationStream 按配置创建通知主题和生产者。
// 未启用或 Kafka 不可用时返回的 stream 不发布任何消息
func NewNotificationStream(conf config.KafkaConfig) *mq.NotificationStream {
	if !conf.Enabled {
		return mq.NewNotificationStream(nil, conf.NotificationTopic)
	}

	partitions, err := kafka.EnsureNotificationTopic(kafka.TopicSpec{
		Brokers:     conf.Brokers,
		ClientID:    conf.ClientID,
		Name:        conf.NotificationTopic,
		Partitions:  conf.Partitions,
		Replication: conf.Replication,
		Retention:   time.Duration(conf.RetentionHours) * time.Hour,
	})
	if err != nil {
		zlog.Warn("ensure kafka topic failed", zap.String("topic", conf.NotificationTopic), zap.Error(err))
	} else if conf.Partitions > 0 && partitions != conf.Partitions {
		zlog.Warn("kafka topic partition count differs from config",
			zap.String("topic", conf.NotificationTopic),
			zap.Int32("actual", partitions),
			zap.Int32("configured", conf.Partitions))
	}

	pub, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
		Brokers:  conf.Brokers,
		ClientID: conf.ClientID,
	})
	if err != nil {
		zlog.Error("kafka producer init failed", zap.Error(err))
		return mq.NewNotificationStream(nil, conf.NotificationTopic)
	}
	zlog.Info("kafka notification stream enabled", zap.String("topic", conf.NotificationTopic))
	return mq.NewNotificationStream(pub, conf.NotificationTopic)
}
