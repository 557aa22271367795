package kafka

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// TopicSpec 通知主题的期望形态
type TopicSpec struct {
	Brokers     []string
	ClientID    string
	Name        string
	Partitions  int32
	Replication int16
	Retention   time.Duration
}

func (s TopicSpec) normalize() (TopicSpec, error) {
	s.Name = strings.TrimSpace(s.Name)
	if len(s.Brokers) == 0 {
		return s, errors.New("kafka brokers is empty")
	}
	if s.Name == "" {
		return s, errors.New("kafka topic is empty")
	}
	if s.Partitions <= 0 {
		s.Partitions = 1
	}
	if s.Replication <= 0 {
		s.Replication = 1
	}
	if s.Retention <= 0 {
		s.Retention = 7 * 24 * time.Hour
	}
	return s, nil
}

// Detail 创建主题用的参数。通知只追加不压缩
func (s TopicSpec) Detail() *sarama.TopicDetail {
	retention := strconv.FormatInt(s.Retention.Milliseconds(), 10)
	cleanup := "delete"
	return &sarama.TopicDetail{
		NumPartitions:     s.Partitions,
		ReplicationFactor: s.Replication,
		ConfigEntries: map[string]*string{
			"retention.ms":   &retention,
			"cleanup.policy": &cleanup,
		},
	}
}

// EnsureNotificationTopic 主题不存在时按 spec 创建，已存在则原样保留并返回其分区数
func EnsureNotificationTopic(spec TopicSpec) (int32, error) {
	spec, err := spec.normalize()
	if err != nil {
		return 0, err
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.ClientID = strings.TrimSpace(spec.ClientID)
	admin, err := sarama.NewClusterAdmin(spec.Brokers, sc)
	if err != nil {
		return 0, err
	}
	defer admin.Close()

	metas, err := admin.DescribeTopics([]string{spec.Name})
	if err != nil {
		return 0, err
	}
	if len(metas) == 1 {
		switch metas[0].Err {
		case sarama.ErrNoError:
			return int32(len(metas[0].Partitions)), nil
		case sarama.ErrUnknownTopicOrPartition:
		default:
			return 0, fmt.Errorf("describe topic %s: %w", spec.Name, metas[0].Err)
		}
	}

	if err := admin.CreateTopic(spec.Name, spec.Detail(), false); err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
		return 0, err
	}
	return spec.Partitions, nil
}
