package mq

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/pkg/util"
)

// StreamRecord 写入通知主题的消息体
type StreamRecord struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	RelatedID      *string `json:"related_id"`
	RelatedType    *string `json:"related_type"`
	ConversationID *string `json:"conversation_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// NotificationStream 把已持久化的通知镜像到 Kafka，key 为接收者 id，
// 同一用户的通知落在同一分区保持顺序
type NotificationStream struct {
	pub   Publisher
	topic string
}

func NewNotificationStream(pub Publisher, topic string) *NotificationStream {
	return &NotificationStream{pub: pub, topic: strings.TrimSpace(topic)}
}

func (s *NotificationStream) Enabled() bool {
	return s != nil && s.pub != nil && s.topic != ""
}

func (s *NotificationStream) Publish(ctx context.Context, n *entity.Notification) (PublishResult, error) {
	if !s.Enabled() {
		return PublishResult{}, nil
	}
	if n == nil || n.UserID == "" {
		return PublishResult{}, errors.New("notification without recipient")
	}
	value, err := json.Marshal(StreamRecord{
		ID:             n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Message:        n.Message,
		RelatedID:      n.RelatedID,
		RelatedType:    n.RelatedType,
		ConversationID: n.ConversationID,
		CreatedAt:      util.FormatUTC(n.CreatedAt),
	})
	if err != nil {
		return PublishResult{}, err
	}
	return s.pub.Publish(ctx, Message{
		Topic: s.topic,
		Key:   []byte(n.UserID),
		Value: value,
		Headers: []Header{
			{Key: "event", Value: "notification.created"},
			{Key: "type", Value: n.Type},
		},
	})
}

func (s *NotificationStream) Close() error {
	if s == nil || s.pub == nil {
		return nil
	}
	return s.pub.Close()
}
