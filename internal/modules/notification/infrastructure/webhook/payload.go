package webhook

import (
	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/pkg/util"
)

// EventNotificationCreated webhook 与实时推送共用的事件名
const EventNotificationCreated = "notification.created"

type NotificationBody struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	RelatedID   *string `json:"related_id"`
	RelatedType *string `json:"related_type"`
	CreatedAt   *string `json:"created_at"`
}

// Payload 投递给回调地址的 JSON
type Payload struct {
	Event        string                 `json:"event"`
	Notification NotificationBody       `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

func BuildPayload(n *entity.Notification, snapshot map[string]interface{}) Payload {
	p := Payload{
		Event: EventNotificationCreated,
		Notification: NotificationBody{
			ID:          n.ID,
			Type:        n.Type,
			Message:     n.Message,
			RelatedID:   n.RelatedID,
			RelatedType: n.RelatedType,
			CreatedAt:   util.FormatUTCPtr(&n.CreatedAt),
		},
	}
	if len(snapshot) > 0 {
		p.Data = snapshot
	}
	return p
}
