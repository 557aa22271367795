package respond

type NotificationItem struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"`
	Message           string  `json:"message"`
	RelatedID         *string `json:"related_id"`
	RelatedType       *string `json:"related_type"`
	ConversationID    *string `json:"conversation_id,omitempty"`
	ConversationTitle *string `json:"conversation_title,omitempty"`
	IsRead            bool    `json:"is_read"`
	CreatedAt         string  `json:"created_at"`
}

type NotificationList struct {
	Notifications []NotificationItem `json:"notifications"`
	UnreadCount   int64              `json:"unread_count"`
}

type MarkReadRespond struct {
	Updated int64 `json:"updated"`
}

type WebhookReceived struct {
	Status string `json:"status"`
}

type WebhookTestRespond struct {
	Target     string `json:"target"`
	TargetKind string `json:"target_kind"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Delivered  bool   `json:"delivered"`
	Error      string `json:"error,omitempty"`
}
