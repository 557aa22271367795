package respond

type MessageItem struct {
	ID              string  `json:"id"`
	ConversationID  string  `json:"conversation_id"`
	SenderID        string  `json:"sender_id"`
	Content         string  `json:"content"`
	MessageType     string  `json:"message_type"`
	ParentMessageID *string `json:"parent_message_id"`
	IsRead          bool    `json:"is_read"`
	CreatedAt       string  `json:"created_at"`
}

type ConversationItem struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	TicketID       *string  `json:"ticket_id"`
	CreatedByID    string   `json:"created_by_id"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type MarkReadRespond struct {
	MessagesMarkedRead int64 `json:"messages_marked_read"`
}
