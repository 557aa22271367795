package request

type SendMessageRequest struct {
	Content         string  `json:"content" binding:"required"`
	MessageType     string  `json:"message_type" binding:"omitempty,oneof=text image file system"`
	ParentMessageID *string `json:"parent_message_id"`
}
