package request

type CreateConversationRequest struct {
	Type           string   `json:"type" binding:"omitempty,oneof=direct group ticket"`
	Title          string   `json:"title" binding:"max=200"`
	TicketID       *string  `json:"ticket_id"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1,dive,required"`
}

type MarkReadUpToRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}
