package request

type CreateTicketRequest struct {
	Subject     string  `json:"subject" binding:"required,max=200"`
	Description string  `json:"description"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID  *string `json:"assignee_id"`
}

// UpdateTicketRequest 指针字段为 nil 表示不修改
type UpdateTicketRequest struct {
	Subject     *string `json:"subject" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,max=20"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID  *string `json:"assignee_id"`
}

type ListTicketRequest struct {
	Status     string `form:"status"`
	AssigneeID string `form:"assignee_id"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

type CreateCommentRequest struct {
	Content         string  `json:"content" binding:"required"`
	ParentCommentID *string `json:"parent_comment_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateAttachmentRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
	URL      string `json:"url" binding:"required,url"`
	Type     string `json:"type" binding:"omitempty,oneof=IMAGE DOCUMENT VIDEO OTHER"`
	Size     int64  `json:"size" binding:"omitempty,min=0"`
}

type UpdateAttachmentRequest struct {
	Filename *string `json:"filename" binding:"omitempty,max=255"`
	Type     *string `json:"type" binding:"omitempty,oneof=IMAGE DOCUMENT VIDEO OTHER"`
}
