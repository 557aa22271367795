package respond

type TicketItem struct {
	ID              string  `json:"id"`
	Number          string  `json:"ticket_id"`
	Subject         string  `json:"subject"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	RequesterID     string  `json:"requester_id"`
	AssigneeID      *string `json:"assignee_id"`
	StatusChangedAt *string `json:"status_changed_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type TicketList struct {
	Items []TicketItem `json:"items"`
	Total int64        `json:"total"`
}

type CommentItem struct {
	ID              string  `json:"id"`
	TicketID        string  `json:"ticket_id"`
	AuthorID        string  `json:"author_id"`
	AuthorName      string  `json:"author_name,omitempty"`
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parent_comment_id"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type AttachmentItem struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	UploadedBy string `json:"uploaded_by"`
	CreatedAt  string `json:"created_at"`
}

type TestingItem struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	TestType  string `json:"test_type"`
	Results   string `json:"results"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
