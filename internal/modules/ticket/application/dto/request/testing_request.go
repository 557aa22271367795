package request

type CreateTestingRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
	Status   string `json:"status" binding:"omitempty,testing_status"`
	TestType string `json:"test_type" binding:"omitempty,max=50"`
	Results  string `json:"results"`
}

type UpdateTestingRequest struct {
	Status   *string `json:"status" binding:"omitempty,testing_status"`
	TestType *string `json:"test_type" binding:"omitempty,max=50"`
	Results  *string `json:"results"`
}

type ListTestingRequest struct {
	TicketID string `form:"ticket_id"`
	UserID   string `form:"user_id"`
	Status   string `form:"status"`
}
