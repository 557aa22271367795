package request

type GetMessageListRequest struct {
	Limit  int    `form:"limit"`
	Before string `form:"before" binding:"omitempty"`
}
