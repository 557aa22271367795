package request

type ListNotificationRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
