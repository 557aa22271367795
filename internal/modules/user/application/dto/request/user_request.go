package request

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,user_role"`
}

type UpdateUserRequest struct {
	Name string `json:"name" binding:"max=100"`
	Role string `json:"role" binding:"omitempty,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetWebhookRequest webhook_url 为空表示清除
type SetWebhookRequest struct {
	WebhookURL string `json:"webhook_url" binding:"omitempty,webhook_target"`
}
