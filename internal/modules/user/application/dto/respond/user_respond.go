package respond

type UserItem struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	IsActive   bool    `json:"is_active"`
	WebhookURL *string `json:"webhook_url"`
	CreatedAt  string  `json:"created_at"`
}

type LoginRespond struct {
	Token string   `json:"token"`
	User  UserItem `json:"user"`
}
