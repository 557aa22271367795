package hook

// 生命周期事件：{entity}.{created|updated|deleted}
const (
	TicketCreated = "ticket.created"
	TicketUpdated = "ticket.updated"
	TicketDeleted = "ticket.deleted"

	CommentCreated = "comment.created"
	CommentUpdated = "comment.updated"
	CommentDeleted = "comment.deleted"

	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"

	KBArticleCreated = "kb_article.created"
	KBArticleUpdated = "kb_article.updated"
	KBArticleDeleted = "kb_article.deleted"

	AttachmentCreated = "attachment.created"
	AttachmentUpdated = "attachment.updated"
	AttachmentDeleted = "attachment.deleted"

	// 非生命周期事件
	ConversationCreated = "conversation.created"
	MessageCreated      = "message.created"
)

// LifecycleEvents 全部生命周期事件
func LifecycleEvents() []string {
	return []string{
		TicketCreated, TicketUpdated, TicketDeleted,
		CommentCreated, CommentUpdated, CommentDeleted,
		UserCreated, UserUpdated, UserDeleted,
		KBArticleCreated, KBArticleUpdated, KBArticleDeleted,
		AttachmentCreated, AttachmentUpdated, AttachmentDeleted,
	}
}
