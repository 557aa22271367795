package entity

import (
	"time"

	"gorm.io/gorm"
)

// 通知类型，封闭集合
const (
	TypeCommentOnTicket  = "comment_on_ticket"
	TypeReplyToComment   = "reply_to_comment"
	TypeCommentUpdated   = "comment_updated"
	TypeCommentDeleted   = "comment_deleted"
	TypeNewTicket        = "new_ticket"
	TypeTicketAssigned   = "ticket_assigned"
	TypeTicketUpdated    = "ticket_updated"
	TypeTicketDeleted    = "ticket_deleted"
	TypeUserCreated      = "user_created"
	TypeUserUpdated      = "user_updated" // 预留，不产生
	TypeUserDeactivated  = "user_deactivated"
	TypeKBArticleCreated = "kb_article_created"
	TypeAttachmentAdded  = "attachment_added"
	TypeAttachmentUpdate = "attachment_updated"
	TypeAttachmentDelete = "attachment_deleted"
	TypeTestingResult    = "testing_result"
	TypeWebhookTest      = "webhook_test"
)

// 关联实体类型
const (
	RelatedComment    = "comment"
	RelatedTicket     = "ticket"
	RelatedUser       = "user"
	RelatedKBArticle  = "kb_article"
	RelatedAttachment = "attachment"
)

func Types() []string {
	return []string{
		TypeCommentOnTicket, TypeReplyToComment, TypeCommentUpdated, TypeCommentDeleted,
		TypeNewTicket, TypeTicketAssigned, TypeTicketUpdated, TypeTicketDeleted,
		TypeUserCreated, TypeUserUpdated, TypeUserDeactivated,
		TypeKBArticleCreated,
		TypeAttachmentAdded, TypeAttachmentUpdate, TypeAttachmentDelete,
		TypeTestingResult, TypeWebhookTest,
	}
}

func RelatedTypes() []string {
	return []string{RelatedComment, RelatedTicket, RelatedUser, RelatedKBArticle, RelatedAttachment}
}

// Notification 发给单个接收者的一条通知
type Notification struct {
	ID                string  `gorm:"column:id;type:char(36);primaryKey"`
	UserID            string  `gorm:"column:user_id;type:char(36);not null;index:idx_notification_user_read,priority:1"`
	Type              string  `gorm:"column:type;type:varchar(30);not null"`
	Message           string  `gorm:"column:message;type:text;not null"`
	RelatedID         *string `gorm:"column:related_id;type:char(36)"`
	RelatedType       *string `gorm:"column:related_type;type:varchar(20)"`
	ConversationID    *string `gorm:"column:conversation_id;type:char(36)"`
	ConversationTitle *string `gorm:"column:conversation_title;type:varchar(200)"`
	IsRead            bool    `gorm:"column:is_read;not null;default:false;index:idx_notification_user_read,priority:2"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Related 设置关联实体，id 与 type 总是成对出现
func (n *Notification) Related(relatedType, id string) *Notification {
	if id == "" {
		return n
	}
	n.RelatedID = &id
	n.RelatedType = &relatedType
	return n
}
