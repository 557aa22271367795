package entity

import (
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

type Message struct {
	ID              string    `gorm:"column:id;type:char(36);primaryKey"`
	ConversationID  string    `gorm:"column:conversation_id;type:char(36);not null;index:idx_message_conv_created,priority:1"`
	SenderID        string    `gorm:"column:sender_id;type:char(36);not null"`
	Content         string    `gorm:"column:content;type:text;not null"`
	MessageType     string    `gorm:"column:message_type;type:varchar(20);not null;default:text"`
	ParentMessageID *string   `gorm:"column:parent_message_id;type:char(36)"`
	CreatedAt       time.Time `gorm:"index:idx_message_conv_created,priority:2"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":                m.ID,
		"conversation_id":   m.ConversationID,
		"sender_id":         m.SenderID,
		"content":           m.Content,
		"message_type":      m.MessageType,
		"parent_message_id": m.ParentMessageID,
		"created_at":        util.FormatUTC(m.CreatedAt),
	}
}

// MessageReadStatus 用户已读某条消息，(message_id, user_id) 唯一
type MessageReadStatus struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey"`
	MessageID string    `gorm:"column:message_id;type:char(36);not null;uniqueIndex:unique_message_user_read,priority:1"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:unique_message_user_read,priority:2;index"`
	ReadAt    time.Time `gorm:"column:read_at;not null"`
}

func (MessageReadStatus) TableName() string {
	return "message_read_status"
}
