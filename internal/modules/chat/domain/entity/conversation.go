package entity

import (
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

const (
	ConversationDirect = "direct"
	ConversationGroup  = "group"
	ConversationTicket = "ticket"
)

type Conversation struct {
	ID          string  `gorm:"column:id;type:char(36);primaryKey"`
	Type        string  `gorm:"column:type;type:varchar(20);not null;default:direct"`
	Title       string  `gorm:"column:title;type:varchar(200)"`
	TicketID    *string `gorm:"column:ticket_id;type:char(36);index"`
	CreatedByID string  `gorm:"column:created_by_id;type:char(36);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// ParticipantIDs 创建时填充，不落库
	ParticipantIDs []string `gorm:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":              c.ID,
		"type":            c.Type,
		"title":           c.Title,
		"ticket_id":       c.TicketID,
		"created_by_id":   c.CreatedByID,
		"participant_ids": c.ParticipantIDs,
		"created_at":      util.FormatUTC(c.CreatedAt),
	}
}

type ConversationParticipant struct {
	ID             string `gorm:"column:id;type:char(36);primaryKey"`
	ConversationID string `gorm:"column:conversation_id;type:char(36);not null;uniqueIndex:unique_conversation_user,priority:1"`
	UserID         string `gorm:"column:user_id;type:char(36);not null;uniqueIndex:unique_conversation_user,priority:2;index"`
	Role           string `gorm:"column:role;type:varchar(20);not null;default:member"`
	CreatedAt      time.Time
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}
