package entity

import (
	"time"

	userEntity "SupportDesk/internal/modules/user/domain/entity"
	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

// Comment 工单评论。Ticket/Parent/Author 由仓储按需预加载，未加载时为 nil
type Comment struct {
	ID              string  `gorm:"column:id;type:char(36);primaryKey"`
	Content         string  `gorm:"column:content;type:text;not null"`
	TicketID        string  `gorm:"column:ticket_id;type:char(36);not null;index"`
	AuthorID        string  `gorm:"column:author_id;type:char(36);not null;index"`
	ParentCommentID *string `gorm:"column:parent_comment_id;type:char(36);index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	Ticket *Ticket          `gorm:"foreignKey:TicketID"`
	Parent *Comment         `gorm:"foreignKey:ParentCommentID"`
	Author *userEntity.User `gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string {
	return "comments"
}

// AuthorLabel 作者名字，缺省为 Someone
func (c *Comment) AuthorLabel() string {
	if c.Author != nil {
		if label := c.Author.Label(); label != "" {
			return label
		}
	}
	return "Someone"
}

func (c *Comment) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":                c.ID,
		"content":           c.Content,
		"ticket_id":         c.TicketID,
		"author_id":         c.AuthorID,
		"parent_comment_id": c.ParentCommentID,
		"created_at":        util.FormatUTC(c.CreatedAt),
		"updated_at":        util.FormatUTC(c.UpdatedAt),
	}
}
