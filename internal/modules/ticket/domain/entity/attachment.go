package entity

import (
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

type Attachment struct {
	ID         string `gorm:"column:id;type:char(36);primaryKey"`
	Filename   string `gorm:"column:filename;type:varchar(255);not null"`
	URL        string `gorm:"column:url;type:varchar(500);not null"`
	Type       string `gorm:"column:type;type:varchar(20);not null;default:OTHER"`
	Size       int64  `gorm:"column:size"`
	TicketID   string `gorm:"column:ticket_id;type:char(36);not null;index"`
	UploadedBy string `gorm:"column:uploaded_by;type:char(36);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Ticket *Ticket `gorm:"foreignKey:TicketID"`
}

func (Attachment) TableName() string {
	return "attachments"
}

func (a *Attachment) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":          a.ID,
		"filename":    a.Filename,
		"url":         a.URL,
		"type":        a.Type,
		"size":        a.Size,
		"ticket_id":   a.TicketID,
		"uploaded_by": a.UploadedBy,
		"created_at":  util.FormatUTC(a.CreatedAt),
	}
}
