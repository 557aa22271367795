package entity

import (
	"fmt"
	"strings"
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

// 工单状态字面量，状态字段本身是自由文本
const (
	StatusOpen       = "OPEN"
	StatusInProgress = "In Progress"
	StatusResolved   = "resolved"
	StatusClosed     = "Closed"

	PriorityMedium = "MEDIUM"

	// 工单编号从 #1000 开始
	numberBase = 999
)

type Ticket struct {
	ID              string  `gorm:"column:id;type:char(36);primaryKey"`
	Seq             uint64  `gorm:"column:seq;autoIncrement;uniqueIndex;not null"`
	Subject         string  `gorm:"column:subject;type:varchar(200);not null"`
	Description     string  `gorm:"column:description;type:text"`
	Status          string  `gorm:"column:status;type:varchar(20);not null;default:OPEN;index"`
	Priority        string  `gorm:"column:priority;type:varchar(20);not null;default:MEDIUM;index"`
	RequesterID     string  `gorm:"column:requester_id;type:char(36);not null;index"`
	AssigneeID      *string `gorm:"column:assignee_id;type:char(36);index"`
	StatusChangedAt *time.Time
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Number 展示用编号，如 #1245
func (t *Ticket) Number() string {
	if t.Seq == 0 {
		return ""
	}
	return fmt.Sprintf("#%d", numberBase+t.Seq)
}

// Assignee 无负责人返回空串
func (t *Ticket) Assignee() string {
	if t == nil {
		return ""
	}
	return util.Deref(t.AssigneeID)
}

func (t *Ticket) IsResolved() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), StatusResolved)
}

func (t *Ticket) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":                t.ID,
		"ticket_id":         t.Number(),
		"subject":           t.Subject,
		"description":       t.Description,
		"status":            t.Status,
		"priority":          t.Priority,
		"requester_id":      t.RequesterID,
		"assignee_id":       t.AssigneeID,
		"status_changed_at": util.FormatUTCPtr(t.StatusChangedAt),
		"created_at":        util.FormatUTC(t.CreatedAt),
		"updated_at":        util.FormatUTC(t.UpdatedAt),
	}
}
