package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	TestingPending    = "pending"
	TestingInProgress = "in_progress"
	TestingPassed     = "passed"
	TestingFailed     = "failed"
)

func TestingStatuses() []string {
	return []string{TestingPending, TestingInProgress, TestingPassed, TestingFailed}
}

// TestingSession 对已解决工单的一次验证
type TestingSession struct {
	ID        string `gorm:"column:id;type:char(36);primaryKey"`
	TicketID  string `gorm:"column:ticket_id;type:char(36);not null;index"`
	UserID    string `gorm:"column:user_id;type:char(36);not null;index"`
	Status    string `gorm:"column:status;type:varchar(20);not null;default:pending;index"`
	TestType  string `gorm:"column:test_type;type:varchar(50);not null;default:manual"`
	Results   string `gorm:"column:results;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TestingSession) TableName() string {
	return "testing_sessions"
}

// Transition 计算状态变更对工单的影响。
// 返回工单的新状态；状态未变化或不是终态时 changed 为 false
func Transition(oldStatus, newStatus string) (ticketStatus string, changed bool) {
	if oldStatus == newStatus {
		return "", false
	}
	switch newStatus {
	case TestingPassed:
		return StatusClosed, true
	case TestingFailed:
		return StatusInProgress, true
	}
	return "", false
}

// NormalizeTestingStatus 统一为小写
func NormalizeTestingStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
